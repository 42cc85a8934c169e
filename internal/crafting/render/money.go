package render

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// brlFormat groups thousands with "." and uses "," for two decimal places.
const brlFormat = "#.###,##"

// Money formats v as Brazilian reais, e.g. "R$ 1.234,56".
func Money(v float64) string {
	rounded := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	return "R$ " + humanize.FormatFloat(brlFormat, rounded)
}
