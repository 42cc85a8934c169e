package engine

import (
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// FindPrice returns the market price of item. Categories are searched in
// table order and the first one holding the item wins. A flat price is
// reported with Max equal to Min; a ranged price keeps a nil Max when the
// source had no maximum.
func FindPrice(item string, prices crafting.PriceTable) (crafting.Price, bool) {
	for _, cat := range prices.Categories {
		switch cat.Kind {
		case crafting.CategoryFlat:
			if v, ok := cat.Flat[item]; ok {
				hi := v
				return crafting.Price{Min: v, Max: &hi}, true
			}
		case crafting.CategoryRange:
			if r, ok := cat.Range[item]; ok {
				p := crafting.Price{Min: r.Min}
				if r.Max != nil {
					hi := *r.Max
					p.Max = &hi
				}
				return p, true
			}
		}
	}
	return crafting.Price{}, false
}

// fallbackPrice applies the generic commodity rule to an unpriced item.
func fallbackPrice(item string, prices crafting.PriceTable, fb crafting.OreFallback) (float64, bool) {
	if !fb.Matches(item) {
		return 0, false
	}
	cat, ok := prices.Category(fb.Category, crafting.CategoryFlat)
	if !ok {
		return 0, false
	}
	v, ok := cat.Flat[fb.Item]
	return v, ok
}
