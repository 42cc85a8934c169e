package engine

import (
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// OrderCost returns the total minimum cost of needs: the quantity of every
// entry times its minimum market price. Unpriced items covered by fallback
// use the fallback price; other unpriced items add nothing.
func OrderCost(needs *crafting.Tally, prices crafting.PriceTable, fallback crafting.OreFallback) float64 {
	var total float64
	for _, line := range needs.Lines() {
		if line.Quantity <= 0 {
			continue
		}
		total += line.Quantity * minUnitPrice(line.Item, prices, fallback)
	}
	return total
}

// OrderCost applies OrderCost with the planner's prices and fallback.
func (p Planner) OrderCost(needs *crafting.Tally) float64 {
	return OrderCost(needs, p.Prices, p.Fallback)
}

func minUnitPrice(item string, prices crafting.PriceTable, fallback crafting.OreFallback) float64 {
	if price, ok := FindPrice(item, prices); ok {
		return price.Min
	}
	if v, ok := fallbackPrice(item, prices, fallback); ok {
		return v
	}
	return 0
}
