package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// UnitCost returns the min/max cost of one unit of item using the default
// depth limit. See Planner.UnitCost.
func UnitCost(item string, book crafting.RecipeBook, prices crafting.PriceTable, memo crafting.CostMemo) (crafting.Cost, error) {
	return Planner{Recipes: book, Prices: prices}.UnitCost(item, memo)
}

// UnitCost returns the min/max cost of one unit of item.
//
// A memoised value wins, then a direct market price (max falling back to
// min), then the recipe: the cost of every material times its quantity,
// divided by the recipe yield. Items with neither price nor recipe cost
// zero. Every resolved item is stored in memo; a nil memo uses a private one.
func (p Planner) UnitCost(item string, memo crafting.CostMemo) (crafting.Cost, error) {
	if memo == nil {
		memo = make(crafting.CostMemo)
	}
	r := &costResolver{
		book:   p.Recipes,
		prices: p.Prices,
		memo:   memo,
		path:   newWalkPath(p.maxDepth()),
	}
	return r.resolve(item)
}

// CraftCost returns the cost of qty units of item, each side rounded to cents.
func (p Planner) CraftCost(item string, qty float64, memo crafting.CostMemo) (crafting.Cost, error) {
	unit, err := p.UnitCost(item, memo)
	if err != nil {
		return crafting.Cost{}, err
	}
	total := unit.Scale(qty)
	return crafting.Cost{Min: roundCents(total.Min), Max: roundCents(total.Max)}, nil
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

type costResolver struct {
	book   crafting.RecipeBook
	prices crafting.PriceTable
	memo   crafting.CostMemo
	path   *walkPath
}

func (r *costResolver) resolve(item string) (crafting.Cost, error) {
	if c, ok := r.memo[item]; ok {
		return c, nil
	}

	if price, ok := FindPrice(item, r.prices); ok {
		c := crafting.Cost{Min: price.Min, Max: price.MaxOrMin()}
		r.memo[item] = c
		return c, nil
	}

	recipe, ok := r.book.Lookup(item)
	if !ok {
		r.memo[item] = crafting.Cost{}
		return crafting.Cost{}, nil
	}

	if err := r.path.enter(item); err != nil {
		return crafting.Cost{}, err
	}
	defer r.path.leave()

	var total crafting.Cost
	for _, m := range recipe.Materials {
		c, err := r.resolve(m.Name)
		if err != nil {
			return crafting.Cost{}, err
		}
		total.Min += c.Min * m.Quantity
		total.Max += c.Max * m.Quantity
	}

	yield := recipe.OutputPerCraft()
	c := crafting.Cost{Min: total.Min / yield, Max: total.Max / yield}
	r.memo[item] = c
	return c, nil
}
