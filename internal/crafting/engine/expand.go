package engine

import (
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// Expansion is the gross material requirement of a set of demands.
type Expansion struct {
	// Raw holds items without a recipe, in first-seen order.
	Raw *crafting.Tally
	// Crafted holds the total demand of every craftable item, in first-seen order.
	Crafted *crafting.Tally
}

func newExpansion() *Expansion {
	return &Expansion{Raw: crafting.NewTally(), Crafted: crafting.NewTally()}
}

// Merge adds every quantity of other into e.
func (e *Expansion) Merge(other *Expansion) {
	e.Raw.Merge(other.Raw)
	e.Crafted.Merge(other.Crafted)
}

// ExpandMaterials returns the raw material totals for demands using the
// default depth limit.
func ExpandMaterials(demands []crafting.Demand, book crafting.RecipeBook) (*crafting.Tally, error) {
	exp, err := Planner{Recipes: book}.Expand(demands)
	if err != nil {
		return nil, err
	}
	return exp.Raw, nil
}

// Expand walks the recipe tree of every demand. Each demand is expanded on
// its own and the results are summed, so the totals do not depend on how
// demands are grouped. A craftable item needing qty units takes
// ceil(qty/yield) crafts and each material is needed quantity*crafts times.
// Demands with a non-positive quantity are skipped.
func (p Planner) Expand(demands []crafting.Demand) (*Expansion, error) {
	total := newExpansion()
	for _, d := range demands {
		if d.Quantity <= 0 {
			continue
		}
		one := newExpansion()
		w := &expander{book: p.Recipes, path: newWalkPath(p.maxDepth()), out: one}
		if err := w.expand(d.Item, d.Quantity); err != nil {
			return nil, err
		}
		total.Merge(one)
	}
	return total, nil
}

type expander struct {
	book crafting.RecipeBook
	path *walkPath
	out  *Expansion
}

func (x *expander) expand(item string, qty float64) error {
	recipe, ok := x.book.Lookup(item)
	if !ok {
		x.out.Raw.Add(item, qty)
		return nil
	}

	if err := x.path.enter(item); err != nil {
		return err
	}
	defer x.path.leave()

	x.out.Crafted.Add(item, qty)
	n := crafts(recipe, qty)
	for _, m := range recipe.Materials {
		if err := x.expand(m.Name, m.Quantity*n); err != nil {
			return err
		}
	}
	return nil
}
