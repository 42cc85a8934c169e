package engine

import (
	"fmt"
	"math"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// PlanBatches plans production runs using the default depth limit.
// See Planner.PlanBatches.
func PlanBatches(roots []string, needs *crafting.Tally, book crafting.RecipeBook, capacity float64) ([]crafting.BatchInstruction, error) {
	return Planner{Recipes: book}.PlanBatches(roots, needs, capacity)
}

// PlanBatches groups the craft operations of every craftable item into
// batches whose material sum stays within capacity.
//
// Items are visited depth-first from each root in order, materials left to
// right, each item once; items without a recipe or without a positive need
// are skipped. capacity must be positive.
func (p Planner) PlanBatches(roots []string, needs *crafting.Tally, capacity float64) ([]crafting.BatchInstruction, error) {
	if capacity <= 0 || math.IsNaN(capacity) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidCapacity, capacity)
	}

	var out []crafting.BatchInstruction
	for _, item := range p.craftOrder(roots) {
		need := needs.Get(item)
		if need <= 0 {
			continue
		}
		inst, err := planItem(p.Recipes[item], need, capacity)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// craftOrder lists craftable items in depth-first pre-order.
func (p Planner) craftOrder(roots []string) []string {
	var order []string
	visited := make(map[string]bool)

	var dfs func(item string)
	dfs = func(item string) {
		if visited[item] {
			return
		}
		visited[item] = true

		recipe, ok := p.Recipes.Lookup(item)
		if !ok {
			return
		}
		order = append(order, item)
		for _, m := range recipe.Materials {
			dfs(m.Name)
		}
	}

	for _, root := range roots {
		dfs(root)
	}
	return order
}

func planItem(recipe crafting.Recipe, need, capacity float64) (crafting.BatchInstruction, error) {
	yield := recipe.OutputPerCraft()
	needed := ceilCount(need)
	craftCount := crafts(recipe, needed)
	if craftCount > MaxCrafts {
		return crafting.BatchInstruction{}, fmt.Errorf("%w: %s needs %v crafts", ErrTooManyCrafts, recipe.Item, craftCount)
	}
	totalCrafts := int(craftCount)

	// Clamp while still a float; capacity/sum may exceed any int.
	fit := craftCount
	if sum := recipe.MaterialsPerCraft(); sum > 0 {
		fit = math.Min(math.Floor(capacity/sum), MaxCrafts)
	}
	perBatch := int(fit)
	if perBatch < 1 {
		perBatch = 1
	}

	inst := crafting.BatchInstruction{
		Item:              recipe.Item,
		Needed:            needed,
		ToProduce:         float64(totalCrafts) * yield,
		Yield:             yield,
		TotalCrafts:       totalCrafts,
		MaxCraftsPerBatch: perBatch,
	}

	if full := totalCrafts / perBatch; full > 0 {
		inst.Full = &crafting.Batch{
			Repeat:    full,
			Crafts:    perBatch,
			Produces:  float64(perBatch) * yield,
			Materials: scaleMaterials(recipe.Materials, perBatch),
		}
	}
	if rem := totalCrafts % perBatch; rem > 0 {
		inst.Remainder = &crafting.Batch{
			Repeat:    1,
			Crafts:    rem,
			Produces:  float64(rem) * yield,
			Materials: scaleMaterials(recipe.Materials, rem),
		}
	}
	return inst, nil
}

func scaleMaterials(materials []crafting.Material, n int) []crafting.Material {
	out := make([]crafting.Material, len(materials))
	for i, m := range materials {
		out[i] = crafting.Material{Name: m.Name, Quantity: m.Quantity * float64(n)}
	}
	return out
}
