package engine

import (
	"fmt"
	"math"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// DefaultMaxDepth bounds how many recipe levels a walk may descend.
const DefaultMaxDepth = 64

// craftEpsilon absorbs float noise before rounding craft counts up, so that
// 0.1*3/0.3 still counts as one craft. Every ceiling in the planner goes
// through ceilCount.
const craftEpsilon = 1e-9

// MaxCrafts is the largest craft count a batch plan represents exactly.
const MaxCrafts = 1 << 53

// Planner runs the planning operations against one catalog snapshot.
// A Planner holds no mutable state and may be shared between goroutines.
type Planner struct {
	Recipes  crafting.RecipeBook
	Prices   crafting.PriceTable
	Fallback crafting.OreFallback
	MaxDepth int
}

// NewPlanner returns a Planner over catalog with default limits.
func NewPlanner(catalog *crafting.Catalog) Planner {
	return Planner{
		Recipes:  catalog.Recipes,
		Prices:   catalog.Prices,
		Fallback: crafting.DefaultOreFallback(),
		MaxDepth: DefaultMaxDepth,
	}
}

func (p Planner) maxDepth() int {
	if p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

func ceilCount(x float64) float64 {
	c := math.Ceil(x - craftEpsilon)
	if c < 0 {
		return 0
	}
	return c
}

// crafts returns how many craft operations cover qty units of r.
func crafts(r crafting.Recipe, qty float64) float64 {
	return ceilCount(qty / r.OutputPerCraft())
}

// walkPath tracks the items on the current recursion path of a walk.
type walkPath struct {
	limit int
	stack []string
	on    map[string]bool
}

func newWalkPath(limit int) *walkPath {
	return &walkPath{limit: limit, on: make(map[string]bool)}
}

// enter pushes item, failing on a cycle or when the depth limit is reached.
func (w *walkPath) enter(item string) error {
	if w.on[item] {
		return newCycleError(w.stack, item)
	}
	if len(w.stack) >= w.limit {
		return fmt.Errorf("%w: %s is more than %d levels down", ErrRecipeTooDeep, item, w.limit)
	}
	w.stack = append(w.stack, item)
	w.on[item] = true
	return nil
}

func (w *walkPath) leave() {
	last := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	delete(w.on, last)
}
