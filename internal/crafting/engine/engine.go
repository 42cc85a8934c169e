// Package engine resolves crafting costs, material needs and batch plans.
package engine

import (
	"fmt"
	"sync"

	"github.com/rsned/crafting-orders-server/internal/crafting/render"
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// DefaultBatchCapacity is the material capacity of one production batch.
const DefaultBatchCapacity = 300

// Options configures an Engine.
type Options struct {
	BatchCapacity float64
	MaxDepth      int
	OreFallback   crafting.OreFallback
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		BatchCapacity: DefaultBatchCapacity,
		MaxDepth:      DefaultMaxDepth,
		OreFallback:   crafting.DefaultOreFallback(),
	}
}

// Engine is the query engine behind the tool server. It holds the current
// catalog snapshot; Reload swaps it without disturbing queries in flight.
type Engine struct {
	mu       sync.RWMutex
	catalog  *crafting.Catalog
	opts     Options
	renderer *render.Renderer
}

// New creates an Engine over catalog. catalog may be nil until the first Reload.
func New(catalog *crafting.Catalog, opts Options) (*Engine, error) {
	if opts.BatchCapacity <= 0 {
		opts.BatchCapacity = DefaultBatchCapacity
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	r, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return &Engine{catalog: catalog, opts: opts, renderer: r}, nil
}

// Reload replaces the catalog snapshot.
func (e *Engine) Reload(catalog *crafting.Catalog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog = catalog
}

// Catalog returns the current snapshot, or nil.
func (e *Engine) Catalog() *crafting.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// Ready reports whether a catalog is loaded.
func (e *Engine) Ready() bool {
	return e.Catalog() != nil
}

// Permitted reports whether any of roleIDs is on the catalog's permission list.
func (e *Engine) Permitted(roleIDs []string) bool {
	c := e.Catalog()
	if c == nil {
		return false
	}
	for _, allowed := range c.Permissions {
		for _, id := range roleIDs {
			if id == allowed {
				return true
			}
		}
	}
	return false
}

// planner returns a Planner over the current snapshot.
func (e *Engine) planner() (Planner, error) {
	c := e.Catalog()
	if c == nil {
		return Planner{}, ErrCatalogNotLoaded
	}
	return Planner{
		Recipes:  c.Recipes,
		Prices:   c.Prices,
		Fallback: e.opts.OreFallback,
		MaxDepth: e.opts.MaxDepth,
	}, nil
}

func (e *Engine) capacity(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	return e.opts.BatchCapacity
}

// positiveDemands drops demands that contribute nothing.
func positiveDemands(demands []crafting.Demand) []crafting.Demand {
	out := make([]crafting.Demand, 0, len(demands))
	for _, d := range demands {
		if d.Quantity > 0 {
			out = append(out, d)
		}
	}
	return out
}
