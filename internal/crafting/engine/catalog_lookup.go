package engine

import (
	"context"
	"fmt"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// CatalogLookup executes the catalog_lookup tool logic.
func (e *Engine) CatalogLookup(ctx context.Context, req crafting.CatalogLookupRequest) (*crafting.CatalogLookupResponse, error) {
	p, err := e.planner()
	if err != nil {
		return nil, err
	}

	resp := &crafting.CatalogLookupResponse{
		Item:   req.Item,
		UsedIn: p.Recipes.UsedIn(req.Item),
	}
	if recipe, ok := p.Recipes.Lookup(req.Item); ok {
		resp.Recipe = &recipe
	}
	if price, ok := FindPrice(req.Item, p.Prices); ok {
		resp.Price = &price
	}

	if resp.Recipe == nil && resp.Price == nil && len(resp.UsedIn) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, req.Item)
	}

	resp.UnitCost, err = p.UnitCost(req.Item, nil)
	if err != nil {
		return nil, fmt.Errorf("resolving unit cost of %s: %w", req.Item, err)
	}
	return resp, nil
}
