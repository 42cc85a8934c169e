package engine

import (
	"context"
	"fmt"

	"github.com/rsned/crafting-orders-server/internal/crafting/order"
	"github.com/rsned/crafting-orders-server/internal/crafting/render"
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// OrderQuote executes the order_quote tool logic: it parses the order text,
// prices the raw materials of every product, sums the sale value of the
// products that have a market price and plans the production batches.
func (e *Engine) OrderQuote(ctx context.Context, req crafting.OrderQuoteRequest) (*crafting.OrderQuoteResponse, error) {
	demands, err := order.ParseDemands(req.OrderText)
	if err != nil {
		return nil, err
	}

	p, err := e.planner()
	if err != nil {
		return nil, err
	}

	exp, err := p.Expand(demands)
	if err != nil {
		return nil, fmt.Errorf("expanding materials: %w", err)
	}

	var (
		sale    float64
		hasSale bool
	)
	for _, d := range demands {
		if price, ok := FindPrice(d.Item, p.Prices); ok {
			sale += roundCents(d.Quantity * price.Min)
			hasSale = true
		}
	}

	instructions, err := p.PlanBatches(order.Roots(demands), exp.Crafted, e.capacity(req.BatchCapacity))
	if err != nil {
		return nil, fmt.Errorf("planning batches: %w", err)
	}
	blocks, truncated, err := e.renderer.BatchBlocks(instructions)
	if err != nil {
		return nil, err
	}

	materials := exp.Raw.Lines()
	materialText, err := e.renderer.Materials(materials)
	if err != nil {
		return nil, err
	}

	total := roundCents(p.OrderCost(exp.Raw))
	resp := &crafting.OrderQuoteResponse{
		Demands:      demands,
		TotalMinCost: total,
		Formatted:    render.Money(total),
		ZeroCost:     total == 0,
		Materials:    materials,
		MaterialText: materialText,
		Instructions: instructions,
		Blocks:       blocks,
		Truncated:    truncated,
	}
	if hasSale {
		sale = roundCents(sale)
		resp.SaleValue = &sale
	}
	return resp, nil
}
