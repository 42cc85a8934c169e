package engine

import (
	"context"
	"fmt"

	"github.com/rsned/crafting-orders-server/internal/crafting/order"
	"github.com/rsned/crafting-orders-server/internal/crafting/render"
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// UnitCostQuery executes the unit_cost tool logic.
func (e *Engine) UnitCostQuery(ctx context.Context, req crafting.UnitCostRequest) (*crafting.UnitCostResponse, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	p, err := e.planner()
	if err != nil {
		return nil, err
	}

	memo := make(crafting.CostMemo)
	unit, err := p.UnitCost(req.Item, memo)
	if err != nil {
		return nil, fmt.Errorf("resolving unit cost of %s: %w", req.Item, err)
	}
	total, err := p.CraftCost(req.Item, req.Quantity, memo)
	if err != nil {
		return nil, fmt.Errorf("resolving craft cost of %s: %w", req.Item, err)
	}

	return &crafting.UnitCostResponse{
		Item:     req.Item,
		Quantity: req.Quantity,
		Unit:     unit,
		Total:    total,
	}, nil
}

// ExpandMaterialsQuery executes the expand_materials tool logic.
func (e *Engine) ExpandMaterialsQuery(ctx context.Context, req crafting.DemandsRequest) (*crafting.ExpandMaterialsResponse, error) {
	p, err := e.planner()
	if err != nil {
		return nil, err
	}

	exp, err := p.Expand(req.Demands)
	if err != nil {
		return nil, fmt.Errorf("expanding materials: %w", err)
	}

	return &crafting.ExpandMaterialsResponse{
		Raw:     exp.Raw.Lines(),
		Crafted: exp.Crafted.Lines(),
	}, nil
}

// BatchPlan executes the batch_plan tool logic.
func (e *Engine) BatchPlan(ctx context.Context, req crafting.DemandsRequest) (*crafting.BatchPlanResponse, error) {
	p, err := e.planner()
	if err != nil {
		return nil, err
	}

	capacity := e.capacity(req.BatchCapacity)
	demands := positiveDemands(req.Demands)
	instructions, err := p.planDemands(demands, capacity)
	if err != nil {
		return nil, err
	}

	blocks, truncated, err := e.renderer.BatchBlocks(instructions)
	if err != nil {
		return nil, err
	}

	return &crafting.BatchPlanResponse{
		Capacity:     capacity,
		Instructions: instructions,
		Blocks:       blocks,
		Truncated:    truncated,
	}, nil
}

// planDemands expands demands and plans batches for every crafted item.
func (p Planner) planDemands(demands []crafting.Demand, capacity float64) ([]crafting.BatchInstruction, error) {
	exp, err := p.Expand(demands)
	if err != nil {
		return nil, fmt.Errorf("expanding materials: %w", err)
	}
	instructions, err := p.PlanBatches(order.Roots(demands), exp.Crafted, capacity)
	if err != nil {
		return nil, fmt.Errorf("planning batches: %w", err)
	}
	return instructions, nil
}

// OrderCostQuery executes the order_cost tool logic.
func (e *Engine) OrderCostQuery(ctx context.Context, req crafting.DemandsRequest) (*crafting.OrderCostResponse, error) {
	p, err := e.planner()
	if err != nil {
		return nil, err
	}

	exp, err := p.Expand(req.Demands)
	if err != nil {
		return nil, fmt.Errorf("expanding materials: %w", err)
	}

	total := roundCents(p.OrderCost(exp.Raw))
	return &crafting.OrderCostResponse{
		TotalMinCost: total,
		Formatted:    render.Money(total),
	}, nil
}
