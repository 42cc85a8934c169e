package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rsned/crafting-orders-server/internal/crafting/engine"
	"github.com/rsned/crafting-orders-server/internal/crafting/order"
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// Tool names.
const (
	ToolUnitCost        = "unit_cost"
	ToolExpandMaterials = "expand_materials"
	ToolBatchPlan       = "batch_plan"
	ToolOrderCost       = "order_cost"
	ToolOrderQuote      = "order_quote"
	ToolCatalogLookup   = "catalog_lookup"
)

// ToolDefinition describes an MCP tool.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// JSONSchema is a simplified JSON Schema representation.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a schema property.
type Property struct {
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Default     any                 `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

var validate = validator.New()

// FormatValidationError turns validator failures into a field -> message map
// keyed by lower-cased field name.
func FormatValidationError(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			out[field] = "This field is required"
		case "min":
			out[field] = fmt.Sprintf("Must have at least %s entries", e.Param())
		case "gt":
			out[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "gte":
			out[field] = fmt.Sprintf("Must be at least %s", e.Param())
		default:
			out[field] = "Invalid value"
		}
	}
	return out
}

// GetToolDefinitions returns all tool definitions.
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		unitCostTool(),
		expandMaterialsTool(),
		batchPlanTool(),
		orderCostTool(),
		orderQuoteTool(),
		catalogLookupTool(),
	}
}

func demandsProperty() Property {
	return Property{
		Type:        "array",
		Description: "Products to make and how many of each",
		Items: &Property{
			Type: "object",
			Properties: map[string]Property{
				"item":     {Type: "string", Description: "Product name"},
				"quantity": {Type: "number", Description: "Units wanted"},
			},
			Required: []string{"item", "quantity"},
		},
	}
}

func capacityProperty() Property {
	zero := 0.0
	return Property{
		Type:        "number",
		Description: "Material units one batch can hold",
		Default:     engine.DefaultBatchCapacity,
		Minimum:     &zero,
	}
}

func unitCostTool() ToolDefinition {
	zero := 0.0
	return ToolDefinition{
		Name:        ToolUnitCost,
		Description: "Cost range of one unit of an item, from its market price or recursively from its recipe. Returns the unit cost and the total for the given quantity.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"item":     {Type: "string", Description: "Item name"},
				"quantity": {Type: "number", Description: "Units to price", Default: 1, Minimum: &zero},
			},
			Required: []string{"item"},
		},
	}
}

func expandMaterialsTool() ToolDefinition {
	return ToolDefinition{
		Name:        ToolExpandMaterials,
		Description: "Expand products down to raw materials. Returns the raw material totals and the intermediate items that must be crafted.",
		InputSchema: JSONSchema{
			Type:       "object",
			Properties: map[string]Property{"demands": demandsProperty()},
			Required:   []string{"demands"},
		},
	}
}

func batchPlanTool() ToolDefinition {
	return ToolDefinition{
		Name:        ToolBatchPlan,
		Description: "Split every item that has to be crafted into production batches that fit the batch capacity. Returns per-item instructions and formatted text blocks.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"demands":        demandsProperty(),
				"batch_capacity": capacityProperty(),
			},
			Required: []string{"demands"},
		},
	}
}

func orderCostTool() ToolDefinition {
	return ToolDefinition{
		Name:        ToolOrderCost,
		Description: "Total minimum cost of the raw materials needed for an order.",
		InputSchema: JSONSchema{
			Type:       "object",
			Properties: map[string]Property{"demands": demandsProperty()},
			Required:   []string{"demands"},
		},
	}
}

func orderQuoteTool() ToolDefinition {
	return ToolDefinition{
		Name:        ToolOrderQuote,
		Description: "Quote an order written as \"Product: quantity\" lines. Returns parsed demands, material cost, sale value, materials and the batch plan.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"order_text":     {Type: "string", Description: "One \"Product: quantity\" per line"},
				"batch_capacity": capacityProperty(),
			},
			Required: []string{"order_text"},
		},
	}
}

func catalogLookupTool() ToolDefinition {
	return ToolDefinition{
		Name:        ToolCatalogLookup,
		Description: "Look up an item in the catalog. Returns its recipe, its price, its unit cost and the recipes that use it.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"item": {Type: "string", Description: "Item name"},
			},
			Required: []string{"item"},
		},
	}
}

type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

func (s *Server) toolHandlers() map[string]toolHandler {
	return map[string]toolHandler{
		ToolUnitCost: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req crafting.UnitCostRequest
			if err := decode(args, &req); err != nil {
				return nil, err
			}
			return domainError(s.engine.UnitCostQuery(ctx, req))
		},
		ToolExpandMaterials: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req crafting.DemandsRequest
			if err := decode(args, &req); err != nil {
				return nil, err
			}
			return domainError(s.engine.ExpandMaterialsQuery(ctx, req))
		},
		ToolBatchPlan: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req crafting.DemandsRequest
			if err := decode(args, &req); err != nil {
				return nil, err
			}
			return domainError(s.engine.BatchPlan(ctx, req))
		},
		ToolOrderCost: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req crafting.DemandsRequest
			if err := decode(args, &req); err != nil {
				return nil, err
			}
			return domainError(s.engine.OrderCostQuery(ctx, req))
		},
		ToolOrderQuote: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req crafting.OrderQuoteRequest
			if err := decode(args, &req); err != nil {
				return nil, err
			}
			return domainError(s.engine.OrderQuote(ctx, req))
		},
		ToolCatalogLookup: func(ctx context.Context, args json.RawMessage) (any, error) {
			var req crafting.CatalogLookupRequest
			if err := decode(args, &req); err != nil {
				return nil, err
			}
			return domainError(s.engine.CatalogLookup(ctx, req))
		},
	}
}

// decode unmarshals and validates tool arguments.
func decode(args json.RawMessage, req any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, req); err != nil {
		return invalidParams(fmt.Errorf("decoding arguments: %w", err))
	}
	if err := validate.Struct(req); err != nil {
		return invalidParams(fmt.Errorf("validating arguments: %w", err))
	}
	return nil
}

// domainError reclassifies engine errors the caller can fix as invalid params.
func domainError[T any](resp T, err error) (any, error) {
	if err == nil {
		return resp, nil
	}
	if errors.Is(err, order.ErrNoDemands) || errors.Is(err, engine.ErrInvalidCapacity) ||
		errors.Is(err, engine.ErrTooManyCrafts) || errors.Is(err, engine.ErrUnknownItem) {
		return nil, invalidParams(err)
	}
	return nil, err
}
