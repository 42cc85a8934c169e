// Package crafting contains the core types for the crafting order planner.
package crafting

import (
	"sort"
	"strings"
)

// ============================================
// RECIPE TYPES
// ============================================

// Material is one input of a recipe, consumed per craft operation.
type Material struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// Recipe describes how one craftable item is produced.
type Recipe struct {
	Item      string     `json:"item"`
	Yield     float64    `json:"yield"`
	Materials []Material `json:"materials"`
}

// OutputPerCraft returns the units produced by one craft operation.
// A missing or non-positive yield counts as 1.
func (r Recipe) OutputPerCraft() float64 {
	if r.Yield <= 0 {
		return 1
	}
	return r.Yield
}

// MaterialsPerCraft returns the sum of all material quantities of one craft.
func (r Recipe) MaterialsPerCraft() float64 {
	var sum float64
	for _, m := range r.Materials {
		sum += m.Quantity
	}
	return sum
}

// RecipeBook maps item names to their recipe. Names are case-sensitive.
type RecipeBook map[string]Recipe

// Lookup returns the recipe for item, if any.
func (b RecipeBook) Lookup(item string) (Recipe, bool) {
	r, ok := b[item]
	return r, ok
}

// Items returns all craftable item names in lexical order.
func (b RecipeBook) Items() []string {
	items := make([]string, 0, len(b))
	for item := range b {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// UsedIn returns the craftable items whose recipe consumes item, in lexical order.
func (b RecipeBook) UsedIn(item string) []string {
	var users []string
	for name, r := range b {
		for _, m := range r.Materials {
			if m.Name == item {
				users = append(users, name)
				break
			}
		}
	}
	sort.Strings(users)
	return users
}

// ============================================
// PRICE TYPES
// ============================================

// CategoryKind tells which mapping a PriceCategory carries.
type CategoryKind int

const (
	// CategoryFlat holds a single (minimum) price per item.
	CategoryFlat CategoryKind = iota + 1
	// CategoryRange holds a min/max pair per item.
	CategoryRange
)

// String implements fmt.Stringer.
func (k CategoryKind) String() string {
	switch k {
	case CategoryFlat:
		return "min"
	case CategoryRange:
		return "range"
	default:
		return "unknown"
	}
}

// PriceRange is a ranged market price. Max is nil when the source had none.
type PriceRange struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max,omitempty"`
}

// PriceCategory is one named group of prices. Exactly one of Flat or Range
// is populated, selected by Kind.
type PriceCategory struct {
	Name  string                `json:"name"`
	Kind  CategoryKind          `json:"kind"`
	Flat  map[string]float64    `json:"flat,omitempty"`
	Range map[string]PriceRange `json:"range,omitempty"`
}

// PriceTable is the ordered list of price categories. Lookups honour slice
// order, so the first category holding an item wins.
type PriceTable struct {
	Categories []PriceCategory `json:"categories"`
}

// Category returns the first category of the given name and kind.
func (t PriceTable) Category(name string, kind CategoryKind) (PriceCategory, bool) {
	for _, c := range t.Categories {
		if c.Name == name && c.Kind == kind {
			return c, true
		}
	}
	return PriceCategory{}, false
}

// Price is the result of a price lookup.
type Price struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max,omitempty"`
}

// MaxOrMin returns Max, or Min when no maximum is known.
func (p Price) MaxOrMin() float64 {
	if p.Max == nil {
		return p.Min
	}
	return *p.Max
}

// Cost is a minimum/maximum cost pair.
type Cost struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Scale multiplies both sides of the cost by n.
func (c Cost) Scale(n float64) Cost {
	return Cost{Min: c.Min * n, Max: c.Max * n}
}

// CostMemo caches unit costs by item name. It belongs to one request.
type CostMemo map[string]Cost

// OreFallback is the generic commodity price rule: unpriced items whose name
// contains Marker, or equals one of Names, use the flat price of Item in
// Category.
type OreFallback struct {
	Marker   string   `json:"marker"`
	Names    []string `json:"names,omitempty"`
	Category string   `json:"category"`
	Item     string   `json:"item"`
}

// Matches reports whether item falls under the rule.
func (f OreFallback) Matches(item string) bool {
	if f.Marker != "" && strings.Contains(item, f.Marker) {
		return true
	}
	for _, n := range f.Names {
		if n == item {
			return true
		}
	}
	return false
}

// DefaultOreFallback returns the stock ore pricing rule.
func DefaultOreFallback() OreFallback {
	return OreFallback{
		Marker:   "Minério",
		Names:    []string{"Carvão"},
		Category: "mineradora",
		Item:     "Qualquer Minério",
	}
}

// ============================================
// DEMAND TYPES
// ============================================

// Demand is a requested quantity of an item.
type Demand struct {
	Item     string  `json:"item" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
}

// Catalog is the full dataset the planner works on. It is read-only once loaded.
type Catalog struct {
	Recipes     RecipeBook `json:"recipes"`
	Prices      PriceTable `json:"prices"`
	Permissions []string   `json:"permissions,omitempty"`
}

// ============================================
// BATCH PLAN TYPES
// ============================================

// Batch describes one kind of production run.
type Batch struct {
	Repeat    int        `json:"repeat"`
	Crafts    int        `json:"crafts"`
	Produces  float64    `json:"produces"`
	Materials []Material `json:"materials"`
}

// BatchInstruction is the production instruction for one craftable item.
type BatchInstruction struct {
	Item              string  `json:"item"`
	Needed            float64 `json:"needed"`
	ToProduce         float64 `json:"to_produce"`
	Yield             float64 `json:"yield"`
	TotalCrafts       int     `json:"total_crafts"`
	MaxCraftsPerBatch int     `json:"max_crafts_per_batch"`
	Full              *Batch  `json:"full,omitempty"`
	Remainder         *Batch  `json:"remainder,omitempty"`
}

// ============================================
// TOOL REQUEST/RESPONSE TYPES
// ============================================

// UnitCostRequest is the input for the unit_cost tool.
type UnitCostRequest struct {
	Item     string  `json:"item" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

// UnitCostResponse is the output for the unit_cost tool.
type UnitCostResponse struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Unit     Cost    `json:"unit"`
	Total    Cost    `json:"total"`
}

// DemandsRequest is the input for tools working on a list of demands.
type DemandsRequest struct {
	Demands       []Demand `json:"demands" validate:"required,min=1,dive"`
	BatchCapacity float64  `json:"batch_capacity,omitempty" validate:"gte=0"`
}

// QuantityLine is one item/quantity pair of an ordered listing.
type QuantityLine struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
}

// ExpandMaterialsResponse is the output for the expand_materials tool.
type ExpandMaterialsResponse struct {
	Raw     []QuantityLine `json:"raw"`
	Crafted []QuantityLine `json:"crafted"`
}

// TextBlock is a titled chunk of rendered text.
type TextBlock struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// BatchPlanResponse is the output for the batch_plan tool.
type BatchPlanResponse struct {
	Capacity     float64            `json:"capacity"`
	Instructions []BatchInstruction `json:"instructions"`
	Blocks       []TextBlock        `json:"blocks"`
	Truncated    bool               `json:"truncated,omitempty"`
}

// OrderCostResponse is the output for the order_cost tool.
type OrderCostResponse struct {
	TotalMinCost float64 `json:"total_min_cost"`
	Formatted    string  `json:"formatted"`
}

// OrderQuoteRequest is the input for the order_quote tool.
type OrderQuoteRequest struct {
	OrderText     string  `json:"order_text" validate:"required"`
	BatchCapacity float64 `json:"batch_capacity,omitempty" validate:"gte=0"`
}

// OrderQuoteResponse is the output for the order_quote tool.
type OrderQuoteResponse struct {
	Demands      []Demand           `json:"demands"`
	TotalMinCost float64            `json:"total_min_cost"`
	SaleValue    *float64           `json:"sale_value,omitempty"`
	Formatted    string             `json:"formatted"`
	ZeroCost     bool               `json:"zero_cost"`
	Materials    []QuantityLine     `json:"materials"`
	MaterialText string             `json:"material_text"`
	Instructions []BatchInstruction `json:"instructions"`
	Blocks       []TextBlock        `json:"blocks"`
	Truncated    bool               `json:"truncated,omitempty"`
}

// CatalogLookupRequest is the input for the catalog_lookup tool.
type CatalogLookupRequest struct {
	Item string `json:"item" validate:"required"`
}

// CatalogLookupResponse is the output for the catalog_lookup tool.
type CatalogLookupResponse struct {
	Item     string   `json:"item"`
	Recipe   *Recipe  `json:"recipe,omitempty"`
	Price    *Price   `json:"price,omitempty"`
	UnitCost Cost     `json:"unit_cost"`
	UsedIn   []string `json:"used_in,omitempty"`
}
