package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/crafting-orders-server/internal/crafting/order"
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

func newEngine(t *testing.T, catalog *crafting.Catalog) *Engine {
	t.Helper()
	e, err := New(catalog, DefaultOptions())
	require.NoError(t, err)
	return e
}

func TestEngineNotLoaded(t *testing.T) {
	e := newEngine(t, nil)
	assert.False(t, e.Ready())

	_, err := e.UnitCostQuery(context.Background(), crafting.UnitCostRequest{Item: "Ingot"})
	assert.ErrorIs(t, err, ErrCatalogNotLoaded)

	e.Reload(ingotCatalog())
	assert.True(t, e.Ready())
	resp, err := e.UnitCostQuery(context.Background(), crafting.UnitCostRequest{Item: "Ingot", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, crafting.Cost{Min: 10, Max: 10}, resp.Unit)
	assert.Equal(t, crafting.Cost{Min: 30, Max: 30}, resp.Total)
}

func TestUnitCostQueryDefaultsQuantity(t *testing.T) {
	e := newEngine(t, ingotCatalog())
	resp, err := e.UnitCostQuery(context.Background(), crafting.UnitCostRequest{Item: "Ingot"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, resp.Quantity)
	assert.Equal(t, 10.0, resp.Total.Min)
}

func TestPermitted(t *testing.T) {
	cat := ingotCatalog()
	cat.Permissions = []string{"123", "456"}
	e := newEngine(t, cat)

	assert.True(t, e.Permitted([]string{"999", "456"}))
	assert.False(t, e.Permitted([]string{"999"}))
	assert.False(t, e.Permitted(nil))
}

func TestExpandMaterialsQuery(t *testing.T) {
	e := newEngine(t, toolCatalog())
	resp, err := e.ExpandMaterialsQuery(context.Background(), crafting.DemandsRequest{
		Demands: []crafting.Demand{{Item: "Sword", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, []crafting.QuantityLine{{Item: "Ore", Quantity: 18}, {Item: "Leather", Quantity: 3}}, resp.Raw)
	assert.Equal(t, "Sword", resp.Crafted[0].Item)
}

func TestBatchPlan(t *testing.T) {
	e := newEngine(t, ingotCatalog())

	resp, err := e.BatchPlan(context.Background(), crafting.DemandsRequest{
		Demands:       []crafting.Demand{{Item: "Ingot", Quantity: 6}},
		BatchCapacity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, resp.Capacity)
	require.Len(t, resp.Instructions, 1)
	assert.Equal(t, 3, resp.Instructions[0].Full.Repeat)
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, "➡️ INGOT", resp.Blocks[0].Title)
	assert.Contains(t, resp.Blocks[0].Text, "Repetir 3 vezes")

	resp, err = e.BatchPlan(context.Background(), crafting.DemandsRequest{
		Demands: []crafting.Demand{{Item: "Ingot", Quantity: 6}},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultBatchCapacity), resp.Capacity)
	assert.Nil(t, resp.Instructions[0].Full)
	require.NotNil(t, resp.Instructions[0].Remainder)
	assert.Equal(t, 6, resp.Instructions[0].Remainder.Crafts)
}

func TestBatchPlanRejectsHugeQuantity(t *testing.T) {
	e := newEngine(t, ingotCatalog())
	_, err := e.BatchPlan(context.Background(), crafting.DemandsRequest{
		Demands: []crafting.Demand{{Item: "Ingot", Quantity: 1e20}},
	})
	assert.ErrorIs(t, err, ErrTooManyCrafts)
}

func TestOrderCostQuery(t *testing.T) {
	e := newEngine(t, toolCatalog())
	resp, err := e.OrderCostQuery(context.Background(), crafting.DemandsRequest{
		Demands: []crafting.Demand{{Item: "Sword", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 102.0, resp.TotalMinCost)
	assert.Equal(t, "R$ 102,00", resp.Formatted)
}

func TestOrderQuote(t *testing.T) {
	cat := toolCatalog()
	cat.Prices.Categories = append(cat.Prices.Categories,
		ranged("ferreiro", map[string]crafting.PriceRange{"Sword": {Min: 50.5, Max: ptr(80)}}))
	e := newEngine(t, cat)

	t.Run("priced product", func(t *testing.T) {
		resp, err := e.OrderQuote(context.Background(), crafting.OrderQuoteRequest{OrderText: "Sword: 3\nlixo\nHilt: 0"})
		require.NoError(t, err)

		assert.Equal(t, []crafting.Demand{{Item: "Sword", Quantity: 3}}, resp.Demands)
		// Sword is priced directly, so the raw materials still come from its recipe.
		assert.Equal(t, 102.0, resp.TotalMinCost)
		require.NotNil(t, resp.SaleValue)
		assert.Equal(t, 151.5, *resp.SaleValue)
		assert.False(t, resp.ZeroCost)
		assert.Len(t, resp.Instructions, 4)
		assert.Len(t, resp.Blocks, 4)
		assert.Equal(t, "🔹 Ore: 18\n🔹 Leather: 3", resp.MaterialText)
	})

	t.Run("unpriced product", func(t *testing.T) {
		resp, err := e.OrderQuote(context.Background(), crafting.OrderQuoteRequest{OrderText: "Hilt: 2"})
		require.NoError(t, err)
		assert.Nil(t, resp.SaleValue)
	})

	t.Run("zero cost", func(t *testing.T) {
		resp, err := e.OrderQuote(context.Background(), crafting.OrderQuoteRequest{OrderText: "Mystery: 2"})
		require.NoError(t, err)
		assert.True(t, resp.ZeroCost)
		assert.Empty(t, resp.Instructions)
	})

	t.Run("nothing valid", func(t *testing.T) {
		_, err := e.OrderQuote(context.Background(), crafting.OrderQuoteRequest{OrderText: "Sword: x"})
		assert.ErrorIs(t, err, order.ErrNoDemands)
	})
}

func TestCatalogLookup(t *testing.T) {
	e := newEngine(t, toolCatalog())

	resp, err := e.CatalogLookup(context.Background(), crafting.CatalogLookupRequest{Item: "Ingot"})
	require.NoError(t, err)
	require.NotNil(t, resp.Recipe)
	assert.Nil(t, resp.Price)
	assert.Equal(t, []string{"Blade", "Hilt"}, resp.UsedIn)
	assert.Equal(t, crafting.Cost{Min: 10, Max: 10}, resp.UnitCost)

	resp, err = e.CatalogLookup(context.Background(), crafting.CatalogLookupRequest{Item: "Leather"})
	require.NoError(t, err)
	require.NotNil(t, resp.Price)
	assert.Equal(t, 4.0, resp.Price.Min)

	_, err = e.CatalogLookup(context.Background(), crafting.CatalogLookupRequest{Item: "Mystery"})
	assert.ErrorIs(t, err, ErrUnknownItem)
}
