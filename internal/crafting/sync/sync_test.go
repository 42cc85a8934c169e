package sync

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/crafting-orders-server/internal/crafting/db"
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

const catalogJSON = `{
  "permission": ["123", 456],
  "receitas_crafting": {
    "Ingot": {"produz": 1, "materiais": [{"nome": "Ore", "quantidade": 2}, {"nome": "Carvão", "quantidade": 1}]},
    "Nail": {"materiais": [{"nome": "Ingot", "quantidade": 1}, {"quantidade": 3}]},
    "Broken": "not an object"
  },
  "precos": {
    "zeta": {"min": {"Ore": 7}},
    "mineradora": {"min": {"Ore": 5, "Qualquer Minério": 3, "Bad": "x"}},
    "ferreiro": {
      "min": {"Sword": 90},
      "range": {"Sword": {"min": 100, "max": 150}, "Axe": {"min": 80}, "Nope": {"max": 3}}
    },
    "ignored": 12
  }
}`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(catalogJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"123", "456"}, c.Permissions)

	require.Len(t, c.Recipes, 2)
	assert.Equal(t, crafting.Recipe{
		Item:      "Ingot",
		Yield:     1,
		Materials: []crafting.Material{{Name: "Ore", Quantity: 2}, {Name: "Carvão", Quantity: 1}},
	}, c.Recipes["Ingot"])
	assert.Equal(t, 0.0, c.Recipes["Nail"].Yield)
	assert.Equal(t, 1.0, c.Recipes["Nail"].OutputPerCraft())
	assert.Len(t, c.Recipes["Nail"].Materials, 1)

	var order []string
	for _, cat := range c.Prices.Categories {
		order = append(order, cat.Name+"/"+cat.Kind.String())
	}
	assert.Equal(t, []string{"zeta/min", "mineradora/min", "ferreiro/min", "ferreiro/range"}, order)

	assert.Equal(t, map[string]float64{"Ore": 5, "Qualquer Minério": 3}, c.Prices.Categories[1].Flat)

	ranges := c.Prices.Categories[3].Range
	require.Len(t, ranges, 2)
	require.NotNil(t, ranges["Sword"].Max)
	assert.Equal(t, 150.0, *ranges["Sword"].Max)
	assert.Nil(t, ranges["Axe"].Max)
}

func TestParseCatalogEnglishKeys(t *testing.T) {
	c, err := ParseCatalog([]byte(`{
		"recipes": {"Gear": {"yield": 4, "materials": [{"name": "Ingot", "quantity": 2}]}},
		"prices": {"shop": {"min": {"Ingot": 10}}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 4.0, c.Recipes["Gear"].Yield)
	assert.Equal(t, []crafting.Material{{Name: "Ingot", Quantity: 2}}, c.Recipes["Gear"].Materials)
	require.Len(t, c.Prices.Categories, 1)
	assert.Equal(t, 10.0, c.Prices.Categories[0].Flat["Ingot"])
}

func TestParseCatalogInvalid(t *testing.T) {
	_, err := ParseCatalog([]byte(`{"recipes": `))
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = ParseCatalog([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func newSyncer(t *testing.T) (*Syncer, *db.DB) {
	t.Helper()
	database, err := db.OpenAndInit(context.Background(), db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewSyncer(database, slog.New(slog.NewTextHandler(io.Discard, nil))), database
}

func TestImportCatalogFromFile(t *testing.T) {
	ctx := context.Background()
	s, database := newSyncer(t)

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o644))

	imported, err := s.ImportCatalogFromFile(ctx, path)
	require.NoError(t, err)

	stored, err := s.LoadStored(ctx)
	require.NoError(t, err)
	assert.Equal(t, imported.Recipes, stored.Recipes)
	assert.Equal(t, imported.Prices, stored.Prices)

	count, err := database.GetSyncMetadata(ctx, "recipes_count")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	source, err := database.GetSyncMetadata(ctx, "catalog_source")
	require.NoError(t, err)
	assert.Equal(t, "file:"+path, source)

	_, err = s.ImportCatalogFromFile(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestImportCatalogFromURL(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, catalogJSON)
	}))
	defer srv.Close()

	s, _ := newSyncer(t)

	c, err := s.ImportCatalogFromURL(ctx, srv.URL+"/catalog")
	require.NoError(t, err)
	assert.Len(t, c.Recipes, 2)

	stored, err := s.LoadStored(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.Prices, stored.Prices)

	_, err = s.FetchCatalog(ctx, srv.URL+"/missing")
	assert.ErrorContains(t, err, "status 404")
}
