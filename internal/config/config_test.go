package config

import (
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DB_PATH", "API_URL", "CATALOG_FILE", "BATCH_CAPACITY", "MAX_RECIPE_DEPTH",
		"HTTP_ADDR", "CATALOG_REFRESH_INTERVAL", "LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "ORE_MARKER", "ORE_FALLBACK_NAMES",
		"ORE_FALLBACK_CATEGORY", "ORE_FALLBACK_ITEM"} {
		unsetenv(t, k)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data/crafting/orders.db", cfg.DBPath)
	assert.Equal(t, 300.0, cfg.BatchCapacity)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Zero(t, cfg.CatalogRefresh)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, crafting.DefaultOreFallback(), cfg.OreFallback)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://example.com/catalog.json")
	t.Setenv("BATCH_CAPACITY", "120.5")
	t.Setenv("MAX_RECIPE_DEPTH", "10")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "15m")
	t.Setenv("ORE_FALLBACK_NAMES", "Carvão, Enxofre ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/catalog.json", cfg.APIURL)
	assert.Equal(t, 120.5, cfg.BatchCapacity)
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.CatalogRefresh)
	assert.Equal(t, []string{"Carvão", "Enxofre"}, cfg.OreFallback.Names)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"BATCH_CAPACITY":           "lots",
		"MAX_RECIPE_DEPTH":         "1.5",
		"CATALOG_REFRESH_INTERVAL": "soon",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}

	t.Run("validation", func(t *testing.T) {
		t.Setenv("BATCH_CAPACITY", "0")
		_, err := Load()
		require.Error(t, err)
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "BatchCapacity", verrs[0].Field())
	})

	t.Run("bad url", func(t *testing.T) {
		t.Setenv("API_URL", "not a url")
		_, err := Load()
		assert.Error(t, err)
	})
}
