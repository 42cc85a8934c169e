// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// Config holds the application configuration.
type Config struct {
	DBPath      string `validate:"required"`
	APIURL      string `validate:"omitempty,url"`
	CatalogFile string
	// CatalogRefresh re-imports the catalog periodically; zero disables it.
	CatalogRefresh time.Duration `validate:"gte=0"`
	BatchCapacity  float64       `validate:"gt=0"`
	MaxDepth       int           `validate:"gte=1,lte=1024"`
	HTTPAddr       string        `validate:"omitempty,hostname_port|startswith=:"`
	LogLevel       string        `validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat      string        `validate:"oneof=text json"`
	Environment    string        `validate:"required"`
	OreFallback    crafting.OreFallback
}

// Load reads the configuration from environment variables, loading a .env
// file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	defaults := crafting.DefaultOreFallback()
	cfg := &Config{
		DBPath:      getEnv("DB_PATH", "data/crafting/orders.db"),
		APIURL:      getEnv("API_URL", ""),
		CatalogFile: getEnv("CATALOG_FILE", ""),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		OreFallback: crafting.OreFallback{
			Marker:   getEnv("ORE_MARKER", defaults.Marker),
			Names:    splitList(getEnv("ORE_FALLBACK_NAMES", strings.Join(defaults.Names, ","))),
			Category: getEnv("ORE_FALLBACK_CATEGORY", defaults.Category),
			Item:     getEnv("ORE_FALLBACK_ITEM", defaults.Item),
		},
	}

	capacity, err := strconv.ParseFloat(getEnv("BATCH_CAPACITY", "300"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_CAPACITY value: %w", err)
	}
	cfg.BatchCapacity = capacity

	refresh, err := time.ParseDuration(getEnv("CATALOG_REFRESH_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_REFRESH_INTERVAL value: %w", err)
	}
	cfg.CatalogRefresh = refresh

	depth, err := strconv.Atoi(getEnv("MAX_RECIPE_DEPTH", "64"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_RECIPE_DEPTH value: %w", err)
	}
	cfg.MaxDepth = depth

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
