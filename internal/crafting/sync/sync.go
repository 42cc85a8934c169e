// Package sync loads the crafting catalog from a file or the remote API and
// stores it in the local database.
package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rsned/crafting-orders-server/internal/crafting/db"
	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// maxCatalogSize bounds how much of a remote response is read.
const maxCatalogSize = 32 << 20

// Syncer imports catalogs into the database.
type Syncer struct {
	db     *db.DB
	store  *db.CatalogStore
	client *http.Client
	logger *slog.Logger
}

// NewSyncer creates a new Syncer.
func NewSyncer(database *db.DB, logger *slog.Logger) *Syncer {
	return &Syncer{
		db:     database,
		store:  db.NewCatalogStore(database),
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// ImportCatalogFromFile imports a catalog from a JSON file.
func (s *Syncer) ImportCatalogFromFile(ctx context.Context, path string) (*crafting.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := s.save(ctx, c, "file:"+path); err != nil {
		return nil, err
	}
	return c, nil
}

// FetchCatalog downloads and parses the catalog served at url.
func (s *Syncer) FetchCatalog(ctx context.Context, url string) (*crafting.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
	if err != nil {
		return nil, fmt.Errorf("reading catalog response: %w", err)
	}

	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog response: %w", err)
	}
	return c, nil
}

// ImportCatalogFromURL fetches the remote catalog and stores it.
func (s *Syncer) ImportCatalogFromURL(ctx context.Context, url string) (*crafting.Catalog, error) {
	c, err := s.FetchCatalog(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, c, url); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadStored returns the catalog saved by the last successful import.
func (s *Syncer) LoadStored(ctx context.Context) (*crafting.Catalog, error) {
	return s.store.Load(ctx)
}

// save replaces the stored catalog and records where it came from.
func (s *Syncer) save(ctx context.Context, c *crafting.Catalog, source string) error {
	if err := s.store.Replace(ctx, c); err != nil {
		return fmt.Errorf("storing catalog: %w", err)
	}

	var prices int
	for _, cat := range c.Prices.Categories {
		prices += len(cat.Flat) + len(cat.Range)
	}

	meta := map[string]string{
		"catalog_source":    source,
		"catalog_last_sync": time.Now().Format(time.RFC3339),
		"recipes_count":     strconv.Itoa(len(c.Recipes)),
		"prices_count":      strconv.Itoa(prices),
	}
	for k, v := range meta {
		if err := s.db.SetSyncMetadata(ctx, k, v); err != nil {
			return err
		}
	}

	s.logger.Info("catalog imported",
		"source", source,
		"recipes", len(c.Recipes),
		"price_categories", len(c.Prices.Categories),
		"prices", prices,
	)
	return nil
}
