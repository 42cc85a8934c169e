package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// ErrNoCatalog is returned by Load when nothing has been imported yet.
var ErrNoCatalog = errors.New("no catalog stored")

// CatalogStore reads and replaces the whole catalog snapshot.
type CatalogStore struct {
	db      *DB
	recipes *RecipeStore
	prices  *PriceStore
}

// NewCatalogStore creates a new CatalogStore.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{
		db:      db,
		recipes: NewRecipeStore(db),
		prices:  NewPriceStore(db),
	}
}

// Load reads the stored catalog.
func (s *CatalogStore) Load(ctx context.Context) (*crafting.Catalog, error) {
	book, err := s.recipes.GetAllRecipes(ctx)
	if err != nil {
		return nil, err
	}
	table, err := s.prices.GetPriceTable(ctx)
	if err != nil {
		return nil, err
	}
	if len(book) == 0 && len(table.Categories) == 0 {
		return nil, ErrNoCatalog
	}
	perms, err := s.permissions(ctx)
	if err != nil {
		return nil, err
	}

	return &crafting.Catalog{Recipes: book, Prices: table, Permissions: perms}, nil
}

func (s *CatalogStore) permissions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role_id FROM permissions ORDER BY role_id`)
	if err != nil {
		return nil, fmt.Errorf("querying permissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning permission: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Replace swaps the stored catalog for c in one transaction.
func (s *CatalogStore) Replace(ctx context.Context, c *crafting.Catalog) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		// Foreign keys cascade to recipe_materials and prices.
		for _, table := range []string{"recipes", "price_categories", "permissions"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		if err := insertRecipes(ctx, tx, c.Recipes); err != nil {
			return err
		}
		if err := insertPrices(ctx, tx, c.Prices); err != nil {
			return err
		}
		for _, id := range c.Permissions {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO permissions (role_id) VALUES (?)`, id); err != nil {
				return fmt.Errorf("inserting permission %s: %w", id, err)
			}
		}
		return nil
	})
}
