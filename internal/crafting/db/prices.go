package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// PriceStore handles price table data access.
type PriceStore struct {
	db *DB
}

// NewPriceStore creates a new PriceStore.
func NewPriceStore(db *DB) *PriceStore {
	return &PriceStore{db: db}
}

// GetPriceTable loads all price categories in their stored order.
func (s *PriceStore) GetPriceTable(ctx context.Context) (crafting.PriceTable, error) {
	var table crafting.PriceTable

	rows, err := s.db.QueryContext(ctx, `SELECT position, name, kind FROM price_categories ORDER BY position`)
	if err != nil {
		return table, fmt.Errorf("querying price categories: %w", err)
	}
	index := make(map[int]int)
	for rows.Next() {
		var (
			pos  int
			name string
			kind string
		)
		if err := rows.Scan(&pos, &name, &kind); err != nil {
			_ = rows.Close()
			return table, fmt.Errorf("scanning price category: %w", err)
		}
		cat := crafting.PriceCategory{Name: name}
		switch kind {
		case crafting.CategoryFlat.String():
			cat.Kind = crafting.CategoryFlat
			cat.Flat = make(map[string]float64)
		case crafting.CategoryRange.String():
			cat.Kind = crafting.CategoryRange
			cat.Range = make(map[string]crafting.PriceRange)
		default:
			_ = rows.Close()
			return table, fmt.Errorf("unknown price category kind %q", kind)
		}
		index[pos] = len(table.Categories)
		table.Categories = append(table.Categories, cat)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return table, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT category_position, item, min_price, max_price FROM prices`)
	if err != nil {
		return table, fmt.Errorf("querying prices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			pos  int
			item string
			lo   float64
			hi   sql.NullFloat64
		)
		if err := rows.Scan(&pos, &item, &lo, &hi); err != nil {
			return table, fmt.Errorf("scanning price: %w", err)
		}
		i, ok := index[pos]
		if !ok {
			continue
		}
		cat := &table.Categories[i]
		switch cat.Kind {
		case crafting.CategoryFlat:
			cat.Flat[item] = lo
		case crafting.CategoryRange:
			r := crafting.PriceRange{Min: lo}
			if hi.Valid {
				v := hi.Float64
				r.Max = &v
			}
			cat.Range[item] = r
		}
	}

	return table, rows.Err()
}

// CountPrices returns the total number of price entries.
func (s *PriceStore) CountPrices(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prices`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting prices: %w", err)
	}
	return count, nil
}

// insertPrices writes table inside tx, numbering categories by slice position.
func insertPrices(ctx context.Context, tx *sql.Tx, table crafting.PriceTable) error {
	catStmt, err := tx.PrepareContext(ctx, `INSERT INTO price_categories (position, name, kind) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing category statement: %w", err)
	}
	defer func() { _ = catStmt.Close() }()

	priceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prices (category_position, item, min_price, max_price)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing price statement: %w", err)
	}
	defer func() { _ = priceStmt.Close() }()

	for pos, cat := range table.Categories {
		if _, err := catStmt.ExecContext(ctx, pos, cat.Name, cat.Kind.String()); err != nil {
			return fmt.Errorf("inserting category %s: %w", cat.Name, err)
		}
		switch cat.Kind {
		case crafting.CategoryFlat:
			for item, v := range cat.Flat {
				if _, err := priceStmt.ExecContext(ctx, pos, item, v, v); err != nil {
					return fmt.Errorf("inserting price for %s: %w", item, err)
				}
			}
		case crafting.CategoryRange:
			for item, r := range cat.Range {
				var hi sql.NullFloat64
				if r.Max != nil {
					hi = sql.NullFloat64{Float64: *r.Max, Valid: true}
				}
				if _, err := priceStmt.ExecContext(ctx, pos, item, r.Min, hi); err != nil {
					return fmt.Errorf("inserting price for %s: %w", item, err)
				}
			}
		default:
			return fmt.Errorf("category %s has unknown kind %d", cat.Name, cat.Kind)
		}
	}

	return nil
}
