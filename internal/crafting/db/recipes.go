package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// RecipeStore handles recipe data access.
type RecipeStore struct {
	db *DB
}

// NewRecipeStore creates a new RecipeStore.
func NewRecipeStore(db *DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// GetRecipe retrieves a single recipe with its materials in source order.
// It returns nil when the item has no recipe.
func (s *RecipeStore) GetRecipe(ctx context.Context, item string) (*crafting.Recipe, error) {
	recipe := &crafting.Recipe{Item: item}

	err := s.db.QueryRowContext(ctx, `SELECT yield FROM recipes WHERE item = ?`, item).Scan(&recipe.Yield)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying recipe: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT material, quantity
		FROM recipe_materials
		WHERE item = ?
		ORDER BY position
	`, item)
	if err != nil {
		return nil, fmt.Errorf("querying recipe materials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var m crafting.Material
		if err := rows.Scan(&m.Name, &m.Quantity); err != nil {
			return nil, fmt.Errorf("scanning material: %w", err)
		}
		recipe.Materials = append(recipe.Materials, m)
	}

	return recipe, rows.Err()
}

// GetAllRecipes loads every recipe into a RecipeBook.
func (s *RecipeStore) GetAllRecipes(ctx context.Context) (crafting.RecipeBook, error) {
	book := make(crafting.RecipeBook)

	rows, err := s.db.QueryContext(ctx, `SELECT item, yield FROM recipes`)
	if err != nil {
		return nil, fmt.Errorf("querying all recipes: %w", err)
	}
	for rows.Next() {
		var r crafting.Recipe
		if err := rows.Scan(&r.Item, &r.Yield); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		book[r.Item] = r
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT item, material, quantity
		FROM recipe_materials
		ORDER BY item, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying all recipe materials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item string
		var m crafting.Material
		if err := rows.Scan(&item, &m.Name, &m.Quantity); err != nil {
			return nil, fmt.Errorf("scanning material: %w", err)
		}
		r := book[item]
		r.Materials = append(r.Materials, m)
		book[item] = r
	}

	return book, rows.Err()
}

// FindRecipesUsing returns the items whose recipe consumes material.
func (s *RecipeStore) FindRecipesUsing(ctx context.Context, material string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT item
		FROM recipe_materials
		WHERE material = ?
		ORDER BY item
	`, material)
	if err != nil {
		return nil, fmt.Errorf("finding recipes using item: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []string
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// CountRecipes returns the total number of recipes.
func (s *RecipeStore) CountRecipes(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting recipes: %w", err)
	}
	return count, nil
}

// insertRecipes writes book inside tx. Items are written in lexical order.
func insertRecipes(ctx context.Context, tx *sql.Tx, book crafting.RecipeBook) error {
	recipeStmt, err := tx.PrepareContext(ctx, `INSERT INTO recipes (item, yield) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing recipe statement: %w", err)
	}
	defer func() { _ = recipeStmt.Close() }()

	matStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipe_materials (item, position, material, quantity)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing material statement: %w", err)
	}
	defer func() { _ = matStmt.Close() }()

	for _, item := range book.Items() {
		r := book[item]
		if _, err := recipeStmt.ExecContext(ctx, item, r.Yield); err != nil {
			return fmt.Errorf("inserting recipe %s: %w", item, err)
		}
		for i, m := range r.Materials {
			if _, err := matStmt.ExecContext(ctx, item, i, m.Name, m.Quantity); err != nil {
				return fmt.Errorf("inserting material for %s: %w", item, err)
			}
		}
	}

	return nil
}
