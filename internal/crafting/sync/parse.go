package sync

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// ErrInvalidCatalog is returned for documents that are not a JSON object.
var ErrInvalidCatalog = errors.New("invalid catalog document")

// Top-level and nested keys, Portuguese name first, English alias second.
var (
	recipesKeys   = []string{"receitas_crafting", "recipes"}
	pricesKeys    = []string{"precos", "prices"}
	yieldKeys     = []string{"produz", "produces_per_craft", "yield"}
	materialsKeys = []string{"materiais", "materials"}
	nameKeys      = []string{"nome", "name"}
	quantityKeys  = []string{"quantidade", "quantity"}
)

func first(v gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// ParseCatalog reads a catalog document. Price categories keep the order in
// which they appear in the document; a category holding both a "min" and a
// "range" mapping yields two categories, flat first. Malformed entries are
// skipped.
func ParseCatalog(data []byte) (*crafting.Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidCatalog)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidCatalog)
	}

	c := &crafting.Catalog{
		Recipes: parseRecipes(first(root, recipesKeys)),
		Prices:  parsePrices(first(root, pricesKeys)),
	}
	root.Get("permission").ForEach(func(_, v gjson.Result) bool {
		if id := v.String(); id != "" {
			c.Permissions = append(c.Permissions, id)
		}
		return true
	})
	return c, nil
}

func parseRecipes(v gjson.Result) crafting.RecipeBook {
	book := make(crafting.RecipeBook)
	v.ForEach(func(key, r gjson.Result) bool {
		if !r.IsObject() {
			return true
		}
		recipe := crafting.Recipe{
			Item:  key.String(),
			Yield: first(r, yieldKeys).Float(),
		}
		first(r, materialsKeys).ForEach(func(_, m gjson.Result) bool {
			name := first(m, nameKeys).String()
			if name == "" {
				return true
			}
			recipe.Materials = append(recipe.Materials, crafting.Material{
				Name:     name,
				Quantity: first(m, quantityKeys).Float(),
			})
			return true
		})
		book[recipe.Item] = recipe
		return true
	})
	return book
}

func parsePrices(v gjson.Result) crafting.PriceTable {
	var table crafting.PriceTable
	v.ForEach(func(key, cat gjson.Result) bool {
		if !cat.IsObject() {
			return true
		}
		name := key.String()

		if flat := cat.Get("min"); flat.IsObject() {
			c := crafting.PriceCategory{Name: name, Kind: crafting.CategoryFlat, Flat: make(map[string]float64)}
			flat.ForEach(func(item, price gjson.Result) bool {
				if price.Type == gjson.Number {
					c.Flat[item.String()] = price.Float()
				}
				return true
			})
			table.Categories = append(table.Categories, c)
		}

		if ranged := cat.Get("range"); ranged.IsObject() {
			c := crafting.PriceCategory{Name: name, Kind: crafting.CategoryRange, Range: make(map[string]crafting.PriceRange)}
			ranged.ForEach(func(item, price gjson.Result) bool {
				lo := price.Get("min")
				if lo.Type != gjson.Number {
					return true
				}
				r := crafting.PriceRange{Min: lo.Float()}
				if hi := price.Get("max"); hi.Type == gjson.Number {
					v := hi.Float()
					r.Max = &v
				}
				c.Range[item.String()] = r
				return true
			})
			table.Categories = append(table.Categories, c)
		}
		return true
	})
	return table
}
