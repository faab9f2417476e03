// Package domain defines the core types and interfaces for the sous-chef
// assistant. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// IngredientRef is a single ingredient line of a recipe. Name is the plain
// ingredient ("chicken thighs"), Quantity the human amount ("500 g"), and
// Details an optional preparation note ("boneless, diced").
type IngredientRef struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Details  string `json:"details,omitempty"`
}

// UnmarshalJSON accepts either the structured object form or a bare string
// ("2 cloves garlic"), which older saved libraries and loosely-followed
// model schemas still produce. A bare string becomes the Name verbatim.
func (i *IngredientRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = IngredientRef{Name: strings.TrimSpace(s)}
		return nil
	}

	type ref IngredientRef
	var r ref
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*i = IngredientRef(r)
	return nil
}

// NutritionInfo holds per-serving estimates.
type NutritionInfo struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Recipe is a complete generated recipe. Recipes are value objects: once
// produced they are never mutated, only replaced.
type Recipe struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Ingredients  []IngredientRef `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	PrepTime     string          `json:"prepTime"`
	CookTime     string          `json:"cookTime"`
	Servings     int             `json:"servings"`
	Cuisine      string          `json:"cuisine,omitempty"`
	SourceURL    string          `json:"sourceUrl,omitempty"`
	Nutrition    NutritionInfo   `json:"nutrition"`
}

// Clone returns a deep copy, so callers can derive a variant without
// aliasing the slices of the original.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Ingredients = append([]IngredientRef(nil), r.Ingredients...)
	cp.Instructions = append([]string(nil), r.Instructions...)
	return &cp
}

// IngredientNames returns just the names, in recipe order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// SavedRecipe is a library entry: a recipe snapshot plus user metadata.
type SavedRecipe struct {
	ID        string    `json:"id"`
	Recipe    Recipe    `json:"recipe"`
	Category  string    `json:"category,omitempty"`
	Rating    int       `json:"rating,omitempty"` // 0 = unrated, 1..5 stars
	ImagePath string    `json:"imagePath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Citation points at a web source consulted during a grounded price search.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// PriceSearchResult is the outcome of a grounded price lookup: a textual
// cost summary plus the sources it was derived from, in the order the
// search returned them.
type PriceSearchResult struct {
	Summary   string     `json:"summary"`
	Citations []Citation `json:"citations,omitempty"`
}

// ShoppingItem is one line of a shopping list. Checked is checkoff state
// local to the current list; it is never persisted.
type ShoppingItem struct {
	Name    string `json:"name"`
	Checked bool   `json:"-"`
}

// ShoppingCategory groups shopping items under a store aisle heading.
type ShoppingCategory struct {
	Name  string         `json:"category"`
	Items []ShoppingItem `json:"items"`
}
