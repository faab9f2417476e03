package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"souschef/internal/domain"
)

// GenerateRecipe produces a complete recipe from the ingredient list,
// honoring the profile's constraints. A response that does not conform to
// the recipe schema is a failure of the call, never silently coerced.
func (c *Client) GenerateRecipe(ctx context.Context, ingredients []string, profile *domain.UserProfile) (*domain.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, domain.ErrNoIngredients
	}

	var b strings.Builder
	b.WriteString(promptRecipe)
	b.WriteString("\n\nIngredients on hand:\n")
	for _, ing := range ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}
	writeProfileConstraints(&b, profile)

	c.log.Debug("gemini: generating recipe from %d ingredients", len(ingredients))

	resp, err := c.generate(ctx, textModel, genai.Text(b.String()), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recipeSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generating recipe: %w", err)
	}

	raw := stripCodeFence(resp.Text())
	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		c.log.Error("gemini: recipe response did not parse: %v\nraw: %s", err, truncate(raw, 300))
		return nil, fmt.Errorf("gemini: malformed recipe response: %w", err)
	}
	if recipe.Title == "" || len(recipe.Instructions) == 0 {
		return nil, fmt.Errorf("gemini: incomplete recipe response (title=%q, %d steps)", recipe.Title, len(recipe.Instructions))
	}

	c.log.Info("gemini: recipe %q (%d ingredients, %d steps)", recipe.Title, len(recipe.Ingredients), len(recipe.Instructions))
	return &recipe, nil
}

// writeProfileConstraints appends the profile-derived rules to a prompt.
// Allergies are phrased as hard exclusions; the rest as preferences.
func writeProfileConstraints(b *strings.Builder, profile *domain.UserProfile) {
	if profile == nil {
		return
	}
	if len(profile.Allergies) > 0 {
		fmt.Fprintf(b, "\nThe cook is ALLERGIC to: %s. These and anything derived from them must not appear anywhere in the recipe.\n",
			strings.Join(profile.Allergies, ", "))
	}
	if len(profile.DietaryRestrictions) > 0 {
		fmt.Fprintf(b, "Dietary restrictions to respect: %s.\n", strings.Join(profile.DietaryRestrictions, ", "))
	}
	if len(profile.CuisinePreferences) > 0 {
		fmt.Fprintf(b, "Preferred cuisines, when they fit the ingredients: %s.\n", strings.Join(profile.CuisinePreferences, ", "))
	}
}
