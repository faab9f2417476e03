package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"souschef/internal/domain"
)

// shoppingCategoryWire matches shoppingListSchema; items arrive as bare
// strings and become unchecked ShoppingItems.
type shoppingCategoryWire struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// GenerateShoppingList builds a categorized list for the ingredients,
// leaving out the given pantry staples.
func (c *Client) GenerateShoppingList(ctx context.Context, ingredients, staples []string) ([]domain.ShoppingCategory, error) {
	if len(ingredients) == 0 {
		return nil, domain.ErrNoIngredients
	}

	var b strings.Builder
	b.WriteString(promptShopping)
	b.WriteString("\n\nIngredients:\n")
	for _, ing := range ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}
	if len(staples) > 0 {
		fmt.Fprintf(&b, "\nExclude these staples: %s\n", strings.Join(staples, ", "))
	}

	resp, err := c.generate(ctx, textModel, genai.Text(b.String()), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   shoppingListSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generating shopping list: %w", err)
	}

	raw := stripCodeFence(resp.Text())
	var wire []shoppingCategoryWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		c.log.Error("gemini: shopping list did not parse: %v\nraw: %s", err, truncate(raw, 300))
		return nil, fmt.Errorf("gemini: malformed shopping list response: %w", err)
	}

	out := make([]domain.ShoppingCategory, 0, len(wire))
	for _, w := range wire {
		if w.Category == "" || len(w.Items) == 0 {
			continue
		}
		cat := domain.ShoppingCategory{Name: w.Category}
		for _, item := range w.Items {
			if item = strings.TrimSpace(item); item != "" {
				cat.Items = append(cat.Items, domain.ShoppingItem{Name: item})
			}
		}
		out = append(out, cat)
	}

	c.log.Info("gemini: shopping list with %d categories", len(out))
	return out, nil
}
