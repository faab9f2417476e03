package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GetSubstitution suggests a replacement for one ingredient in the
// context of the named recipe. The answer is a single advisory sentence.
func (c *Client) GetSubstitution(ctx context.Context, ingredient, recipeTitle string) (string, error) {
	if ingredient == "" {
		return "", fmt.Errorf("gemini: empty ingredient")
	}

	prompt := fmt.Sprintf("%s\n\nRecipe: %s\nIngredient to replace: %s", promptSubstitution, recipeTitle, ingredient)

	resp, err := c.generate(ctx, textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: getting substitution: %w", err)
	}

	answer := strings.TrimSpace(stripCodeFence(resp.Text()))
	if answer == "" {
		return "", fmt.Errorf("gemini: empty substitution answer")
	}

	c.log.Debug("gemini: substitution for %q: %s", ingredient, truncate(answer, 80))
	return answer, nil
}
