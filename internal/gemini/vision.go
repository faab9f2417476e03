package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// DetectIngredients names the food items visible in an image, most
// prominent first. Detection is best-effort by contract: if the model
// ignores the schema, the raw text is comma-split rather than failing
// the scan.
func (c *Client) DetectIngredients(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("gemini: empty image")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(promptDetect),
		}, genai.RoleUser),
	}

	resp, err := c.generate(ctx, visionModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ingredientNamesSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: detecting ingredients: %w", err)
	}

	raw := stripCodeFence(resp.Text())

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		c.log.Warn("gemini: ingredient list did not parse as JSON, falling back to comma split: %v", err)
		names = splitList(raw)
	}

	c.log.Info("gemini: detected %d ingredients", len(names))
	return names, nil
}
