package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"souschef/internal/domain"
)

// FetchPrices estimates grocery cost for the ingredients using live
// search grounding. The grounding chunks become citations, kept in the
// order the search returned them. Search grounding cannot be combined
// with a response schema, so the summary is free text.
func (c *Client) FetchPrices(ctx context.Context, ingredients []string) (*domain.PriceSearchResult, error) {
	if len(ingredients) == 0 {
		return nil, domain.ErrNoIngredients
	}

	var b strings.Builder
	b.WriteString(promptPrices)
	b.WriteString("\n\nIngredients:\n")
	for _, ing := range ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}

	resp, err := c.generate(ctx, searchModel, genai.Text(b.String()), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: fetching prices: %w", err)
	}

	result := &domain.PriceSearchResult{
		Summary: strings.TrimSpace(resp.Text()),
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("gemini: empty price summary")
	}

	result.Citations = extractCitations(resp)
	c.log.Info("gemini: price summary with %d citations", len(result.Citations))
	return result, nil
}

// extractCitations pulls web sources out of the grounding metadata,
// preserving order and dropping duplicate URIs.
func extractCitations(resp *genai.GenerateContentResponse) []domain.Citation {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []domain.Citation
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		out = append(out, domain.Citation{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}
	return out
}
