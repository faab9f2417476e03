package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"souschef/internal/retry"
)

// GenerateDishImage renders a photo of the finished dish. The image is
// purely advisory: a model that returns nothing yields (nil, nil) and the
// caller shows no image.
func (c *Client) GenerateDishImage(ctx context.Context, title, description string) ([]byte, error) {
	prompt := fmt.Sprintf("%s\n\nDish: %s\n%s", promptImage, title, description)

	resp, err := retry.Do(ctx, func(ctx context.Context) (*genai.GenerateImagesResponse, error) {
		return c.genai.Models.GenerateImages(ctx, imageModel, prompt, &genai.GenerateImagesConfig{
			NumberOfImages: 1,
		})
	},
		retry.WithMaxRetries(c.maxRetries),
		retry.WithRetryable(retryable),
		retry.WithLogger(c.log),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: generating dish image: %w", err)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		c.log.Debug("gemini: image model returned nothing for %q", title)
		return nil, nil
	}

	img := resp.GeneratedImages[0].Image.ImageBytes
	c.log.Info("gemini: dish image for %q (%d bytes)", title, len(img))
	return img, nil
}
