// Package gemini is the generation gateway: ingredient vision, recipe and
// shopping-list synthesis, grounded price search, dish images, speech.
// Every network call funnels through the retry wrapper with the same
// transient-error classifier; callers never retry themselves.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"souschef/internal/domain"
	"souschef/internal/logger"
	"souschef/internal/retry"
)

// Compile-time interface check.
var _ domain.Generator = (*Client)(nil)

// One model per concern. Text covers recipes, lists, and substitutions;
// the rest are specialized.
const (
	textModel   = "gemini-2.5-flash"
	visionModel = "gemini-2.5-flash"
	searchModel = "gemini-2.5-flash"
	imageModel  = "imagen-3.0-generate-002"
	ttsModel    = "gemini-2.5-flash-preview-tts"
)

// Option configures the Client.
type Option func(*Client)

// WithMaxRetries overrides the per-call retry budget.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithVoice overrides the prebuilt TTS voice.
func WithVoice(name string) Option {
	return func(c *Client) { c.voice = name }
}

// Client talks to the Gemini API.
type Client struct {
	genai      *genai.Client
	log        *logger.Logger
	maxRetries int
	voice      string
}

// New creates a Gemini-backed generator.
func New(ctx context.Context, apiKey string, log *logger.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is empty")
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	c := &Client{
		genai:      gc,
		log:        log,
		maxRetries: 3,
		voice:      "Kore",
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Voice returns the configured TTS voice name.
func (c *Client) Voice() string { return c.voice }

// retryable reports whether a failed call is worth another attempt:
// rate limiting or transient server trouble. Everything else — bad
// requests, blocked content, auth — fails immediately.
func retryable(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// generate runs one GenerateContent call under the retry policy.
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return retry.Do(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return c.genai.Models.GenerateContent(ctx, model, contents, config)
	},
		retry.WithMaxRetries(c.maxRetries),
		retry.WithRetryable(retryable),
		retry.WithLogger(c.log),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
