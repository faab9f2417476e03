package domain

import "context"

// Generator is the single gateway to the generative backend. Every call is
// subject to the caller's context; implementations own their retry policy.
type Generator interface {
	// DetectIngredients names the food items visible in an image.
	DetectIngredients(ctx context.Context, image []byte, mimeType string) ([]string, error)
	// GenerateRecipe produces a complete recipe from the given ingredients,
	// honoring the profile's restrictions and preferences.
	GenerateRecipe(ctx context.Context, ingredients []string, profile *UserProfile) (*Recipe, error)
	// FetchPrices estimates grocery cost for the ingredients using live web
	// grounding and reports the sources consulted.
	FetchPrices(ctx context.Context, ingredients []string) (*PriceSearchResult, error)
	// GenerateDishImage renders a photo of the finished dish. A nil slice
	// with a nil error means the backend produced nothing.
	GenerateDishImage(ctx context.Context, title, description string) ([]byte, error)
	// SynthesizeSpeech converts text to raw 16-bit signed PCM, mono, 24 kHz.
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
	// GenerateShoppingList builds a categorized list for the ingredients,
	// leaving out the caller's pantry staples.
	GenerateShoppingList(ctx context.Context, ingredients, staples []string) ([]ShoppingCategory, error)
	// GetSubstitution suggests a replacement for one ingredient in the
	// context of the named recipe.
	GetSubstitution(ctx context.Context, ingredient, recipeTitle string) (string, error)
}

// Notifier delivers messages to the user. Implementations can write to
// the terminal or pipe through text-to-speech.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Speaker voices assistant output. The no-op implementation is used when
// voice output is disabled or no audio device exists.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Interrupt()
}

// Recognizer streams spoken utterances to a callback supplied at
// construction. Available reports whether the capability actually works
// on this machine; callers treat an unavailable recognizer as absent and
// degrade silently.
type Recognizer interface {
	Start(ctx context.Context) error
	Stop() error
	Available() bool
}
