// Package chef is the synthesis orchestrator. It owns the active recipe:
// the joined recipe+price generation, the background dish image, the
// shopping list, and the per-recipe substitution cache.
package chef

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// commonStaples are assumed present in any kitchen and never shopped for,
// on top of whatever the profile lists.
var commonStaples = []string{
	"salt", "pepper", "black pepper", "water",
	"oil", "cooking oil", "vegetable oil", "olive oil",
}

// Option configures the Chef.
type Option func(*Chef)

// WithImageListener registers a callback invoked when a dish image
// arrives, possibly long after generation finished. Called without locks.
func WithImageListener(fn func(image []byte)) Option {
	return func(c *Chef) { c.onImage = fn }
}

// Chef orchestrates generation and holds the active-recipe state.
// Safe for concurrent use.
type Chef struct {
	gen     domain.Generator
	log     *logger.Logger
	onImage func([]byte)

	mu          sync.Mutex
	recipe      *domain.Recipe
	prices      *domain.PriceSearchResult
	image       []byte
	generation  int // bumped per successful Generate; stale image results are discarded
	subs        map[string]string
	subInFlight bool
}

// New creates a chef over the given generator.
func New(gen domain.Generator, log *logger.Logger, opts ...Option) *Chef {
	c := &Chef{
		gen:  gen,
		log:  log,
		subs: make(map[string]string),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate turns detected ingredients plus the profile's custom ones into
// a recipe and a price summary. The two calls run concurrently and the
// result is both-or-neither: either failure discards all interim state
// and surfaces one error, with the recipe failure taking precedence when
// both fail. Dish-image synthesis starts after success and lands whenever
// it lands.
func (c *Chef) Generate(ctx context.Context, detected []string, profile *domain.UserProfile) (*domain.Recipe, *domain.PriceSearchResult, error) {
	var custom []string
	if profile != nil {
		custom = profile.CustomIngredients
	}
	ingredients := mergeIngredients(detected, custom)
	if len(ingredients) == 0 {
		return nil, nil, domain.ErrNoIngredients
	}

	c.log.Info("chef: generating from %d ingredients", len(ingredients))

	type recipeOut struct {
		recipe *domain.Recipe
		err    error
	}
	type priceOut struct {
		prices *domain.PriceSearchResult
		err    error
	}

	recipeCh := make(chan recipeOut, 1)
	priceCh := make(chan priceOut, 1)

	go func() {
		r, err := c.gen.GenerateRecipe(ctx, ingredients, profile)
		recipeCh <- recipeOut{r, err}
	}()
	go func() {
		p, err := c.gen.FetchPrices(ctx, ingredients)
		priceCh <- priceOut{p, err}
	}()

	r := <-recipeCh
	p := <-priceCh

	if r.err != nil {
		return nil, nil, fmt.Errorf("generating recipe: %w", r.err)
	}
	if p.err != nil {
		return nil, nil, fmt.Errorf("looking up prices: %w", p.err)
	}

	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.recipe = r.recipe
	c.prices = p.prices
	c.image = nil
	c.subs = make(map[string]string)
	c.subInFlight = false
	c.mu.Unlock()

	// The image is not part of the join: it runs on past this call's
	// lifetime and is discarded if another recipe lands first.
	go c.fetchImage(context.WithoutCancel(ctx), generation, r.recipe)

	c.log.Info("chef: recipe %q ready", r.recipe.Title)
	return r.recipe, p.prices, nil
}

// fetchImage renders the dish photo in the background. Failures degrade
// silently; a result for a superseded recipe is dropped.
func (c *Chef) fetchImage(ctx context.Context, generation int, recipe *domain.Recipe) {
	img, err := c.gen.GenerateDishImage(ctx, recipe.Title, recipe.Description)
	if err != nil {
		c.log.Warn("chef: dish image failed (keeping going without one): %v", err)
		return
	}
	if len(img) == 0 {
		return
	}

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		c.log.Debug("chef: discarding stale dish image for %q", recipe.Title)
		return
	}
	c.image = img
	cb := c.onImage
	c.mu.Unlock()

	if cb != nil {
		cb(img)
	}
}

// Active returns the current recipe and its price summary, or nils when
// nothing has been generated yet.
func (c *Chef) Active() (*domain.Recipe, *domain.PriceSearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recipe, c.prices
}

// SetActive replaces the active recipe without generation, e.g. when the
// user opens a saved one. Clears the price summary, image, and
// substitution cache, which all belonged to the previous recipe.
func (c *Chef) SetActive(recipe *domain.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.recipe = recipe
	c.prices = nil
	c.image = nil
	c.subs = make(map[string]string)
	c.subInFlight = false
}

// DishImage returns the rendered dish photo, or nil while absent.
func (c *Chef) DishImage() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image
}

// ShoppingList regenerates the categorized list for the active recipe
// from scratch. Pantry staples from the profile and the built-in staples
// never make the list, even if the model slips one through.
func (c *Chef) ShoppingList(ctx context.Context, profile *domain.UserProfile) ([]domain.ShoppingCategory, error) {
	recipe, _ := c.Active()
	if recipe == nil {
		return nil, domain.ErrNoActiveRecipe
	}

	staples := append([]string(nil), commonStaples...)
	if profile != nil {
		staples = mergeIngredients(staples, profile.PantryStaples)
	}

	list, err := c.gen.GenerateShoppingList(ctx, recipe.IngredientNames(), staples)
	if err != nil {
		return nil, fmt.Errorf("generating shopping list: %w", err)
	}
	return filterStaples(list, staples), nil
}

// filterStaples drops list items that name a staple, along with any
// category left empty by the removal.
func filterStaples(list []domain.ShoppingCategory, staples []string) []domain.ShoppingCategory {
	var out []domain.ShoppingCategory
	for _, cat := range list {
		var kept []domain.ShoppingItem
		for _, item := range cat.Items {
			if !isStaple(item.Name, staples) {
				kept = append(kept, item)
			}
		}
		if len(kept) > 0 {
			out = append(out, domain.ShoppingCategory{Name: cat.Name, Items: kept})
		}
	}
	return out
}

func isStaple(name string, staples []string) bool {
	for _, s := range staples {
		if strings.EqualFold(strings.TrimSpace(name), s) {
			return true
		}
	}
	return false
}

// Substitute suggests a replacement for one ingredient of the active
// recipe. One lookup may be in flight at a time for the whole session;
// answers are cached per ingredient name until the recipe changes.
func (c *Chef) Substitute(ctx context.Context, ingredient string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(ingredient))
	if key == "" {
		return "", fmt.Errorf("empty ingredient")
	}

	c.mu.Lock()
	if c.recipe == nil {
		c.mu.Unlock()
		return "", domain.ErrNoActiveRecipe
	}
	if cached, ok := c.subs[key]; ok {
		c.mu.Unlock()
		c.log.Debug("chef: substitution for %q served from cache", ingredient)
		return cached, nil
	}
	if c.subInFlight {
		c.mu.Unlock()
		return "", domain.ErrSubstitutionBusy
	}
	c.subInFlight = true
	generation := c.generation
	title := c.recipe.Title
	c.mu.Unlock()

	answer, err := c.gen.GetSubstitution(ctx, ingredient, title)

	c.mu.Lock()
	c.subInFlight = false
	if err == nil && c.generation == generation {
		c.subs[key] = answer
	}
	c.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("getting substitution: %w", err)
	}
	return answer, nil
}

// mergeIngredients unions two lists, preserving first-seen order and
// dropping case-insensitive duplicates and blanks.
func mergeIngredients(a, b []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{a, b} {
		for _, ing := range list {
			ing = strings.TrimSpace(ing)
			key := strings.ToLower(ing)
			if ing == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, ing)
		}
	}
	return out
}
