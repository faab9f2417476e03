package chef

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// fakeGenerator implements domain.Generator with overridable funcs and
// call counting.
type fakeGenerator struct {
	mu         sync.Mutex
	recipeFn   func(ctx context.Context, ingredients []string, profile *domain.UserProfile) (*domain.Recipe, error)
	pricesFn   func(ctx context.Context, ingredients []string) (*domain.PriceSearchResult, error)
	imageFn    func(ctx context.Context, title, description string) ([]byte, error)
	shoppingFn func(ctx context.Context, ingredients, staples []string) ([]domain.ShoppingCategory, error)
	subFn      func(ctx context.Context, ingredient, recipeTitle string) (string, error)

	recipeCalls int
	priceCalls  int
	imageCalls  int
	subCalls    int
}

func (f *fakeGenerator) DetectIngredients(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	return nil, domain.ErrUnavailable
}

func (f *fakeGenerator) GenerateRecipe(ctx context.Context, ingredients []string, profile *domain.UserProfile) (*domain.Recipe, error) {
	f.mu.Lock()
	f.recipeCalls++
	fn := f.recipeFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, ingredients, profile)
	}
	return &domain.Recipe{
		Title:        "Fake Stew",
		Description:  "A stew.",
		Instructions: []string{"Cook it."},
	}, nil
}

func (f *fakeGenerator) FetchPrices(ctx context.Context, ingredients []string) (*domain.PriceSearchResult, error) {
	f.mu.Lock()
	f.priceCalls++
	fn := f.pricesFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, ingredients)
	}
	return &domain.PriceSearchResult{Summary: "About $12."}, nil
}

func (f *fakeGenerator) GenerateDishImage(ctx context.Context, title, description string) ([]byte, error) {
	f.mu.Lock()
	f.imageCalls++
	fn := f.imageFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, title, description)
	}
	return nil, nil
}

func (f *fakeGenerator) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	return nil, nil
}

func (f *fakeGenerator) GenerateShoppingList(ctx context.Context, ingredients, staples []string) ([]domain.ShoppingCategory, error) {
	if f.shoppingFn != nil {
		return f.shoppingFn(ctx, ingredients, staples)
	}
	return nil, nil
}

func (f *fakeGenerator) GetSubstitution(ctx context.Context, ingredient, recipeTitle string) (string, error) {
	f.mu.Lock()
	f.subCalls++
	fn := f.subFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, ingredient, recipeTitle)
	}
	return "Use shallots instead.", nil
}

func newTestChef(gen *fakeGenerator, opts ...Option) *Chef {
	return New(gen, logger.New(logger.LevelOff, nil), opts...)
}

func TestGenerateRejectsEmptyIngredients(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestChef(gen)

	tests := []struct {
		name     string
		detected []string
		profile  *domain.UserProfile
	}{
		{"all empty", nil, nil},
		{"blank strings", []string{"", "  "}, &domain.UserProfile{}},
		{"nil profile", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.Generate(context.Background(), tt.detected, tt.profile)
			if !errors.Is(err, domain.ErrNoIngredients) {
				t.Errorf("error = %v, want ErrNoIngredients", err)
			}
		})
	}

	if gen.recipeCalls != 0 || gen.priceCalls != 0 {
		t.Error("generator was called despite the empty-ingredient rejection")
	}
}

func TestGenerateMergesProfileIngredients(t *testing.T) {
	gen := &fakeGenerator{}
	var got []string
	gen.recipeFn = func(ctx context.Context, ingredients []string, profile *domain.UserProfile) (*domain.Recipe, error) {
		got = ingredients
		return &domain.Recipe{Title: "T", Instructions: []string{"s"}}, nil
	}
	c := newTestChef(gen)

	profile := &domain.UserProfile{CustomIngredients: []string{"Garlic", "soy sauce"}}
	_, _, err := c.Generate(context.Background(), []string{"chicken", "garlic"}, profile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []string{"chicken", "garlic", "soy sauce"}
	if len(got) != len(want) {
		t.Fatalf("ingredients = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ingredients = %v, want %v", got, want)
			break
		}
	}
}

func TestGenerateBothOrNeither(t *testing.T) {
	recipeErr := errors.New("recipe model down")
	priceErr := errors.New("search down")

	tests := []struct {
		name      string
		recipeErr error
		priceErr  error
		wantErr   error
	}{
		{"recipe fails", recipeErr, nil, recipeErr},
		{"prices fail", nil, priceErr, priceErr},
		{"both fail, recipe error wins", recipeErr, priceErr, recipeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			if tt.recipeErr != nil {
				gen.recipeFn = func(context.Context, []string, *domain.UserProfile) (*domain.Recipe, error) {
					return nil, tt.recipeErr
				}
			}
			if tt.priceErr != nil {
				gen.pricesFn = func(context.Context, []string) (*domain.PriceSearchResult, error) {
					return nil, tt.priceErr
				}
			}

			c := newTestChef(gen)
			recipe, prices, err := c.Generate(context.Background(), []string{"rice"}, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if recipe != nil || prices != nil {
				t.Error("partial result returned alongside a failure")
			}
			if r, p := c.Active(); r != nil || p != nil {
				t.Error("failed generation left active state behind")
			}
		})
	}
}

func TestGenerateJoinSuccess(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestChef(gen)

	recipe, prices, err := c.Generate(context.Background(), []string{"rice", "beans"}, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if recipe == nil || prices == nil {
		t.Fatal("missing half of the joined result")
	}

	r, p := c.Active()
	if r != recipe || p != prices {
		t.Error("active state does not match returned pair")
	}
}

func TestDishImageArrivesLate(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{}
	gen.imageFn = func(ctx context.Context, title, description string) ([]byte, error) {
		<-release
		return []byte{0xFF, 0xD8}, nil
	}

	delivered := make(chan []byte, 1)
	c := newTestChef(gen, WithImageListener(func(img []byte) { delivered <- img }))

	if _, _, err := c.Generate(context.Background(), []string{"rice"}, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if img := c.DishImage(); img != nil {
		t.Error("image present before synthesis finished")
	}

	close(release)
	select {
	case img := <-delivered:
		if len(img) != 2 {
			t.Errorf("delivered image = %v", img)
		}
	case <-time.After(time.Second):
		t.Fatal("image listener never fired")
	}
	if img := c.DishImage(); len(img) != 2 {
		t.Error("image not applied to active state")
	}
}

func TestStaleDishImageDiscarded(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{}
	var callMu sync.Mutex
	calls := 0
	gen.imageFn = func(ctx context.Context, title, description string) ([]byte, error) {
		callMu.Lock()
		calls++
		n := calls
		callMu.Unlock()
		if n == 1 {
			<-release // first recipe's image hangs until after the second lands
			return []byte("stale"), nil
		}
		return nil, nil
	}

	c := newTestChef(gen)
	ctx := context.Background()

	if _, _, err := c.Generate(ctx, []string{"rice"}, nil); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if _, _, err := c.Generate(ctx, []string{"beans"}, nil); err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	close(release)
	time.Sleep(50 * time.Millisecond)

	if img := c.DishImage(); img != nil {
		t.Errorf("stale image was applied: %q", img)
	}
}

func TestDishImageFailureIsSilent(t *testing.T) {
	gen := &fakeGenerator{}
	gen.imageFn = func(ctx context.Context, title, description string) ([]byte, error) {
		return nil, errors.New("image model down")
	}
	c := newTestChef(gen)

	if _, _, err := c.Generate(context.Background(), []string{"rice"}, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if img := c.DishImage(); img != nil {
		t.Error("image set despite failure")
	}
}

func TestShoppingListFiltersStaples(t *testing.T) {
	gen := &fakeGenerator{}
	gen.shoppingFn = func(ctx context.Context, ingredients, staples []string) ([]domain.ShoppingCategory, error) {
		// A sloppy model that returns staples anyway.
		return []domain.ShoppingCategory{
			{Name: "Pantry", Items: []domain.ShoppingItem{
				{Name: "Salt"}, {Name: "rice noodles"},
			}},
			{Name: "Spices", Items: []domain.ShoppingItem{
				{Name: "black pepper"},
			}},
		}, nil
	}

	c := newTestChef(gen)
	c.SetActive(&domain.Recipe{
		Title:       "Noodles",
		Ingredients: []domain.IngredientRef{{Name: "rice noodles"}, {Name: "salt"}},
	})

	list, err := c.ShoppingList(context.Background(), &domain.UserProfile{PantryStaples: []string{"fish sauce"}})
	if err != nil {
		t.Fatalf("ShoppingList: %v", err)
	}

	for _, cat := range list {
		for _, item := range cat.Items {
			if strings.EqualFold(item.Name, "salt") || strings.EqualFold(item.Name, "black pepper") {
				t.Errorf("staple %q survived the filter", item.Name)
			}
		}
	}
	if len(list) != 1 || len(list[0].Items) != 1 || list[0].Items[0].Name != "rice noodles" {
		t.Errorf("list = %+v, want just rice noodles in Pantry", list)
	}
}

func TestShoppingListNeedsActiveRecipe(t *testing.T) {
	c := newTestChef(&fakeGenerator{})
	if _, err := c.ShoppingList(context.Background(), nil); !errors.Is(err, domain.ErrNoActiveRecipe) {
		t.Errorf("error = %v, want ErrNoActiveRecipe", err)
	}
}

func TestSubstituteCachesPerRecipe(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestChef(gen)
	c.SetActive(&domain.Recipe{Title: "Stew"})

	ctx := context.Background()
	first, err := c.Substitute(ctx, "onion")
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	second, err := c.Substitute(ctx, "Onion") // different case, same cache entry
	if err != nil {
		t.Fatalf("Substitute (cached): %v", err)
	}
	if first != second {
		t.Errorf("cached answer differs: %q vs %q", first, second)
	}
	if gen.subCalls != 1 {
		t.Errorf("generator called %d times, want 1", gen.subCalls)
	}

	// A new recipe invalidates the cache.
	c.SetActive(&domain.Recipe{Title: "Other Stew"})
	if _, err := c.Substitute(ctx, "onion"); err != nil {
		t.Fatalf("Substitute after recipe change: %v", err)
	}
	if gen.subCalls != 2 {
		t.Errorf("generator called %d times after recipe change, want 2", gen.subCalls)
	}
}

func TestSubstituteSingleFlight(t *testing.T) {
	block := make(chan struct{})
	gen := &fakeGenerator{}
	gen.subFn = func(ctx context.Context, ingredient, recipeTitle string) (string, error) {
		<-block
		return "swap it", nil
	}

	c := newTestChef(gen)
	c.SetActive(&domain.Recipe{Title: "Stew"})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := c.Substitute(ctx, "onion")
		done <- err
	}()

	// Wait for the first lookup to be in flight.
	for i := 0; i < 100; i++ {
		gen.mu.Lock()
		n := gen.subCalls
		gen.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := c.Substitute(ctx, "carrot"); !errors.Is(err, domain.ErrSubstitutionBusy) {
		t.Errorf("concurrent lookup error = %v, want ErrSubstitutionBusy", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}

	// The slot is free again.
	if _, err := c.Substitute(ctx, "carrot"); err != nil {
		t.Errorf("lookup after release: %v", err)
	}
}

func TestSubstituteNeedsActiveRecipe(t *testing.T) {
	c := newTestChef(&fakeGenerator{})
	if _, err := c.Substitute(context.Background(), "onion"); !errors.Is(err, domain.ErrNoActiveRecipe) {
		t.Errorf("error = %v, want ErrNoActiveRecipe", err)
	}
}
