package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

func openTestStore(t *testing.T, dir string) *FileStore {
	t.Helper()
	s, err := Open(dir, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func saved(title string) domain.SavedRecipe {
	return domain.SavedRecipe{
		Recipe: domain.Recipe{Title: title, Instructions: []string{"Cook."}},
	}
}

func TestProfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)

	p := domain.UserProfile{
		Allergies:     []string{"peanuts"},
		PantryStaples: []string{"salt", "olive oil"},
	}
	if err := s.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	// A fresh open sees the written profile.
	s2 := openTestStore(t, dir)
	got := s2.Profile()
	if len(got.Allergies) != 1 || got.Allergies[0] != "peanuts" {
		t.Errorf("reloaded profile = %+v", got)
	}
}

func TestCorruptFileFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, recipesFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t, dir)
	if got := s.SavedRecipes(); len(got) != 0 {
		t.Errorf("recipes from corrupt file = %v, want empty", got)
	}
	if got := s.MealPlan(); len(got) != 7 {
		t.Errorf("plan has %d days, want 7", len(got))
	}
}

func TestCorruptFileNeverHalfLoads(t *testing.T) {
	dir := t.TempDir()
	// The first element decodes fine; the second fails on a type
	// mismatch. None of it may survive into the store.
	bad := `[{"id":"keep","recipe":{"title":"Half"}},{"id":42}]`
	if err := os.WriteFile(filepath.Join(dir, recipesFile), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t, dir)
	if got := s.SavedRecipes(); len(got) != 0 {
		t.Errorf("recipes from half-decodable file = %v, want empty", got)
	}
}

func TestSaveRecipePrepends(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	first, err := s.SaveRecipe(saved("First"))
	if err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Errorf("missing assigned fields: %+v", first)
	}

	if _, err := s.SaveRecipe(saved("Second")); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}

	got := s.SavedRecipes()
	if len(got) != 2 || got[0].Recipe.Title != "Second" || got[1].Recipe.Title != "First" {
		t.Errorf("library order = %v, want newest first", titles(got))
	}
}

func titles(rs []domain.SavedRecipe) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.Recipe.Title)
	}
	return out
}

func TestDeleteRecipeFansOutToMealPlan(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)

	r, _ := s.SaveRecipe(saved("Curry"))
	other, _ := s.SaveRecipe(saved("Salad"))

	for _, day := range []string{"Monday", "Thursday"} {
		if err := s.AddToMealPlan(day, r); err != nil {
			t.Fatalf("AddToMealPlan: %v", err)
		}
	}
	if err := s.AddToMealPlan("Monday", other); err != nil {
		t.Fatalf("AddToMealPlan: %v", err)
	}

	if err := s.DeleteRecipe(r.ID); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}

	plan := s.MealPlan()
	if len(plan["Monday"]) != 1 || plan["Monday"][0].ID != other.ID {
		t.Errorf("Monday = %v, want only the salad", plan["Monday"])
	}
	if len(plan["Thursday"]) != 0 {
		t.Errorf("Thursday still holds deleted recipe: %v", plan["Thursday"])
	}

	// The fan-out survives a reload.
	s2 := openTestStore(t, dir)
	if plan := s2.MealPlan(); len(plan["Thursday"]) != 0 {
		t.Error("deleted recipe came back after reload")
	}

	if err := s.DeleteRecipe("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleting unknown id: %v, want ErrNotFound", err)
	}
}

func TestMealPlanDayDedupe(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	r, _ := s.SaveRecipe(saved("Tacos"))

	if err := s.AddToMealPlan("Friday", r); err != nil {
		t.Fatalf("AddToMealPlan: %v", err)
	}
	// Same id, same day: silent no-op.
	if err := s.AddToMealPlan("Friday", r); err != nil {
		t.Fatalf("duplicate AddToMealPlan: %v", err)
	}
	if got := s.MealPlan()["Friday"]; len(got) != 1 {
		t.Errorf("Friday has %d entries, want 1", len(got))
	}

	// Same id, different day: allowed.
	if err := s.AddToMealPlan("Saturday", r); err != nil {
		t.Fatalf("AddToMealPlan other day: %v", err)
	}
	if got := s.MealPlan()["Saturday"]; len(got) != 1 {
		t.Errorf("Saturday has %d entries, want 1", len(got))
	}

	if err := s.AddToMealPlan("Funday", r); err == nil {
		t.Error("AddToMealPlan accepted a bogus day")
	}
}

func TestRemoveFromMealPlan(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	r, _ := s.SaveRecipe(saved("Soup"))
	s.AddToMealPlan("Sunday", r)

	if err := s.RemoveFromMealPlan("Sunday", r.ID); err != nil {
		t.Fatalf("RemoveFromMealPlan: %v", err)
	}
	if got := s.MealPlan()["Sunday"]; len(got) != 0 {
		t.Errorf("Sunday = %v, want empty", got)
	}
	if err := s.RemoveFromMealPlan("Sunday", r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second removal: %v, want ErrNotFound", err)
	}
}

func TestRecentlyViewedPromoteAndCap(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t, dir)

	// Viewing A, B, A leaves A in front, once.
	s.MarkViewed("A")
	s.MarkViewed("B")
	s.MarkViewed("A")
	got := s.RecentIDs()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("recent = %v, want [A B]", got)
	}

	for _, id := range []string{"C", "D", "E", "F"} {
		s.MarkViewed(id)
	}
	got = s.RecentIDs()
	if len(got) != maxRecent {
		t.Fatalf("recent holds %d ids, want %d", len(got), maxRecent)
	}
	if got[0] != "F" {
		t.Errorf("front = %q, want F", got[0])
	}
	for _, id := range got {
		if id == "A" {
			t.Error("oldest id A survived the cap")
		}
	}

	// Order survives a reload.
	s2 := openTestStore(t, dir)
	got2 := s2.RecentIDs()
	if len(got2) != maxRecent || got2[0] != "F" {
		t.Errorf("reloaded recent = %v", got2)
	}
}

func TestSetRating(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	r, _ := s.SaveRecipe(saved("Pie"))

	if err := s.SetRating(r.ID, 4); err != nil {
		t.Fatalf("SetRating: %v", err)
	}
	got, err := s.SavedRecipe(r.ID)
	if err != nil || got.Rating != 4 {
		t.Errorf("rating = %d (err %v), want 4", got.Rating, err)
	}

	if err := s.SetRating(r.ID, 6); err == nil {
		t.Error("SetRating accepted 6")
	}
	if err := s.SetRating("nope", 3); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("rating unknown id: %v, want ErrNotFound", err)
	}
}

func TestLegacyIngredientStringsLoad(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"x","recipe":{"title":"Old","ingredients":["2 eggs","milk"],"instructions":["Mix."]},"createdAt":"2024-01-01T00:00:00Z"}]`
	if err := os.WriteFile(filepath.Join(dir, recipesFile), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t, dir)
	got := s.SavedRecipes()
	if len(got) != 1 {
		t.Fatalf("loaded %d recipes, want 1", len(got))
	}
	ings := got[0].Recipe.Ingredients
	if len(ings) != 2 || ings[0].Name != "2 eggs" || ings[1].Name != "milk" {
		t.Errorf("legacy ingredients = %+v", ings)
	}
}
