package domain

import (
	"encoding/json"
	"testing"
)

func TestRecipeUnmarshal(t *testing.T) {
	raw := `{
		"title": "Pad Thai",
		"ingredients": [{"name": "rice noodles", "quantity": "200 g"}, "2 limes"],
		"instructions": ["Soak the noodles."],
		"sourceUrl": "https://example.com/pad-thai"
	}`

	var r Recipe
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if r.SourceURL != "https://example.com/pad-thai" {
		t.Errorf("SourceURL = %q", r.SourceURL)
	}
	// Bare-string ingredients become a Name-only ref.
	if len(r.Ingredients) != 2 || r.Ingredients[1].Name != "2 limes" {
		t.Errorf("ingredients = %+v", r.Ingredients)
	}
}

func TestRecipeCloneKeepsScalars(t *testing.T) {
	r := &Recipe{
		Title:        "Toast",
		SourceURL:    "https://example.com/toast",
		Instructions: []string{"Toast the bread."},
	}

	cp := r.Clone()
	if cp.SourceURL != r.SourceURL || cp.Title != r.Title {
		t.Errorf("Clone = %+v", cp)
	}

	cp.Instructions[0] = "Burn the bread."
	if r.Instructions[0] != "Toast the bread." {
		t.Error("Clone aliases the instructions slice")
	}
}
