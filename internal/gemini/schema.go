package gemini

import "google.golang.org/genai"

// Response schemas for structured output. A response that fails to
// unmarshal against the matching Go type is a hard failure of the call —
// with the exception of ingredient detection, which has a lenient
// fallback (see vision.go).

var ingredientNamesSchema = &genai.Schema{
	Type:        "array",
	Description: "The names of the ingredients, most prominent first.",
	Items: &genai.Schema{
		Type:        "string",
		Description: "A single ingredient name, e.g. 'red bell pepper'.",
	},
}

var recipeSchema = &genai.Schema{
	Type:        "object",
	Description: "A complete cooking recipe.",
	Required:    []string{"title", "description", "ingredients", "instructions", "prepTime", "cookTime", "servings"},
	Properties: map[string]*genai.Schema{
		"title": {
			Type:        "string",
			Description: "The title of the recipe.",
		},
		"description": {
			Type:        "string",
			Description: "One or two appetizing sentences about the dish.",
		},
		"ingredients": {
			Type:        "array",
			Description: "Every ingredient the recipe needs.",
			Items: &genai.Schema{
				Type:        "object",
				Description: "An ingredient in the recipe.",
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        "string",
						Description: "The name of the ingredient.",
					},
					"quantity": {
						Type:        "string",
						Description: "The quantity as free-form text, e.g. '2 tbsp'.",
					},
					"details": {
						Type:        "string",
						Description: "Optional preparation note, e.g. 'finely chopped'.",
					},
				},
				Required: []string{"name", "quantity"},
			},
		},
		"instructions": {
			Type:        "array",
			Description: "Numbered cooking steps, in order. Mention explicit durations like '10 minutes' where relevant.",
			Items: &genai.Schema{
				Type:        "string",
				Description: "A single cooking step.",
			},
		},
		"prepTime": {
			Type:        "string",
			Description: "Preparation time, e.g. '15 minutes'.",
		},
		"cookTime": {
			Type:        "string",
			Description: "Cooking time, e.g. '30 minutes'.",
		},
		"servings": {
			Type:        "integer",
			Description: "How many servings the recipe makes.",
		},
		"cuisine": {
			Type:        "string",
			Description: "The cuisine of the dish, e.g. 'Thai'.",
		},
		"sourceUrl": {
			Type:        "string",
			Description: "URL of the dish's source or inspiration, if one exists. Omit otherwise.",
		},
		"nutrition": {
			Type:        "object",
			Description: "Per-serving nutrition estimates.",
			Properties: map[string]*genai.Schema{
				"calories": {
					Type:        "integer",
					Description: "Estimated calories per serving.",
				},
				"protein": {
					Type:        "string",
					Description: "Protein per serving, e.g. '32 g'.",
				},
				"carbs": {
					Type:        "string",
					Description: "Carbohydrates per serving, e.g. '45 g'.",
				},
				"fat": {
					Type:        "string",
					Description: "Fat per serving, e.g. '12 g'.",
				},
			},
		},
	},
}

var shoppingListSchema = &genai.Schema{
	Type:        "array",
	Description: "The shopping list, grouped by store section.",
	Items: &genai.Schema{
		Type:        "object",
		Description: "One store section and its items.",
		Properties: map[string]*genai.Schema{
			"category": {
				Type:        "string",
				Description: "The store section, e.g. 'Produce' or 'Dairy'.",
			},
			"items": {
				Type:        "array",
				Description: "The ingredient names to buy in this section.",
				Items: &genai.Schema{
					Type:        "string",
					Description: "A single item to buy.",
				},
			},
		},
		Required: []string{"category", "items"},
	},
}
