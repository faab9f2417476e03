package domain

// UserProfile captures standing preferences applied to every generation.
// Allergies are hard constraints; the rest steer the model.
type UserProfile struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Allergies           []string `json:"allergies"`
	CuisinePreferences  []string `json:"cuisinePreferences"`
	CustomIngredients   []string `json:"customIngredients"`
	PantryStaples       []string `json:"pantryStaples"`
}

// Weekdays lists the meal-plan day keys in display order.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday",
	"Friday", "Saturday", "Sunday",
}

// MealPlan maps weekday names to the recipes planned for that day. A day
// never holds two entries with the same recipe ID. Entries are snapshots:
// editing the library does not rewrite past plans, but deleting a saved
// recipe removes it from every day.
type MealPlan map[string][]SavedRecipe

// NewMealPlan returns a plan with all seven days present and empty.
func NewMealPlan() MealPlan {
	p := make(MealPlan, len(Weekdays))
	for _, d := range Weekdays {
		p[d] = nil
	}
	return p
}

// ValidWeekday reports whether day is one of the seven plan keys.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
