// Package storage persists the user's durable records: profile, saved
// recipes, meal plan, and recently-viewed. Each record is an independent
// JSON file, read once at open and rewritten whole on every mutation.
// There are no cross-file transactions; a failed write leaves only that
// file stale.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

const (
	profileFile  = "profile.json"
	recipesFile  = "recipes.json"
	mealPlanFile = "mealplan.json"
	recentFile   = "recent.json"

	maxRecent = 5
)

// FileStore holds the four records in memory and mirrors every mutation
// to disk synchronously. Safe for concurrent access.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	log *logger.Logger

	profile domain.UserProfile
	recipes []domain.SavedRecipe
	plan    domain.MealPlan
	recent  []string
}

// Open loads (or initializes) a store rooted at dir. Missing or corrupt
// files fall back to their documented defaults; Open only fails when the
// directory itself cannot be created.
func Open(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating %s: %w", dir, err)
	}

	s := &FileStore{
		dir:  dir,
		log:  log,
		plan: domain.NewMealPlan(),
	}

	s.load(profileFile, &s.profile)
	s.load(recipesFile, &s.recipes)
	s.load(mealPlanFile, &s.plan)
	s.load(recentFile, &s.recent)

	// A partially-written or hand-edited plan may miss day keys.
	for _, d := range domain.Weekdays {
		if _, ok := s.plan[d]; !ok {
			s.plan[d] = nil
		}
	}

	log.Info("storage: opened %s (%d saved recipes)", dir, len(s.recipes))
	return s, nil
}

// load reads one record, tolerantly: absence is normal, corruption is
// logged and the default kept. Decoding goes through a scratch value — a
// file that fails partway through unmarshaling must not leave v
// half-populated.
func (s *FileStore) load(name string, v any) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return
	}
	scratch := reflect.New(reflect.TypeOf(v).Elem())
	if err := json.Unmarshal(data, scratch.Interface()); err != nil {
		s.log.Warn("storage: %s is corrupt, starting fresh: %v", name, err)
		return
	}
	reflect.ValueOf(v).Elem().Set(scratch.Elem())
}

// write serializes one record to its file atomically: temp file in the
// same directory, then rename.
func (s *FileStore) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storage: replace %s: %w", name, err)
	}

	s.log.Debug("storage: wrote %s (%d bytes)", name, len(data))
	return nil
}

// ── Profile ──────────────────────────────────────────────────────

// Profile returns the user profile.
func (s *FileStore) Profile() domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SaveProfile replaces the profile wholesale.
func (s *FileStore) SaveProfile(p domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	return s.write(profileFile, s.profile)
}

// ── Saved recipes ────────────────────────────────────────────────

// SavedRecipes returns the library, newest first.
func (s *FileStore) SavedRecipes() []domain.SavedRecipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SavedRecipe(nil), s.recipes...)
}

// SavedRecipe looks up one library entry by id.
func (s *FileStore) SavedRecipe(id string) (domain.SavedRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.SavedRecipe{}, domain.ErrNotFound
}

// SaveRecipe prepends an entry to the library. A missing ID or CreatedAt
// is filled in; the assigned entry is returned.
func (s *FileStore) SaveRecipe(r domain.SavedRecipe) (domain.SavedRecipe, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append([]domain.SavedRecipe{r}, s.recipes...)
	if err := s.write(recipesFile, s.recipes); err != nil {
		return r, err
	}
	s.log.Info("storage: saved recipe %q (%s)", r.Recipe.Title, r.ID)
	return r, nil
}

// DeleteRecipe removes a library entry and, as an explicit fan-out, every
// occurrence of its id in the meal plan. Two independent file writes; if
// the second fails the first is not rolled back.
func (s *FileStore) DeleteRecipe(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.recipes {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}

	s.recipes = append(s.recipes[:idx], s.recipes[idx+1:]...)
	if err := s.write(recipesFile, s.recipes); err != nil {
		return err
	}

	planChanged := false
	for day, entries := range s.plan {
		kept := entries[:0]
		for _, e := range entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		if len(kept) != len(entries) {
			s.plan[day] = kept
			planChanged = true
		}
	}
	if planChanged {
		if err := s.write(mealPlanFile, s.plan); err != nil {
			return err
		}
	}

	s.log.Info("storage: deleted recipe %s (plan fan-out: %v)", id, planChanged)
	return nil
}

// SetRating stores a 0-5 star rating on a library entry.
func (s *FileStore) SetRating(id string, rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("storage: rating %d out of range", rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			s.recipes[i].Rating = rating
			return s.write(recipesFile, s.recipes)
		}
	}
	return domain.ErrNotFound
}

// SetImagePath records where a dish image was written for a library entry.
func (s *FileStore) SetImagePath(id, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			s.recipes[i].ImagePath = path
			return s.write(recipesFile, s.recipes)
		}
	}
	return domain.ErrNotFound
}

// ── Meal plan ────────────────────────────────────────────────────

// MealPlan returns a copy of the plan with all seven days present.
func (s *FileStore) MealPlan() domain.MealPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.NewMealPlan()
	for day, entries := range s.plan {
		out[day] = append([]domain.SavedRecipe(nil), entries...)
	}
	return out
}

// AddToMealPlan puts a saved-recipe snapshot on a day. Adding an id that
// is already on that day is a silent no-op; the same recipe on a
// different day is fine.
func (s *FileStore) AddToMealPlan(day string, r domain.SavedRecipe) error {
	if !domain.ValidWeekday(day) {
		return fmt.Errorf("storage: %q is not a weekday", day)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.plan[day] {
		if e.ID == r.ID {
			s.log.Debug("storage: %s already planned on %s", r.ID, day)
			return nil
		}
	}
	s.plan[day] = append(s.plan[day], r)
	return s.write(mealPlanFile, s.plan)
}

// RemoveFromMealPlan takes a recipe id off one day.
func (s *FileStore) RemoveFromMealPlan(day, id string) error {
	if !domain.ValidWeekday(day) {
		return fmt.Errorf("storage: %q is not a weekday", day)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.plan[day]
	for i, e := range entries {
		if e.ID == id {
			s.plan[day] = append(entries[:i], entries[i+1:]...)
			return s.write(mealPlanFile, s.plan)
		}
	}
	return domain.ErrNotFound
}

// ── Recently viewed ──────────────────────────────────────────────

// RecentIDs returns the recently-viewed recipe ids, most recent first.
func (s *FileStore) RecentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.recent...)
}

// MarkViewed moves an id to the front of the recently-viewed list,
// dropping any prior occurrence, and truncates to the cap.
func (s *FileStore) MarkViewed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.recent)+1)
	out = append(out, id)
	for _, r := range s.recent {
		if r != id {
			out = append(out, r)
		}
	}
	if len(out) > maxRecent {
		out = out[:maxRecent]
	}
	s.recent = out
	return s.write(recentFile, s.recent)
}
