// Package engine implements the cooking session state machine: a step
// cursor over a recipe's instructions, with an attached countdown timer,
// an ingredient checklist, and a voice toggle. Sessions are ephemeral and
// never persisted.
package engine

import (
	"fmt"
	"sync"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// Session is an in-progress guided cook of one recipe. All methods are
// safe for concurrent use; the timer runner ticks it from a background
// goroutine while the UI drives transitions.
type Session struct {
	mu        sync.Mutex
	recipe    *domain.Recipe
	step      int
	timer     *domain.Timer
	voice     bool
	checklist map[string]bool
	log       *logger.Logger
}

// NewSession starts a session at step zero with no timer, voice disabled,
// and an empty checklist.
func NewSession(recipe *domain.Recipe, log *logger.Logger) *Session {
	return &Session{
		recipe:    recipe,
		checklist: make(map[string]bool),
		log:       log,
	}
}

// Recipe returns the recipe being cooked.
func (s *Session) Recipe() *domain.Recipe {
	return s.recipe
}

// Snapshot returns a consistent read-only view of the session.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		RecipeTitle:  s.recipe.Title,
		StepIndex:    s.step,
		StepCount:    len(s.recipe.Instructions),
		VoiceEnabled: s.voice,
	}
	if s.step < len(s.recipe.Instructions) {
		snap.Instruction = s.recipe.Instructions[s.step]
	}
	if s.timer != nil {
		t := *s.timer
		snap.Timer = &t
	}
	return snap
}

// Next advances the cursor, staying put on the last step. Any timer
// belongs to the step it was started on, so a step change always clears it.
func (s *Session) Next() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step < len(s.recipe.Instructions)-1 {
		s.step++
		s.log.Debug("session advanced to step %d/%d", s.step+1, len(s.recipe.Instructions))
	}
	s.timer = nil
	return s.snapshotLocked()
}

// Previous moves the cursor back, staying put on the first step. Clears
// any timer for the same reason Next does.
func (s *Session) Previous() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > 0 {
		s.step--
		s.log.Debug("session moved back to step %d/%d", s.step+1, len(s.recipe.Instructions))
	}
	s.timer = nil
	return s.snapshotLocked()
}

// StartTimer attaches a countdown to the current step. It fails while a
// timer is already running; an expired but uncleared timer is replaced.
func (s *Session) StartTimer(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("timer duration must be positive, got %d", seconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil && s.timer.Active {
		return domain.ErrTimerActive
	}
	s.timer = &domain.Timer{
		Duration:    seconds,
		SecondsLeft: seconds,
		Active:      true,
	}
	s.log.Debug("timer started: %ds on step %d", seconds, s.step+1)
	return nil
}

// CancelTimer clears the timer unconditionally.
func (s *Session) CancelTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = nil
}

// Tick advances the countdown by one second and reports whether the timer
// expired on this tick. The expired timer stays attached, inactive, until
// a step change or cancel clears it.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil || !s.timer.Active {
		return false
	}
	s.timer.SecondsLeft--
	if s.timer.SecondsLeft <= 0 {
		s.timer.SecondsLeft = 0
		s.timer.Active = false
		s.log.Debug("timer expired on step %d", s.step+1)
		return true
	}
	return false
}

// ToggleChecklistItem flips the checked state for an ingredient name and
// returns the new state.
func (s *Session) ToggleChecklistItem(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checklist[name] = !s.checklist[name]
	return s.checklist[name]
}

// Checklist returns a copy of the checklist map.
func (s *Session) Checklist() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.checklist))
	for k, v := range s.checklist {
		out[k] = v
	}
	return out
}

// ToggleVoice flips the voice-command flag and returns the new state.
// Whether anything actually listens is the speech layer's concern.
func (s *Session) ToggleVoice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voice = !s.voice
	return s.voice
}

// VoiceEnabled reports whether voice commands are on.
func (s *Session) VoiceEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice
}
