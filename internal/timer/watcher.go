package timer

import (
	"context"
	"fmt"
	"time"

	"souschef/internal/domain"
	"souschef/internal/engine"
	"souschef/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher checks session state.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithIdleCycles sets how many unchanged cycles on a timerless step earn a
// nudge.
func WithIdleCycles(n int) WatcherOption {
	return func(w *Watcher) {
		if n > 0 {
			w.idleCycles = n
		}
	}
}

// Watcher periodically inspects the active session and provides contextual
// commentary: remaining-time reminders for long countdowns and a nudge when
// the cook lingers on a step with nothing running. Runs on a much slower
// cycle than the timer runner (default: 1 minute).
type Watcher struct {
	sessions   SessionProvider
	notifier   domain.Notifier
	log        *logger.Logger
	interval   time.Duration
	idleCycles int

	lastSession *engine.Session
	lastStep    int
	onStepFor   int // cycles spent on lastStep
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(sessions SessionProvider, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		sessions:   sessions,
		notifier:   notifier,
		log:        log,
		interval:   1 * time.Minute,
		idleCycles: 3,
		lastStep:   -1,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
// Intended to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("watcher started (interval=%s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check runs one watcher cycle.
func (w *Watcher) check(ctx context.Context) {
	session := w.sessions()
	if session == nil {
		w.lastSession = nil
		w.lastStep = -1
		w.onStepFor = 0
		return
	}

	snap := session.Snapshot()
	w.log.Debug("watcher: recipe=%q step=%d/%d timer=%v",
		snap.RecipeTitle, snap.StepIndex+1, snap.StepCount, snap.Timer)

	if session != w.lastSession || snap.StepIndex != w.lastStep {
		w.lastSession = session
		w.lastStep = snap.StepIndex
		w.onStepFor = 0
	}
	w.onStepFor++

	msg := w.buildMessage(snap)
	if msg == "" {
		return
	}
	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
}

// buildMessage decides what to tell the user based on current state.
func (w *Watcher) buildMessage(snap domain.SessionSnapshot) string {
	// A running countdown with a while to go — remind them it's ticking.
	if snap.Timer != nil && snap.Timer.Active {
		if snap.Timer.SecondsLeft >= 60 {
			return fmt.Sprintf("[Watcher] %s left on your timer.", formatRemaining(snap.Timer.SecondsLeft))
		}
		return ""
	}

	// An expired countdown the cook hasn't acknowledged with a step change.
	if snap.Timer != nil && !snap.Timer.Active {
		return fmt.Sprintf("[Watcher] Your step %d timer already rang. Don't leave it sitting.", snap.StepIndex+1)
	}

	// No timer, same step for a long stretch — gentle nudge.
	if w.onStepFor >= w.idleCycles {
		return fmt.Sprintf("[Watcher] Still on step %d of %d. Take your time, but don't forget about it.",
			snap.StepIndex+1, snap.StepCount)
	}

	w.log.Debug("watcher: step %d, %d cycles, nothing to report", snap.StepIndex+1, w.onStepFor)
	return ""
}

// formatRemaining returns a human-friendly spoken duration for reminders.
// Rounds to the nearest minute once there's at least 1 minute left.
func formatRemaining(totalSec int) string {
	if totalSec < 60 {
		if totalSec == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", totalSec)
	}
	m := (totalSec + 30) / 60
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
