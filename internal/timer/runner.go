// Package timer implements the background loop that drives the cooking
// session countdown and fires a notification when it expires.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"souschef/internal/domain"
	"souschef/internal/engine"
	"souschef/internal/logger"
)

// SessionProvider returns the session currently being cooked, or nil when
// no guided cook is in progress. The runner re-reads it every tick so
// sessions can come and go without restarting the loop.
type SessionProvider func() *engine.Session

// Option configures the runner.
type Option func(*Runner)

// WithTickInterval sets the countdown resolution. The default is one
// second; tests shrink it.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.tickInterval = d
	}
}

// Runner ticks the active session's timer once per interval and sends a
// single urgent notification the moment a countdown expires.
type Runner struct {
	sessions     SessionProvider
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a timer runner with the given dependencies and options.
func New(sessions SessionProvider, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		sessions:     sessions,
		notifier:     notifier,
		log:          log,
		tickInterval: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins the background tick loop. Non-blocking.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.log.Warn("timer runner already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	go r.loop(childCtx)

	r.log.Info("timer runner started (tick=%s)", r.tickInterval)
}

// Stop gracefully shuts down the runner.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.cancel()
	r.running = false
	r.log.Info("timer runner stopped")
}

// loop is the main tick loop.
func (r *Runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick advances the active session's countdown by one step. Expiry is
// reported exactly once: the session flips the timer inactive on the
// same tick that reports it.
func (r *Runner) tick(ctx context.Context) {
	session := r.sessions()
	if session == nil {
		return
	}

	if !session.Tick() {
		return
	}

	snap := session.Snapshot()
	msg := fmt.Sprintf("[Timer] Time's up on step %d.", snap.StepIndex+1)
	if err := r.notifier.NotifyUrgent(ctx, msg); err != nil {
		r.log.Error("runner: notifying timer expiry: %v", err)
	}
}
