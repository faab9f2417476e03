package timer

import (
	"context"
	"strings"
	"testing"
	"time"

	"souschef/internal/engine"
	"souschef/internal/logger"
)

func TestWatcherRemindsAboutLongTimer(t *testing.T) {
	session := cookingSession(t, "Braise for 90 minutes.")
	if err := session.StartTimer(5400); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}

	notifier := &mockNotifier{}
	w := NewWatcher(func() *engine.Session { return session }, notifier,
		logger.New(logger.LevelOff, nil))

	w.check(context.Background())

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "90 minutes") {
		t.Errorf("reminder = %q, want remaining time in minutes", notifier.messages[0])
	}
}

func TestWatcherQuietNearExpiry(t *testing.T) {
	session := cookingSession(t, "Sear 45 sec.")
	if err := session.StartTimer(45); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}

	notifier := &mockNotifier{}
	w := NewWatcher(func() *engine.Session { return session }, notifier,
		logger.New(logger.LevelOff, nil))

	w.check(context.Background())

	if notifier.messageCount() != 0 {
		t.Error("watcher spoke up under a minute from expiry; the runner owns that moment")
	}
}

func TestWatcherNagsAboutExpiredTimer(t *testing.T) {
	session := cookingSession(t, "Boil 1 min.")
	if err := session.StartTimer(1); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	session.Tick() // expires, stays attached

	notifier := &mockNotifier{}
	w := NewWatcher(func() *engine.Session { return session }, notifier,
		logger.New(logger.LevelOff, nil))

	w.check(context.Background())

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "already rang") {
		t.Errorf("messages = %v, want one nag about the rung timer", notifier.messages)
	}
}

func TestWatcherNudgesIdleStep(t *testing.T) {
	session := cookingSession(t, "Chop everything.", "Cook it.")

	notifier := &mockNotifier{}
	w := NewWatcher(func() *engine.Session { return session }, notifier,
		logger.New(logger.LevelOff, nil), WithIdleCycles(3))

	ctx := context.Background()
	w.check(ctx)
	w.check(ctx)
	if notifier.messageCount() != 0 {
		t.Fatal("nudged before the idle threshold")
	}

	w.check(ctx)
	if notifier.messageCount() != 1 {
		t.Fatalf("messages = %d after third idle cycle, want 1", notifier.messageCount())
	}

	// Moving on resets the idle count.
	session.Next()
	w.check(ctx)
	if notifier.messageCount() != 1 {
		t.Error("nudged again right after a step change")
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	notifier := &mockNotifier{}
	w := NewWatcher(func() *engine.Session { return nil }, notifier,
		logger.New(logger.LevelOff, nil), WithWatchInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{1, "1 second"},
		{45, "45 seconds"},
		{60, "1 minute"},
		{89, "1 minute"},
		{90, "2 minutes"},
		{5400, "90 minutes"},
	}
	for _, tt := range tests {
		if got := formatRemaining(tt.seconds); got != tt.want {
			t.Errorf("formatRemaining(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
