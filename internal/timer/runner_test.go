package timer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"souschef/internal/domain"
	"souschef/internal/engine"
	"souschef/internal/logger"
)

// mockNotifier records messages for assertions.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(ctx context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockNotifier) NotifyUrgent(ctx context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, message)
	return nil
}

func (m *mockNotifier) urgentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.urgent)
}

func (m *mockNotifier) messageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func cookingSession(t *testing.T, steps ...string) *engine.Session {
	t.Helper()
	return engine.NewSession(&domain.Recipe{
		Title:        "Test Dish",
		Instructions: steps,
	}, logger.New(logger.LevelOff, nil))
}

func TestRunnerFiresOnceOnExpiry(t *testing.T) {
	session := cookingSession(t, "Boil water.", "Add pasta.")
	if err := session.StartTimer(2); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}

	notifier := &mockNotifier{}
	log := logger.New(logger.LevelOff, nil)
	runner := New(func() *engine.Session { return session }, notifier, log,
		WithTickInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)
	defer runner.Stop()

	// Give the loop room for well over two ticks plus slack.
	time.Sleep(100 * time.Millisecond)

	if got := notifier.urgentCount(); got != 1 {
		t.Errorf("urgent notifications = %d, want exactly 1", got)
	}

	snap := session.Snapshot()
	if snap.Timer == nil || snap.Timer.Active || snap.Timer.SecondsLeft != 0 {
		t.Errorf("timer after expiry = %+v, want retained, inactive, zero", snap.Timer)
	}
}

func TestRunnerExpiryNamesCurrentStep(t *testing.T) {
	session := cookingSession(t, "Boil water.", "Simmer 10 minutes.")
	session.Next()
	if err := session.StartTimer(1); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}

	notifier := &mockNotifier{}
	runner := New(func() *engine.Session { return session }, notifier,
		logger.New(logger.LevelOff, nil), WithTickInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)
	defer runner.Stop()

	time.Sleep(60 * time.Millisecond)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.urgent) != 1 {
		t.Fatalf("urgent notifications = %d, want 1", len(notifier.urgent))
	}
	if !strings.Contains(notifier.urgent[0], "step 2") {
		t.Errorf("expiry message = %q, want it to name step 2", notifier.urgent[0])
	}
}

func TestRunnerIdleWithoutSession(t *testing.T) {
	notifier := &mockNotifier{}
	runner := New(func() *engine.Session { return nil }, notifier,
		logger.New(logger.LevelOff, nil), WithTickInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)
	defer runner.Stop()

	time.Sleep(50 * time.Millisecond)

	if notifier.urgentCount() != 0 || notifier.messageCount() != 0 {
		t.Error("runner notified with no session attached")
	}
}

func TestRunnerStartStop(t *testing.T) {
	notifier := &mockNotifier{}
	runner := New(func() *engine.Session { return nil }, notifier,
		logger.New(logger.LevelOff, nil), WithTickInterval(5*time.Millisecond))

	ctx := context.Background()
	runner.Start(ctx)
	runner.Start(ctx) // second start is a no-op
	runner.Stop()
	runner.Stop() // second stop is a no-op
}
