package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errTransient
		}
		return "ok", nil
	}, WithInitialDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	tests := []struct {
		name      string
		retries   int
		wantCalls int
	}{
		{"default budget", 3, 4},
		{"zero retries", 0, 1},
		{"one retry", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
				calls++
				return 0, errTransient
			}, WithMaxRetries(tt.retries), WithInitialDelay(time.Millisecond))
			if !errors.Is(err, errTransient) {
				t.Errorf("final error = %v, want the operation's own error", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("op called %d times, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	}, WithRetryable(func(err error) bool {
		return errors.Is(err, errTransient)
	}), WithInitialDelay(time.Millisecond))
	if !errors.Is(err, permanent) {
		t.Errorf("final error = %v, want the permanent error unchanged", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestDoDelayDoubles(t *testing.T) {
	// With a 10ms initial delay and three retries the waits are
	// 10 + 20 + 40 = 70ms; anything well under that means the backoff
	// schedule is wrong.
	start := time.Now()
	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errTransient
	}, WithInitialDelay(10*time.Millisecond))
	if !errors.Is(err, errTransient) {
		t.Fatalf("final error = %v, want errTransient", err)
	}
	if calls != 4 {
		t.Fatalf("op called %d times, want 4", calls)
	}
	if elapsed := time.Since(start); elapsed < 70*time.Millisecond {
		t.Errorf("retries finished in %s, want at least 70ms of backoff", elapsed)
	}
}

func TestDoHonorsContextWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, func(ctx context.Context) (int, error) {
			calls++
			return 0, errTransient
		}, WithInitialDelay(time.Hour))
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}
