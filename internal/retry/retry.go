// Package retry wraps fallible operations with bounded exponential backoff.
// It is the single retry point in the program: callers classify which
// errors are worth retrying, everything else fails fast and the final
// error is returned to the caller unchanged.
package retry

import (
	"context"
	"time"

	"souschef/internal/logger"
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 1000 * time.Millisecond
)

// Option configures a retry run.
type Option func(*config)

type config struct {
	maxRetries   int
	initialDelay time.Duration
	retryable    func(error) bool
	log          *logger.Logger
}

// WithMaxRetries sets how many retries follow the first attempt.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay sets the wait before the first retry. Each subsequent
// retry doubles it.
func WithInitialDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithRetryable installs the error classifier. Without one, every error
// is treated as retryable.
func WithRetryable(fn func(error) bool) Option {
	return func(c *config) { c.retryable = fn }
}

// WithLogger makes attempts visible in the debug log.
func WithLogger(log *logger.Logger) Option {
	return func(c *config) { c.log = log }
}

// Do runs op, retrying on retryable errors with exponentially growing
// delays. It returns the first success, or the last error unchanged once
// retries are exhausted, a non-retryable error occurs, or ctx is done
// while waiting.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts ...Option) (T, error) {
	cfg := config{
		maxRetries:   defaultMaxRetries,
		initialDelay: defaultInitialDelay,
		log:          logger.New(logger.LevelOff, nil),
	}
	for _, o := range opts {
		o(&cfg)
	}

	var zero T
	delay := cfg.initialDelay

	for attempt := 0; ; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if cfg.retryable != nil && !cfg.retryable(err) {
			return zero, err
		}
		if attempt >= cfg.maxRetries {
			return zero, err
		}

		cfg.log.Debug("attempt %d failed, retrying in %s: %v", attempt+1, delay, err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
