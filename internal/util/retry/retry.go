// Package retry provides bounded retry loops: fixed-interval polling with
// attempt and deadline budgets, and exponential backoff for transient errors.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBudgetExhausted is returned by Poll when the attempt cap or overall
// deadline is reached before the condition becomes true.
var ErrBudgetExhausted = errors.New("retry budget exhausted")

// Config holds retry configuration shared by Poll and WithExponentialBackoff.
type Config struct {
	Interval     time.Duration
	MaxAttempts  int
	Timeout      time.Duration
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// Condition reports whether polling is done. Returning done=true stops the
// loop successfully. A non-nil error stops the loop only when marked with
// Fatal; other errors are treated as "not done yet" and retried.
type Condition func() (done bool, err error)

// Poll evaluates cond at a fixed interval until it reports done, a fatal
// error occurs, or the budget runs out. The budget is whichever of
// MaxAttempts and Timeout triggers first; a zero value disables that bound,
// but at least one bound (or a context deadline) should be set.
//
// On exhaustion Poll returns ErrBudgetExhausted wrapping the last error seen,
// if any.
func Poll(ctx context.Context, cond Condition, opts ...Option) error {
	cfg := &Config{
		Interval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		done, err := cond()
		if err != nil {
			if IsFatal(err) {
				return err
			}
			lastErr = err
		}
		if done {
			return nil
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return exhausted(fmt.Sprintf("%d attempts", attempt), lastErr)
		}

		select {
		case <-ctx.Done():
			return exhausted(fmt.Sprintf("deadline after %d attempts", attempt), lastErr)
		case <-time.After(cfg.Interval):
		}
	}
}

func exhausted(budget string, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("%w (%s): last error: %w", ErrBudgetExhausted, budget, lastErr)
	}
	return fmt.Errorf("%w (%s)", ErrBudgetExhausted, budget)
}

// WithExponentialBackoff executes the operation with exponential backoff
// retry. It retries the operation until it succeeds or the attempt budget is
// spent, with exponentially increasing delays between attempts. Context
// cancellation is respected throughout.
//
// Errors wrapped with Fatal() are not retried.
func WithExponentialBackoff(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		MaxAttempts:  6,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt < cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			}
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// WithInterval sets the fixed polling interval used by Poll.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithTimeout sets the overall wall-clock deadline for the loop.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithInitialDelay sets the initial delay between backoff attempts.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay sets the maximum delay between backoff attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable). Loops that encounter fatal
// errors stop immediately instead of retrying.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
