// Package retry provides a small linear-backoff retry helper for
// outbound HTTP calls.
package retry

import (
	"context"
	"log/slog"
	"time"
)

// Func performs one attempt. It reports whether a failure is worth
// retrying; a false return stops the loop immediately.
type Func func() (retryable bool, err error)

type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs fn up to MaxAttempts times, sleeping Delay*attempt between
// attempts. It returns the last error when every attempt fails.
func (p Policy) Do(ctx context.Context, label string, fn Func) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		retryable, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt == p.MaxAttempts {
			break
		}

		delay := p.Delay * time.Duration(attempt)
		slog.Warn("Retrying after failure", "label", label, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
