// Package retry runs operations against flaky upstreams with exponential
// backoff. Callers classify each failure so rate limits, transient faults
// and permanent errors back off differently.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Action tells the loop how to treat a failed attempt.
type Action int

const (
	// Stop aborts immediately; the error is permanent.
	Stop Action = iota
	// Retry backs off normally; the error is transient.
	Retry
	// After waits out the longer rate-limit backoff before trying again.
	After
)

// Classify maps an operation error to an Action.
type Classify func(err error) Action

// Policy bounds the retry loop.
type Policy struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	RateLimitBackoff time.Duration
	OnRetry          func(attempt int, err error, backoff time.Duration)
}

// Do runs op under the policy until it succeeds, a permanent error occurs,
// the attempts are exhausted or ctx is cancelled. The backoff doubles after
// every waited attempt.
func Do[T any](ctx context.Context, p Policy, classify Classify, op func() (T, error)) (T, error) {
	var zero T
	backoff := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}

		if classify(err) == Stop {
			return zero, &PermanentError{Err: err}
		}
		if attempt == p.MaxAttempts {
			return zero, fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}

		wait := backoff
		if classify(err) == After {
			wait = p.RateLimitBackoff
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		select {
		case <-time.After(wait):
			backoff = wait * 2
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}

// DoVoid is Do for operations without a result value.
func DoVoid(ctx context.Context, p Policy, classify Classify, op func() error) error {
	_, err := Do(ctx, p, classify, func() (struct{}, error) { return struct{}{}, op() })
	return err
}

// PermanentError wraps an error the classifier marked as Stop.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }
