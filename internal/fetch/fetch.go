// Package fetch implements the news providers. Each provider wraps one
// upstream HTTP API and hands over raw, unscored items for a subject.
package fetch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pscheid92/stockpulse/internal/platform/retry"
)

const (
	defaultTimeout  = 10 * time.Second
	maxItemsPerPoll = 50
)

// statusError carries the HTTP status of a failed upstream call so the
// retry classifier can distinguish rate limits from permanent failures.
type statusError struct {
	provider string
	code     int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.provider, e.code)
}

func defaultPolicy(provider string) retry.Policy {
	return retry.Policy{
		MaxAttempts:      3,
		InitialBackoff:   500 * time.Millisecond,
		RateLimitBackoff: 5 * time.Second,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Provider fetch failed, retrying",
				"provider", provider,
				"attempt", attempt,
				"backoff", backoff,
				"error", err)
		},
	}
}

// classifyFetch maps upstream failures to retry actions. Rate limits wait
// out the longer backoff, server errors and transport failures retry
// normally, any other client error is permanent.
func classifyFetch(err error) retry.Action {
	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.code == http.StatusTooManyRequests:
			return retry.After
		case se.code >= 500:
			return retry.Retry
		default:
			return retry.Stop
		}
	}
	return retry.Retry
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
