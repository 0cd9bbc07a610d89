package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/platform/correlation"
)

// RefreshTicker periodically runs a collection cycle for every configured
// subject so reports stay fresh without manual collect calls.
type RefreshTicker struct {
	service  domain.AppService
	subjects []string
	interval time.Duration
	clock    clockwork.Clock
}

func NewRefreshTicker(service domain.AppService, subjects []string, interval time.Duration, clock clockwork.Clock) *RefreshTicker {
	return &RefreshTicker{
		service:  service,
		subjects: subjects,
		interval: interval,
		clock:    clock,
	}
}

// Run starts the periodic collection loop. It blocks until ctx is cancelled.
func (t *RefreshTicker) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			t.refresh(ctx)
		}
	}
}

func (t *RefreshTicker) refresh(ctx context.Context) {
	for _, subject := range t.subjects {
		if ctx.Err() != nil {
			return
		}

		cycleCtx := correlation.WithID(ctx, correlation.NewID())
		summary := t.service.CollectSubject(cycleCtx, subject)

		if len(summary.FailedSources) > 0 || len(summary.FailedItems) > 0 {
			slog.WarnContext(cycleCtx, "Scheduled collection finished with failures",
				"subject", subject,
				"ingested", summary.Ingested,
				"failed_items", len(summary.FailedItems),
				"failed_sources", len(summary.FailedSources))
			continue
		}

		slog.DebugContext(cycleCtx, "Scheduled collection finished",
			"subject", subject,
			"ingested", summary.Ingested)
	}
}
