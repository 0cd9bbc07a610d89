package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/metrics"
)

// syntheticKeyPrefix marks dedup keys generated for URL-less items so they
// can never collide with a real URL.
const syntheticKeyPrefix = "synthetic:"

// DedupKey returns the ledger key for an item within a subject: the source
// URL when present, otherwise a deterministic content-derived key. Distinct
// URL-less items get distinct keys, while re-ingesting the same URL-less
// item stays idempotent.
func DedupKey(subject string, item domain.NewsItem) string {
	if item.URL != "" {
		return item.URL
	}
	name := subject + "\x00" + item.Title + "\x00" + item.PublishedAt.UTC().Format(time.RFC3339Nano)
	return syntheticKeyPrefix + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func observeStoreOp(operation string, start time.Time) {
	metrics.StoreOpDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
