package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/stockpulse/internal/domain"
)

// MemoryStore keeps the dedup ledger in process memory. Suited for
// single-instance mode and tests. Safe for concurrent use; upserts to the
// same key serialize on the mutex with last-write-wins semantics.
type MemoryStore struct {
	clock clockwork.Clock

	mu       sync.RWMutex
	subjects map[string]map[string]domain.NewsItem
}

var _ domain.ItemStore = (*MemoryStore)(nil)

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		clock:    clock,
		subjects: make(map[string]map[string]domain.NewsItem),
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, subject string, item domain.NewsItem) error {
	// A cancelled upsert must leave the ledger in its prior state, so the
	// context is checked before any mutation.
	if err := ctx.Err(); err != nil {
		return err
	}

	key := DedupKey(subject, item)

	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.subjects[subject]
	if !ok {
		items = make(map[string]domain.NewsItem)
		s.subjects[subject] = items
	}

	item.Subject = subject
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.clock.Now()
	}
	items[key] = item
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, subject string, windowDays int) ([]domain.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)

	s.mu.RLock()
	var result []domain.NewsItem
	for _, item := range s.subjects[subject] {
		if item.PublishedAt.Before(cutoff) || item.PublishedAt.After(now) {
			continue
		}
		result = append(result, item)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].PublishedAt.After(result[j].PublishedAt)
	})
	return result, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
