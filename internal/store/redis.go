package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/metrics"
	goredis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis from a URL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps the dedup ledger in Redis: one record string per item
// plus a per-subject sorted set scored by publish time for window queries.
// Record writes and index updates go through one transactional pipeline,
// so readers never observe a partially written item.
type RedisStore struct {
	rdb   *goredis.Client
	clock clockwork.Clock
}

var _ domain.ItemStore = (*RedisStore)(nil)

func NewRedisStore(rdb *goredis.Client, clock clockwork.Clock) *RedisStore {
	return &RedisStore{rdb: rdb, clock: clock}
}

func (s *RedisStore) Upsert(ctx context.Context, subject string, item domain.NewsItem) error {
	defer observeStoreOp("upsert", time.Now())
	key := DedupKey(subject, item)

	item.Subject = subject
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.clock.Now()
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode news item: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZAdd(ctx, indexKey(subject), goredis.Z{
			Score:  float64(item.PublishedAt.Unix()),
			Member: key,
		})
		pipe.Set(ctx, recordKey(subject, key), payload, 0)
		return nil
	})
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("upsert").Inc()
		return fmt.Errorf("failed to upsert news item: %w", err)
	}
	return nil
}

func (s *RedisStore) Query(ctx context.Context, subject string, windowDays int) ([]domain.NewsItem, error) {
	defer observeStoreOp("query", time.Now())

	now := s.clock.Now()
	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)

	keys, err := s.rdb.ZRevRangeByScore(ctx, indexKey(subject), &goredis.ZRangeBy{
		Min: strconv.FormatInt(cutoff.Unix(), 10),
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("query").Inc()
		return nil, fmt.Errorf("failed to query item index: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	recordKeys := make([]string, len(keys))
	for i, key := range keys {
		recordKeys[i] = recordKey(subject, key)
	}

	records, err := s.rdb.MGet(ctx, recordKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item records: %w", err)
	}

	items := make([]domain.NewsItem, 0, len(records))
	for _, record := range records {
		raw, ok := record.(string)
		if !ok {
			continue // index entry without record, skip
		}
		var item domain.NewsItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			continue // corrupt record, skip
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func indexKey(subject string) string {
	return "items:" + subject
}

func recordKey(subject, key string) string {
	return "item:" + subject + ":" + key
}
