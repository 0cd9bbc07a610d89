package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/metrics"
	"github.com/pscheid92/stockpulse/internal/sentiment"
)

// Connect opens a pgx connection pool and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations applies the ledger schema. Statements are idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS news_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			subject TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMPTZ NOT NULL,
			polarity DOUBLE PRECISION NOT NULL,
			label TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (subject, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_items_subject_published
			ON news_items (subject, published_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	slog.Info("Database migrations completed")
	return nil
}

// PostgresStore is the durable dedup ledger. The UNIQUE (subject, url)
// constraint plus ON CONFLICT upsert gives atomic last-write-wins replace.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ domain.ItemStore = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Upsert(ctx context.Context, subject string, item domain.NewsItem) error {
	defer observeStoreOp("upsert", time.Now())
	key := DedupKey(subject, item)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO news_items (subject, title, body, url, source, published_at, polarity, label)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subject, url) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			source = EXCLUDED.source,
			published_at = EXCLUDED.published_at,
			polarity = EXCLUDED.polarity,
			label = EXCLUDED.label
	`, subject, item.Title, item.Body, key, item.SourceName, item.PublishedAt,
		item.Sentiment.Polarity, string(item.Sentiment.Label))

	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("upsert").Inc()
		return fmt.Errorf("failed to upsert news item: %w", err)
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, subject string, windowDays int) ([]domain.NewsItem, error) {
	defer observeStoreOp("query", time.Now())

	rows, err := s.pool.Query(ctx, `
		SELECT id, subject, title, body, url, source, published_at, polarity, label, created_at
		FROM news_items
		WHERE subject = $1
		  AND published_at >= NOW() - ($2 * INTERVAL '1 day')
		  AND published_at <= NOW()
		ORDER BY published_at DESC
	`, subject, windowDays)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("query").Inc()
		return nil, fmt.Errorf("failed to query news items: %w", err)
	}
	defer rows.Close()

	var items []domain.NewsItem
	for rows.Next() {
		var item domain.NewsItem
		var label string
		if err := rows.Scan(
			&item.ID, &item.Subject, &item.Title, &item.Body, &item.URL,
			&item.SourceName, &item.PublishedAt, &item.Sentiment.Polarity,
			&label, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		item.Sentiment.Label = domain.Label(label)
		if item.Sentiment.Label == "" {
			item.Sentiment.Label = sentiment.ClassifyPolarity(item.Sentiment.Polarity)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news items: %w", err)
	}

	return items, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
