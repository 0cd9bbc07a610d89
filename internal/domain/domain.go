package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Model types ---

// Label is the discrete sentiment classification of a text or report.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// TextFeatures holds shallow textual signals derived from a snippet.
// Computed per analysis call, never persisted.
type TextFeatures struct {
	HasPercentage       bool `json:"has_percentage"`
	HasNumericMagnitude bool `json:"has_numeric_magnitude"`
	HasFinancialTerm    bool `json:"has_financial_term"`
	WordCount           int  `json:"word_count"`
	ExclamationCount    int  `json:"exclamation_count"`
	QuestionCount       int  `json:"question_count"`
}

// SentimentResult is the outcome of scoring a single text.
// Polarity is always within [-1.0, 1.0].
type SentimentResult struct {
	Polarity             float64      `json:"polarity"`
	Label                Label        `json:"label"`
	MatchedPositiveTerms []string     `json:"matched_positive_terms,omitempty"`
	MatchedNegativeTerms []string     `json:"matched_negative_terms,omitempty"`
	Features             TextFeatures `json:"features"`
}

// RawItem is an unscored news item as handed over by a news provider.
type RawItem struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	SourceName  string    `json:"source_name"`
}

// NewsItem is a scored, persistable news item. At most one record exists
// per (Subject, URL); re-ingestion overwrites all other fields.
type NewsItem struct {
	ID          uuid.UUID       `db:"id"`
	Subject     string          `db:"subject"`
	Title       string          `db:"title"`
	Body        string          `db:"body"`
	URL         string          `db:"url"`
	SourceName  string          `db:"source"`
	PublishedAt time.Time       `db:"published_at"`
	Sentiment   SentimentResult `db:"-"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Distribution counts items per label inside a report window.
type Distribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// AnalysisReport aggregates the stored items of a subject over a trailing
// window. Computed on demand, never persisted.
type AnalysisReport struct {
	Subject         string       `json:"subject"`
	WindowDays      int          `json:"window_days"`
	TotalItems      int          `json:"total_items"`
	Distribution    Distribution `json:"distribution"`
	AveragePolarity float64      `json:"average_polarity"`
	OverallLabel    Label        `json:"overall_label"`
	RecentHeadlines []string     `json:"recent_headlines"`
}

// ItemFailure records a single item that could not be persisted during a
// collection cycle.
type ItemFailure struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Err   string `json:"error"`
}

// SourceFailure records a news provider that could not be reached during a
// collection cycle.
type SourceFailure struct {
	Provider string `json:"provider"`
	Err      string `json:"error"`
}

// BatchSummary is the aggregate outcome of one collection cycle for a
// subject. Per-item and per-source failures never abort the cycle; they
// accumulate here instead.
type BatchSummary struct {
	Subject       string          `json:"subject"`
	Ingested      int             `json:"ingested"`
	FailedItems   []ItemFailure   `json:"failed_items,omitempty"`
	FailedSources []SourceFailure `json:"failed_sources,omitempty"`
}

// --- Interfaces ---

// Strategy is an interchangeable sentiment scorer. Implementations must be
// safe for unrestricted concurrent use and must never fail: every input
// yields a valid SentimentResult.
type Strategy interface {
	Score(ctx context.Context, text string) SentimentResult
}

// ItemStore is the dedup ledger for scored news items.
type ItemStore interface {
	// Upsert writes or atomically replaces the single record keyed by
	// (subject, item.URL). Concurrent upserts to the same key serialize
	// with last-write-wins semantics.
	Upsert(ctx context.Context, subject string, item NewsItem) error

	// Query returns the subject's items with PublishedAt inside
	// [now - windowDays, now], ordered by PublishedAt descending.
	Query(ctx context.Context, subject string, windowDays int) ([]NewsItem, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// NewsProvider hands over raw items for a subject. Fetch mechanics, retry
// policy and rate limiting live behind this interface.
type NewsProvider interface {
	Name() string
	Fetch(ctx context.Context, subject string) ([]RawItem, error)
}

// AppService is the surface exposed to the HTTP layer.
type AppService interface {
	Analyze(ctx context.Context, text string) SentimentResult
	Ingest(ctx context.Context, subject string, raw RawItem) (*NewsItem, error)
	CollectSubject(ctx context.Context, subject string) *BatchSummary
	Report(ctx context.Context, subject string, windowDays int) (*AnalysisReport, error)
}
