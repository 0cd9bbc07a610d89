package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/stockpulse/internal/domain"
	apperrors "github.com/pscheid92/stockpulse/internal/errors"
	"github.com/pscheid92/stockpulse/internal/report"
	"github.com/pscheid92/stockpulse/internal/sentiment"
	"github.com/pscheid92/stockpulse/internal/store"
)

type failingStore struct {
	err error
}

func (s *failingStore) Upsert(context.Context, string, domain.NewsItem) error {
	return s.err
}

func (s *failingStore) Query(context.Context, string, int) ([]domain.NewsItem, error) {
	return nil, s.err
}

func (s *failingStore) Ping(context.Context) error {
	return s.err
}

type stubProvider struct {
	name  string
	items []domain.RawItem
	err   error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(context.Context, string) ([]domain.RawItem, error) {
	return p.items, p.err
}

func newTestService(itemStore domain.ItemStore, providers ...domain.NewsProvider) *Service {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 2, 12, 12, 0, 0, 0, time.UTC))
	return NewService(sentiment.NewAnalyzer(sentiment.NewLexicon()), "lexicon", itemStore, providers, report.NewAggregator(itemStore), clock)
}

func TestAnalyze(t *testing.T) {
	svc := newTestService(store.NewMemoryStore(clockwork.NewFakeClock()))

	result := svc.Analyze(context.Background(), "stocks surge on record profit")
	assert.Equal(t, domain.LabelPositive, result.Label)

	result = svc.Analyze(context.Background(), "   ")
	assert.Equal(t, domain.LabelNeutral, result.Label)
	assert.Zero(t, result.Polarity)
}

func TestIngest(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 2, 12, 12, 0, 0, 0, time.UTC))
	memStore := store.NewMemoryStore(clock)
	svc := newTestService(memStore)

	published := time.Date(2024, 2, 11, 9, 0, 0, 0, time.UTC)
	item, err := svc.Ingest(context.Background(), "AAPL", domain.RawItem{
		Title:       "Apple stock surges on record earnings",
		Body:        "Shares climbed sharply.",
		URL:         "https://news.example.com/apple",
		PublishedAt: published,
		SourceName:  "Example Wire",
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", item.Subject)
	assert.Equal(t, domain.LabelPositive, item.Sentiment.Label)
	assert.True(t, item.PublishedAt.Equal(published))

	stored, err := memStore.Query(context.Background(), "AAPL", 7)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, item.Sentiment.Polarity, stored[0].Sentiment.Polarity)
}

func TestIngestDefaultsPublishedAt(t *testing.T) {
	now := time.Date(2024, 2, 12, 12, 0, 0, 0, time.UTC)
	memStore := store.NewMemoryStore(clockwork.NewFakeClockAt(now))
	svc := newTestService(memStore)

	item, err := svc.Ingest(context.Background(), "AAPL", domain.RawItem{Title: "Quiet day for markets"})
	require.NoError(t, err)
	assert.True(t, item.PublishedAt.Equal(now))
}

func TestIngestValidation(t *testing.T) {
	svc := newTestService(store.NewMemoryStore(clockwork.NewFakeClock()))

	_, err := svc.Ingest(context.Background(), "  ", domain.RawItem{Title: "some headline"})
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)

	_, err = svc.Ingest(context.Background(), "AAPL", domain.RawItem{Title: "   "})
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
}

func TestIngestPersistenceFailure(t *testing.T) {
	svc := newTestService(&failingStore{err: errors.New("disk full")})

	_, err := svc.Ingest(context.Background(), "AAPL", domain.RawItem{Title: "some headline"})
	require.Error(t, err)
	assert.Equal(t, apperrors.TypePersistence, apperrors.AsStructuredError(err).Type)
	assert.ErrorIs(t, err, domain.ErrPersistenceWrite)
}

func TestCollectSubject(t *testing.T) {
	memStore := store.NewMemoryStore(clockwork.NewFakeClockAt(time.Date(2024, 2, 12, 12, 0, 0, 0, time.UTC)))

	published := time.Date(2024, 2, 11, 9, 0, 0, 0, time.UTC)
	healthy := &stubProvider{
		name: "healthy",
		items: []domain.RawItem{
			{Title: "Stocks surge on earnings beat", URL: "https://news.example.com/1", PublishedAt: published},
			{Title: "", URL: "https://news.example.com/2", PublishedAt: published},
			{Title: "Shares plunge after recall", URL: "https://news.example.com/3", PublishedAt: published},
		},
	}
	broken := &stubProvider{name: "broken", err: errors.New("connection refused")}

	svc := newTestService(memStore, healthy, broken)
	summary := svc.CollectSubject(context.Background(), "AAPL")

	assert.Equal(t, "AAPL", summary.Subject)
	assert.Equal(t, 2, summary.Ingested)
	assert.Empty(t, summary.FailedItems)
	require.Len(t, summary.FailedSources, 1)
	assert.Equal(t, "broken", summary.FailedSources[0].Provider)
	assert.Contains(t, summary.FailedSources[0].Err, "connection refused")

	stored, err := memStore.Query(context.Background(), "AAPL", 7)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestCollectSubjectAccumulatesItemFailures(t *testing.T) {
	provider := &stubProvider{
		name: "healthy",
		items: []domain.RawItem{
			{Title: "Stocks surge on earnings beat", URL: "https://news.example.com/1"},
		},
	}

	svc := newTestService(&failingStore{err: errors.New("disk full")}, provider)
	summary := svc.CollectSubject(context.Background(), "AAPL")

	assert.Zero(t, summary.Ingested)
	require.Len(t, summary.FailedItems, 1)
	assert.Equal(t, "https://news.example.com/1", summary.FailedItems[0].URL)
	assert.Contains(t, summary.FailedItems[0].Err, "disk full")
	assert.Empty(t, summary.FailedSources)
}

func TestReport(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 2, 12, 12, 0, 0, 0, time.UTC))
	memStore := store.NewMemoryStore(clock)
	svc := newTestService(memStore)

	_, err := svc.Ingest(context.Background(), "AAPL", domain.RawItem{
		Title:       "Apple stock surges on record earnings",
		URL:         "https://news.example.com/apple",
		PublishedAt: clock.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	rep, err := svc.Report(context.Background(), "AAPL", 7)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", rep.Subject)
	assert.Equal(t, 7, rep.WindowDays)
	assert.Equal(t, 1, rep.TotalItems)
}

func TestReportNoData(t *testing.T) {
	svc := newTestService(store.NewMemoryStore(clockwork.NewFakeClock()))

	_, err := svc.Report(context.Background(), "AAPL", 7)
	require.Error(t, err)

	structured := apperrors.AsStructuredError(err)
	assert.Equal(t, apperrors.TypeNoData, structured.Type)
	assert.Equal(t, "AAPL", structured.Context["subject"])
	assert.Equal(t, 7, structured.Context["window_days"])
}

func TestReportValidation(t *testing.T) {
	svc := newTestService(store.NewMemoryStore(clockwork.NewFakeClock()))

	_, err := svc.Report(context.Background(), "", 7)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)

	_, err = svc.Report(context.Background(), "AAPL", 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
}
