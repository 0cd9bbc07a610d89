// Package app is the application layer. It orchestrates scoring, ingestion,
// collection cycles and report generation over the domain interfaces.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/pscheid92/stockpulse/internal/domain"
	apperrors "github.com/pscheid92/stockpulse/internal/errors"
	"github.com/pscheid92/stockpulse/internal/metrics"
	"github.com/pscheid92/stockpulse/internal/report"
)

// Service implements domain.AppService. It is the only component that
// references multiple domain components.
type Service struct {
	strategy     domain.Strategy
	strategyName string
	store        domain.ItemStore
	providers    []domain.NewsProvider
	reports      *report.Aggregator
	clock        clockwork.Clock

	// Concurrent collection cycles for the same subject collapse into one.
	collectGroup singleflight.Group
}

var _ domain.AppService = (*Service)(nil)

func NewService(strategy domain.Strategy, strategyName string, store domain.ItemStore, providers []domain.NewsProvider, reports *report.Aggregator, clock clockwork.Clock) *Service {
	return &Service{
		strategy:     strategy,
		strategyName: strategyName,
		store:        store,
		providers:    providers,
		reports:      reports,
		clock:        clock,
	}
}

// Analyze scores a single text. Scoring never fails; empty input yields a
// neutral result.
func (s *Service) Analyze(ctx context.Context, text string) domain.SentimentResult {
	start := time.Now()
	result := s.strategy.Score(ctx, text)
	metrics.AnalyzeDuration.WithLabelValues(s.strategyName).Observe(time.Since(start).Seconds())
	metrics.AnalyzeTotal.WithLabelValues(string(result.Label)).Inc()
	return result
}

// Ingest scores a raw item and upserts it into the dedup ledger. The stored
// record reflects the latest ingestion for its (subject, url) key.
func (s *Service) Ingest(ctx context.Context, subject string, raw domain.RawItem) (*domain.NewsItem, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.ValidationError("subject must not be empty")
	}
	if strings.TrimSpace(raw.Title) == "" {
		return nil, apperrors.ValidationError("item title must not be empty")
	}

	item := s.scoreItem(ctx, subject, raw)

	if err := s.store.Upsert(ctx, subject, item); err != nil {
		metrics.ItemsIngested.WithLabelValues("failed").Inc()
		return nil, apperrors.PersistenceError("failed to store item", fmt.Errorf("%w: %w", domain.ErrPersistenceWrite, err)).
			WithContext("subject", subject).
			WithContext("url", raw.URL)
	}

	metrics.ItemsIngested.WithLabelValues("stored").Inc()
	return &item, nil
}

// CollectSubject runs one collection cycle: fetch from every provider, score
// and upsert each item. Per-item and per-source failures accumulate in the
// summary and never abort the cycle. Concurrent cycles for the same subject
// share a single run.
func (s *Service) CollectSubject(ctx context.Context, subject string) *domain.BatchSummary {
	v, _, _ := s.collectGroup.Do(subject, func() (any, error) {
		return s.collect(ctx, subject), nil
	})
	return v.(*domain.BatchSummary)
}

func (s *Service) collect(ctx context.Context, subject string) *domain.BatchSummary {
	summary := &domain.BatchSummary{Subject: subject}

	for _, provider := range s.providers {
		items, err := provider.Fetch(ctx, subject)
		if err != nil {
			slog.WarnContext(ctx, "Provider fetch failed",
				"provider", provider.Name(),
				"subject", subject,
				"error", err)
			summary.FailedSources = append(summary.FailedSources, domain.SourceFailure{
				Provider: provider.Name(),
				Err:      fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err).Error(),
			})
			continue
		}

		for _, raw := range items {
			if strings.TrimSpace(raw.Title) == "" {
				continue
			}

			item := s.scoreItem(ctx, subject, raw)
			if err := s.store.Upsert(ctx, subject, item); err != nil {
				metrics.ItemsIngested.WithLabelValues("failed").Inc()
				summary.FailedItems = append(summary.FailedItems, domain.ItemFailure{
					Title: raw.Title,
					URL:   raw.URL,
					Err:   fmt.Errorf("%w: %w", domain.ErrPersistenceWrite, err).Error(),
				})
				continue
			}

			metrics.ItemsIngested.WithLabelValues("stored").Inc()
			summary.Ingested++
		}
	}

	slog.InfoContext(ctx, "Collection cycle finished",
		"subject", subject,
		"ingested", summary.Ingested,
		"failed_items", len(summary.FailedItems),
		"failed_sources", len(summary.FailedSources))
	return summary
}

// Report generates the windowed analysis report for a subject.
func (s *Service) Report(ctx context.Context, subject string, windowDays int) (*domain.AnalysisReport, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperrors.ValidationError("subject must not be empty")
	}
	if windowDays < 1 {
		return nil, apperrors.ValidationError("window must be at least 1 day").
			WithContext("window_days", windowDays)
	}

	rep, err := s.reports.GenerateReport(ctx, subject, windowDays)
	if err != nil {
		if errors.Is(err, domain.ErrNoDataForWindow) {
			metrics.ReportRequests.WithLabelValues("no_data").Inc()
			return nil, apperrors.NoDataError("no items for subject in window").
				WithContext("subject", subject).
				WithContext("window_days", windowDays)
		}
		metrics.ReportRequests.WithLabelValues("error").Inc()
		return nil, apperrors.InternalError("failed to generate report", err).
			WithContext("subject", subject)
	}

	metrics.ReportRequests.WithLabelValues("ok").Inc()
	return rep, nil
}

func (s *Service) scoreItem(ctx context.Context, subject string, raw domain.RawItem) domain.NewsItem {
	text := raw.Title
	if raw.Body != "" {
		text = raw.Title + " " + raw.Body
	}

	start := time.Now()
	result := s.strategy.Score(ctx, text)
	metrics.AnalyzeDuration.WithLabelValues(s.strategyName).Observe(time.Since(start).Seconds())
	metrics.AnalyzeTotal.WithLabelValues(string(result.Label)).Inc()

	publishedAt := raw.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = s.clock.Now()
	}

	return domain.NewsItem{
		Subject:     subject,
		Title:       raw.Title,
		Body:        raw.Body,
		URL:         raw.URL,
		SourceName:  raw.SourceName,
		PublishedAt: publishedAt,
		Sentiment:   result,
	}
}
