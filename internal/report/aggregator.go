// Package report computes windowed analysis reports from the item store.
package report

import (
	"context"
	"fmt"
	"math"

	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/sentiment"
)

const maxRecentHeadlines = 5

// Aggregator generates on-demand reports over a subject's stored items.
// Read-only and safe for unrestricted concurrent use.
type Aggregator struct {
	store domain.ItemStore
}

func NewAggregator(store domain.ItemStore) *Aggregator {
	return &Aggregator{store: store}
}

// GenerateReport queries the trailing window and computes the label
// distribution, the mean polarity (rounded to 3 decimals) and the most
// recent headlines. An empty window yields domain.ErrNoDataForWindow.
func (a *Aggregator) GenerateReport(ctx context.Context, subject string, windowDays int) (*domain.AnalysisReport, error) {
	items, err := a.store.Query(ctx, subject, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for report: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: subject %q over %d days", domain.ErrNoDataForWindow, subject, windowDays)
	}

	var distribution domain.Distribution
	var polaritySum float64
	for _, item := range items {
		polaritySum += item.Sentiment.Polarity
		switch item.Sentiment.Label {
		case domain.LabelPositive:
			distribution.Positive++
		case domain.LabelNegative:
			distribution.Negative++
		default:
			distribution.Neutral++
		}
	}

	average := roundTo3(polaritySum / float64(len(items)))

	headlines := make([]string, 0, maxRecentHeadlines)
	for _, item := range items[:min(maxRecentHeadlines, len(items))] {
		headlines = append(headlines, item.Title)
	}

	return &domain.AnalysisReport{
		Subject:         subject,
		WindowDays:      windowDays,
		TotalItems:      len(items),
		Distribution:    distribution,
		AveragePolarity: average,
		OverallLabel:    sentiment.ClassifyPolarity(average),
		RecentHeadlines: headlines,
	}, nil
}

func roundTo3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
