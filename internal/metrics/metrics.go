// Package metrics defines the Prometheus collectors for the ingestion and
// reporting pipeline. All collectors are registered at init via promauto
// and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scoring metrics
var (
	// AnalyzeDuration tracks sentiment scoring latency by strategy
	AnalyzeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analyze_duration_seconds",
			Help:    "Sentiment scoring duration in seconds by strategy",
			Buckets: []float64{.00001, .0001, .001, .01, .1, .5, 1},
		},
		[]string{"strategy"},
	)

	// AnalyzeTotal tracks scored texts by resulting label
	AnalyzeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyze_total",
			Help: "Total scored texts by resulting label",
		},
		[]string{"label"},
	)

	// ClassifierBreakerStateChanges tracks external classifier circuit breaker transitions
	ClassifierBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_breaker_state_changes_total",
			Help: "External classifier circuit breaker transitions by new state",
		},
		[]string{"state"},
	)

	// ClassifierFallbacks tracks scorings that fell back to the lexicon strategy
	ClassifierFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_fallbacks_total",
			Help: "Scorings that fell back to the lexicon strategy by reason",
		},
		[]string{"reason"},
	)
)

// Ingestion metrics
var (
	// ItemsIngested tracks ingested items by outcome (stored, failed)
	ItemsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_ingested_total",
			Help: "Total ingested items by outcome",
		},
		[]string{"outcome"},
	)

	// ProviderFetchTotal tracks provider fetches by provider and status
	ProviderFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fetch_total",
			Help: "Total provider fetches by provider and status",
		},
		[]string{"provider", "status"},
	)

	// ProviderFetchDuration tracks provider fetch latency
	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_fetch_duration_seconds",
			Help:    "Provider fetch duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)
)

// Store metrics
var (
	// StoreOpDuration tracks item store operation latency
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Item store operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// StoreErrorsTotal tracks item store errors by operation
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total item store errors by operation",
		},
		[]string{"operation"},
	)
)

// Report metrics
var (
	// ReportRequests tracks report generation by outcome (ok, no_data, error)
	ReportRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_requests_total",
			Help: "Total report generations by outcome",
		},
		[]string{"outcome"},
	)
)
