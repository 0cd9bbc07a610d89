package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/metrics"
	"github.com/pscheid92/stockpulse/internal/platform/retry"
)

const (
	alphaVantageName    = "alphavantage"
	alphaVantageBaseURL = "https://www.alphavantage.co"

	// Alpha Vantage serializes feed timestamps as e.g. "20240212T143000".
	alphaVantageTimeLayout = "20060102T150405"
)

// AlphaVantageProvider fetches news via the NEWS_SENTIMENT endpoint.
type AlphaVantageProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAlphaVantageProvider(apiKey string) *AlphaVantageProvider {
	return &AlphaVantageProvider{
		baseURL: alphaVantageBaseURL,
		apiKey:  apiKey,
		client:  newHTTPClient(),
	}
}

func (p *AlphaVantageProvider) Name() string {
	return alphaVantageName
}

type alphaVantageFeedEntry struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	TimePublished string `json:"time_published"`
	Source        string `json:"source"`
}

type alphaVantageResponse struct {
	Feed []alphaVantageFeedEntry `json:"feed"`
}

func (p *AlphaVantageProvider) Fetch(ctx context.Context, subject string) ([]domain.RawItem, error) {
	timer := time.Now()
	items, err := retry.Do(ctx, defaultPolicy(alphaVantageName), classifyFetch, func() ([]domain.RawItem, error) {
		return p.fetchOnce(ctx, subject)
	})
	metrics.ProviderFetchDuration.WithLabelValues(alphaVantageName).Observe(time.Since(timer).Seconds())

	if err != nil {
		metrics.ProviderFetchTotal.WithLabelValues(alphaVantageName, "error").Inc()
		return nil, fmt.Errorf("alphavantage fetch for %q: %w", subject, err)
	}

	metrics.ProviderFetchTotal.WithLabelValues(alphaVantageName, "ok").Inc()
	return items, nil
}

func (p *AlphaVantageProvider) fetchOnce(ctx context.Context, subject string) ([]domain.RawItem, error) {
	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("tickers", subject)
	q.Set("limit", strconv.Itoa(maxItemsPerPoll))
	q.Set("apikey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{provider: alphaVantageName, code: resp.StatusCode}
	}

	var payload alphaVantageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.RawItem, 0, len(payload.Feed))
	for _, entry := range payload.Feed {
		publishedAt, err := time.Parse(alphaVantageTimeLayout, entry.TimePublished)
		if err != nil {
			// Entries with a broken timestamp are skipped, not fatal.
			continue
		}

		items = append(items, domain.RawItem{
			Title:       entry.Title,
			Body:        entry.Summary,
			URL:         entry.URL,
			PublishedAt: publishedAt,
			SourceName:  entry.Source,
		})
	}

	return items, nil
}
