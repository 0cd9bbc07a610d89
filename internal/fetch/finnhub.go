package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/metrics"
	"github.com/pscheid92/stockpulse/internal/platform/retry"
)

const (
	finnhubName    = "finnhub"
	finnhubBaseURL = "https://finnhub.io"

	// Finnhub's company-news endpoint wants a date range; one week back
	// matches the default report window.
	finnhubLookbackDays = 7
)

// FinnhubProvider fetches news via the company-news endpoint.
type FinnhubProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	clock   clockwork.Clock
}

func NewFinnhubProvider(apiKey string, clock clockwork.Clock) *FinnhubProvider {
	return &FinnhubProvider{
		baseURL: finnhubBaseURL,
		apiKey:  apiKey,
		client:  newHTTPClient(),
		clock:   clock,
	}
}

func (p *FinnhubProvider) Name() string {
	return finnhubName
}

type finnhubArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
	Source   string `json:"source"`
}

func (p *FinnhubProvider) Fetch(ctx context.Context, subject string) ([]domain.RawItem, error) {
	timer := time.Now()
	items, err := retry.Do(ctx, defaultPolicy(finnhubName), classifyFetch, func() ([]domain.RawItem, error) {
		return p.fetchOnce(ctx, subject)
	})
	metrics.ProviderFetchDuration.WithLabelValues(finnhubName).Observe(time.Since(timer).Seconds())

	if err != nil {
		metrics.ProviderFetchTotal.WithLabelValues(finnhubName, "error").Inc()
		return nil, fmt.Errorf("finnhub fetch for %q: %w", subject, err)
	}

	metrics.ProviderFetchTotal.WithLabelValues(finnhubName, "ok").Inc()
	return items, nil
}

func (p *FinnhubProvider) fetchOnce(ctx context.Context, subject string) ([]domain.RawItem, error) {
	now := p.clock.Now()

	q := url.Values{}
	q.Set("symbol", subject)
	q.Set("from", now.AddDate(0, 0, -finnhubLookbackDays).Format("2006-01-02"))
	q.Set("to", now.Format("2006-01-02"))
	q.Set("token", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/v1/company-news?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{provider: finnhubName, code: resp.StatusCode}
	}

	var articles []finnhubArticle
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(articles) > maxItemsPerPoll {
		articles = articles[:maxItemsPerPoll]
	}

	items := make([]domain.RawItem, 0, len(articles))
	for _, a := range articles {
		if a.Headline == "" {
			continue
		}

		items = append(items, domain.RawItem{
			Title:       a.Headline,
			Body:        a.Summary,
			URL:         a.URL,
			PublishedAt: time.Unix(a.Datetime, 0).UTC(),
			SourceName:  a.Source,
		})
	}

	return items, nil
}
