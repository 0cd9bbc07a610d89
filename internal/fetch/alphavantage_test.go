package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pscheid92/stockpulse/internal/platform/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAlphaVantage(serverURL string) *AlphaVantageProvider {
	p := NewAlphaVantageProvider("test-key")
	p.baseURL = serverURL
	return p
}

func TestAlphaVantageFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("tickers"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"feed": [
				{
					"title": "Apple surges on record earnings",
					"summary": "Strong quarter.",
					"url": "https://news.example.com/apple-earnings",
					"time_published": "20240212T143000",
					"source": "Example Wire"
				},
				{
					"title": "Broken timestamp entry",
					"summary": "Should be skipped.",
					"url": "https://news.example.com/broken",
					"time_published": "not-a-timestamp",
					"source": "Example Wire"
				}
			]
		}`))
	}))
	defer server.Close()

	items, err := newTestAlphaVantage(server.URL).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Apple surges on record earnings", items[0].Title)
	assert.Equal(t, "Strong quarter.", items[0].Body)
	assert.Equal(t, "https://news.example.com/apple-earnings", items[0].URL)
	assert.Equal(t, "Example Wire", items[0].SourceName)
	assert.Equal(t, time.Date(2024, 2, 12, 14, 30, 0, 0, time.UTC), items[0].PublishedAt)
}

func TestAlphaVantageFetchEmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"feed": []}`))
	}))
	defer server.Close()

	items, err := newTestAlphaVantage(server.URL).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAlphaVantageFetchStopsOnClientError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestAlphaVantage(server.URL).Fetch(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "client errors must not be retried")
}

func TestAlphaVantageFetchRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"feed": []}`))
	}))
	defer server.Close()

	_, err := newTestAlphaVantage(server.URL).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestClassifyFetch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want retry.Action
	}{
		{"rate limit waits", &statusError{provider: "x", code: http.StatusTooManyRequests}, retry.After},
		{"server error retries", &statusError{provider: "x", code: http.StatusBadGateway}, retry.Retry},
		{"client error stops", &statusError{provider: "x", code: http.StatusNotFound}, retry.Stop},
		{"transport error retries", assert.AnError, retry.Retry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyFetch(tt.err))
		})
	}
}
