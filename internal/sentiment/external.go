package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pscheid92/stockpulse/internal/domain"
	"github.com/pscheid92/stockpulse/internal/metrics"
)

const classifierTimeout = 10 * time.Second

// classifyRequest is the wire format sent to the inference service.
type classifyRequest struct {
	Text string `json:"text"`
}

// classifyResponse is the wire format returned by the inference service.
type classifyResponse struct {
	Polarity   float64 `json:"polarity"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ExternalClassifier scores text via a remote model service and fully
// substitutes for the lexicon strategy when configured. A circuit breaker
// guards the remote call; on failure or open circuit it degrades to the
// given fallback strategy so scoring itself never fails.
type ExternalClassifier struct {
	baseURL  string
	client   *http.Client
	breaker  circuitbreaker.CircuitBreaker[any]
	fallback domain.Strategy
}

var _ domain.Strategy = (*ExternalClassifier)(nil)

// NewExternalClassifier creates a classifier client for the given base URL.
// The breaker opens at a 60% failure rate (min 5 requests, 10s rolling
// window) and probes again after 30s.
func NewExternalClassifier(baseURL string, fallback domain.Strategy) *ExternalClassifier {
	cb := circuitbreaker.Builder[any]().
		WithFailureRateThreshold(60, 5, 10*time.Second).
		WithDelay(30 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Classifier circuit breaker state changed",
				"component", "classifier",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			metrics.ClassifierBreakerStateChanges.WithLabelValues(e.NewState.String()).Inc()
		}).
		Build()

	return &ExternalClassifier{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: classifierTimeout},
		breaker:  cb,
		fallback: fallback,
	}
}

// Score delegates to the remote model, falling back to the lexicon scorer
// when the remote is unreachable, misbehaving, or the circuit is open.
func (e *ExternalClassifier) Score(ctx context.Context, text string) domain.SentimentResult {
	if !e.breaker.TryAcquirePermit() {
		metrics.ClassifierFallbacks.WithLabelValues("circuit_open").Inc()
		return e.fallback.Score(ctx, text)
	}

	result, err := e.classify(ctx, text)
	if err != nil {
		e.breaker.RecordError(err)
		metrics.ClassifierFallbacks.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "External classifier failed, using lexicon fallback", "error", err)
		return e.fallback.Score(ctx, text)
	}

	e.breaker.RecordSuccess()
	return *result
}

func (e *ExternalClassifier) classify(ctx context.Context, text string) (*domain.SentimentResult, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var payload classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode classify response: %w", err)
	}

	polarity := clamp(payload.Polarity, -1.0, 1.0)
	label := domain.Label(payload.Label)
	switch label {
	case domain.LabelPositive, domain.LabelNeutral, domain.LabelNegative:
	default:
		label = ClassifyPolarity(polarity)
	}

	return &domain.SentimentResult{Polarity: polarity, Label: label}, nil
}
