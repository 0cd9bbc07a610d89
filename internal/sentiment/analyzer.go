package sentiment

import (
	"context"
	"strings"

	"github.com/pscheid92/stockpulse/internal/domain"
)

const (
	percentageBoost = 1.3
	magnitudeBoost  = 1.1
	labelThreshold  = 0.15
)

// Analyzer is the lexicon-weighted scoring strategy. It is a pure function
// of the input text and the immutable lexicon: identical input always
// yields identical output, independent of call order or wall-clock time.
type Analyzer struct {
	lexicon  *Lexicon
	resolver *Resolver
}

var _ domain.Strategy = (*Analyzer)(nil)

// NewAnalyzer builds an Analyzer around the given lexicon with the
// canonical negation configuration.
func NewAnalyzer(lexicon *Lexicon) *Analyzer {
	return NewAnalyzerWithNegation(lexicon, DefaultNegationConfig())
}

// NewAnalyzerWithNegation builds an Analyzer with a custom negation setup.
func NewAnalyzerWithNegation(lexicon *Lexicon, cfg NegationConfig) *Analyzer {
	return &Analyzer{
		lexicon:  lexicon,
		resolver: NewResolver(lexicon, cfg),
	}
}

// Score analyzes text and never fails: empty or whitespace-only input is
// the defined degrade path and yields a neutral result.
func (a *Analyzer) Score(_ context.Context, text string) domain.SentimentResult {
	if strings.TrimSpace(text) == "" {
		return domain.SentimentResult{Polarity: 0.0, Label: domain.LabelNeutral}
	}

	tokens := Tokenize(text)

	var positive, negative float64
	var matchedPositive, matchedNegative []string
	for _, token := range tokens {
		switch a.lexicon.Classify(token) {
		case PolarityPositive:
			positive += a.lexicon.Weight(token)
			matchedPositive = appendUnique(matchedPositive, token)
		case PolarityNegative:
			negative += a.lexicon.Weight(token)
			matchedNegative = appendUnique(matchedNegative, token)
		}
	}

	// Features come from the original, non-lowercased text.
	features := a.lexicon.ExtractFeatures(text)

	if features.HasPercentage {
		switch {
		case positive > negative:
			positive *= percentageBoost
		case negative > positive:
			negative *= percentageBoost
		}
	}
	if features.HasNumericMagnitude {
		positive *= magnitudeBoost
		negative *= magnitudeBoost
	}

	positive, negative = a.resolver.Adjust(tokens, positive, negative)

	divisor := float64(max(1, len(tokens)))
	polarity := clamp((positive/divisor-negative/divisor)*2, -1.0, 1.0)

	return domain.SentimentResult{
		Polarity:             polarity,
		Label:                ClassifyPolarity(polarity),
		MatchedPositiveTerms: matchedPositive,
		MatchedNegativeTerms: matchedNegative,
		Features:             features,
	}
}

// ClassifyPolarity maps a polarity to its label using the one canonical
// threshold, applied identically at item level and report level.
func ClassifyPolarity(polarity float64) domain.Label {
	switch {
	case polarity > labelThreshold:
		return domain.LabelPositive
	case polarity < -labelThreshold:
		return domain.LabelNegative
	default:
		return domain.LabelNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func appendUnique(terms []string, term string) []string {
	for _, t := range terms {
		if t == term {
			return terms
		}
	}
	return append(terms, term)
}
