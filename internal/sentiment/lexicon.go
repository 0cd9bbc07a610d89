package sentiment

// Polarity is the lexicon class of a single term.
type Polarity int

const (
	PolarityNone Polarity = iota
	PolarityPositive
	PolarityNegative
)

const (
	standardWeight = 1.0
	highWeight     = 2.0
)

// Lexicon is the static vocabulary of polarity-tagged terms. Built once at
// startup, shared by reference, never mutated afterwards. The financial
// term set feeds feature detection only and plays no role in scoring.
type Lexicon struct {
	positive       map[string]struct{}
	negative       map[string]struct{}
	highPositive   map[string]struct{}
	highNegative   map[string]struct{}
	financialTerms map[string]struct{}
}

// NewLexicon builds the default financial lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		positive: toSet(
			"bullish", "bull", "rally", "surge", "soar", "climb", "rise", "gain", "up",
			"growth", "profit", "earnings", "beat", "exceed", "outperform", "strong",
			"robust", "solid", "healthy", "positive", "optimistic", "confident",
			"breakthrough", "success", "expansion", "milestone", "record", "high",
			"upgrade", "buy", "overweight", "recommend", "target", "upside",
		),
		negative: toSet(
			"bearish", "bear", "crash", "plunge", "plummet", "fall", "drop", "decline",
			"loss", "losses", "down", "weak", "poor", "disappointing", "miss", "below",
			"underperform", "concern", "worry", "fear", "risk", "threat", "challenge",
			"pressure", "struggle", "difficulty", "problem", "issue", "negative",
			"pessimistic", "cautious", "downgrade", "sell", "underweight", "avoid",
		),
		highPositive: toSet(
			"surge", "soar", "skyrocket", "breakthrough", "record", "beat", "exceed",
		),
		highNegative: toSet(
			"crash", "plunge", "plummet", "collapse", "devastating", "disaster",
		),
		financialTerms: toSet(
			"stock", "stocks", "share", "shares", "market", "markets", "trading",
			"earnings", "revenue", "profit", "dividend", "guidance", "forecast",
			"ipo", "merger", "acquisition", "valuation", "analyst", "investor",
			"investors", "fed", "rates", "inflation", "quarter", "fiscal",
		),
	}
}

// Classify reports the polarity class of a lowercase term.
func (l *Lexicon) Classify(term string) Polarity {
	if _, ok := l.positive[term]; ok {
		return PolarityPositive
	}
	if _, ok := l.negative[term]; ok {
		return PolarityNegative
	}
	return PolarityNone
}

// Weight returns 2.0 for terms in the high-weight subset of their polarity
// class and 1.0 otherwise.
func (l *Lexicon) Weight(term string) float64 {
	switch l.Classify(term) {
	case PolarityPositive:
		if _, ok := l.highPositive[term]; ok {
			return highWeight
		}
	case PolarityNegative:
		if _, ok := l.highNegative[term]; ok {
			return highWeight
		}
	}
	return standardWeight
}

// IsFinancialTerm reports membership in the financial term set.
func (l *Lexicon) IsFinancialTerm(term string) bool {
	_, ok := l.financialTerms[term]
	return ok
}

func toSet(terms ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}
