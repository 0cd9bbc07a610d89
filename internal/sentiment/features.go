package sentiment

import (
	"regexp"
	"strings"

	"github.com/pscheid92/stockpulse/internal/domain"
)

// Pattern grammars for numeric feature detection. Percentage is one or
// more digits followed by '%'. Magnitude is either a '$'-prefixed number
// or a decimal number optionally suffixed with B/M/K.
var (
	percentagePattern = regexp.MustCompile(`\d+%`)
	magnitudePattern  = regexp.MustCompile(`\$\d+|\d+\.\d+[BMK]?`)
	tokenPattern      = regexp.MustCompile(`\w+`)
)

// Tokenize splits text into lowercase word tokens: maximal contiguous runs
// of alphanumeric or underscore characters.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// DetectPercentage reports whether text contains a percentage mention.
func DetectPercentage(text string) bool {
	return percentagePattern.MatchString(text)
}

// DetectMagnitude reports whether text contains a currency or numeric
// magnitude mention.
func DetectMagnitude(text string) bool {
	return magnitudePattern.MatchString(text)
}

// ExtractFeatures derives shallow signals from the original, unmodified
// text. Pure and total: every input produces a valid TextFeatures.
func (l *Lexicon) ExtractFeatures(text string) domain.TextFeatures {
	features := domain.TextFeatures{
		HasPercentage:       DetectPercentage(text),
		HasNumericMagnitude: DetectMagnitude(text),
		WordCount:           len(strings.Fields(text)),
		ExclamationCount:    strings.Count(text, "!"),
		QuestionCount:       strings.Count(text, "?"),
	}

	for _, token := range Tokenize(text) {
		if l.IsFinancialTerm(token) {
			features.HasFinancialTerm = true
			break
		}
	}

	return features
}
