package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexiconClassify(t *testing.T) {
	lex := NewLexicon()

	assert.Equal(t, PolarityPositive, lex.Classify("rally"))
	assert.Equal(t, PolarityPositive, lex.Classify("earnings"))
	assert.Equal(t, PolarityNegative, lex.Classify("plummet"))
	assert.Equal(t, PolarityNegative, lex.Classify("downgrade"))
	assert.Equal(t, PolarityNone, lex.Classify("volatility"))
	assert.Equal(t, PolarityNone, lex.Classify(""))
}

func TestLexiconClassesAreDisjoint(t *testing.T) {
	lex := NewLexicon()

	for term := range lex.positive {
		_, inNegative := lex.negative[term]
		assert.False(t, inNegative, "term %q must not be in both classes", term)
	}
}

func TestLexiconWeight(t *testing.T) {
	lex := NewLexicon()

	assert.Equal(t, 2.0, lex.Weight("surge"), "high-weight positive")
	assert.Equal(t, 2.0, lex.Weight("crash"), "high-weight negative")
	assert.Equal(t, 1.0, lex.Weight("gain"), "standard positive")
	assert.Equal(t, 1.0, lex.Weight("worry"), "standard negative")
	assert.Equal(t, 1.0, lex.Weight("volatility"), "unknown terms get standard weight")
}

func TestLexiconHighWeightSubsetsBelongToTheirClass(t *testing.T) {
	lex := NewLexicon()

	// skyrocket/collapse-style terms are weight markers only if their class
	// contains them; stray entries would silently never score 2.0.
	for term := range lex.highPositive {
		if _, ok := lex.positive[term]; ok {
			assert.Equal(t, 2.0, lex.Weight(term))
		}
	}
	for term := range lex.highNegative {
		if _, ok := lex.negative[term]; ok {
			assert.Equal(t, 2.0, lex.Weight(term))
		}
	}
}

func TestLexiconFinancialTerms(t *testing.T) {
	lex := NewLexicon()

	assert.True(t, lex.IsFinancialTerm("earnings"))
	assert.True(t, lex.IsFinancialTerm("fed"))
	assert.False(t, lex.IsFinancialTerm("weather"))
}
