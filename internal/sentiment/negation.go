package sentiment

import "sort"

const (
	negatedPenalty       = 1.5
	negatedPositiveShift = 1.0
	negatedNegativeShift = 0.5
)

// NegationConfig controls which negation cues are recognized and whether a
// negated term also shifts the opposite accumulator in addition to the
// subtraction from its own.
type NegationConfig struct {
	// Cues are surface forms; multi-word cues and contractions are allowed
	// ("does not", "doesn't"). Each is matched against the token stream.
	Cues []string

	// ShiftOpposite enables the add effect: a negated positive term adds
	// 1.0 to the negative accumulator, a negated negative term adds 0.5
	// to the positive accumulator.
	ShiftOpposite bool
}

// DefaultNegationConfig returns the canonical 6-cue configuration with
// both subtract and shift effects enabled.
func DefaultNegationConfig() NegationConfig {
	return NegationConfig{
		Cues: []string{
			"not", "no", "never",
			"does not", "doesn't",
			"will not", "won't",
			"cannot", "can't",
		},
		ShiftOpposite: true,
	}
}

// Resolver detects negation-cue + term patterns in a token stream and
// adjusts the raw accumulators. Immutable after construction.
type Resolver struct {
	lexicon       *Lexicon
	cues          [][]string
	shiftOpposite bool
}

// NewResolver compiles the cue surface forms against the same tokenizer
// the scorer uses, so contractions match their tokenized fragments.
func NewResolver(lexicon *Lexicon, cfg NegationConfig) *Resolver {
	cues := make([][]string, 0, len(cfg.Cues))
	for _, cue := range cfg.Cues {
		if tokens := Tokenize(cue); len(tokens) > 0 {
			cues = append(cues, tokens)
		}
	}
	// Longest cue wins at any position ("does not" before "not").
	sort.SliceStable(cues, func(i, j int) bool {
		return len(cues[i]) > len(cues[j])
	})

	return &Resolver{
		lexicon:       lexicon,
		cues:          cues,
		shiftOpposite: cfg.ShiftOpposite,
	}
}

// Adjust scans the lowercase token stream and returns the accumulators
// after applying negation effects. A cue immediately followed by a
// positive-lexicon term subtracts 1.5 from the positive accumulator (and
// shifts 1.0 onto the negative one); a negated negative term subtracts 1.5
// from the negative accumulator (and shifts 0.5 onto the positive one).
func (r *Resolver) Adjust(tokens []string, positive, negative float64) (float64, float64) {
	for i := 0; i < len(tokens); i++ {
		cueLen := r.matchCue(tokens, i)
		if cueLen == 0 || i+cueLen >= len(tokens) {
			continue
		}

		switch r.lexicon.Classify(tokens[i+cueLen]) {
		case PolarityPositive:
			positive -= negatedPenalty
			if r.shiftOpposite {
				negative += negatedPositiveShift
			}
		case PolarityNegative:
			negative -= negatedPenalty
			if r.shiftOpposite {
				positive += negatedNegativeShift
			}
		}

		// Skip past the cue so its own tokens are not rescanned.
		i += cueLen - 1
	}

	return positive, negative
}

// matchCue returns the token length of the longest cue starting at
// position i, or 0 if none matches.
func (r *Resolver) matchCue(tokens []string, i int) int {
	for _, cue := range r.cues {
		if i+len(cue) > len(tokens) {
			continue
		}
		matched := true
		for j, part := range cue {
			if tokens[i+j] != part {
				matched = false
				break
			}
		}
		if matched {
			return len(cue)
		}
	}
	return 0
}
