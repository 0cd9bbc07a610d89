// Package sentiment implements the lexicon-weighted polarity scorer.
//
// The Analyzer composes the static lexicon, shallow feature extraction and
// negation resolution into one deterministic score. Scoring is a pure
// function of the input text and the lexicon: no I/O, no mutable state,
// safe for unrestricted concurrent use. ExternalClassifier is the alternate
// strategy that delegates to a remote model and degrades to the Analyzer.
package sentiment
