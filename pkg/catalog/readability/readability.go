// Package readability assigns a reading-age band to a text sample
// using lexical statistics. The scoring is a deterministic threshold
// function, not a model: the same bytes always yield the same band.
package readability

import (
	"strings"
	"unicode/utf8"
)

// Band is one reading-age band, e.g. "3-5".
type Band string

// Thresholds gate one extreme tier. A sample must satisfy all three
// metrics to land in the tier.
type Thresholds struct {
	AvgWordLength    float64
	WordsPerSentence float64
	ComplexRatio     float64
}

// Config controls band assignment.
type Config struct {
	// Bands is ordered youngest to oldest and must have three entries.
	// The first band doubles as the default for low-signal samples.
	Bands [3]Band

	// MinTokens is the minimum sample size; below it the default band
	// is returned regardless of content.
	MinTokens int

	// Young holds upper bounds for the youngest band, Old holds lower
	// bounds for the oldest. Anything in between is the middle band.
	Young Thresholds
	Old   Thresholds

	// ComplexWordLength is the character count above which a token
	// counts as complex.
	ComplexWordLength int
}

// DefaultConfig returns the standard bands and thresholds.
func DefaultConfig() Config {
	return Config{
		Bands:             [3]Band{"3-5", "4-6", "5-7"},
		MinTokens:         10,
		Young:             Thresholds{AvgWordLength: 4, WordsPerSentence: 5, ComplexRatio: 0.1},
		Old:               Thresholds{AvgWordLength: 5, WordsPerSentence: 8, ComplexRatio: 0.2},
		ComplexWordLength: 6,
	}
}

// Estimator computes reading-age bands from text samples.
type Estimator struct {
	cfg Config
}

// New creates an Estimator. A zero MinTokens or ComplexWordLength is
// replaced with the defaults.
func New(cfg Config) *Estimator {
	def := DefaultConfig()
	if cfg.MinTokens <= 0 {
		cfg.MinTokens = def.MinTokens
	}
	if cfg.ComplexWordLength <= 0 {
		cfg.ComplexWordLength = def.ComplexWordLength
	}
	for i, b := range cfg.Bands {
		if b == "" {
			cfg.Bands[i] = def.Bands[i]
		}
	}
	return &Estimator{cfg: cfg}
}

// Default returns the band used when a sample carries too little
// signal to classify.
func (e *Estimator) Default() Band { return e.cfg.Bands[0] }

// Bands returns the ordered band set, youngest first.
func (e *Estimator) Bands() []Band {
	return []Band{e.cfg.Bands[0], e.cfg.Bands[1], e.cfg.Bands[2]}
}

// Valid reports whether band is a member of the configured set.
func (e *Estimator) Valid(band Band) bool {
	for _, b := range e.cfg.Bands {
		if b == band {
			return true
		}
	}
	return false
}

// Estimate classifies a text sample into one band. Samples with fewer
// than MinTokens whitespace-delimited tokens return the default band.
func (e *Estimator) Estimate(text string) Band {
	words := strings.Fields(text)
	if len(words) < e.cfg.MinTokens {
		return e.Default()
	}

	total := len(words)
	var chars, complexWords int
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		chars += n
		if n > e.cfg.ComplexWordLength {
			complexWords++
		}
	}
	avgWordLen := float64(chars) / float64(total)

	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences == 0 {
		sentences = 1
	}
	wordsPerSentence := float64(total) / float64(sentences)
	complexRatio := float64(complexWords) / float64(total)

	switch {
	case avgWordLen < e.cfg.Young.AvgWordLength &&
		wordsPerSentence < e.cfg.Young.WordsPerSentence &&
		complexRatio < e.cfg.Young.ComplexRatio:
		return e.cfg.Bands[0]
	case avgWordLen > e.cfg.Old.AvgWordLength &&
		wordsPerSentence > e.cfg.Old.WordsPerSentence &&
		complexRatio > e.cfg.Old.ComplexRatio:
		return e.cfg.Bands[2]
	default:
		return e.cfg.Bands[1]
	}
}
