// Package config loads the data-driven pipeline configuration: the
// category keyword table, age-band thresholds, asset base URLs, and
// ingestion policy.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/classify"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/internalerr"
)

// Thresholds gates one age-band tier.
type Thresholds struct {
	AvgWordLength    float64 `yaml:"avg_word_length"`
	WordsPerSentence float64 `yaml:"words_per_sentence"`
	ComplexRatio     float64 `yaml:"complex_ratio"`
}

// AgeBands configures the reading-age estimator.
type AgeBands struct {
	// Bands is ordered youngest to oldest; the first is the default.
	Bands             []string   `yaml:"bands"`
	MinTokens         int        `yaml:"min_tokens"`
	ComplexWordLength int        `yaml:"complex_word_length"`
	Young             Thresholds `yaml:"young"`
	Old               Thresholds `yaml:"old"`
}

// Config is the pipeline configuration file.
type Config struct {
	BaseURL        string   `yaml:"base_url"`
	LegacyBaseURLs []string `yaml:"legacy_base_urls"`

	PublishByDefault *bool  `yaml:"publish_by_default"`
	FallbackCategory string `yaml:"fallback_category"`

	// Categories is an ordered list; classification output follows
	// this order.
	Categories []classify.Category `yaml:"categories"`

	AgeBands AgeBands `yaml:"age_bands"`
}

// DefaultBaseURL is the current CDN base for canonical asset URLs.
const DefaultBaseURL = "https://cdn.twinklepod.com"

// defaultLegacyBaseURLs are prior bases that still appear in stored
// references.
var defaultLegacyBaseURLs = []string{
	"https://d3lncscy0tzgzt.cloudfront.net",
}

// Load reads a pipeline configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	if len(cfg.AgeBands.Bands) != 0 && len(cfg.AgeBands.Bands) != 3 {
		return nil, fmt.Errorf("%w: age_bands.bands must list exactly 3 bands, got %d",
			internalerr.ErrInvalidConfig, len(cfg.AgeBands.Bands))
	}
	for _, cat := range cfg.Categories {
		if cat.Tag == "" {
			return nil, fmt.Errorf("%w: category with empty tag", internalerr.ErrInvalidConfig)
		}
	}

	return &cfg, nil
}
