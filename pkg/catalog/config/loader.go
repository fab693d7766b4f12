package config

import (
	"fmt"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/classify"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/readability"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/urlnorm"
)

// Loader loads the configuration file and constructs components
type Loader struct {
	// ConfigPath is optional; when empty the embedded defaults apply.
	ConfigPath string
}

// Components holds all loaded configuration components
type Components struct {
	Canonicalizer *urlnorm.Canonicalizer
	Classifier    *classify.Classifier
	Estimator     *readability.Estimator

	PublishByDefault bool
}

// Load reads the configuration file and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg := &Config{}
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	comp := &Components{PublishByDefault: true}
	if cfg.PublishByDefault != nil {
		comp.PublishByDefault = *cfg.PublishByDefault
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	legacy := cfg.LegacyBaseURLs
	if len(legacy) == 0 {
		legacy = defaultLegacyBaseURLs
	}
	comp.Canonicalizer = urlnorm.New(base, legacy...)

	table := cfg.Categories
	if len(table) == 0 {
		table = classify.DefaultTable()
	}
	comp.Classifier = classify.New(table)
	if cfg.FallbackCategory != "" {
		comp.Classifier.SetFallback(cfg.FallbackCategory)
	}

	rcfg := readability.DefaultConfig()
	if len(cfg.AgeBands.Bands) == 3 {
		for i, b := range cfg.AgeBands.Bands {
			rcfg.Bands[i] = readability.Band(b)
		}
	}
	if cfg.AgeBands.MinTokens > 0 {
		rcfg.MinTokens = cfg.AgeBands.MinTokens
	}
	if cfg.AgeBands.ComplexWordLength > 0 {
		rcfg.ComplexWordLength = cfg.AgeBands.ComplexWordLength
	}
	if cfg.AgeBands.Young != (Thresholds{}) {
		rcfg.Young = readability.Thresholds(cfg.AgeBands.Young)
	}
	if cfg.AgeBands.Old != (Thresholds{}) {
		rcfg.Old = readability.Thresholds(cfg.AgeBands.Old)
	}
	comp.Estimator = readability.New(rcfg)

	return comp, nil
}
