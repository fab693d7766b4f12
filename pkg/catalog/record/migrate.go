package record

import (
	"encoding/json"
	"fmt"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/readability"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/urlnorm"
)

// legacyCreatedAt is stamped on migrated records that never carried a
// creation time. A fixed value keeps the migration pure.
const legacyCreatedAt = "2025-01-01T00:00:00Z"

// Migrator rewrites old-shaped records to the current schema version.
// The rewrite is a pure function of the input bytes: running it twice
// yields the same record.
type Migrator struct {
	Canon     *urlnorm.Canonicalizer
	Estimator *readability.Estimator
	Fallback  string // fallback category tag, e.g. "general"
}

// storedRecord is the union of every shape ever persisted. Version 1
// used a single "category" string, "image" page keys, out-of-set age
// ranges, a scratch "note" field, and had no created_at.
type storedRecord struct {
	StoryID         string       `json:"story_id"`
	SchemaVersion   int          `json:"schema_version"`
	Title           string       `json:"title"`
	Pages           []storedPage `json:"pages"`
	AgeRange        string       `json:"age_range"`
	Category        string       `json:"category"`
	Categories      []string     `json:"categories"`
	Tags            []string     `json:"tags"`
	S3Key           string       `json:"s3_key"`
	ThumbnailURL    string       `json:"thumbnail_url"`
	DurationMinutes int          `json:"duration_minutes"`
	PageCount       int          `json:"page_count"`
	Author          string       `json:"author"`
	License         string       `json:"license"`
	Source          string       `json:"source"`
	Published       *bool        `json:"published"`
	CreatedAt       string       `json:"created_at"`
	Note            string       `json:"note"`
}

type storedPage struct {
	Text     string `json:"text"`
	Image    string `json:"image"`
	ImageURL string `json:"image_url"`
}

// Migrate parses a persisted record of any known shape and returns its
// current-schema form. The second result reports whether the stored
// bytes need rewriting.
func (m *Migrator) Migrate(raw []byte) (StoryRecord, bool, error) {
	var old storedRecord
	if err := json.Unmarshal(raw, &old); err != nil {
		return StoryRecord{}, false, fmt.Errorf("parse stored record: %w", err)
	}
	if old.StoryID == "" {
		return StoryRecord{}, false, fmt.Errorf("stored record has no story_id")
	}

	rec := StoryRecord{
		StoryID:       old.StoryID,
		SchemaVersion: SchemaVersion,
		Title:         old.Title,
		AgeRange:      old.AgeRange,
		Categories:    old.Categories,
		Tags:          old.Tags,
		Author:        old.Author,
		License:       old.License,
		Source:        old.Source,
		CreatedAt:     old.CreatedAt,
	}

	rec.Pages = make([]Page, len(old.Pages))
	for i, p := range old.Pages {
		ref := p.ImageURL
		if ref == "" {
			ref = p.Image
		}
		if ref == "" {
			ref = PageImageKey(old.StoryID, i+1)
		}
		rec.Pages[i] = Page{Text: p.Text, ImageURL: m.Canon.Canonicalize(ref)}
	}

	// v1 carried a single category string; "general" was a sentinel
	// for "not yet classified".
	if len(rec.Categories) == 0 && old.Category != "" && old.Category != m.Fallback {
		rec.Categories = []string{old.Category}
	}
	if len(rec.Categories) == 0 {
		rec.Categories = []string{m.Fallback}
	}

	if !m.Estimator.Valid(readability.Band(rec.AgeRange)) {
		rec.AgeRange = string(m.Estimator.Default())
	}

	if rec.CreatedAt == "" {
		rec.CreatedAt = legacyCreatedAt
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	rec.S3Key = StoryKey(rec.StoryID)
	rec.ThumbnailURL = m.Canon.Canonicalize(PageImageKey(rec.StoryID, 1))
	rec.DurationMinutes = len(rec.Pages)
	rec.PageCount = len(rec.Pages)
	if old.Published != nil {
		rec.Published = *old.Published
	} else {
		rec.Published = true
	}

	current, err := json.Marshal(rec)
	if err != nil {
		return StoryRecord{}, false, err
	}
	return rec, string(current) != canonicalJSON(raw), nil
}

// canonicalJSON re-marshals raw through StoryRecord so byte-level
// formatting differences do not count as schema drift.
func canonicalJSON(raw []byte) string {
	var rec StoryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ""
	}
	out, err := json.Marshal(rec)
	if err != nil {
		return ""
	}
	return string(out)
}
