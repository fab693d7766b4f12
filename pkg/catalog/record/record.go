// Package record defines the canonical story record, the builder that
// assembles it from a raw bundle plus derived metadata, and the schema
// migration for old-shaped records.
package record

import (
	"fmt"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/readability"
)

// SchemaVersion is the current persisted record shape. Exactly one
// version is in play at a time; Migrator rewrites older shapes.
const SchemaVersion = 2

// Page is one normalized story page. ImageURL is always in canonical
// absolute form.
type Page struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

// StoryRecord is the single source-of-truth representation of a story
// after normalization. StoryID and CreatedAt are set once at creation
// and never change; later enrichment passes may recompute the derived
// metadata in place.
type StoryRecord struct {
	StoryID         string   `json:"story_id"`
	SchemaVersion   int      `json:"schema_version"`
	Title           string   `json:"title"`
	Pages           []Page   `json:"pages"`
	AgeRange        string   `json:"age_range"`
	Categories      []string `json:"categories"`
	Tags            []string `json:"tags"`
	S3Key           string   `json:"s3_key"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	DurationMinutes int      `json:"duration_minutes"`
	PageCount       int      `json:"page_count"`
	Author          string   `json:"author"`
	License         string   `json:"license"`
	Source          string   `json:"source"`
	Published       bool     `json:"published"`
	CreatedAt       string   `json:"created_at"`
}

// StoryKey returns the object-store key for a story's JSON body.
func StoryKey(storyID string) string {
	return "stories/" + storyID + ".json"
}

// PageImageKey returns the object-store key for page n (1-based).
func PageImageKey(storyID string, n int) string {
	return fmt.Sprintf("images/%s/page-%d.jpg", storyID, n)
}

// Validate checks the schema invariants every persisted record must
// hold.
func (r StoryRecord) Validate(est *readability.Estimator) error {
	if r.StoryID == "" {
		return fmt.Errorf("record %q: missing story_id", r.Title)
	}
	if r.Title == "" {
		return fmt.Errorf("record %s: missing title", r.StoryID)
	}
	if len(r.Categories) == 0 {
		return fmt.Errorf("record %s: empty categories", r.StoryID)
	}
	if r.AgeRange == "" {
		return fmt.Errorf("record %s: missing age_range", r.StoryID)
	}
	if est != nil && !est.Valid(readability.Band(r.AgeRange)) {
		return fmt.Errorf("record %s: age_range %q not in band set", r.StoryID, r.AgeRange)
	}
	if r.DurationMinutes != r.PageCount {
		return fmt.Errorf("record %s: duration %d != page count %d", r.StoryID, r.DurationMinutes, r.PageCount)
	}
	if r.PageCount != len(r.Pages) {
		return fmt.Errorf("record %s: page_count %d != %d pages", r.StoryID, r.PageCount, len(r.Pages))
	}
	if r.CreatedAt == "" {
		return fmt.Errorf("record %s: missing created_at", r.StoryID)
	}
	return nil
}
