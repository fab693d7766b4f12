// Package index expands one canonical story record into the
// denormalized secondary-index records used for range and prefix
// queries in the key-value store. Fan-out is a pure function: the
// record set is always regenerable from the StoryRecord alone.
package index

import (
	"strconv"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
)

// Partition key prefixes and the main record's fixed sort key.
const (
	MainSortKey     = "METADATA"
	CategoryPrefix  = "CATEGORY#"
	AgePrefix       = "AGE#"
	PublishedPrefix = "PUBLISHED#"
)

// Item carries the query-relevant StoryRecord fields, excluding full
// page text.
type Item struct {
	StoryID         string   `json:"story_id"`
	Title           string   `json:"title"`
	AgeRange        string   `json:"age_range"`
	Categories      []string `json:"categories"`
	Tags            []string `json:"tags"`
	S3Key           string   `json:"s3_key"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	DurationMinutes int      `json:"duration_minutes"`
	PageCount       int      `json:"page_count"`
	Published       bool     `json:"published"`
	CreatedAt       string   `json:"created_at"`
}

// Record is one denormalized index entry addressed by partition key
// and sort key.
type Record struct {
	PK string `json:"pk"`
	SK string `json:"sk"`
	Item
}

// Fanout expands r into its full index record set, in deterministic
// order: main record, one per category in record order, age record,
// published-state record. Length is always 3 + len(r.Categories).
func Fanout(r record.StoryRecord) []Record {
	item := Item{
		StoryID:         r.StoryID,
		Title:           r.Title,
		AgeRange:        r.AgeRange,
		Categories:      append([]string(nil), r.Categories...),
		Tags:            append([]string(nil), r.Tags...),
		S3Key:           r.S3Key,
		ThumbnailURL:    r.ThumbnailURL,
		DurationMinutes: r.DurationMinutes,
		PageCount:       r.PageCount,
		Published:       r.Published,
		CreatedAt:       r.CreatedAt,
	}

	// Chronological sort keys within each partition, story_id as the
	// tie-breaker for equal timestamps.
	sk := r.CreatedAt + "#" + r.StoryID

	out := make([]Record, 0, 3+len(r.Categories))
	out = append(out, Record{PK: r.StoryID, SK: MainSortKey, Item: item})
	for _, cat := range r.Categories {
		out = append(out, Record{PK: CategoryPrefix + cat, SK: sk, Item: item})
	}
	out = append(out, Record{PK: AgePrefix + r.AgeRange, SK: sk, Item: item})
	out = append(out, Record{PK: PublishedPrefix + strconv.FormatBool(r.Published), SK: sk, Item: item})
	return out
}
