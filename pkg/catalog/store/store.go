// Package store defines the persistence collaborators of the catalog
// pipeline. The pipeline core stays pure; all I/O happens behind these
// interfaces.
package store

import (
	"context"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/index"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
)

// Store persists canonical story records and their denormalized index
// records.
type Store interface {
	Close() error

	// Stories
	UpsertStory(ctx context.Context, r record.StoryRecord) error
	GetStory(ctx context.Context, storyID string) (record.StoryRecord, bool, error)
	GetStoryByTitle(ctx context.Context, title string) (record.StoryRecord, bool, error)
	ListStories(ctx context.Context) ([]record.StoryRecord, error)

	// Titles returns every stored title, used as the Dedup Guard's
	// read-only snapshot at batch start.
	Titles(ctx context.Context) ([]string, error)

	// ListStoryPayloads returns the raw persisted bytes per story,
	// used by the schema migration pass.
	ListStoryPayloads(ctx context.Context) ([]StoryPayload, error)

	// Index records. ReplaceIndexRecords swaps the full per-story set
	// in one operation so the index never drifts from its source
	// record.
	ReplaceIndexRecords(ctx context.Context, storyID string, recs []index.Record) error
	ListIndexRecords(ctx context.Context) ([]index.Record, error)
}

// StoryPayload is one story's persisted bytes as stored, before any
// schema migration.
type StoryPayload struct {
	StoryID string
	Raw     []byte
}

// ObjectStore is the external collaborator that persists binary
// assets. The pipeline only computes keys and content types; transport
// is not its concern.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
