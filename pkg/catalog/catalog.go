// Package catalog is the content normalization and indexing engine:
// it turns raw illustrated-story bundles into canonical story records
// plus their denormalized secondary-index records.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/bundle"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/classify"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/dedup"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/index"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/internalerr"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/readability"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/store"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/urlnorm"
)

// Catalog is the main normalization engine facade
type Catalog struct {
	store      store.Store
	objects    store.ObjectStore
	classifier *classify.Classifier
	estimator  *readability.Estimator
	canon      *urlnorm.Canonicalizer
	builder    *record.Builder
}

// Options configures a Catalog instance
type Options struct {
	Store         store.Store
	Objects       store.ObjectStore // optional; nil disables body persistence
	Classifier    *classify.Classifier
	Estimator     *readability.Estimator
	Canonicalizer *urlnorm.Canonicalizer

	PublishByDefault bool
	Clock            func() time.Time
}

// New creates a Catalog instance with the given dependencies
func New(opts Options) *Catalog {
	return &Catalog{
		store:      opts.Store,
		objects:    opts.Objects,
		classifier: opts.Classifier,
		estimator:  opts.Estimator,
		canon:      opts.Canonicalizer,
		builder: record.NewBuilder(record.BuilderOptions{
			Canonicalizer:    opts.Canonicalizer,
			PublishByDefault: opts.PublishByDefault,
			Clock:            opts.Clock,
		}),
	}
}

// Close cleanly shuts down the Catalog instance
func (c *Catalog) Close() error {
	return c.store.Close()
}

// Guard takes the dedup snapshot of already-ingested titles. The
// snapshot is taken once per run, not per bundle.
func (c *Catalog) Guard(ctx context.Context) (*dedup.Guard, error) {
	titles, err := c.store.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot titles: %w", err)
	}
	return dedup.NewGuard(titles), nil
}

// Normalized holds the derived metadata for one bundle.
type Normalized struct {
	Categories []string
	Degraded   bool // no keyword matched; fallback category in use
	Band       readability.Band
}

// Normalize computes a bundle's derived metadata. Pure: no store
// access, same bundle always yields the same result.
func (c *Catalog) Normalize(b bundle.Bundle) Normalized {
	sample := c.classifier.Sample(b.Title, b.PageTexts(), "")
	cats, degraded := c.classifier.Classify(sample)
	band := c.estimator.Estimate(strings.Join(b.PageTexts(), " "))
	return Normalized{Categories: cats, Degraded: degraded, Band: band}
}

// Build assembles the canonical record for a validated bundle.
func (c *Catalog) Build(b bundle.Bundle, n Normalized) (record.StoryRecord, error) {
	return c.builder.Build(b, n.Categories, n.Band)
}

// Persist writes the story record and, when an object store is
// configured, its JSON body under the record's storage key.
func (c *Catalog) Persist(ctx context.Context, r record.StoryRecord) error {
	if c.objects != nil {
		body, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if err := c.objects.Put(ctx, r.S3Key, body, "application/json"); err != nil {
			return fmt.Errorf("%w: put %s: %v", internalerr.ErrStoreUnavailable, r.S3Key, err)
		}
	}
	return c.store.UpsertStory(ctx, r)
}

// Index regenerates the story's full index record set from the record
// alone.
func (c *Catalog) Index(ctx context.Context, r record.StoryRecord) error {
	return c.store.ReplaceIndexRecords(ctx, r.StoryID, index.Fanout(r))
}

// IngestResult describes one bundle's ingestion.
type IngestResult struct {
	StoryID    string
	Title      string
	Categories []string
	AgeRange   string
	Degraded   bool
	Duplicate  bool
}

// Ingest runs one bundle through the full pipeline: dedup check,
// classification and age banding, record build, persistence, index
// fan-out. A duplicate title is not an error; it is reported on the
// result with no record written.
func (c *Catalog) Ingest(ctx context.Context, b bundle.Bundle, guard *dedup.Guard) (IngestResult, error) {
	res := IngestResult{Title: b.Title}

	if err := b.Validate(); err != nil {
		return res, err
	}
	if guard.Seen(b.Title) {
		res.Duplicate = true
		return res, nil
	}

	n := c.Normalize(b)
	res.Categories = n.Categories
	res.AgeRange = string(n.Band)
	res.Degraded = n.Degraded

	rec, err := c.Build(b, n)
	if err != nil {
		return res, err
	}
	if err := c.Persist(ctx, rec); err != nil {
		return res, err
	}
	if err := c.Index(ctx, rec); err != nil {
		return res, err
	}

	guard.Add(b.Title)
	res.StoryID = rec.StoryID
	return res, nil
}

// Rebuild recomputes a stored story's derived metadata and
// re-canonicalizes its URLs, then regenerates its index records.
// StoryID and CreatedAt never change.
func (c *Catalog) Rebuild(ctx context.Context, storyID string) (record.StoryRecord, error) {
	rec, found, err := c.store.GetStory(ctx, storyID)
	if err != nil {
		return record.StoryRecord{}, err
	}
	if !found {
		return record.StoryRecord{}, fmt.Errorf("%w: story %s", internalerr.ErrNotFound, storyID)
	}

	texts := make([]string, len(rec.Pages))
	for i, p := range rec.Pages {
		texts[i] = p.Text
		rec.Pages[i].ImageURL = c.canon.Canonicalize(p.ImageURL)
	}
	sample := c.classifier.Sample(rec.Title, texts, "")
	rec.Categories, _ = c.classifier.Classify(sample)
	rec.AgeRange = string(c.estimator.Estimate(strings.Join(texts, " ")))
	rec.ThumbnailURL = c.canon.Canonicalize(record.PageImageKey(rec.StoryID, 1))

	if err := c.Persist(ctx, rec); err != nil {
		return record.StoryRecord{}, err
	}
	if err := c.Index(ctx, rec); err != nil {
		return record.StoryRecord{}, err
	}
	return rec, nil
}

// MigrateResult summarizes a schema migration pass.
type MigrateResult struct {
	Scanned   int
	Rewritten int
	Failed    int
}

// Migrate rewrites every old-shaped stored record to the current
// schema version and regenerates the index records of each rewritten
// story. It runs as a batch pass, never interleaved with ingestion,
// so a finished pass leaves no mixed-shape records behind.
func (c *Catalog) Migrate(ctx context.Context) (MigrateResult, error) {
	var res MigrateResult

	m := &record.Migrator{
		Canon:     c.canon,
		Estimator: c.estimator,
		Fallback:  classify.DefaultFallback,
	}

	payloads, err := c.store.ListStoryPayloads(ctx)
	if err != nil {
		return res, err
	}

	for _, p := range payloads {
		res.Scanned++
		rec, changed, err := m.Migrate(p.Raw)
		if err != nil {
			res.Failed++
			continue
		}
		if !changed {
			continue
		}
		if err := c.Persist(ctx, rec); err != nil {
			res.Failed++
			continue
		}
		if err := c.Index(ctx, rec); err != nil {
			res.Failed++
			continue
		}
		res.Rewritten++
	}
	return res, nil
}

// Export returns the two catalog artifacts: all story records and all
// index records, in stable store order.
func (c *Catalog) Export(ctx context.Context) ([]record.StoryRecord, []index.Record, error) {
	stories, err := c.store.ListStories(ctx)
	if err != nil {
		return nil, nil, err
	}
	recs, err := c.store.ListIndexRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	return stories, recs, nil
}
