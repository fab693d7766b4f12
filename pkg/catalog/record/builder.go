package record

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/bundle"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/internalerr"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/readability"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/urlnorm"
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	Canonicalizer *urlnorm.Canonicalizer

	// PublishByDefault sets the published flag on new records.
	// Vetted sources default to true.
	PublishByDefault bool

	// Clock overrides time.Now for reproducible created_at values.
	Clock func() time.Time
}

// Builder assembles canonical story records. Each record gets a fresh
// ULID; an identifier is never reused across titles.
type Builder struct {
	canon   *urlnorm.Canonicalizer
	publish bool
	clock   func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewBuilder creates a Builder.
func NewBuilder(opts BuilderOptions) *Builder {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Builder{
		canon:   opts.Canonicalizer,
		publish: opts.PublishByDefault,
		clock:   clock,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Build constructs one StoryRecord from a validated bundle and its
// derived metadata. It rejects malformed bundles and never partially
// writes: persistence is the caller's responsibility.
func (b *Builder) Build(bnd bundle.Bundle, categories []string, band readability.Band) (StoryRecord, error) {
	if err := bnd.Validate(); err != nil {
		return StoryRecord{}, err
	}
	if len(categories) == 0 {
		return StoryRecord{}, fmt.Errorf("%w: %q has no categories", internalerr.ErrInvalidBundle, bnd.Title)
	}
	if band == "" {
		return StoryRecord{}, fmt.Errorf("%w: %q has no age band", internalerr.ErrInvalidBundle, bnd.Title)
	}

	id := ulid.MustNew(ulid.Now(), b.entropy).String()

	pages := make([]Page, len(bnd.Pages))
	for i, p := range bnd.Pages {
		ref := p.ImageRef
		if ref == "" {
			ref = PageImageKey(id, i+1)
		}
		pages[i] = Page{
			Text:     p.Text,
			ImageURL: b.canon.Canonicalize(ref),
		}
	}

	return StoryRecord{
		StoryID:         id,
		SchemaVersion:   SchemaVersion,
		Title:           bnd.Title,
		Pages:           pages,
		AgeRange:        string(band),
		Categories:      append([]string(nil), categories...),
		Tags:            []string{},
		S3Key:           StoryKey(id),
		ThumbnailURL:    b.canon.Canonicalize(PageImageKey(id, 1)),
		DurationMinutes: len(pages),
		PageCount:       len(pages),
		Author:          bnd.Provenance.Author,
		License:         bnd.Provenance.License,
		Source:          bnd.Provenance.SourceURL,
		Published:       b.publish,
		CreatedAt:       b.clock().UTC().Format(time.RFC3339),
	}, nil
}
