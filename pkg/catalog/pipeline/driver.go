// Package pipeline sequences the catalog engine over a collection of
// raw bundles, isolating per-bundle failures and aggregating run
// statistics.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/bundle"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/dedup"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/internalerr"
)

// State is a bundle's position in the ingestion state machine.
type State string

// Bundle states. SKIPPED, DONE and FAILED are terminal.
const (
	StatePending     State = "PENDING"
	StateSkipped     State = "SKIPPED"
	StateClassifying State = "CLASSIFYING"
	StateBuilt       State = "BUILT"
	StateIndexed     State = "INDEXED"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

// Outcome is one bundle's terminal result.
type Outcome struct {
	Title      string   `yaml:"title"`
	State      State    `yaml:"state"`
	StoryID    string   `yaml:"story_id,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
	AgeRange   string   `yaml:"age_range,omitempty"`
	Degraded   bool     `yaml:"degraded,omitempty"`
	Reason     string   `yaml:"reason,omitempty"`
}

// Summary aggregates one pipeline run. It is always complete, even
// when some bundles failed.
type Summary struct {
	RunID      string `yaml:"run_id"`
	StartedAt  string `yaml:"started_at"`
	FinishedAt string `yaml:"finished_at"`

	Total   int `yaml:"total"`
	Done    int `yaml:"done"`
	Skipped int `yaml:"skipped"`
	Failed  int `yaml:"failed"`

	Categories map[string]int `yaml:"category_distribution"`
	AgeBands   map[string]int `yaml:"age_distribution"`

	Outcomes []Outcome `yaml:"outcomes"`
}

// Driver runs batches through a Catalog.
type Driver struct {
	Catalog *catalog.Catalog

	// Clock overrides time.Now for reproducible summaries.
	Clock func() time.Time
}

// Run processes the bundles sequentially. The dedup snapshot is taken
// once before the loop. No failure of one bundle aborts the batch;
// cancellation takes effect before the next bundle, never mid-bundle.
func (d *Driver) Run(ctx context.Context, bundles []bundle.Bundle) (Summary, error) {
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}

	sum := Summary{
		RunID:      uuid.NewString(),
		StartedAt:  clock().UTC().Format(time.RFC3339),
		Categories: make(map[string]int),
		AgeBands:   make(map[string]int),
	}

	guard, err := d.Catalog.Guard(ctx)
	if err != nil {
		sum.FinishedAt = clock().UTC().Format(time.RFC3339)
		return sum, err
	}

	for _, b := range bundles {
		if ctx.Err() != nil {
			break
		}
		out := d.ingestOne(ctx, b, guard)

		sum.Total++
		sum.Outcomes = append(sum.Outcomes, out)
		switch out.State {
		case StateDone:
			sum.Done++
			for _, cat := range out.Categories {
				sum.Categories[cat]++
			}
			sum.AgeBands[out.AgeRange]++
		case StateSkipped:
			sum.Skipped++
		case StateFailed:
			sum.Failed++
		}
	}

	sum.FinishedAt = clock().UTC().Format(time.RFC3339)
	return sum, ctx.Err()
}

// ingestOne walks one bundle through the state machine. Every error is
// converted into a terminal outcome here; nothing propagates to the
// batch loop.
func (d *Driver) ingestOne(ctx context.Context, b bundle.Bundle, guard *dedup.Guard) Outcome {
	out := Outcome{Title: b.Title, State: StatePending}

	if err := b.Validate(); err != nil {
		out.State = StateFailed
		out.Reason = err.Error()
		return out
	}

	if guard.Seen(b.Title) {
		out.State = StateSkipped
		out.Reason = "already exists"
		return out
	}

	out.State = StateClassifying
	n := d.Catalog.Normalize(b)
	out.Categories = n.Categories
	out.AgeRange = string(n.Band)
	out.Degraded = n.Degraded

	rec, err := d.Catalog.Build(b, n)
	if err != nil {
		out.State = StateFailed
		out.Reason = err.Error()
		return out
	}
	out.State = StateBuilt
	out.StoryID = rec.StoryID

	if err := d.Catalog.Persist(ctx, rec); err != nil {
		out.State = StateFailed
		out.Reason = failReason(err)
		return out
	}
	if err := d.Catalog.Index(ctx, rec); err != nil {
		out.State = StateFailed
		out.Reason = failReason(err)
		return out
	}
	out.State = StateIndexed

	guard.Add(b.Title)
	out.State = StateDone
	return out
}

func failReason(err error) string {
	if errors.Is(err, internalerr.ErrStoreUnavailable) {
		return "external store error: " + err.Error()
	}
	return err.Error()
}
