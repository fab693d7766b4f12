package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/bundle"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/classify"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/internalerr"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/readability"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/store/memstore"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/urlnorm"
)

func newTestCatalog(s *memstore.Store) *catalog.Catalog {
	return catalog.New(catalog.Options{
		Store:            s,
		Classifier:       classify.New(classify.DefaultTable()),
		Estimator:        readability.New(readability.DefaultConfig()),
		Canonicalizer:    urlnorm.New("https://cdn.example.com"),
		PublishByDefault: true,
		Clock:            func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func testBundle(title string) bundle.Bundle {
	return bundle.Bundle{
		Title: title,
		Pages: []bundle.Page{
			{Text: "Once upon a time, the moon was very sleepy.", ImageRef: "moon-1.jpg"},
			{ImageRef: "moon-2.jpg"},
			{ImageRef: "moon-3.jpg"},
		},
		Provenance: bundle.Provenance{SourceURL: "https://bookdash.org", License: "CC-BY 4.0", Author: "Book Dash"},
	}
}

func TestRunHappyPath(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	d := &Driver{Catalog: newTestCatalog(s)}

	sum, err := d.Run(ctx, []bundle.Bundle{testBundle("The Sleepy Moon")})
	if err != nil {
		t.Fatal(err)
	}

	if sum.RunID == "" {
		t.Error("missing run_id")
	}
	if sum.Total != 1 || sum.Done != 1 || sum.Failed != 0 || sum.Skipped != 0 {
		t.Errorf("counts = %+v", sum)
	}
	if sum.Categories["bedtime"] != 1 {
		t.Errorf("category distribution = %v", sum.Categories)
	}
	if sum.AgeBands["3-5"] != 1 {
		t.Errorf("age distribution = %v", sum.AgeBands)
	}
	if sum.Outcomes[0].State != StateDone {
		t.Errorf("state = %s", sum.Outcomes[0].State)
	}

	stories, _ := s.ListStories(ctx)
	if len(stories) != 1 {
		t.Fatalf("stories = %d", len(stories))
	}
	if stories[0].PageCount != 3 || stories[0].DurationMinutes != 3 {
		t.Errorf("page_count=%d duration=%d", stories[0].PageCount, stories[0].DurationMinutes)
	}

	recs, _ := s.ListIndexRecords(ctx)
	if len(recs) != 3+len(stories[0].Categories) {
		t.Errorf("index records = %d", len(recs))
	}
}

func TestRunFailureIsolation(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	d := &Driver{Catalog: newTestCatalog(s)}

	bundles := []bundle.Bundle{
		{Title: "Empty Pages"}, // invalid
		testBundle("The Good One"),
	}
	sum, err := d.Run(ctx, bundles)
	if err != nil {
		t.Fatal(err)
	}

	if sum.Failed != 1 || sum.Done != 1 {
		t.Errorf("counts = %+v", sum)
	}
	if sum.Outcomes[0].State != StateFailed || sum.Outcomes[0].Reason == "" {
		t.Errorf("outcome 0 = %+v", sum.Outcomes[0])
	}
	if sum.Outcomes[1].State != StateDone {
		t.Errorf("outcome 1 = %+v", sum.Outcomes[1])
	}
}

func TestRunDedupAcrossRuns(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	d := &Driver{Catalog: newTestCatalog(s)}

	first, err := d.Run(ctx, []bundle.Bundle{testBundle("The Sleepy Moon")})
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Run(ctx, []bundle.Bundle{testBundle("The Sleepy Moon")})
	if err != nil {
		t.Fatal(err)
	}

	if first.Done != 1 || second.Skipped != 1 || second.Done != 0 {
		t.Errorf("first=%+v second=%+v", first, second)
	}
	if second.Outcomes[0].Reason != "already exists" {
		t.Errorf("reason = %q", second.Outcomes[0].Reason)
	}

	stories, _ := s.ListStories(ctx)
	if len(stories) != 1 {
		t.Errorf("stories = %d, want 1 after re-run", len(stories))
	}
}

func TestRunDedupWithinRun(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	d := &Driver{Catalog: newTestCatalog(s)}

	sum, err := d.Run(ctx, []bundle.Bundle{testBundle("Twice"), testBundle("Twice")})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Done != 1 || sum.Skipped != 1 {
		t.Errorf("counts = %+v", sum)
	}
}

func TestRunDegradedClassification(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	d := &Driver{Catalog: newTestCatalog(s)}

	b := bundle.Bundle{
		Title: "Xylophone Quartz",
		Pages: []bundle.Page{{Text: "xyzzy plugh", ImageRef: "p1.jpg"}},
	}
	sum, err := d.Run(ctx, []bundle.Bundle{b})
	if err != nil {
		t.Fatal(err)
	}

	out := sum.Outcomes[0]
	if out.State != StateDone {
		t.Fatalf("state = %s", out.State)
	}
	if !out.Degraded {
		t.Error("expected degraded classification")
	}
	if len(out.Categories) != 1 || out.Categories[0] != "general" {
		t.Errorf("categories = %v", out.Categories)
	}
	if out.AgeRange != "3-5" {
		t.Errorf("age = %q, want default band for short text", out.AgeRange)
	}
}

func TestRunStoreFailure(t *testing.T) {
	ctx := context.Background()
	s := &failingStore{Store: memstore.New(), failTitle: "Doomed"}
	d := &Driver{Catalog: catalog.New(catalog.Options{
		Store:            s,
		Classifier:       classify.New(classify.DefaultTable()),
		Estimator:        readability.New(readability.DefaultConfig()),
		Canonicalizer:    urlnorm.New("https://cdn.example.com"),
		PublishByDefault: true,
	})}

	sum, err := d.Run(ctx, []bundle.Bundle{testBundle("Doomed"), testBundle("Fine")})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed != 1 || sum.Done != 1 {
		t.Errorf("counts = %+v", sum)
	}
	if !strings.Contains(sum.Outcomes[0].Reason, "external store error") {
		t.Errorf("reason = %q", sum.Outcomes[0].Reason)
	}
}

func TestWriteReport(t *testing.T) {
	ctx := context.Background()
	d := &Driver{Catalog: newTestCatalog(memstore.New())}

	sum, err := d.Run(ctx, []bundle.Bundle{testBundle("The Sleepy Moon")})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, sum); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"run_id:", "done: 1", "category_distribution:", "The Sleepy Moon"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

// failingStore wraps memstore and injects an upsert failure for one
// title.
type failingStore struct {
	*memstore.Store
	failTitle string
}

func (f *failingStore) UpsertStory(ctx context.Context, r record.StoryRecord) error {
	if r.Title == f.failTitle {
		return fmt.Errorf("%w: injected failure", internalerr.ErrStoreUnavailable)
	}
	return f.Store.UpsertStory(ctx, r)
}
