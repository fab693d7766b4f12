package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/index"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func story(id, title, createdAt string, cats ...string) record.StoryRecord {
	if len(cats) == 0 {
		cats = []string{"general"}
	}
	return record.StoryRecord{
		StoryID:         id,
		SchemaVersion:   record.SchemaVersion,
		Title:           title,
		Pages:           []record.Page{{Text: "hi", ImageURL: "https://cdn.example.com/p.jpg"}},
		AgeRange:        "3-5",
		Categories:      cats,
		Tags:            []string{},
		S3Key:           record.StoryKey(id),
		DurationMinutes: 1,
		PageCount:       1,
		Published:       true,
		CreatedAt:       createdAt,
	}
}

func TestStoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	want := story("id-1", "The Sleepy Moon", "2025-01-01T00:00:00Z", "bedtime")
	if err := s.UpsertStory(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, found, err := s.GetStory(ctx, "id-1")
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if got.Title != want.Title || got.Categories[0] != "bedtime" || got.PageCount != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	byTitle, found, err := s.GetStoryByTitle(ctx, "The Sleepy Moon")
	if err != nil || !found || byTitle.StoryID != "id-1" {
		t.Errorf("by title: %+v found=%v err=%v", byTitle, found, err)
	}

	if _, found, _ = s.GetStory(ctx, "missing"); found {
		t.Error("found a story that was never stored")
	}
}

func TestUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	r := story("id-1", "Title", "2025-01-01T00:00:00Z")
	s.UpsertStory(ctx, r)

	r.Categories = []string{"animals"}
	if err := s.UpsertStory(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, _, _ := s.GetStory(ctx, "id-1")
	if len(got.Categories) != 1 || got.Categories[0] != "animals" {
		t.Errorf("categories = %v", got.Categories)
	}

	stories, _ := s.ListStories(ctx)
	if len(stories) != 1 {
		t.Errorf("upsert duplicated the row: %d stories", len(stories))
	}
}

func TestTitlesAndListOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	s.UpsertStory(ctx, story("id-b", "B Title", "2025-01-02T00:00:00Z"))
	s.UpsertStory(ctx, story("id-a", "A Title", "2025-01-01T00:00:00Z"))

	titles, err := s.Titles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(titles) != 2 || titles[0] != "A Title" {
		t.Errorf("titles = %v", titles)
	}

	stories, err := s.ListStories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stories[0].StoryID != "id-a" || stories[1].StoryID != "id-b" {
		t.Errorf("order = %s, %s", stories[0].StoryID, stories[1].StoryID)
	}
}

func TestListStoryPayloads(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	s.UpsertStory(ctx, story("id-1", "Title", "2025-01-01T00:00:00Z"))
	payloads, err := s.ListStoryPayloads(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(payloads) != 1 || payloads[0].StoryID != "id-1" || len(payloads[0].Raw) == 0 {
		t.Errorf("payloads = %+v", payloads)
	}
}

func TestReplaceIndexRecords(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	r := story("id-1", "Title", "2025-01-01T00:00:00Z", "bedtime", "animals")
	s.UpsertStory(ctx, r)
	if err := s.ReplaceIndexRecords(ctx, r.StoryID, index.Fanout(r)); err != nil {
		t.Fatal(err)
	}

	recs, err := s.ListIndexRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 5 {
		t.Fatalf("len = %d, want 5", len(recs))
	}
	// (pk, sk) ordering from the query.
	if recs[0].PK != "AGE#3-5" {
		t.Errorf("first pk = %q", recs[0].PK)
	}

	// A recompute that drops a category fully replaces the set.
	r.Categories = []string{"bedtime"}
	s.UpsertStory(ctx, r)
	s.ReplaceIndexRecords(ctx, r.StoryID, index.Fanout(r))

	recs, _ = s.ListIndexRecords(ctx)
	if len(recs) != 4 {
		t.Errorf("len after replace = %d, want 4", len(recs))
	}
	for _, rec := range recs {
		if rec.PK == "CATEGORY#animals" {
			t.Error("stale category partition survived replacement")
		}
	}
}

func TestReplaceIndexRecordsChunked(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	// More categories than one put chunk holds.
	cats := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		cats = append(cats, string(rune('a'+i%26))+string(rune('0'+i/26)))
	}
	r := story("id-1", "Title", "2025-01-01T00:00:00Z", cats...)
	s.UpsertStory(ctx, r)

	if err := s.ReplaceIndexRecords(ctx, r.StoryID, index.Fanout(r)); err != nil {
		t.Fatal(err)
	}
	recs, _ := s.ListIndexRecords(ctx)
	if len(recs) != 43 {
		t.Errorf("len = %d, want 43", len(recs))
	}
}
