package index

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
)

func storyFixture() record.StoryRecord {
	return record.StoryRecord{
		StoryID:         "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		SchemaVersion:   record.SchemaVersion,
		Title:           "The Sleepy Moon",
		Pages:           []record.Page{{Text: "zzz", ImageURL: "https://cdn.example.com/images/x/page-1.jpg"}},
		AgeRange:        "3-5",
		Categories:      []string{"bedtime", "animals"},
		Tags:            []string{},
		S3Key:           "stories/01ARZ3NDEKTSV4RRFFQ69G5FAV.json",
		ThumbnailURL:    "https://cdn.example.com/images/01ARZ3NDEKTSV4RRFFQ69G5FAV/page-1.jpg",
		DurationMinutes: 1,
		PageCount:       1,
		Author:          "Book Dash",
		License:         "CC-BY 4.0",
		Source:          "https://bookdash.org",
		Published:       true,
		CreatedAt:       "2025-03-01T12:00:00Z",
	}
}

func TestFanoutShape(t *testing.T) {
	r := storyFixture()
	recs := Fanout(r)

	if len(recs) != 3+len(r.Categories) {
		t.Fatalf("len = %d, want %d", len(recs), 3+len(r.Categories))
	}

	wantSK := "2025-03-01T12:00:00Z#01ARZ3NDEKTSV4RRFFQ69G5FAV"
	wantKeys := [][2]string{
		{"01ARZ3NDEKTSV4RRFFQ69G5FAV", MainSortKey},
		{"CATEGORY#bedtime", wantSK},
		{"CATEGORY#animals", wantSK},
		{"AGE#3-5", wantSK},
		{"PUBLISHED#true", wantSK},
	}
	for i, want := range wantKeys {
		if recs[i].PK != want[0] || recs[i].SK != want[1] {
			t.Errorf("record %d keys = (%q, %q), want (%q, %q)", i, recs[i].PK, recs[i].SK, want[0], want[1])
		}
	}
}

func TestFanoutUnpublished(t *testing.T) {
	r := storyFixture()
	r.Published = false
	recs := Fanout(r)

	// Still exactly one record keyed by published state.
	last := recs[len(recs)-1]
	if last.PK != "PUBLISHED#false" {
		t.Errorf("pk = %q", last.PK)
	}
	if len(recs) != 3+len(r.Categories) {
		t.Errorf("len = %d", len(recs))
	}
}

func TestFanoutPure(t *testing.T) {
	r := storyFixture()

	first, err := json.Marshal(Fanout(r))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Fanout(r))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("fan-out is not byte-identical across runs")
	}
}

func TestFanoutExcludesPageText(t *testing.T) {
	out, err := json.Marshal(Fanout(storyFixture()))
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, rec := range decoded {
		if _, ok := rec["pages"]; ok {
			t.Fatal("index record carries page content")
		}
	}
}

func TestFanoutDoesNotAliasRecord(t *testing.T) {
	r := storyFixture()
	recs := Fanout(r)
	recs[0].Categories[0] = "mutated"
	if !reflect.DeepEqual(r.Categories, []string{"bedtime", "animals"}) {
		t.Error("fan-out aliases the source record's slices")
	}
}
