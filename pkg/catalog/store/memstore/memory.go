package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/index"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu         sync.RWMutex
	stories    map[string]record.StoryRecord
	titleIndex map[string]string
	indexRecs  map[string][]index.Record // story_id → records
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		stories:    make(map[string]record.StoryRecord),
		titleIndex: make(map[string]string),
		indexRecs:  make(map[string][]index.Record),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertStory inserts or replaces a story, keyed by story_id.
func (s *Store) UpsertStory(ctx context.Context, r record.StoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.stories[r.StoryID]; ok && existing.Title != r.Title {
		delete(s.titleIndex, existing.Title)
	}
	s.stories[r.StoryID] = copyRecord(r)
	s.titleIndex[r.Title] = r.StoryID
	return nil
}

// GetStory returns a story by ID.
func (s *Store) GetStory(ctx context.Context, storyID string) (record.StoryRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.stories[storyID]; ok {
		return copyRecord(r), true, nil
	}
	return record.StoryRecord{}, false, nil
}

// GetStoryByTitle returns a story by exact title match.
func (s *Store) GetStoryByTitle(ctx context.Context, title string) (record.StoryRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.titleIndex[title]; ok {
		if r, exists := s.stories[id]; exists {
			return copyRecord(r), true, nil
		}
	}
	return record.StoryRecord{}, false, nil
}

// ListStories returns all stories ordered by created_at, then ID.
func (s *Store) ListStories(ctx context.Context) ([]record.StoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.StoryRecord, 0, len(s.stories))
	for _, r := range s.stories {
		out = append(out, copyRecord(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].StoryID < out[j].StoryID
	})
	return out, nil
}

// Titles returns every stored title.
func (s *Store) Titles(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.titleIndex))
	for t := range s.titleIndex {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// ListStoryPayloads returns each story marshaled as stored.
func (s *Store) ListStoryPayloads(ctx context.Context) ([]store.StoryPayload, error) {
	stories, err := s.ListStories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]store.StoryPayload, 0, len(stories))
	for _, r := range stories {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, store.StoryPayload{StoryID: r.StoryID, Raw: raw})
	}
	return out, nil
}

// ReplaceIndexRecords swaps the full index record set for one story.
func (s *Store) ReplaceIndexRecords(ctx context.Context, storyID string, recs []index.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]index.Record, len(recs))
	copy(copied, recs)
	s.indexRecs[storyID] = copied
	return nil
}

// ListIndexRecords returns all index records ordered by (pk, sk).
func (s *Store) ListIndexRecords(ctx context.Context) ([]index.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []index.Record
	for _, recs := range s.indexRecs {
		out = append(out, recs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PK != out[j].PK {
			return out[i].PK < out[j].PK
		}
		return out[i].SK < out[j].SK
	})
	return out, nil
}

func copyRecord(r record.StoryRecord) record.StoryRecord {
	c := r
	c.Pages = append([]record.Page(nil), r.Pages...)
	c.Categories = append([]string(nil), r.Categories...)
	c.Tags = append([]string(nil), r.Tags...)
	return c
}
