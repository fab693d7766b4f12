// Package dedup makes pipeline re-runs idempotent: a title that is
// already in the catalog is skipped instead of minting a second story.
package dedup

import "sync"

// Guard holds a snapshot of already-ingested titles, taken once at
// batch start. Matching is by exact title string; two bundles whose
// titles differ only in casing or whitespace are treated as distinct
// stories.
type Guard struct {
	mu     sync.RWMutex
	titles map[string]struct{}
}

// NewGuard creates a Guard from the snapshot of existing titles.
func NewGuard(titles []string) *Guard {
	g := &Guard{titles: make(map[string]struct{}, len(titles))}
	for _, t := range titles {
		g.titles[t] = struct{}{}
	}
	return g
}

// Seen reports whether the title is already in the catalog or was
// ingested earlier in this run.
func (g *Guard) Seen(title string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.titles[title]
	return ok
}

// Add records a title ingested during this run, so a batch containing
// the same title twice skips the second occurrence.
func (g *Guard) Add(title string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.titles[title] = struct{}{}
}

// Len returns the number of known titles.
func (g *Guard) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.titles)
}
