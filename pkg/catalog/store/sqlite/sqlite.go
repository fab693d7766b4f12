package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/index"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/internalerr"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/store"
)

// putChunkSize bounds how many index records go into one INSERT, the
// same batch bound the key-value store enforces on bulk puts.
const putChunkSize = 25

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite catalog database with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS stories (
	story_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	schema_version INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stories_title ON stories(title);
CREATE INDEX IF NOT EXISTS idx_stories_created ON stories(created_at);

CREATE TABLE IF NOT EXISTS index_records (
	pk TEXT NOT NULL,
	sk TEXT NOT NULL,
	story_id TEXT NOT NULL,
	item TEXT NOT NULL,
	PRIMARY KEY(pk, sk)
);

CREATE INDEX IF NOT EXISTS idx_index_story ON index_records(story_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertStory inserts or replaces the full story payload.
func (s *sqliteStore) UpsertStory(ctx context.Context, r record.StoryRecord) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO stories (story_id, title, schema_version, created_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(story_id) DO UPDATE SET
			title = excluded.title,
			schema_version = excluded.schema_version,
			created_at = excluded.created_at,
			payload = excluded.payload`,
		r.StoryID, r.Title, r.SchemaVersion, r.CreatedAt, string(payload))
	if err != nil {
		return fmt.Errorf("%w: upsert story %s: %v", internalerr.ErrStoreUnavailable, r.StoryID, err)
	}
	return nil
}

// GetStory returns a story by ID.
func (s *sqliteStore) GetStory(ctx context.Context, storyID string) (record.StoryRecord, bool, error) {
	return s.getStory(ctx, `SELECT payload FROM stories WHERE story_id = ?`, storyID)
}

// GetStoryByTitle returns a story by exact title match. When several
// stories share a title the earliest created wins.
func (s *sqliteStore) GetStoryByTitle(ctx context.Context, title string) (record.StoryRecord, bool, error) {
	return s.getStory(ctx, `SELECT payload FROM stories WHERE title = ? ORDER BY created_at, story_id LIMIT 1`, title)
}

func (s *sqliteStore) getStory(ctx context.Context, query string, arg any) (record.StoryRecord, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&payload)
	if err == sql.ErrNoRows {
		return record.StoryRecord{}, false, nil
	}
	if err != nil {
		return record.StoryRecord{}, false, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	var r record.StoryRecord
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return record.StoryRecord{}, false, err
	}
	return r, true, nil
}

// ListStories returns all stories ordered by created_at, then ID.
func (s *sqliteStore) ListStories(ctx context.Context) ([]record.StoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM stories ORDER BY created_at, story_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []record.StoryRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r record.StoryRecord
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Titles returns every stored title.
func (s *sqliteStore) Titles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title FROM stories ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListStoryPayloads returns the persisted bytes per story, as stored.
func (s *sqliteStore) ListStoryPayloads(ctx context.Context) ([]store.StoryPayload, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT story_id, payload FROM stories ORDER BY created_at, story_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []store.StoryPayload
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		out = append(out, store.StoryPayload{StoryID: id, Raw: []byte(payload)})
	}
	return out, rows.Err()
}

// ReplaceIndexRecords deletes the story's index partition entries and
// writes the new set in chunked inserts, all in one transaction.
func (s *sqliteStore) ReplaceIndexRecords(ctx context.Context, storyID string, recs []index.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM index_records WHERE story_id = ?`, storyID); err != nil {
		return fmt.Errorf("%w: clear index for %s: %v", internalerr.ErrStoreUnavailable, storyID, err)
	}

	for start := 0; start < len(recs); start += putChunkSize {
		end := start + putChunkSize
		if end > len(recs) {
			end = len(recs)
		}
		if err := insertChunk(ctx, tx, recs[start:end]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertChunk(ctx context.Context, tx *sql.Tx, recs []index.Record) error {
	query := `INSERT OR REPLACE INTO index_records (pk, sk, story_id, item) VALUES `
	args := make([]any, 0, len(recs)*4)
	for i, rec := range recs {
		item, err := json.Marshal(rec.Item)
		if err != nil {
			return err
		}
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?)"
		args = append(args, rec.PK, rec.SK, rec.StoryID, string(item))
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: put index chunk: %v", internalerr.ErrStoreUnavailable, err)
	}
	return nil
}

// ListIndexRecords returns all index records ordered by (pk, sk).
func (s *sqliteStore) ListIndexRecords(ctx context.Context) ([]index.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pk, sk, item FROM index_records ORDER BY pk, sk`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []index.Record
	for rows.Next() {
		var pk, sk, item string
		if err := rows.Scan(&pk, &sk, &item); err != nil {
			return nil, err
		}
		rec := index.Record{PK: pk, SK: sk}
		if err := json.Unmarshal([]byte(item), &rec.Item); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
