// Package artifact writes the two catalog interchange files: the full
// story record array for audit review and the index record array for
// bulk-loading the key-value store.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/index"
	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/record"
)

// WriteStories writes the story records as an indented JSON array.
func WriteStories(path string, stories []record.StoryRecord) error {
	return writeJSON(path, stories)
}

// WriteIndex writes the index records as an indented JSON array.
func WriteIndex(path string, recs []index.Record) error {
	return writeJSON(path, recs)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}
