// Package bundlefile loads raw story bundles from disk for the batch
// cmds. Acquisition proper (scraping, extraction) lives outside this
// repo; what arrives here is already in the bundle input contract.
package bundlefile

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/bundle"
)

// Load reads bundles from path: a directory of JSON files (one bundle
// each) or a single JSONL file.
func Load(path string) ([]bundle.Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadJSONL(path)
}

// LoadDir reads every *.json file in dir, sorted by name.
func LoadDir(dir string) ([]bundle.Bundle, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var bundles []bundle.Bundle
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var b bundle.Bundle
		if err := json.Unmarshal(data, &b); err != nil {
			log.Printf("Warning: skipping malformed bundle %s: %v", path, err)
			continue
		}
		bundles = append(bundles, b)
	}

	if len(bundles) == 0 {
		return nil, fmt.Errorf("no valid bundles found in %s", dir)
	}
	return bundles, nil
}

// LoadJSONL loads bundles from a JSONL file with proper error handling
func LoadJSONL(path string) ([]bundle.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var bundles []bundle.Bundle
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var b bundle.Bundle
		if err := json.Unmarshal([]byte(line), &b); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		bundles = append(bundles, b)
	}

	if len(bundles) == 0 {
		return nil, fmt.Errorf("no valid bundles found in %s", path)
	}

	return bundles, nil
}
