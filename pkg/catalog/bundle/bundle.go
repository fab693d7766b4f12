// Package bundle defines the raw input contract for the catalog
// pipeline: one loosely-structured book as delivered by an acquisition
// collaborator, before any normalization.
package bundle

import (
	"fmt"

	"github.com/nabitullc/twinklepod-catalog/pkg/catalog/internalerr"
)

// Page is one page of a raw bundle. ImageRef may be a relative path,
// a full URL, or a defective URL with duplicated base prefixes.
type Page struct {
	Text     string `json:"text"`
	ImageRef string `json:"image_ref"`
}

// Provenance carries pass-through source attribution.
type Provenance struct {
	SourceURL string `json:"source_url"`
	License   string `json:"license"`
	Author    string `json:"author"`
}

// Bundle is one book's raw content before normalization.
type Bundle struct {
	Title      string     `json:"title"`
	Pages      []Page     `json:"pages"`
	Provenance Provenance `json:"provenance"`
}

// Validate checks the input contract. A bundle with no pages, no
// title, or a page carrying neither text nor an image reference is
// rejected rather than silently accepted.
func (b Bundle) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("%w: title is empty", internalerr.ErrInvalidBundle)
	}
	if len(b.Pages) == 0 {
		return fmt.Errorf("%w: %q has no pages", internalerr.ErrInvalidBundle, b.Title)
	}
	for i, p := range b.Pages {
		if p.Text == "" && p.ImageRef == "" {
			return fmt.Errorf("%w: %q page %d has neither text nor image", internalerr.ErrInvalidBundle, b.Title, i+1)
		}
	}
	return nil
}

// PageTexts returns the page texts in order.
func (b Bundle) PageTexts() []string {
	texts := make([]string, len(b.Pages))
	for i, p := range b.Pages {
		texts[i] = p.Text
	}
	return texts
}
