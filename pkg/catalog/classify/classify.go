// Package classify maps a text sample to topical category tags using
// an ordered keyword table. Matching is substring-based over the
// lowercased sample; the table's insertion order is preserved in the
// output so classification runs are reproducible.
package classify

import "strings"

// Category is one entry of the keyword table.
type Category struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// Classifier assigns categories from a fixed keyword table.
type Classifier struct {
	table    []Category
	fallback string
}

// New creates a Classifier over the given table. Keywords are
// lowercased once at construction. An empty table still classifies:
// every sample falls back to the default category.
func New(table []Category) *Classifier {
	c := &Classifier{fallback: DefaultFallback}
	for _, cat := range table {
		normalized := make([]string, len(cat.Keywords))
		for i, kw := range cat.Keywords {
			normalized[i] = strings.ToLower(kw)
		}
		c.table = append(c.table, Category{Tag: cat.Tag, Keywords: normalized})
	}
	return c
}

// SetFallback overrides the default category tag used when no keyword
// matches.
func (c *Classifier) SetFallback(tag string) {
	if tag != "" {
		c.fallback = tag
	}
}

// Classify returns the category tags whose keywords appear in the
// sample, in table order. When nothing matches it returns the single
// fallback tag and reports degraded=true.
func (c *Classifier) Classify(sample string) (tags []string, degraded bool) {
	lower := strings.ToLower(sample)
	for _, cat := range c.table {
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(lower, kw) {
				tags = append(tags, cat.Tag)
				break
			}
		}
	}
	if len(tags) == 0 {
		return []string{c.fallback}, true
	}
	return tags, false
}

// Sample builds the classification input: title, then a bounded prefix
// of page texts, then an optional external text sample.
func (c *Classifier) Sample(title string, pageTexts []string, extra string) string {
	if len(pageTexts) > SamplePages {
		pageTexts = pageTexts[:SamplePages]
	}
	parts := make([]string, 0, len(pageTexts)+2)
	parts = append(parts, title)
	parts = append(parts, pageTexts...)
	if extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, " ")
}
