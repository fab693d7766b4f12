// Package urlnorm collapses duplicated base-URL prefixes in asset
// references into one canonical absolute URL. Upstream tooling has a
// history of re-prepending the CDN base on every pass, producing
// references like "https://cdn/https://cdn/images/x/page-1.jpg".
package urlnorm

import "strings"

// Canonicalizer rewrites asset references against a single current
// base URL, stripping any number of occurrences of the current or any
// prior base.
type Canonicalizer struct {
	base  string
	known []string
}

// New creates a Canonicalizer for the given current base URL and any
// legacy base URLs that may still appear in stored references.
// Trailing slashes on bases are ignored.
func New(base string, legacy ...string) *Canonicalizer {
	c := &Canonicalizer{base: strings.TrimRight(base, "/")}
	c.known = append(c.known, c.base)
	for _, l := range legacy {
		l = strings.TrimRight(l, "/")
		if l != "" && l != c.base {
			c.known = append(c.known, l)
		}
	}
	return c
}

// Base returns the current base URL without a trailing slash.
func (c *Canonicalizer) Base() string { return c.base }

// Canonicalize returns the single canonical absolute form of ref:
// the current base followed by the asset's relative path. Applying it
// twice yields the same result as applying it once, and an
// already-canonical reference passes through unchanged.
func (c *Canonicalizer) Canonicalize(ref string) string {
	rel := strings.TrimSpace(ref)
	for {
		stripped := false
		for _, b := range c.known {
			for strings.HasPrefix(rel, b) {
				rel = strings.TrimLeft(rel[len(b):], "/")
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	if rel == "" {
		return c.base
	}
	return c.base + "/" + strings.TrimLeft(rel, "/")
}
