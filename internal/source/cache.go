package source

import "strings"

// Cache holds in-memory source text keyed by filename, used to render
// excerpts in diagnostics. The core never reads files itself; a caller
// (the external parser/loader) feeds source text in via AddSource.
type Cache struct {
	files map[string][]string
}

// NewCache creates an empty source cache.
func NewCache() *Cache {
	return &Cache{files: make(map[string][]string)}
}

// AddSource registers the content of filename, splitting it into lines.
func (c *Cache) AddSource(filename, content string) {
	c.files[filename] = strings.Split(content, "\n")
}

// Line returns the 1-indexed line of filename, if present.
func (c *Cache) Line(filename string, line int) (string, bool) {
	lines, ok := c.files[filename]
	if !ok || line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// LinesRange returns lines [start, end] (1-indexed, inclusive) of filename.
func (c *Cache) LinesRange(filename string, start, end int) ([]string, bool) {
	lines, ok := c.files[filename]
	if !ok || start < 1 || end < start || end > len(lines) {
		return nil, false
	}
	return lines[start-1 : end], true
}
