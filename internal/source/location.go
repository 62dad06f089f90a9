// Package source holds source-span bookkeeping shared by the AST, the
// diagnostics bag, and the IR. A Location records the file and the
// start/end Position of a span of source text so diagnostics and
// cross-references can point back at it. The tokeniser/parser that
// actually produces these spans is an external collaborator — this
// package only models the span itself; the core never touches a
// filesystem on its own.
package source

import "fmt"

// Position is a 1-based line/column pair within a source file.
type Position struct {
	Line   int
	Column int
}

// Location is a half-open span [Start, End) within a named source file.
type Location struct {
	Filename string
	Start    Position
	End      Position
}

// NewLocation builds a Location from a filename and two positions.
func NewLocation(filename string, start, end Position) Location {
	return Location{Filename: filename, Start: start, End: end}
}

// Contains reports whether pos lies within the location's span. Unlike
// Text, which stops before End, Contains counts the End position itself
// as inside the span.
func (l Location) Contains(pos Position) bool {
	if l.Start.Line > pos.Line || (l.Start.Line == pos.Line && l.Start.Column > pos.Column) {
		return false
	}
	if l.End.Line < pos.Line || (l.End.Line == pos.Line && l.End.Column < pos.Column) {
		return false
	}
	return true
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column)
}

// Text extracts the source text the location spans from cache, or the
// empty string if the span is unknown or out of range.
func (l Location) Text(cache *Cache) string {
	if cache == nil || l.Filename == "" {
		return ""
	}
	lines, ok := cache.LinesRange(l.Filename, l.Start.Line, l.End.Line)
	if !ok || len(lines) == 0 {
		return ""
	}
	if l.Start.Line == l.End.Line {
		line := lines[0]
		if l.Start.Column < 1 || l.End.Column-1 > len(line) || l.Start.Column > l.End.Column {
			return ""
		}
		return line[l.Start.Column-1 : l.End.Column-1]
	}
	first, last := lines[0], lines[len(lines)-1]
	if l.Start.Column < 1 || l.Start.Column-1 > len(first) || l.End.Column < 1 || l.End.Column-1 > len(last) {
		return ""
	}
	out := first[l.Start.Column-1:]
	for _, line := range lines[1 : len(lines)-1] {
		out += "\n" + line
	}
	return out + "\n" + last[:l.End.Column-1]
}
