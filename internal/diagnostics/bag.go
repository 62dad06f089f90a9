package diagnostics

import (
	"bytes"
	"io"
	"os"

	"signalcore/colors"
	"signalcore/internal/source"
)

// Bag accumulates diagnostics over a single compilation. The core is
// single-threaded (spec.md §5), so unlike the teacher's DiagnosticBag
// this needs no mutex.
type Bag struct {
	diagnostics []*Diagnostic
	errorCount  int
	warnCount   int
	sourceCache *source.Cache
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{sourceCache: source.NewCache()}
}

// AddSourceContent registers source text for filename so later rendering
// can show a code excerpt. The core never loads files itself; the caller
// (the external parser/loader) supplies content.
func (b *Bag) AddSourceContent(filename, content string) {
	b.sourceCache.AddSource(filename, content)
}

// Add records a diagnostic.
func (b *Bag) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	b.diagnostics = append(b.diagnostics, d)
	switch d.Severity {
	case Error:
		b.errorCount++
	case Warning:
		b.warnCount++
	}
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (b *Bag) HasErrors() bool { return b.errorCount > 0 }

// ErrorCount returns the number of error-severity diagnostics.
func (b *Bag) ErrorCount() int { return b.errorCount }

// WarningCount returns the number of warning-severity diagnostics.
func (b *Bag) WarningCount() int { return b.warnCount }

// Diagnostics returns a defensive copy of every diagnostic recorded so far,
// drained by the caller per spec.md §5 ("Diagnostics accumulate into a
// compile-message list which is drained by the caller").
func (b *Bag) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, len(b.diagnostics))
	copy(out, b.diagnostics)
	return out
}

// Clear removes every recorded diagnostic.
func (b *Bag) Clear() {
	b.diagnostics = nil
	b.errorCount = 0
	b.warnCount = 0
}

// EmitAll writes every diagnostic to stderr, followed by a summary line.
func (b *Bag) EmitAll() {
	e := NewEmitter(os.Stderr, b.sourceCache)
	for _, d := range b.diagnostics {
		e.Emit(d)
	}
	b.printSummary(os.Stderr)
}

// EmitAllToString renders every diagnostic plus a summary to a string.
func (b *Bag) EmitAllToString() string {
	var buf bytes.Buffer
	e := NewEmitter(&buf, b.sourceCache)
	for _, d := range b.diagnostics {
		e.Emit(d)
	}
	b.printSummary(&buf)
	return buf.String()
}

func (b *Bag) printSummary(w io.Writer) {
	switch {
	case b.errorCount > 0 && b.warnCount > 0:
		colors.RED.Fprintf(w, "\ncompilation failed: %d error(s), %d warning(s)\n", b.errorCount, b.warnCount)
	case b.errorCount > 0:
		colors.RED.Fprintf(w, "\ncompilation failed: %d error(s)\n", b.errorCount)
	case b.warnCount > 0:
		colors.ORANGE.Fprintf(w, "\ncompilation succeeded: %d warning(s)\n", b.warnCount)
	}
}
