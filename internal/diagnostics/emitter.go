package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"signalcore/colors"
	"signalcore/internal/source"
)

// Emitter renders diagnostics to a writer in a terminal-friendly,
// rustc-like layout: a severity/code header, a source excerpt with a
// caret underline beneath the primary span, secondary spans, notes, and
// help text.
type Emitter struct {
	w     io.Writer
	cache *source.Cache
}

// NewEmitter creates an emitter writing to w, resolving source excerpts
// from cache.
func NewEmitter(w io.Writer, cache *source.Cache) *Emitter {
	return &Emitter{w: w, cache: cache}
}

// Emit renders a single diagnostic, including its specialisation trail.
func (e *Emitter) Emit(d *Diagnostic) {
	color, tag := severityStyle(d.Severity)

	color.Fprintf(e.w, "%s", tag)
	fmt.Fprintf(e.w, "[%s]: %s\n", d.Code, d.Message)

	for _, label := range d.Labels {
		e.emitLabel(label)
	}

	for _, note := range d.Notes {
		colors.CYAN.Fprintf(e.w, "  note: ")
		fmt.Fprintf(e.w, "%s\n", note)
	}

	if d.Help != "" {
		colors.GREEN.Fprintf(e.w, "  help: ")
		fmt.Fprintf(e.w, "%s\n", d.Help)
	}

	for _, frame := range d.Trail {
		colors.GRAY.Fprintf(e.w, "  while specialising: ")
		fmt.Fprintf(e.w, "%s\n", frame)
	}

	fmt.Fprintln(e.w)
}

func (e *Emitter) emitLabel(l Label) {
	arrow := "-->"
	fmt.Fprintf(e.w, "  %s %s\n", arrow, l.Location.String())

	line, ok := e.cache.Line(l.Location.Filename, l.Location.Start.Line)
	if !ok {
		return
	}
	fmt.Fprintf(e.w, "   | %s\n", line)

	underline := caretLine(line, l.Location)
	style := colors.RED
	if l.Style == Secondary {
		style = colors.GRAY
	}
	fmt.Fprint(e.w, "   | ")
	style.Fprintf(e.w, "%s", underline)
	if l.Message != "" {
		fmt.Fprintf(e.w, " %s", l.Message)
	}
	fmt.Fprintln(e.w)
}

// caretLine builds a "    ^^^^" underline aligned to loc's columns on its
// start line.
func caretLine(line string, loc source.Location) string {
	start := loc.Start.Column
	end := loc.End.Column
	if start < 1 {
		start = 1
	}
	if end <= start {
		end = start + 1
	}
	if end-1 > len(line)+1 {
		end = len(line) + 1
	}
	return strings.Repeat(" ", start-1) + strings.Repeat("^", end-start)
}

func severityStyle(s Severity) (colors.COLOR, string) {
	switch s {
	case Error:
		return colors.BOLD_RED, "error"
	case Warning:
		return colors.BOLD_ORANGE, "warning"
	default:
		return colors.BOLD_CYAN, "note"
	}
}
