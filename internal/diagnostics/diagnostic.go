// Package diagnostics models the compiler's typed message sink: every
// failure the resolver, validator, or lowering/optimiser stages raise is a
// *Diagnostic collected into a *Bag and eventually rendered by an
// *Emitter. The core never calls log.Fatal or panics on a user-facing
// error — it always returns diagnostics to the caller (spec.md §7).
package diagnostics

import "signalcore/internal/source"

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// LabelStyle distinguishes the primary offending span from supporting context.
type LabelStyle int

const (
	Primary LabelStyle = iota
	Secondary
)

// Label attaches a message to a source span.
type Label struct {
	Location source.Location
	Message  string
	Style    LabelStyle
}

// Diagnostic is a single typed compiler message: a severity, a message, an
// error-kind Code (see codes.go), zero or more labelled spans, and an
// optional call-chain trail of frames added with WithCallSite.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Labels   []Label
	Notes    []string
	Help     string
	Trail    []string // call-site frames, in the order WithCallSite added them
}

// NewError creates an error-severity diagnostic tagged with code.
func NewError(code Code, message string) *Diagnostic {
	return &Diagnostic{Severity: Error, Code: code, Message: message}
}

// NewWarning creates a warning-severity diagnostic tagged with code.
func NewWarning(code Code, message string) *Diagnostic {
	return &Diagnostic{Severity: Warning, Code: code, Message: message}
}

// WithPrimaryLabel sets (or replaces) the diagnostic's primary span.
func (d *Diagnostic) WithPrimaryLabel(loc source.Location, message string) *Diagnostic {
	for i, l := range d.Labels {
		if l.Style == Primary {
			d.Labels[i] = Label{Location: loc, Message: message, Style: Primary}
			return d
		}
	}
	d.Labels = append([]Label{{Location: loc, Message: message, Style: Primary}}, d.Labels...)
	return d
}

// WithSecondaryLabel appends a supporting span, e.g. a previous declaration.
func (d *Diagnostic) WithSecondaryLabel(loc source.Location, message string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Location: loc, Message: message, Style: Secondary})
	return d
}

// WithNote appends free-form context.
func (d *Diagnostic) WithNote(message string) *Diagnostic {
	d.Notes = append(d.Notes, message)
	return d
}

// WithHelp sets a single actionable suggestion.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// WithCallSite appends a call-site frame to the diagnostic's trail. The
// Emitter prints the frames after the message, labels, notes and help,
// in the order they were appended. No compiler stage calls it: errors
// raised while resolving a specialisation carry no frame naming the
// call that triggered it.
func (d *Diagnostic) WithCallSite(description string) *Diagnostic {
	d.Trail = append(d.Trail, description)
	return d
}
