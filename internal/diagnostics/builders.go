package diagnostics

import "signalcore/internal/source"

// Unresolved creates a diagnostic for a name that no enclosing scope
// declares.
func Unresolved(loc source.Location, name string) *Diagnostic {
	return NewError(UnresolvedSymbol, "unresolved symbol '"+name+"'").
		WithPrimaryLabel(loc, "not found in this scope").
		WithHelp("check that the name is declared in this namespace, processor, or an enclosing scope")
}

// Ambiguous creates a diagnostic for a name or cast with more than one
// equally valid candidate.
func Ambiguous(loc source.Location, what string) *Diagnostic {
	return NewError(AmbiguousSymbol, "ambiguous "+what).
		WithPrimaryLabel(loc, "multiple candidates match")
}

// Redeclared creates a diagnostic for a duplicate name within one scope.
func Redeclared(loc, prevLoc source.Location, name string) *Diagnostic {
	return NewError(DuplicateName, "'"+name+"' is already declared in this scope").
		WithPrimaryLabel(loc, "redeclared here").
		WithSecondaryLabel(prevLoc, "previously declared here")
}

// CannotCastDiag reports a disallowed explicit cast.
func CannotCastDiag(loc source.Location, from, to string) *Diagnostic {
	return NewError(CannotCast, "cannot cast '"+from+"' to '"+to+"'").
		WithPrimaryLabel(loc, "invalid cast")
}

// CannotImplicitlyCastDiag reports a disallowed implicit cast.
func CannotImplicitlyCastDiag(loc source.Location, from, to string) *Diagnostic {
	return NewError(CannotImplicitCast, "cannot implicitly cast '"+from+"' to '"+to+"'").
		WithPrimaryLabel(loc, "no silent conversion exists").
		WithHelp("add an explicit 'as' cast if the conversion is intended")
}

// FeedbackCycle reports a zero-delay cycle in a graph's connections.
func FeedbackCycle(loc source.Location, path []string) *Diagnostic {
	arrow := ""
	for i, p := range path {
		if i > 0 {
			arrow += " -> "
		}
		arrow += p
	}
	return NewError(FeedbackInGraph, "feedback cycle with no delay: "+arrow).
		WithPrimaryLabel(loc, "this connection closes the cycle").
		WithHelp("add a delay of at least 1 frame on one connection in the cycle")
}

// RecursiveGraphDiag reports a processor-instance cycle in a graph.
func RecursiveGraphDiag(loc source.Location, path []string) *Diagnostic {
	arrow := ""
	for i, p := range path {
		if i > 0 {
			arrow += " -> "
		}
		arrow += p
	}
	return NewError(RecursiveGraph, "recursive graph: "+arrow).
		WithPrimaryLabel(loc, "instantiated again here")
}
