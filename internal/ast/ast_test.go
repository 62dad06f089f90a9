package ast

import (
	"testing"

	"signalcore/internal/source"
)

func loc() source.Location {
	return source.NewLocation("test.sig", source.Position{Line: 1, Column: 1}, source.Position{Line: 1, Column: 2})
}

func TestExprKindStartsUnknown(t *testing.T) {
	id := &Identifier{Header: Header{Location: loc()}, Name: "out"}
	if id.Kind() != Unknown {
		t.Errorf("fresh identifier kind = %v, want Unknown", id.Kind())
	}
	id.SetKind(Endpoint)
	if id.Kind() != Endpoint {
		t.Errorf("after SetKind, kind = %v, want Endpoint", id.Kind())
	}
}

func TestScopeLookupWalksAncestors(t *testing.T) {
	root := NewScope(nil)
	child := NewScope(root)

	decl := &ConstantDecl{Header: Header{Location: loc()}, Name: "pi"}
	if !root.Declare("pi", decl) {
		t.Fatal("first declare should succeed")
	}
	if root.Declare("pi", decl) {
		t.Error("redeclaring the same name in the same scope should fail")
	}

	got, ok := child.Lookup("pi")
	if !ok || got != decl {
		t.Errorf("child scope should see parent binding, got %v ok=%v", got, ok)
	}
	if _, ok := child.LookupLocal("pi"); ok {
		t.Error("LookupLocal should not see ancestor bindings")
	}
}

func TestProcessorIsMainAndRunFunction(t *testing.T) {
	run := &FunctionDecl{Header: Header{Location: loc()}, Name: "run"}
	p := &ProcessorDecl{
		Header:      Header{Location: loc()},
		Name:        "Gain",
		Annotations: []*Annotation{{Header: Header{Location: loc()}, Name: "main"}},
		Functions:   []*FunctionDecl{run},
	}
	if !p.IsMain() {
		t.Error("processor with @main annotation should report IsMain")
	}
	if p.RunFunction() != run {
		t.Error("RunFunction should find the function named run")
	}
}

func TestFunctionHasAnnotation(t *testing.T) {
	f := &FunctionDecl{
		Header:      Header{Location: loc()},
		Name:        "helper",
		Annotations: []*Annotation{{Header: Header{Location: loc()}, Name: "do_not_optimise"}},
	}
	if !f.HasAnnotation("do_not_optimise") {
		t.Error("expected do_not_optimise annotation to be found")
	}
	if f.HasAnnotation("main") {
		t.Error("did not expect main annotation on a function")
	}
}
