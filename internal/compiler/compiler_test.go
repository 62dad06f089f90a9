package compiler

import (
	"testing"

	"signalcore/internal/ast"
	"signalcore/internal/source"
)

func loc() source.Location {
	return source.NewLocation("t.sig", source.Position{Line: 1, Column: 1}, source.Position{Line: 1, Column: 2})
}

func hdr() ast.Header { return ast.Header{Location: loc()} }

func namedType(name string) *ast.NamedTypeExpr {
	return &ast.NamedTypeExpr{Header: hdr(), Name: &ast.Identifier{Header: hdr(), Name: name}}
}

func minimalGainNamespace() *ast.Namespace {
	out := &ast.EndpointDecl{Header: hdr(), Name: "out", Direction: ast.Out, DataTypes: []ast.TypeNode{namedType("f32")}}
	run := &ast.FunctionDecl{
		Header:     hdr(),
		Name:       "run",
		ReturnType: namedType("void"),
		Body: &ast.Block{
			Header: hdr(),
			Statements: []ast.Stmt{
				&ast.ExprStmt{Header: hdr(), Value: &ast.Write{
					Header:   hdr(),
					Endpoint: &ast.Identifier{Header: hdr(), Name: "out"},
					Value:    &ast.Literal{Header: hdr(), LitKind: ast.FloatLit, Float: 1},
				}},
			},
		},
	}
	proc := &ast.ProcessorDecl{
		Header:      hdr(),
		Name:        "Gain",
		Annotations: []*ast.Annotation{{Header: hdr(), Name: "main"}},
		Endpoints:   []*ast.EndpointDecl{out},
		Functions:   []*ast.FunctionDecl{run},
	}
	return &ast.Namespace{Header: hdr(), Processors: []*ast.ProcessorDecl{proc}}
}

func TestCompileMinimalProcessorSucceeds(t *testing.T) {
	res := Compile(minimalGainNamespace())
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Diags.EmitAllToString())
	}
	if res.Program == nil {
		t.Fatal("expected a Program on success")
	}
	main, ok := res.Program.FindMain()
	if !ok || main.Name != "Gain" {
		t.Fatalf("expected Gain to be found as main, got %v, %v", main, ok)
	}
}

func TestCompileStructuralErrorAbortsBeforeResolving(t *testing.T) {
	// A processor with no output endpoint fails CheckStructure; the
	// run function's malformed body (an undeclared identifier) would
	// also fail resolution, so a Program coming back at all here would
	// mean the pipeline kept going past the first failing stage.
	run := &ast.FunctionDecl{
		Header: hdr(),
		Name:   "run",
		Body: &ast.Block{
			Header: hdr(),
			Statements: []ast.Stmt{
				&ast.ExprStmt{Header: hdr(), Value: &ast.Identifier{Header: hdr(), Name: "does_not_exist"}},
			},
		},
	}
	proc := &ast.ProcessorDecl{Header: hdr(), Name: "Silent", Functions: []*ast.FunctionDecl{run}}
	ns := &ast.Namespace{Header: hdr(), Processors: []*ast.ProcessorDecl{proc}}

	res := Compile(ns)

	if !res.Diags.HasErrors() {
		t.Fatal("expected structural diagnostics for a processor without an output")
	}
	if res.Program != nil {
		t.Error("expected no Program once the structural stage has failed")
	}
}

func TestCompileUnresolvedIdentifierAbortsBeforeLowering(t *testing.T) {
	out := &ast.EndpointDecl{Header: hdr(), Name: "out", Direction: ast.Out, DataTypes: []ast.TypeNode{namedType("f32")}}
	run := &ast.FunctionDecl{
		Header:     hdr(),
		Name:       "run",
		ReturnType: namedType("void"),
		Body: &ast.Block{
			Header: hdr(),
			Statements: []ast.Stmt{
				&ast.ExprStmt{Header: hdr(), Value: &ast.Write{
					Header:   hdr(),
					Endpoint: &ast.Identifier{Header: hdr(), Name: "out"},
					Value:    &ast.Identifier{Header: hdr(), Name: "does_not_exist"},
				}},
			},
		},
	}
	proc := &ast.ProcessorDecl{Header: hdr(), Name: "Gain", Endpoints: []*ast.EndpointDecl{out}, Functions: []*ast.FunctionDecl{run}}
	ns := &ast.Namespace{Header: hdr(), Processors: []*ast.ProcessorDecl{proc}}

	res := Compile(ns)

	if !res.Diags.HasErrors() {
		t.Fatal("expected an unresolved-symbol diagnostic")
	}
	if res.Program != nil {
		t.Error("expected no Program once resolution has failed")
	}
}

func TestCompileProducesOptimizerReport(t *testing.T) {
	res := Compile(minimalGainNamespace())
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Diags.EmitAllToString())
	}
	if res.Report.UnreadStructMembers != nil {
		t.Errorf("expected no struct-member findings for a struct-free processor, got %v", res.Report.UnreadStructMembers)
	}
}
