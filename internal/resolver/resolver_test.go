package resolver

import (
	"testing"

	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/source"
	"signalcore/internal/types"
)

func loc() source.Location {
	return source.NewLocation("t.sig", source.Position{Line: 1, Column: 1}, source.Position{Line: 1, Column: 2})
}

func hdr() ast.Header { return ast.Header{Location: loc()} }

func namedType(name string) *ast.NamedTypeExpr {
	return &ast.NamedTypeExpr{Header: hdr(), Name: &ast.Identifier{Header: hdr(), Name: name}}
}

func TestResolveMinimalProcessorHasRunAndOutput(t *testing.T) {
	bag := diagnostics.NewBag()
	r := New(bag, types.NewStringDictionary())

	out := &ast.EndpointDecl{Header: hdr(), Name: "out", Direction: ast.Out, DataTypes: []ast.TypeNode{namedType("f32")}}
	run := &ast.FunctionDecl{
		Header: hdr(),
		Name:   "run",
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
	proc := &ast.ProcessorDecl{Header: hdr(), Name: "Gain", Endpoints: []*ast.EndpointDecl{out}, Functions: []*ast.FunctionDecl{run}}
	ns := &ast.Namespace{Header: hdr(), Processors: []*ast.ProcessorDecl{proc}}

	r.ResolveNamespace(ns, nil)

	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.EmitAllToString())
	}
}

func TestResolveProcessorMissingRunFunctionReportsDiagnostic(t *testing.T) {
	bag := diagnostics.NewBag()
	r := New(bag, types.NewStringDictionary())

	out := &ast.EndpointDecl{Header: hdr(), Name: "out", Direction: ast.Out, DataTypes: []ast.TypeNode{namedType("f32")}}
	proc := &ast.ProcessorDecl{Header: hdr(), Name: "Silent", Endpoints: []*ast.EndpointDecl{out}}
	ns := &ast.Namespace{Header: hdr(), Processors: []*ast.ProcessorDecl{proc}}

	r.ResolveNamespace(ns, nil)

	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for a processor with no run function")
	}
	found := false
	for _, d := range bag.Diagnostics() {
		if d.Code == diagnostics.ProcessorNeedsRunFunction {
			found = true
		}
	}
	if !found {
		t.Error("expected ProcessorNeedsRunFunction diagnostic")
	}
}

func TestResolveUnknownIdentifierReportsUnresolved(t *testing.T) {
	bag := diagnostics.NewBag()
	r := New(bag, types.NewStringDictionary())
	scope := ast.NewScope(nil)

	r.resolveExpr(&ast.Identifier{Header: hdr(), Name: "nope"}, scope, newEnv())

	if !bag.HasErrors() {
		t.Fatal("expected unresolved-symbol diagnostic")
	}
}

func TestGenericFunctionSpecializesDistinctlyPerArgumentType(t *testing.T) {
	bag := diagnostics.NewBag()
	r := New(bag, types.NewStringDictionary())

	identity := &ast.FunctionDecl{
		Header:   hdr(),
		Name:     "identity",
		Generics: []string{"T"},
		Params:   []*ast.Param{{Header: hdr(), Name: "x", Type: namedType("T")}},
		ReturnType: namedType("T"),
		Body: &ast.Block{Header: hdr(), Statements: []ast.Stmt{
			&ast.Return{Header: hdr(), Value: &ast.Identifier{Header: hdr(), Name: "x"}},
		}},
	}
	ns := &ast.Namespace{Header: hdr(), Functions: []*ast.FunctionDecl{identity}}
	ns.Scope = ast.NewScope(nil)
	r.declareNamespaceMembers(ns)

	callI32 := &ast.Call{
		Header: hdr(),
		Callee: &ast.Identifier{Header: hdr(), Name: "identity"},
		Args:   []ast.Expr{&ast.Literal{Header: hdr(), LitKind: ast.IntLit, Int: 3}},
	}
	callF32 := &ast.Call{
		Header: hdr(),
		Callee: &ast.Identifier{Header: hdr(), Name: "identity"},
		Args:   []ast.Expr{&ast.Literal{Header: hdr(), LitKind: ast.FloatLit, Float: 3}},
	}

	r.resolveExpr(callI32, ns.Scope, newEnv())
	r.resolveExpr(callF32, ns.Scope, newEnv())
	r.drainPendingSpecializations()

	if callI32.Resolved == nil || callF32.Resolved == nil {
		t.Fatal("expected both calls to resolve to a specialization")
	}
	if callI32.Resolved == identity || callF32.Resolved == identity {
		t.Error("calls should resolve to a specialized clone, not the generic declaration")
	}
	if callI32.Resolved.Name == callF32.Resolved.Name {
		t.Error("i32 and f32 specializations should produce distinct mangled names")
	}
}
