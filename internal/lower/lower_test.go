package lower

import (
	"strings"
	"testing"

	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/ir"
	"signalcore/internal/resolver"
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

// resolveForLowering runs ns through the resolver exactly as the
// compiler orchestration will, and fails the test immediately on any
// diagnostic: lowering a namespace that failed resolution is not a
// scenario C5 needs to handle (spec.md §2's "first error aborts the
// pipeline").
func resolveForLowering(t *testing.T, ns *ast.Namespace) (*resolver.Resolver, *types.StringDictionary, *types.ConstantTable) {
	t.Helper()
	bag := diagnostics.NewBag()
	strDict := types.NewStringDictionary()
	r := resolver.New(bag, strDict)
	r.ResolveNamespace(ns, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected resolve errors: %s", bag.EmitAllToString())
	}
	return r, strDict, types.NewConstantTable()
}

func TestLowerMinimalProcessorWritesConstantToOutput(t *testing.T) {
	out := &ast.EndpointDecl{Header: hdr(), Name: "out", Direction: ast.Out, DataTypes: []ast.TypeNode{namedType("f32")}}
	run := &ast.FunctionDecl{
		Header: hdr(),
		Name:   "run",
		ReturnType: &ast.NamedTypeExpr{Header: hdr(), Name: &ast.Identifier{Header: hdr(), Name: "void"}},
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

	r, strDict, consts := resolveForLowering(t, ns)
	mod := Lower(ns, r, strDict, consts)

	if len(mod.Processors) != 1 {
		t.Fatalf("expected 1 lowered processor, got %d", len(mod.Processors))
	}
	p := mod.Processors[0]
	if p.Run == nil {
		t.Fatal("expected a lowered run function")
	}
	if p.Init == nil {
		t.Fatal("expected a synthesized init function even with no state vars")
	}

	dump := ir.FormatModule(mod)
	if !strings.Contains(dump, "out <-") {
		t.Errorf("expected an endpoint write in lowered output, got:\n%s", dump)
	}
}

func TestLowerStateVarInitSynthesizesAssignment(t *testing.T) {
	out := &ast.EndpointDecl{Header: hdr(), Name: "out", Direction: ast.Out, DataTypes: []ast.TypeNode{namedType("f32")}}
	sv := &ast.StateVarDecl{Header: hdr(), Name: "gain", Type: namedType("f32"), Init: &ast.Literal{Header: hdr(), LitKind: ast.FloatLit, Float: 2}}
	run := &ast.FunctionDecl{
		Header:     hdr(),
		Name:       "run",
		ReturnType: &ast.NamedTypeExpr{Header: hdr(), Name: &ast.Identifier{Header: hdr(), Name: "void"}},
		Body: &ast.Block{
			Header: hdr(),
			Statements: []ast.Stmt{
				&ast.ExprStmt{Header: hdr(), Value: &ast.Write{
					Header:   hdr(),
					Endpoint: &ast.Identifier{Header: hdr(), Name: "out"},
					Value:    &ast.Identifier{Header: hdr(), Name: "gain"},
				}},
			},
		},
	}
	proc := &ast.ProcessorDecl{
		Header:    hdr(),
		Name:      "Amp",
		Endpoints: []*ast.EndpointDecl{out},
		StateVars: []*ast.StateVarDecl{sv},
		Functions: []*ast.FunctionDecl{run},
	}
	ns := &ast.Namespace{Header: hdr(), Processors: []*ast.ProcessorDecl{proc}}

	r, strDict, consts := resolveForLowering(t, ns)
	mod := Lower(ns, r, strDict, consts)

	p := mod.Processors[0]
	if len(p.StateVars) != 1 {
		t.Fatalf("expected 1 state var, got %d", len(p.StateVars))
	}

	dump := ir.FormatModule(mod)
	if !strings.Contains(dump, "state.0 =") {
		t.Errorf("expected init to assign state.0, got:\n%s", dump)
	}
	if !strings.Contains(dump, "out <- state.0") {
		t.Errorf("expected run to read the state var back out, got:\n%s", dump)
	}
}

func TestLowerConstIfEliminatesDeadArm(t *testing.T) {
	fn := &ast.FunctionDecl{
		Header:     hdr(),
		Name:       "pick",
		ReturnType: namedType("i32"),
		Body: &ast.Block{
			Header: hdr(),
			Statements: []ast.Stmt{
				&ast.If{
					Header:    hdr(),
					Const:     true,
					Condition: &ast.Literal{Header: hdr(), LitKind: ast.BoolLit, Bool: true},
					Then: &ast.Block{
						Header: hdr(),
						Statements: []ast.Stmt{
							&ast.Return{Header: hdr(), Value: &ast.Literal{Header: hdr(), LitKind: ast.IntLit, Int: 1}},
						},
					},
					Else: &ast.Block{
						Header: hdr(),
						Statements: []ast.Stmt{
							&ast.Return{Header: hdr(), Value: &ast.Literal{Header: hdr(), LitKind: ast.IntLit, Int: 2}},
						},
					},
				},
				&ast.Return{Header: hdr(), Value: &ast.Literal{Header: hdr(), LitKind: ast.IntLit, Int: 0}},
			},
		},
	}
	ns := &ast.Namespace{Header: hdr(), Functions: []*ast.FunctionDecl{fn}}

	r, strDict, consts := resolveForLowering(t, ns)
	mod := Lower(ns, r, strDict, consts)

	if len(mod.Functions) != 1 {
		t.Fatalf("expected 1 lowered function, got %d", len(mod.Functions))
	}
	irFn := mod.Functions[0]
	// A const-if with a folded-true condition lowers only the taken
	// arm in place and emits no branch at all: a single block carrying
	// the taken arm's return, never reaching the statement after the
	// if.
	if len(irFn.Blocks) != 1 {
		t.Fatalf("expected const-if elimination to avoid any branch blocks, got %d blocks", len(irFn.Blocks))
	}
	dump := ir.FormatModule(mod)
	if strings.Contains(dump, "branch") {
		t.Errorf("expected no branch terminator once the dead arm is eliminated, got:\n%s", dump)
	}
}

func TestLowerShortCircuitAndBuildsControlFlow(t *testing.T) {
	fn := &ast.FunctionDecl{
		Header:     hdr(),
		Name:       "both",
		ReturnType: namedType("bool"),
		Params: []*ast.Param{
			{Header: hdr(), Name: "a", Type: namedType("bool")},
			{Header: hdr(), Name: "b", Type: namedType("bool")},
		},
		Body: &ast.Block{
			Header: hdr(),
			Statements: []ast.Stmt{
				&ast.Return{Header: hdr(), Value: &ast.Binary{
					Header: hdr(),
					Op:     ast.LogicalAnd,
					Left:   &ast.Identifier{Header: hdr(), Name: "a"},
					Right:  &ast.Identifier{Header: hdr(), Name: "b"},
				}},
			},
		},
	}
	ns := &ast.Namespace{Header: hdr(), Functions: []*ast.FunctionDecl{fn}}

	r, strDict, consts := resolveForLowering(t, ns)
	mod := Lower(ns, r, strDict, consts)

	irFn := mod.Functions[0]
	if len(irFn.Blocks) < 3 {
		t.Fatalf("expected short-circuit lowering to build at least 3 blocks (entry/rhs/end), got %d", len(irFn.Blocks))
	}
	dump := ir.FormatModule(mod)
	if !strings.Contains(dump, "logic_rhs") || !strings.Contains(dump, "logic_end") {
		t.Errorf("expected logic_rhs/logic_end blocks in lowered output, got:\n%s", dump)
	}
}

func TestLowerInterpolationMapsEveryMode(t *testing.T) {
	cases := []struct {
		in   ast.InterpolationMode
		want ir.InterpolationMode
	}{
		{ast.InterpolationNone, ir.InterpolationNone},
		{ast.InterpolationLatch, ir.InterpolationLatch},
		{ast.InterpolationLinear, ir.InterpolationLinear},
		{ast.InterpolationSinc, ir.InterpolationSinc},
		{ast.InterpolationFast, ir.InterpolationFast},
		{ast.InterpolationBest, ir.InterpolationBest},
	}
	for _, c := range cases {
		t.Run(c.in.String(), func(t *testing.T) {
			if got := lowerInterpolation(c.in); got != c.want {
				t.Errorf("lowerInterpolation(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}
