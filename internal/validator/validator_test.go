package validator

import (
	"testing"

	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/source"
)

func loc() source.Location {
	return source.NewLocation("t.sig", source.Position{Line: 1, Column: 1}, source.Position{Line: 1, Column: 2})
}

func hdr() ast.Header { return ast.Header{Location: loc()} }

func memberExpr(base, name string) ast.Expr {
	return &ast.Member{Header: hdr(), Base: &ast.Identifier{Header: hdr(), Name: base}, Name: name}
}

func TestCheckStructureRejectsProcessorWithoutOutput(t *testing.T) {
	bag := diagnostics.NewBag()
	v := New(bag)

	run := &ast.FunctionDecl{Header: hdr(), Name: "run", Body: &ast.Block{Header: hdr()}}
	proc := &ast.ProcessorDecl{Header: hdr(), Name: "Silent", Functions: []*ast.FunctionDecl{run}}
	ns := &ast.Namespace{Header: hdr(), Processors: []*ast.ProcessorDecl{proc}}

	v.CheckStructure(ns)

	if !bag.HasErrors() {
		t.Fatal("expected ProcessorNeedsOutput diagnostic")
	}
}

func TestCheckStructureRejectsDuplicateEndpointNames(t *testing.T) {
	bag := diagnostics.NewBag()
	v := New(bag)

	out1 := &ast.EndpointDecl{Header: hdr(), Name: "out", Direction: ast.Out}
	out2 := &ast.EndpointDecl{Header: hdr(), Name: "out", Direction: ast.Out}
	proc := &ast.ProcessorDecl{Header: hdr(), Name: "Dup", Endpoints: []*ast.EndpointDecl{out1, out2}}
	ns := &ast.Namespace{Header: hdr(), Processors: []*ast.ProcessorDecl{proc}}

	v.CheckStructure(ns)

	found := false
	for _, d := range bag.Diagnostics() {
		if d.Code == diagnostics.DuplicateName {
			found = true
		}
	}
	if !found {
		t.Error("expected a DuplicateName diagnostic for the repeated endpoint name")
	}
}

func TestCheckFeedbackCyclesRejectsZeroDelayLoop(t *testing.T) {
	bag := diagnostics.NewBag()
	v := New(bag)

	a := &ast.ProcessorInstanceDecl{Header: hdr(), Name: "a"}
	b := &ast.ProcessorInstanceDecl{Header: hdr(), Name: "b"}
	connAB := &ast.ConnectionDecl{Header: hdr(), From: memberExpr("a", "out"), To: memberExpr("b", "in")}
	connBA := &ast.ConnectionDecl{Header: hdr(), From: memberExpr("b", "out"), To: memberExpr("a", "in")}
	g := &ast.GraphDecl{
		Header:      hdr(),
		Name:        "Loop",
		Endpoints:   []*ast.EndpointDecl{{Header: hdr(), Name: "out", Direction: ast.Out}},
		Instances:   []*ast.ProcessorInstanceDecl{a, b},
		Connections: []*ast.ConnectionDecl{connAB, connBA},
	}

	v.CheckFeedbackCycles(g)

	if !bag.HasErrors() {
		t.Fatal("expected a feedback cycle diagnostic for a zero-delay loop")
	}
}

func TestCheckFeedbackCyclesAllowsDelayedLoop(t *testing.T) {
	bag := diagnostics.NewBag()
	v := New(bag)

	a := &ast.ProcessorInstanceDecl{Header: hdr(), Name: "a"}
	b := &ast.ProcessorInstanceDecl{Header: hdr(), Name: "b"}
	connAB := &ast.ConnectionDecl{Header: hdr(), From: memberExpr("a", "out"), To: memberExpr("b", "in")}
	connBA := &ast.ConnectionDecl{
		Header:      hdr(),
		From:        memberExpr("b", "out"),
		To:          memberExpr("a", "in"),
		DelayFrames: &ast.Literal{Header: hdr(), LitKind: ast.IntLit, Int: 1},
	}
	g := &ast.GraphDecl{
		Header:      hdr(),
		Name:        "Loop",
		Endpoints:   []*ast.EndpointDecl{{Header: hdr(), Name: "out", Direction: ast.Out}},
		Instances:   []*ast.ProcessorInstanceDecl{a, b},
		Connections: []*ast.ConnectionDecl{connAB, connBA},
	}

	v.CheckFeedbackCycles(g)

	if bag.HasErrors() {
		t.Fatalf("delay line should break the cycle, got: %s", bag.EmitAllToString())
	}
}

func TestCheckGraphRecursionRejectsSelfInstantiation(t *testing.T) {
	bag := diagnostics.NewBag()
	v := New(bag)

	g := &ast.GraphDecl{Header: hdr(), Name: "Self"}
	inst := &ast.ProcessorInstanceDecl{
		Header:       hdr(),
		Name:         "child",
		ProcessorRef: &ast.Identifier{Header: hdr(), Name: "Self", Resolved: g},
	}
	g.Instances = []*ast.ProcessorInstanceDecl{inst}

	v.CheckGraphRecursion(g)

	if !bag.HasErrors() {
		t.Fatal("expected a RecursiveGraph diagnostic")
	}
}

func TestCheckSemanticsRejectsPreIncDecCollision(t *testing.T) {
	bag := diagnostics.NewBag()
	v := New(bag)

	x := &ast.Identifier{Header: hdr(), Name: "x"}
	incX := &ast.IncDec{Header: hdr(), Increment: true, Prefix: true, Operand: &ast.Identifier{Header: hdr(), Name: "x"}}
	stmt := &ast.ExprStmt{Header: hdr(), Value: &ast.Binary{Header: hdr(), Op: ast.Add, Left: incX, Right: x}}
	fn := &ast.FunctionDecl{Header: hdr(), Name: "f", Body: &ast.Block{Header: hdr(), Statements: []ast.Stmt{stmt}}}

	v.checkFunctionBody(fn)

	if !bag.HasErrors() {
		t.Fatal("expected a PreIncDecCollision diagnostic")
	}
	found := false
	for _, d := range bag.Diagnostics() {
		if d.Code == diagnostics.PreIncDecCollision {
			found = true
		}
	}
	if !found {
		t.Error("expected PreIncDecCollision code specifically")
	}
}
