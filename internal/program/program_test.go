package program

import (
	"testing"

	"signalcore/internal/ir"
	"signalcore/internal/types"
)

func i32() types.Type { return types.NewPrimitive(types.I32) }

func twoProcessorModule() *ir.Module {
	sub := &ir.Processor{
		Name:      "Osc",
		Endpoints: []*ir.EndpointInfo{{Name: "out", Type: i32()}},
		StateVars: []*ir.Local{
			{ID: 0, Name: "phase", Type: i32()},
			{ID: 1, Name: "tuning", Type: i32(), External: true},
		},
	}
	main := &ir.Processor{
		Name:   "Main",
		IsMain: true,
		Instances: []*ir.Instance{
			{Name: "osc", Processor: sub},
		},
	}
	helper := &ir.Function{
		Name:       "double",
		Params:     []*ir.Local{{ID: 0, Name: "x", Type: i32()}},
		ReturnType: i32(),
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Term: &ir.Return{Value: &ir.LocalRef{ID: 0, Type: i32()}}},
		},
		Entry: 0,
	}
	caller := &ir.Function{
		Name: "run_once",
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.CallStmt{Func: helper, Args: []ir.Expr{&ir.ConstExpr{Value: types.NewI32Value(i32(), 3)}}},
			}, Term: &ir.Return{}},
		},
		Entry: 0,
	}
	main.Run = caller

	return &ir.Module{
		Functions:  []*ir.Function{helper, caller},
		Processors: []*ir.Processor{sub, main},
		Strings:    types.NewStringDictionary(),
		Constants:  types.NewConstantTable(),
	}
}

func TestFindMainPrefersIsMain(t *testing.T) {
	p := New(twoProcessorModule())
	m, ok := p.FindMain()
	if !ok || m.Name != "Main" {
		t.Fatalf("expected to find Main, got %v, %v", m, ok)
	}
}

func TestFindMainFallsBackToSoleProcessor(t *testing.T) {
	mod := &ir.Module{Processors: []*ir.Processor{{Name: "Only"}}}
	p := New(mod)
	m, ok := p.FindMain()
	if !ok || m.Name != "Only" {
		t.Fatalf("expected to find Only, got %v, %v", m, ok)
	}
}

func TestFindMainFailsWithoutAnyCandidate(t *testing.T) {
	mod := &ir.Module{Processors: []*ir.Processor{{Name: "A"}, {Name: "B"}}}
	p := New(mod)
	if _, ok := p.FindMain(); ok {
		t.Error("expected no main among two equally-plain processors")
	}
}

func TestFindFunctionByName(t *testing.T) {
	p := New(twoProcessorModule())
	fn, ok := p.FindFunction("double")
	if !ok || fn.Name != "double" {
		t.Fatalf("expected to find double, got %v, %v", fn, ok)
	}
	if _, ok := p.FindFunction("missing"); ok {
		t.Error("expected missing function lookup to fail")
	}
}

func TestFindVariableSearchesAllProcessors(t *testing.T) {
	p := New(twoProcessorModule())
	sv, ok := p.FindVariable("phase")
	if !ok || sv.Name != "phase" {
		t.Fatalf("expected to find phase, got %v, %v", sv, ok)
	}
}

func TestExternalVariables(t *testing.T) {
	p := New(twoProcessorModule())
	ext := p.ExternalVariables()
	if len(ext) != 1 || ext[0].Name != "tuning" {
		t.Fatalf("expected exactly [tuning], got %v", ext)
	}
}

func TestFindStructWalksSignaturesAndEndpoints(t *testing.T) {
	st := types.NewStruct("Point", []types.StructField{{Name: "x", Type: i32()}}, 1)
	mod := &ir.Module{
		Processors: []*ir.Processor{
			{Name: "P", Endpoints: []*ir.EndpointInfo{{Name: "pos", Type: st}}},
		},
	}
	p := New(mod)
	found, ok := p.FindStruct("Point")
	if !ok || found != st {
		t.Fatalf("expected to find Point by pointer identity, got %v, %v", found, ok)
	}
	if _, ok := p.FindStruct("Missing"); ok {
		t.Error("expected missing struct lookup to fail")
	}
}

func TestStringAndConstantAccessorsRoundTrip(t *testing.T) {
	p := New(&ir.Module{Strings: types.NewStringDictionary(), Constants: types.NewConstantTable()})

	h := p.InternString("hello")
	if s, ok := p.LookupString(h); !ok || s != "hello" {
		t.Fatalf("expected round trip on InternString/LookupString, got %q, %v", s, ok)
	}
	if !p.SetString(h, "world") {
		t.Fatal("expected SetString to succeed for an allocated handle")
	}
	if s, _ := p.LookupString(h); s != "world" {
		t.Errorf("expected overwritten string, got %q", s)
	}

	ch := p.AddConstant([]types.Value{types.NewI32Value(i32(), 1)})
	if elems, ok := p.LookupConstant(ch); !ok || len(elems) != 1 {
		t.Fatalf("expected round trip on AddConstant/LookupConstant, got %v, %v", elems, ok)
	}
	if !p.SetConstant(ch, []types.Value{types.NewI32Value(i32(), 2), types.NewI32Value(i32(), 3)}) {
		t.Fatal("expected SetConstant to succeed for an allocated handle")
	}
	if elems, _ := p.LookupConstant(ch); len(elems) != 2 {
		t.Errorf("expected overwritten 2-element entry, got %v", elems)
	}
}

func TestCloneProducesIndependentCrossReferencingCopy(t *testing.T) {
	orig := twoProcessorModule()
	p := New(orig)
	clone := p.Clone()

	origMain, _ := p.FindMain()
	cloneMain, ok := clone.FindMain()
	if !ok {
		t.Fatal("expected clone to still have a main processor")
	}
	if cloneMain == origMain {
		t.Error("expected clone's processor to be a distinct object")
	}

	cloneInst := cloneMain.Instances[0]
	if cloneInst.Processor == origMain.Instances[0].Processor {
		t.Error("expected the cloned instance to point at the cloned sub-processor, not the original")
	}
	for _, proc := range clone.Modules() {
		if proc.Name == "Osc" && cloneInst.Processor != proc {
			t.Error("expected the cloned instance's Processor pointer to be the cloned Osc, preserving cross-reference identity")
		}
	}

	callStmt := cloneMain.Run.Blocks[0].Stmts[0].(*ir.CallStmt)
	found := false
	for _, fn := range clone.Module().Functions {
		if fn == callStmt.Func {
			found = true
		}
	}
	if !found {
		t.Error("expected the cloned call's Func to point into the clone's own Functions list")
	}

	if _, ok := clone.FindVariable("tuning"); !ok {
		t.Error("expected state variables, including External flags, to survive the clone")
	}
}

func TestCloneDoesNotAliasMutableState(t *testing.T) {
	orig := &ir.Module{Strings: types.NewStringDictionary(), Constants: types.NewConstantTable()}
	p := New(orig)
	h := p.InternString("shared")
	clone := p.Clone()

	clone.SetString(h, "only-in-clone")

	if s, _ := p.LookupString(h); s != "shared" {
		t.Errorf("expected original Program's string to be unaffected by mutating the clone, got %q", s)
	}
}

func TestHashIsStableAndDistinguishesPrograms(t *testing.T) {
	a := New(twoProcessorModule())
	b := New(twoProcessorModule())
	if a.Hash() != b.Hash() {
		t.Error("expected two structurally identical programs to hash identically")
	}

	c := New(&ir.Module{Processors: []*ir.Processor{{Name: "Different"}}})
	if a.Hash() == c.Hash() {
		t.Error("expected structurally different programs to hash differently")
	}
}
