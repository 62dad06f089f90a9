package optimize

import (
	"strings"
	"testing"

	"signalcore/internal/ir"
	"signalcore/internal/types"
)

func i32() types.Type { return types.NewPrimitive(types.I32) }

func constI32(n int32) *ir.ConstExpr {
	return &ir.ConstExpr{Value: types.NewI32Value(i32(), n)}
}

func TestRemoveUnusedVariablesDropsDeadAssign(t *testing.T) {
	fn := &ir.Function{
		Name:   "f",
		Locals: []*ir.Local{{ID: 1, Name: "dead", Type: i32()}},
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.Assign{Target: 1, Value: constI32(5)},
			}, Term: &ir.Return{}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}}

	if !removeUnusedVariables(mod) {
		t.Fatal("expected a change")
	}
	if len(fn.Blocks[0].Stmts) != 0 {
		t.Errorf("expected the dead assignment removed, got %v", fn.Blocks[0].Stmts)
	}
	if len(fn.Locals) != 0 {
		t.Errorf("expected the dead local removed, got %v", fn.Locals)
	}
}

func TestRemoveUnusedVariablesKeepsImpureCallResult(t *testing.T) {
	impure := &ir.Function{
		Name: "sideEffecting",
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.AdvanceClock{},
			}, Term: &ir.Return{Value: constI32(1)}},
		},
		Entry:      0,
		ReturnType: i32(),
	}
	fn := &ir.Function{
		Name:   "f",
		Locals: []*ir.Local{{ID: 1, Name: "unread", Type: i32()}},
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.Assign{Target: 1, Value: &ir.Call{Func: impure, Type: i32()}},
			}, Term: &ir.Return{}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{impure, fn}}

	removeUnusedVariables(mod)

	if len(fn.Blocks[0].Stmts) != 1 {
		t.Fatalf("expected the call-bearing assignment to survive, got %v", fn.Blocks[0].Stmts)
	}
}

func TestRemoveDuplicateConstantsMergesEqualLocals(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Locals: []*ir.Local{
			{ID: 1, Name: "a", Type: i32(), IsConst: true},
			{ID: 2, Name: "b", Type: i32(), IsConst: true},
		},
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.Assign{Target: 1, Value: constI32(7)},
				&ir.Assign{Target: 2, Value: constI32(7)},
			}, Term: &ir.Return{Value: &ir.Binary{
				Op:    ir.Add,
				Left:  &ir.LocalRef{ID: 1, Type: i32()},
				Right: &ir.LocalRef{ID: 2, Type: i32()},
			}}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}}

	if !removeDuplicateConstants(mod) {
		t.Fatal("expected a change")
	}
	if len(fn.Locals) != 1 {
		t.Errorf("expected one local left, got %v", fn.Locals)
	}
	ret := fn.Blocks[0].Term.(*ir.Return)
	bin := ret.Value.(*ir.Binary)
	left := bin.Left.(*ir.LocalRef)
	right := bin.Right.(*ir.LocalRef)
	if left.ID != right.ID {
		t.Errorf("expected both operands to reference the same local, got %d and %d", left.ID, right.ID)
	}
}

func TestConvertWriteOnceVariablesToConstantsSkipsLoopBody(t *testing.T) {
	fn := &ir.Function{
		Name:   "f",
		Locals: []*ir.Local{{ID: 1, Name: "counter", Type: i32()}},
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Term: &ir.Jump{Target: 1}},
			{ID: 1, Name: "loop_body", Stmts: []ir.Statement{
				&ir.Assign{Target: 1, Value: constI32(0)},
			}, Term: &ir.Jump{Target: 1}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}}

	convertWriteOnceVariablesToConstants(mod)

	if fn.Locals[0].IsConst {
		t.Error("a local assigned once inside a loop body must not become const")
	}
}

func TestRemoveCallsToVoidFunctionsWithoutSideEffectsDropsPureCall(t *testing.T) {
	pureVoid := &ir.Function{
		Name: "noop",
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Term: &ir.Return{}},
		},
		Entry: 0,
	}
	fn := &ir.Function{
		Name: "f",
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.CallStmt{Func: pureVoid},
			}, Term: &ir.Return{}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{pureVoid, fn}}

	if !removeCallsToVoidFunctionsWithoutSideEffects(mod) {
		t.Fatal("expected a change")
	}
	if len(fn.Blocks[0].Stmts) != 0 {
		t.Errorf("expected the call removed, got %v", fn.Blocks[0].Stmts)
	}
}

func TestRemoveCallsToVoidFunctionsWithoutSideEffectsKeepsImpureCall(t *testing.T) {
	impureVoid := &ir.Function{
		Name: "writesOut",
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.EndpointWrite{Endpoint: "out", Value: constI32(1)},
			}, Term: &ir.Return{}},
		},
		Entry: 0,
	}
	fn := &ir.Function{
		Name: "f",
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.CallStmt{Func: impureVoid},
			}, Term: &ir.Return{}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{impureVoid, fn}}

	removeCallsToVoidFunctionsWithoutSideEffects(mod)

	if len(fn.Blocks[0].Stmts) != 1 {
		t.Errorf("expected the side-effecting call to survive, got %v", fn.Blocks[0].Stmts)
	}
}

func TestRemoveUnusedFunctionsKeepsExportedAndDropsPrivate(t *testing.T) {
	private := &ir.Function{Name: "helper", Blocks: []*ir.Block{{ID: 0, Term: &ir.Return{}}}, Entry: 0}
	exported := &ir.Function{Name: "Main", Blocks: []*ir.Block{{ID: 0, Term: &ir.Return{}}}, Entry: 0}
	mod := &ir.Module{Functions: []*ir.Function{private, exported}}

	if !removeUnusedFunctions(mod) {
		t.Fatal("expected a change")
	}
	if len(mod.Functions) != 1 || mod.Functions[0] != exported {
		t.Errorf("expected only the exported function to survive, got %v", mod.Functions)
	}
}

func TestRemoveUnusedFunctionsKeepsDoNotOptimise(t *testing.T) {
	marked := &ir.Function{Name: "helper", DoNotOptimise: true, Blocks: []*ir.Block{{ID: 0, Term: &ir.Return{}}}, Entry: 0}
	mod := &ir.Module{Functions: []*ir.Function{marked}}

	if removeUnusedFunctions(mod) {
		t.Error("expected no change: do_not_optimise function must survive")
	}
	if len(mod.Functions) != 1 {
		t.Errorf("expected the marked function to survive, got %v", mod.Functions)
	}
}

func TestRemoveUnusedFunctionsKeepsFunctionReachableFromRun(t *testing.T) {
	helper := &ir.Function{Name: "helper", Blocks: []*ir.Block{{ID: 0, Term: &ir.Return{}}}, Entry: 0}
	run := &ir.Function{
		Name: "run",
		Blocks: []*ir.Block{
			{ID: 0, Stmts: []ir.Statement{&ir.CallStmt{Func: helper}}, Term: &ir.Return{}},
		},
		Entry: 0,
	}
	proc := &ir.Processor{Name: "Gain", Run: run, IsMain: true}
	mod := &ir.Module{Functions: []*ir.Function{helper}, Processors: []*ir.Processor{proc}}

	if removeUnusedFunctions(mod) {
		t.Error("expected no change: helper is reachable from run")
	}
	if len(mod.Functions) != 1 {
		t.Errorf("expected helper to survive, got %v", mod.Functions)
	}
}

func TestRemoveUnusedProcessorsKeepsMainAndInstances(t *testing.T) {
	child := &ir.Processor{Name: "Child"}
	orphan := &ir.Processor{Name: "Orphan"}
	main := &ir.Processor{
		Name:      "Main",
		IsMain:    true,
		Instances: []*ir.Instance{{Name: "c", Processor: child}},
	}
	mod := &ir.Module{Processors: []*ir.Processor{main, child, orphan}}

	if !removeUnusedProcessors(mod) {
		t.Fatal("expected a change")
	}
	if len(mod.Processors) != 2 {
		t.Errorf("expected main and child to survive, orphan dropped, got %v", mod.Processors)
	}
}

func TestOptimiseFunctionBlocksRemovesUnreachableAndMergesJumps(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Term: &ir.Jump{Target: 1}},
			{ID: 1, Name: "mid", Stmts: []ir.Statement{
				&ir.CallStmt{}, // placeholder statement so the merge has content to carry
			}, Term: &ir.Return{}},
			{ID: 2, Name: "dead", Term: &ir.Unreachable{}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}}

	if !optimiseFunctionBlocks(mod) {
		t.Fatal("expected a change")
	}
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected entry and mid merged and dead block dropped, got %d blocks", len(fn.Blocks))
	}
	if _, ok := fn.Blocks[0].Term.(*ir.Return); !ok {
		t.Errorf("expected the merged block to carry mid's return terminator, got %T", fn.Blocks[0].Term)
	}
}

func TestMakeFunctionCallInlineSplicesSmallCallee(t *testing.T) {
	callee := &ir.Function{
		Name:       "double",
		Params:     []*ir.Local{{ID: 0, Name: "x", Type: i32()}},
		ReturnType: i32(),
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Term: &ir.Return{Value: &ir.Binary{
				Op:    ir.Add,
				Left:  &ir.LocalRef{ID: 0, Type: i32()},
				Right: &ir.LocalRef{ID: 0, Type: i32()},
			}}},
		},
		Entry: 0,
	}
	fn := &ir.Function{
		Name:   "f",
		Locals: []*ir.Local{{ID: 1, Name: "result", Type: i32()}},
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.Assign{Target: 1, Value: &ir.Call{Func: callee, Args: []ir.Expr{constI32(3)}, Type: i32()}},
			}, Term: &ir.Return{Value: &ir.LocalRef{ID: 1, Type: i32()}}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{callee, fn}}

	if !makeFunctionCallInline(mod) {
		t.Fatal("expected a change")
	}
	for _, blk := range fn.Blocks {
		for _, s := range blk.Stmts {
			if _, ok := s.(*ir.CallStmt); ok {
				t.Error("unexpected surviving CallStmt after inlining")
			}
			if a, ok := s.(*ir.Assign); ok {
				if _, ok := a.Value.(*ir.Call); ok {
					t.Error("unexpected surviving Call expression after inlining")
				}
			}
		}
	}
	if len(fn.Blocks) < 2 {
		t.Errorf("expected inlining to split the block, got %d blocks", len(fn.Blocks))
	}
}

func TestFindUnreadStructMembersReportsWriteOnlyField(t *testing.T) {
	st := types.NewStruct("Envelope", []types.StructField{
		{Name: "attack", Type: i32()},
		{Name: "release", Type: i32()},
	}, 1)
	fn := &ir.Function{
		Name:   "f",
		Locals: []*ir.Local{{ID: 1, Name: "env", Type: st}},
		Blocks: []*ir.Block{
			{ID: 0, Name: "entry", Stmts: []ir.Statement{
				&ir.FieldAssign{Base: &ir.LocalRef{ID: 1, Type: st}, Field: "attack", Value: constI32(1)},
			}, Term: &ir.Return{Value: &ir.FieldRead{Base: &ir.LocalRef{ID: 1, Type: st}, Field: "attack", Type: i32()}}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}}

	findings := findUnreadStructMembers(mod)
	var sawRelease bool
	for _, f := range findings {
		if f.Struct == "Envelope" && f.Field == "release" {
			sawRelease = true
		}
		if f.Field == "attack" {
			t.Errorf("attack is read via Return, should not be reported: %v", findings)
		}
	}
	if !sawRelease {
		t.Errorf("expected release reported unread, got %v", findings)
	}
}

func TestGarbageCollectStringDictionaryDropsUninternedLiteral(t *testing.T) {
	strDict := types.NewStringDictionary()
	liveHandle := strDict.Intern("kept")
	deadHandle := strDict.Intern("discarded")
	strType := types.NewPrimitive(types.String)

	fn := &ir.Function{
		Name: "f",
		Blocks: []*ir.Block{
			{ID: 0, Term: &ir.Return{Value: &ir.ConstExpr{Value: types.NewStringValue(strType, liveHandle)}}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}, Strings: strDict}

	garbageCollectStringDictionary(mod)

	if _, ok := strDict.Lookup(liveHandle); !ok {
		t.Error("expected the referenced string to survive GC")
	}
	if _, ok := strDict.Lookup(deadHandle); ok {
		t.Error("expected the unreferenced string to be collected")
	}
}

func TestOptimizeConvergesAndProducesReport(t *testing.T) {
	fn := &ir.Function{
		Name:   "Main",
		Locals: []*ir.Local{{ID: 1, Name: "dead", Type: i32()}},
		Blocks: []*ir.Block{
			{ID: 0, Stmts: []ir.Statement{
				&ir.Assign{Target: 1, Value: constI32(1)},
			}, Term: &ir.Return{}},
		},
		Entry: 0,
	}
	mod := &ir.Module{Functions: []*ir.Function{fn}, Strings: types.NewStringDictionary()}

	report := Optimize(mod)

	if len(fn.Blocks[0].Stmts) != 0 {
		t.Errorf("expected dead store removed end to end, got %v", fn.Blocks[0].Stmts)
	}
	if len(report.UnreadStructMembers) != 0 {
		t.Errorf("expected no struct-member findings for a struct-free module, got %v", report.UnreadStructMembers)
	}
	if !strings.HasPrefix(fn.Name, "Main") {
		t.Fatal("sanity check on fixture name")
	}
}
