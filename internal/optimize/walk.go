// Package optimize implements C6, the IR optimiser (spec.md §4.6): a
// fixed ten-pass pipeline run to convergence over a lowered ir.Module.
// Unlike the teacher's internal/mir which optimises an SSA form with
// per-instruction ValueIDs, this package rewrites the mutable-local
// block IR of internal/ir in place, the way spec.md's own pass
// descriptions are written ("remove the assignment", "replace the
// call", "merge the blocks").
package optimize

import "signalcore/internal/ir"

// transformExpr rebuilds e bottom-up, applying f to every node after
// its children have already been rebuilt (post-order), and returns
// f(e'). Passes that only need to inspect nodes pass a f that returns
// its argument unchanged; forEachExpr is built on exactly that.
func transformExpr(e ir.Expr, f func(ir.Expr) ir.Expr) ir.Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ir.ConstExpr, *ir.LocalRef, *ir.StateVarRef, *ir.PropertyRead:
		// leaves: no child expressions to recurse into.
	case *ir.EndpointRead:
		if v.Index != nil {
			v.Index = transformExpr(v.Index, f)
		}
	case *ir.Binary:
		v.Left = transformExpr(v.Left, f)
		v.Right = transformExpr(v.Right, f)
	case *ir.Unary:
		v.Operand = transformExpr(v.Operand, f)
	case *ir.Cast:
		v.Operand = transformExpr(v.Operand, f)
	case *ir.Call:
		for i, a := range v.Args {
			v.Args[i] = transformExpr(a, f)
		}
	case *ir.Ternary:
		v.Cond = transformExpr(v.Cond, f)
		v.Then = transformExpr(v.Then, f)
		v.Else = transformExpr(v.Else, f)
	case *ir.Aggregate:
		for i, el := range v.Elements {
			v.Elements[i] = transformExpr(el, f)
		}
	case *ir.Index:
		v.Base = transformExpr(v.Base, f)
		v.Index = transformExpr(v.Index, f)
	case *ir.FieldRead:
		v.Base = transformExpr(v.Base, f)
	case *ir.Slice:
		v.Base = transformExpr(v.Base, f)
		if v.Low != nil {
			v.Low = transformExpr(v.Low, f)
		}
		if v.High != nil {
			v.High = transformExpr(v.High, f)
		}
	}
	return f(e)
}

// forEachExpr walks every expression reachable from e, including e
// itself, calling visit on each. Used by read-counting and reachability
// passes that only need to observe nodes, never replace them.
func forEachExpr(e ir.Expr, visit func(ir.Expr)) {
	transformExpr(e, func(x ir.Expr) ir.Expr {
		visit(x)
		return x
	})
}

// transformStmtExprs rewrites every Expr field directly owned by s
// using f (not recursively — callers that want a full subtree rewrite
// should pass a f built from transformExpr/forEachExpr themselves).
func transformStmtExprs(s ir.Statement, f func(ir.Expr) ir.Expr) {
	switch v := s.(type) {
	case *ir.Assign:
		v.Value = f(v.Value)
	case *ir.StateVarAssign:
		v.Value = f(v.Value)
	case *ir.EndpointWrite:
		if v.Index != nil {
			v.Index = f(v.Index)
		}
		v.Value = f(v.Value)
	case *ir.CallStmt:
		for i, a := range v.Args {
			v.Args[i] = f(a)
		}
	case *ir.AdvanceClock:
		// no expr operands.
	case *ir.IndexAssign:
		v.Base = f(v.Base)
		v.Index = f(v.Index)
		v.Value = f(v.Value)
	case *ir.FieldAssign:
		v.Base = f(v.Base)
		v.Value = f(v.Value)
	}
}

// transformTermExprs rewrites every Expr field directly owned by t.
func transformTermExprs(t ir.Terminator, f func(ir.Expr) ir.Expr) {
	switch v := t.(type) {
	case *ir.Branch:
		v.Cond = f(v.Cond)
	case *ir.Return:
		if v.Value != nil {
			v.Value = f(v.Value)
		}
	case *ir.Jump, *ir.Unreachable:
		// no expr operands.
	}
}

// forEachExprInFunction visits every expression reachable from every
// statement and terminator of fn, in block/statement order.
func forEachExprInFunction(fn *ir.Function, visit func(ir.Expr)) {
	wrap := func(e ir.Expr) ir.Expr {
		forEachExpr(e, visit)
		return e
	}
	for _, blk := range fn.Blocks {
		for _, s := range blk.Stmts {
			transformStmtExprs(s, wrap)
		}
		if blk.Term != nil {
			transformTermExprs(blk.Term, wrap)
		}
	}
	for _, l := range fn.Locals {
		if l.Init != nil {
			forEachExpr(l.Init, visit)
		}
	}
}

// allFunctions returns every function the module directly owns: free
// functions plus every processor's init/run/event bodies. Passes that
// operate function-by-function (1-4, 7-10) iterate this; the passes
// that prune whole functions and processors (5, 6) use mod directly.
func allFunctions(mod *ir.Module) []*ir.Function {
	var out []*ir.Function
	out = append(out, mod.Functions...)
	for _, p := range mod.Processors {
		if p.Init != nil {
			out = append(out, p.Init)
		}
		if p.Run != nil {
			out = append(out, p.Run)
		}
		for _, ev := range p.Events {
			out = append(out, ev)
		}
	}
	return out
}
