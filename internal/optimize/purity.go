package optimize

import (
	"signalcore/internal/ir"
	"signalcore/internal/types"
)

// hasDirectSideEffect reports whether fn's own body (ignoring anything
// reached only through a call) performs an effect observable outside
// fn: writing an endpoint, assigning a state variable, advancing the
// clock, or mutating through a state-rooted index/field assignment. A
// plain local Assign/IndexAssign/FieldAssign rooted in one of fn's own
// locals is not a side effect by this definition: nothing outside fn
// can observe it once fn returns.
func hasDirectSideEffect(fn *ir.Function) bool {
	for _, blk := range fn.Blocks {
		for _, s := range blk.Stmts {
			switch v := s.(type) {
			case *ir.StateVarAssign, *ir.EndpointWrite, *ir.AdvanceClock:
				return true
			case *ir.IndexAssign:
				if rootsInStateVar(v.Base) {
					return true
				}
			case *ir.FieldAssign:
				if rootsInStateVar(v.Base) {
					return true
				}
			}
		}
	}
	return false
}

// rootsInStateVar reports whether e is, or indexes/fields through, a
// StateVarRef — the addressing chain IndexAssign/FieldAssign use to
// reach into a state-variable-typed array or struct.
func rootsInStateVar(e ir.Expr) bool {
	switch v := e.(type) {
	case *ir.StateVarRef:
		return true
	case *ir.Index:
		return rootsInStateVar(v.Base)
	case *ir.FieldRead:
		return rootsInStateVar(v.Base)
	default:
		return false
	}
}

// calleesOf collects every Function a Call or CallStmt inside fn
// invokes directly.
func calleesOf(fn *ir.Function) []*ir.Function {
	var out []*ir.Function
	for _, blk := range fn.Blocks {
		for _, s := range blk.Stmts {
			if c, ok := s.(*ir.CallStmt); ok && c.Func != nil {
				out = append(out, c.Func)
			}
			transformStmtExprs(s, func(e ir.Expr) ir.Expr {
				forEachExpr(e, func(x ir.Expr) {
					if call, ok := x.(*ir.Call); ok && call.Func != nil {
						out = append(out, call.Func)
					}
				})
				return e
			})
		}
	}
	return out
}

// computePurity returns, for every function the module owns, whether
// calling it can have any effect beyond producing its return value.
// Impurity propagates through the call graph to a fixed point: a
// function that only calls pure functions and has no direct side
// effect of its own is pure.
//
// A function still being lowered in a mutual-recursion cycle with an
// impure function is conservatively impure too, since the fixed point
// starts every function optimistic-pure and only ever flips a function
// to impure, never back — a cycle where any member has a direct side
// effect converges with every member impure.
func computePurity(mod *ir.Module) map[*ir.Function]bool {
	fns := allFunctions(mod)
	pure := make(map[*ir.Function]bool, len(fns))
	for _, fn := range fns {
		pure[fn] = !hasDirectSideEffect(fn)
	}

	for i := 0; i < maxIterations; i++ {
		changed := false
		for _, fn := range fns {
			if !pure[fn] {
				continue
			}
			for _, callee := range calleesOf(fn) {
				if p, known := pure[callee]; !known || !p {
					pure[fn] = false
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}
	return pure
}

// removeCallsToVoidFunctionsWithoutSideEffects drops any CallStmt whose
// callee is void-returning and pure: the call contributes nothing once
// its result is already discarded and it has no effect the program
// could observe (spec.md §4.6 pass 4).
func removeCallsToVoidFunctionsWithoutSideEffects(mod *ir.Module) bool {
	pure := computePurity(mod)
	changed := false
	for _, fn := range allFunctions(mod) {
		for _, blk := range fn.Blocks {
			kept := blk.Stmts[:0]
			for _, s := range blk.Stmts {
				if c, ok := s.(*ir.CallStmt); ok && c.Func != nil &&
					isVoidReturn(c.Func) && pure[c.Func] && !c.Func.DoNotOptimise {
					changed = true
					continue
				}
				kept = append(kept, s)
			}
			blk.Stmts = kept
		}
	}
	return changed
}

func isVoidReturn(fn *ir.Function) bool {
	return fn.ReturnType == nil || types.IsVoid(fn.ReturnType)
}
