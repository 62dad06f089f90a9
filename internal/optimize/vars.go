package optimize

import "signalcore/internal/ir"

// removeUnusedVariables is spec.md §4.6 pass 1. The literal wording
// ("remove assignments to locals whose read count is zero") would be
// unsound taken at face value: an Assign whose Value calls an impure
// function still has to run for that call's effect even though its
// result is discarded. This deviation guards every deletion on the
// same purity oracle pass 4 uses, deleting an unread assignment only
// when its Value cannot possibly do anything the rest of the program
// could observe.
func removeUnusedVariables(mod *ir.Module) bool {
	pure := computePurity(mod)
	changed := false
	for _, fn := range allFunctions(mod) {
		if fn.DoNotOptimise {
			continue
		}
		changed = removeUnusedVariablesInFunction(fn, pure) || changed
	}
	return changed
}

func removeUnusedVariablesInFunction(fn *ir.Function, pure map[*ir.Function]bool) bool {
	changed := false
	for i := 0; i < maxIterations; i++ {
		reads := countLocalReads(fn)
		round := false
		for _, blk := range fn.Blocks {
			kept := blk.Stmts[:0]
			for _, s := range blk.Stmts {
				if a, ok := s.(*ir.Assign); ok && reads[a.Target] == 0 && !valueHasImpureCall(a.Value, pure) {
					round = true
					continue
				}
				kept = append(kept, s)
			}
			blk.Stmts = kept
		}
		if !round {
			break
		}
		changed = true
	}
	if pruneUnusedLocals(fn) {
		changed = true
	}
	return changed
}

// pruneUnusedLocals drops declared Locals that are never read and never
// assigned, after removeUnusedVariablesInFunction has already deleted
// whatever dead assignments it could.
func pruneUnusedLocals(fn *ir.Function) bool {
	reads := countLocalReads(fn)
	assigned := map[ir.LocalID]bool{}
	for _, blk := range fn.Blocks {
		for _, s := range blk.Stmts {
			if a, ok := s.(*ir.Assign); ok {
				assigned[a.Target] = true
			}
		}
	}
	changed := false
	kept := fn.Locals[:0]
	for _, l := range fn.Locals {
		if reads[l.ID] == 0 && !assigned[l.ID] {
			changed = true
			continue
		}
		kept = append(kept, l)
	}
	fn.Locals = kept
	return changed
}

func countLocalReads(fn *ir.Function) map[ir.LocalID]int {
	counts := map[ir.LocalID]int{}
	forEachExprInFunction(fn, func(e ir.Expr) {
		if lr, ok := e.(*ir.LocalRef); ok {
			counts[lr.ID]++
		}
	})
	return counts
}

func valueHasImpureCall(e ir.Expr, pure map[*ir.Function]bool) bool {
	found := false
	forEachExpr(e, func(x ir.Expr) {
		if c, ok := x.(*ir.Call); ok && c.Func != nil {
			if p, known := pure[c.Func]; !known || !p {
				found = true
			}
		}
	})
	return found
}

// removeDuplicateConstants is spec.md §4.6 pass 2: when two locals of
// the same function are each write-once to the same constant value
// (IsConst, set by pass 3 on an earlier round), every reference to the
// later one is rewritten to the earlier, and the later local and its
// assignment are deleted.
func removeDuplicateConstants(mod *ir.Module) bool {
	changed := false
	for _, fn := range allFunctions(mod) {
		if fn.DoNotOptimise {
			continue
		}
		changed = removeDuplicateConstantsInFunction(fn) || changed
	}
	return changed
}

func removeDuplicateConstantsInFunction(fn *ir.Function) bool {
	assignCount := map[ir.LocalID]int{}
	constValue := map[ir.LocalID]*ir.ConstExpr{}
	for _, blk := range fn.Blocks {
		for _, s := range blk.Stmts {
			a, ok := s.(*ir.Assign)
			if !ok {
				continue
			}
			assignCount[a.Target]++
			if ce, ok := a.Value.(*ir.ConstExpr); ok {
				constValue[a.Target] = ce
			}
		}
	}

	localByID := map[ir.LocalID]*ir.Local{}
	for _, l := range fn.Locals {
		localByID[l.ID] = l
	}

	canon := map[string]ir.LocalID{}
	replace := map[ir.LocalID]ir.LocalID{}
	// Stable order matters: iterate fn.Locals (declaration order) rather
	// than the map, so the earlier-declared local always survives.
	for _, l := range fn.Locals {
		if !l.IsConst || assignCount[l.ID] != 1 {
			continue
		}
		ce, ok := constValue[l.ID]
		if !ok {
			continue
		}
		sig := valueSignature(ce)
		if existing, ok := canon[sig]; ok {
			replace[l.ID] = existing
		} else {
			canon[sig] = l.ID
		}
	}
	if len(replace) == 0 {
		return false
	}

	remap := func(e ir.Expr) ir.Expr {
		return transformExpr(e, func(x ir.Expr) ir.Expr {
			if lr, ok := x.(*ir.LocalRef); ok {
				if canonID, dup := replace[lr.ID]; dup {
					lr.ID = canonID
				}
			}
			return x
		})
	}
	for _, blk := range fn.Blocks {
		for _, s := range blk.Stmts {
			transformStmtExprs(s, remap)
		}
		if blk.Term != nil {
			transformTermExprs(blk.Term, remap)
		}
	}

	for _, blk := range fn.Blocks {
		kept := blk.Stmts[:0]
		for _, s := range blk.Stmts {
			if a, ok := s.(*ir.Assign); ok {
				if _, dup := replace[a.Target]; dup {
					continue
				}
			}
			kept = append(kept, s)
		}
		blk.Stmts = kept
	}
	kept := fn.Locals[:0]
	for _, l := range fn.Locals {
		if _, dup := replace[l.ID]; dup {
			continue
		}
		kept = append(kept, l)
	}
	fn.Locals = kept
	return true
}

func valueSignature(ce *ir.ConstExpr) string {
	return ce.Value.Type.String() + "\x00" + string(ce.Value.Bytes)
}

// convertWriteOnceVariablesToConstants is spec.md §4.6 pass 3. A local
// assigned exactly once textually can still run that assignment many
// times at runtime if the assigning block sits on a loop back-edge, so
// this additionally requires the assigning block not be part of a
// cycle — a refinement of the literal "assigned exactly once" wording
// needed for soundness, the same kind of deviation pass 1 documents.
func convertWriteOnceVariablesToConstants(mod *ir.Module) bool {
	changed := false
	for _, fn := range allFunctions(mod) {
		if fn.DoNotOptimise {
			continue
		}
		assignCount := map[ir.LocalID]int{}
		assignBlock := map[ir.LocalID]ir.BlockID{}
		for _, blk := range fn.Blocks {
			for _, s := range blk.Stmts {
				if a, ok := s.(*ir.Assign); ok {
					assignCount[a.Target]++
					assignBlock[a.Target] = blk.ID
				}
			}
		}
		for _, l := range fn.Locals {
			if l.IsConst || assignCount[l.ID] != 1 {
				continue
			}
			if blockIsInCycle(fn, assignBlock[l.ID]) {
				continue
			}
			l.IsConst = true
			changed = true
		}
	}
	return changed
}
