package optimize

import "signalcore/internal/ir"

// maxIterations bounds the convergence loop the way resolver.go bounds
// its own fixed-point passes: a real fixed point is reached in a small
// handful of rounds, so a high cap only guards against a pass that
// fails to report "no change" correctly.
const maxIterations = 64

// Report carries the non-destructive output of the pipeline: pass 7
// (findUnreadStructMembers) only reports, it never deletes, so its
// findings surface here rather than as a side effect on mod.
type Report struct {
	UnreadStructMembers []UnreadMember
}

// Optimize runs the ten-pass pipeline of spec.md §4.6 over mod in
// place, repeating the full pass list until a round makes no change to
// any function or to the module's declaration lists. Each individual
// pass is itself bounded (documented at its call site); this loop only
// bounds how many times the whole sequence repeats.
func Optimize(mod *ir.Module) Report {
	for i := 0; i < maxIterations; i++ {
		changed := false

		changed = removeUnusedVariables(mod) || changed
		changed = removeDuplicateConstants(mod) || changed
		changed = convertWriteOnceVariablesToConstants(mod) || changed
		changed = removeCallsToVoidFunctionsWithoutSideEffects(mod) || changed
		changed = removeUnusedFunctions(mod) || changed
		changed = removeUnusedProcessors(mod) || changed
		changed = optimiseFunctionBlocks(mod) || changed
		changed = makeFunctionCallInline(mod) || changed

		if !changed {
			break
		}
	}

	report := Report{UnreadStructMembers: findUnreadStructMembers(mod)}
	garbageCollectStringDictionary(mod)
	return report
}
