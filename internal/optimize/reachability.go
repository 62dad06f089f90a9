package optimize

import "signalcore/internal/ir"

// isExportedFunctionName mirrors the teacher's Go-style capitalisation
// convention for visibility (internal/utils/helpers.go's IsExported):
// a function whose name starts with an uppercase letter is part of a
// namespace's public surface and is never dead code regardless of
// whether anything in the module happens to call it, since a host
// program (or another namespace) may still reach it through the
// Program's public lookup API.
func isExportedFunctionName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// removeUnusedFunctions is spec.md §4.6 pass 5: a free function is kept
// iff it is exported, annotated do_not_optimise, or transitively called
// from one that is or from a processor's Init/Run/Events function.
// Processor-owned functions (Init/Run/Events) are never candidates here — they are not stored in Module.Functions, and
// pass 6 prunes whole unreachable processors instead.
func removeUnusedFunctions(mod *ir.Module) bool {
	reachable := map[*ir.Function]bool{}
	var queue []*ir.Function
	mark := func(f *ir.Function) {
		if f == nil || reachable[f] {
			return
		}
		reachable[f] = true
		queue = append(queue, f)
	}

	for _, fn := range mod.Functions {
		if fn.DoNotOptimise || isExportedFunctionName(fn.Name) {
			mark(fn)
		}
	}
	for _, p := range mod.Processors {
		mark(p.Init)
		mark(p.Run)
		for _, ev := range p.Events {
			mark(ev)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, callee := range calleesOf(cur) {
			mark(callee)
		}
	}

	changed := false
	kept := mod.Functions[:0]
	for _, fn := range mod.Functions {
		if reachable[fn] {
			kept = append(kept, fn)
		} else {
			changed = true
		}
	}
	mod.Functions = kept
	return changed
}

// removeUnusedProcessors is a reachability-based reinterpretation of
// spec.md §4.6 pass 6's processor half: the literal wording ("a
// processor with no functions left is dead") never fires under this
// pipeline, since the C4 validator's ProcessorNeedsRunFunction
// invariant guarantees every processor keeps a run function for as
// long as it exists. Instead a processor is live iff it is the main
// processor or is instantiated, directly or transitively, by a live
// graph's Instances.
//
// The Namespaces portion of pass 6 has no IR-level referent: C5
// lowering already flattens namespaces away, so there is nothing left
// at this stage to prune. The Structs portion is covered by pass 7's
// reporting instead of a deletion here, for the same reason
// findUnreadStructMembers documents: internal/ir carries no struct
// declaration node to remove.
func removeUnusedProcessors(mod *ir.Module) bool {
	reachable := map[*ir.Processor]bool{}
	var queue []*ir.Processor
	mark := func(p *ir.Processor) {
		if p == nil || reachable[p] {
			return
		}
		reachable[p] = true
		queue = append(queue, p)
	}

	for _, p := range mod.Processors {
		if p.IsMain {
			mark(p)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, inst := range cur.Instances {
			mark(inst.Processor)
		}
	}

	if len(reachable) == 0 {
		// Nothing is marked main. spec.md §6 resolves exactly one main
		// module before this pass runs; a module with none is not a
		// shape this pass can safely prune from, so it leaves every
		// processor in place rather than guessing.
		return false
	}

	changed := false
	kept := mod.Processors[:0]
	for _, p := range mod.Processors {
		if reachable[p] {
			kept = append(kept, p)
		} else {
			changed = true
		}
	}
	mod.Processors = kept
	return changed
}
