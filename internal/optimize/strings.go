package optimize

import (
	"signalcore/internal/ir"
	"signalcore/internal/types"
)

// garbageCollectStringDictionary is spec.md §4.6 pass 10, run once after
// the pipeline converges rather than inside the convergence loop: every
// other pass can only ever shrink the set of live handles, so running
// it mid-loop would just repeat the same scan for no benefit.
func garbageCollectStringDictionary(mod *ir.Module) {
	live := map[uint32]bool{}
	mark := func(e ir.Expr) {
		ce, ok := e.(*ir.ConstExpr)
		if ok && isStringValue(ce.Value.Type) {
			live[ce.Value.AsHandle()] = true
		}
	}

	for _, fn := range allFunctions(mod) {
		forEachExprInFunction(fn, mark)
	}
	for _, p := range mod.Processors {
		for _, sv := range p.StateVars {
			if sv.Init != nil {
				forEachExpr(sv.Init, mark)
			}
		}
	}

	mod.Strings.GC(live)
}

func isStringValue(t types.Type) bool {
	pt, ok := t.(*types.PrimitiveType)
	return ok && pt.Kind == types.String
}
