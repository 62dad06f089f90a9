package optimize

import (
	"signalcore/internal/ir"
	"signalcore/internal/types"
)

// UnreadMember is one finding of findUnreadStructMembers: a struct field
// that type-checked correctly but is never read anywhere in the module.
type UnreadMember struct {
	Struct string
	Field  string
}

// findUnreadStructMembers is spec.md §4.6 pass 7: unlike every other
// pass it never mutates mod, since internal/ir has no struct-member
// representation to delete a field from — types.StructType is a type,
// not an IR declaration, and removing a field would require rewriting
// every Aggregate literal's positional element list across the module.
// It walks every types.StructType reachable from a function's
// Params/Locals/ReturnType or a processor's endpoints/state variables,
// and counts FieldRead occurrences (not FieldAssign: a write-only
// member is still unread) per field.
func findUnreadStructMembers(mod *ir.Module) []UnreadMember {
	reads := map[*types.StructType]map[string]bool{}

	seen := func(st *types.StructType) map[string]bool {
		m, ok := reads[st]
		if !ok {
			m = map[string]bool{}
			reads[st] = m
		}
		return m
	}

	collect := func(t types.Type) {
		if st, ok := t.(*types.StructType); ok {
			seen(st)
		}
	}

	for _, fn := range allFunctions(mod) {
		for _, p := range fn.Params {
			collect(p.Type)
		}
		for _, l := range fn.Locals {
			collect(l.Type)
		}
		collect(fn.ReturnType)
		forEachExprInFunction(fn, func(e ir.Expr) {
			switch v := e.(type) {
			case *ir.Aggregate:
				collect(v.Type)
			case *ir.FieldRead:
				if st, ok := v.Base.ExprType().(*types.StructType); ok {
					seen(st)[v.Field] = true
				}
			}
		})
	}
	for _, p := range mod.Processors {
		for _, sv := range p.StateVars {
			collect(sv.Type)
		}
		for _, ep := range p.Endpoints {
			collect(ep.Type)
		}
	}

	var out []UnreadMember
	for st, fields := range reads {
		for _, f := range st.Fields {
			if !fields[f.Name] {
				out = append(out, UnreadMember{Struct: st.Name, Field: f.Name})
			}
		}
	}
	return out
}
