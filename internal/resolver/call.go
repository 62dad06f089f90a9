package resolver

import (
	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/types"
)

// resolveCall resolves a Call: plain `name(args...)`, UFCS sugar
// `base.name(args...)` (rewritten to `name(base, args...)` when no
// struct member named `name` exists on base's type), and explicit
// generic instantiation `name<T>(args...)` via a ChevronArgs callee
// (spec.md §4.2).
func (r *Resolver) resolveCall(call *ast.Call, scope *ast.Scope, e *env) types.Type {
	call.SetKind(ast.Value)

	name, explicitGenerics, scopeForLookup := calleeName(call.Callee)
	if name == "" {
		r.resolveExpr(call.Callee, scope, e)
		for _, a := range call.Args {
			r.resolveExpr(a, scope, e)
		}
		return nil
	}
	if scopeForLookup == nil {
		scopeForLookup = scope
	}

	args := call.Args
	var ufcsBase ast.Expr
	if member, ok := call.Callee.(*ast.Member); ok {
		ufcsBase = member.Base
	} else if chev, ok := call.Callee.(*ast.ChevronArgs); ok {
		if member, ok := chev.Base.(*ast.Member); ok {
			ufcsBase = member.Base
		}
	}

	argTypes := make([]types.Type, 0, len(args)+1)
	if ufcsBase != nil {
		baseT := r.resolveExpr(ufcsBase, scope, e)
		if st, ok := baseT.(*types.StructType); ok {
			if hasField(st, name) {
				// a genuine struct member access, not UFCS sugar; fall
				// back to plain Member resolution.
				return r.resolveExpr(call.Callee, scope, e)
			}
		}
		argTypes = append(argTypes, baseT)
	}
	for _, a := range args {
		argTypes = append(argTypes, r.resolveExpr(a, scope, e))
	}

	candidates := r.overloadsFor(scopeForLookup, name)
	if len(candidates) == 0 {
		r.unresolved(call.Loc(), name)
		return nil
	}

	var explicitTypes []types.Type
	if len(explicitGenerics) > 0 {
		explicitTypes = make([]types.Type, 0, len(explicitGenerics))
		for _, g := range explicitGenerics {
			t, ok := r.resolveType(g, scope, e)
			if !ok {
				return nil
			}
			explicitTypes = append(explicitTypes, t)
		}
	}

	best, _, ok, ambiguous := pickOverload(candidates, argTypes, func(fn *ast.FunctionDecl) ([]types.Type, bool) {
		return r.paramTypesFor(fn, argTypes, explicitTypes, scopeForLookup, e)
	})
	if ambiguous {
		r.reportAmbiguousCall(call, name)
		return nil
	}
	if !ok {
		r.diags.Add(diagnostics.NewError(diagnostics.UnresolvedSymbol, "no overload of '"+name+"' matches the given arguments").
			WithPrimaryLabel(call.Loc(), "no matching overload"))
		return nil
	}

	if len(best.Generics) == 0 {
		call.Resolved = best
		retT, _ := r.resolveType(best.ReturnType, scopeForLookup, e)
		return retT
	}

	subst, ok := explicitOrInferredSubst(best, argTypes, explicitTypes)
	if !ok {
		r.diags.Add(diagnostics.NewError(diagnostics.UnresolvedSymbol, "cannot infer generic arguments for '"+name+"'").
			WithPrimaryLabel(call.Loc(), "ambiguous generic call"))
		return nil
	}
	callSiteEnv := e.withCallSite(call.Loc(), best, subst)
	spec, ok := r.specializeFunction(best, argTypes, scopeForLookup, callSiteEnv)
	if !ok {
		return nil
	}
	call.Resolved = spec.Decl
	retT, _ := r.resolveType(best.ReturnType, scopeForLookup, &env{subst: subst})
	return retT
}

func hasField(st *types.StructType, name string) bool {
	for _, f := range st.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// calleeName extracts the plain function name from a Call's Callee,
// which is either a bare Identifier, a dotted Member (UFCS sugar), or
// a ChevronArgs wrapping either with explicit generic arguments.
func calleeName(callee ast.Expr) (string, []ast.TypeNode, *ast.Scope) {
	switch c := callee.(type) {
	case *ast.Identifier:
		return c.Name, nil, nil
	case *ast.Member:
		return c.Name, nil, nil
	case *ast.ChevronArgs:
		name, _, _ := calleeName(c.Base)
		return name, c.Args, nil
	default:
		return "", nil, nil
	}
}

func (r *Resolver) paramTypesFor(fn *ast.FunctionDecl, argTypes, explicitTypes []types.Type, scope *ast.Scope, e *env) ([]types.Type, bool) {
	if len(fn.Generics) == 0 {
		out := make([]types.Type, 0, len(fn.Params))
		for _, p := range fn.Params {
			t, ok := r.resolveType(p.Type, scope, e)
			if !ok {
				return nil, false
			}
			out = append(out, t)
		}
		return out, true
	}
	subst, ok := explicitOrInferredSubst(fn, argTypes, explicitTypes)
	if !ok {
		return nil, false
	}
	ge := &env{subst: subst}
	out := make([]types.Type, 0, len(fn.Params))
	for _, p := range fn.Params {
		t, ok := r.resolveType(p.Type, scope, ge)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

func explicitOrInferredSubst(fn *ast.FunctionDecl, argTypes, explicitTypes []types.Type) (map[string]types.Type, bool) {
	if len(explicitTypes) == len(fn.Generics) && len(explicitTypes) > 0 {
		subst := make(map[string]types.Type, len(fn.Generics))
		for i, g := range fn.Generics {
			subst[g] = explicitTypes[i]
		}
		return subst, true
	}
	return unifyGenerics(fn, argTypes)
}

