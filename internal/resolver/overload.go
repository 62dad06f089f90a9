package resolver

import (
	"fmt"
	"strings"

	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/types"
)

// FunctionSpecialization is one concrete instantiation of a generic
// FunctionDecl, memoized by its mangled name so two calls with the same
// argument-type tuple share one specialized body (spec.md §4.2).
type FunctionSpecialization struct {
	MangledName string
	Decl        *ast.FunctionDecl
	Scope       *ast.Scope
	ParamTypes  []types.Type
	ReturnType  types.Type
	Subst       map[string]types.Type
}

// ProcessorSpecialization is the processor/graph analogue of
// FunctionSpecialization, memoized by argument tuple (spec.md §4.2's
// "processor/graph specialization memoized by argument tuple").
type ProcessorSpecialization struct {
	MangledName string
	Decl        *ast.ProcessorDecl
	Scope       *ast.Scope
	Subst       map[string]types.Type
}

func mangle(name string, args []types.Type) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", name, strings.Join(parts, ","))
}

// pickOverload selects the best candidate for argTypes: an exact
// parameter-type match wins outright; otherwise a single candidate
// reachable purely via silent casts wins; two or more such candidates
// is an ambiguous call (spec.md §4.2, mirroring internal/types's
// PickUnambiguousCast tie-break rule at the call-site level instead of
// the single-value level).
func pickOverload(candidates []*ast.FunctionDecl, argTypes []types.Type, paramTypesOf func(*ast.FunctionDecl) ([]types.Type, bool)) (*ast.FunctionDecl, []types.Type, bool, bool) {
	var exact *ast.FunctionDecl
	var exactParams []types.Type
	var silent []*ast.FunctionDecl
	var silentParams [][]types.Type

	for _, c := range candidates {
		if len(c.Params) != len(argTypes) {
			continue
		}
		paramTypes, ok := paramTypesOf(c)
		if !ok {
			continue
		}
		if allExact(paramTypes, argTypes) {
			if exact == nil {
				exact = c
				exactParams = paramTypes
			}
			continue
		}
		if allSilentlyCastable(paramTypes, argTypes) {
			silent = append(silent, c)
			silentParams = append(silentParams, paramTypes)
		}
	}
	if exact != nil {
		return exact, exactParams, true, false
	}
	if len(silent) == 1 {
		return silent[0], silentParams[0], true, false
	}
	if len(silent) > 1 {
		return nil, nil, false, true
	}
	return nil, nil, false, false
}

func allExact(params, args []types.Type) bool {
	for i := range params {
		if !params[i].Equals(args[i]) {
			return false
		}
	}
	return true
}

func allSilentlyCastable(params, args []types.Type) bool {
	for i := range params {
		if !types.CanSilentlyCastTo(args[i], params[i]) {
			return false
		}
	}
	return true
}

// specializeFunction returns the (cached or freshly queued) generic
// function to resolve for generic called with argTypes, cloning the
// AST once per distinct mangled name so every specialization narrows
// its own ExprKind/Resolved fields independently.
func (r *Resolver) specializeFunction(generic *ast.FunctionDecl, argTypes []types.Type, declScope *ast.Scope, callSite *env) (*FunctionSpecialization, bool) {
	subst, ok := unifyGenerics(generic, argTypes)
	if !ok {
		return nil, false
	}
	key := mangle(generic.Name, argTypes)
	if cached, ok := r.funcSpecs.get(key); ok {
		return cached, true
	}

	clone := ast.CloneFunction(generic)
	clone.Name = key
	spec := &FunctionSpecialization{
		MangledName: key,
		Decl:        clone,
		Scope:       declScope,
		Subst:       subst,
	}
	r.funcSpecs.put(key, spec)

	e := newEnv()
	e.subst = subst
	e.generic = generic
	if callSite != nil && callSite.callSite != nil {
		e = e.withCallSite(*callSite.callSite, generic, subst)
	}
	r.pendingFuncSpecs = append(r.pendingFuncSpecs, &pendingFuncSpec{spec: spec, e: e})
	return spec, true
}

// unifyGenerics performs the wildcard unification spec.md §4.2
// describes: each generic parameter name is bound to the type of the
// argument in the same position as its first occurrence among the
// function's declared parameter types.
func unifyGenerics(generic *ast.FunctionDecl, argTypes []types.Type) (map[string]types.Type, bool) {
	if len(generic.Params) != len(argTypes) {
		return nil, false
	}
	isGeneric := make(map[string]bool, len(generic.Generics))
	for _, g := range generic.Generics {
		isGeneric[g] = true
	}
	subst := make(map[string]types.Type)
	for i, p := range generic.Params {
		name, ok := identName(paramTypeName(p.Type))
		if !ok || !isGeneric[name] {
			continue
		}
		if existing, bound := subst[name]; bound {
			if !existing.Equals(argTypes[i]) {
				return nil, false
			}
			continue
		}
		subst[name] = argTypes[i]
	}
	for _, g := range generic.Generics {
		if _, ok := subst[g]; !ok {
			return nil, false
		}
	}
	return subst, true
}

func paramTypeName(t ast.TypeNode) ast.Expr {
	if nt, ok := t.(*ast.NamedTypeExpr); ok {
		return nt.Name
	}
	return nil
}

func (r *Resolver) specializeProcessor(generic *ast.ProcessorDecl, argTypes []types.Type, declScope *ast.Scope) (*ProcessorSpecialization, bool) {
	if len(generic.Generics) != len(argTypes) {
		return nil, false
	}
	subst := make(map[string]types.Type, len(generic.Generics))
	for i, g := range generic.Generics {
		subst[g] = argTypes[i]
	}
	key := mangle(generic.Name, argTypes)
	if cached, ok := r.procSpecs.get(key); ok {
		return cached, true
	}
	clone := ast.CloneProcessor(generic)
	clone.Name = key
	spec := &ProcessorSpecialization{MangledName: key, Decl: clone, Scope: declScope, Subst: subst}
	r.procSpecs.put(key, spec)
	r.pendingProcSpecs = append(r.pendingProcSpecs, &pendingProcSpec{spec: spec})
	return spec, true
}

func (r *Resolver) reportAmbiguousCall(call *ast.Call, name string) {
	r.diags.Add(diagnostics.Ambiguous(call.Loc(), "call to '"+name+"'"))
}
