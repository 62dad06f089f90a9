// Package resolver implements C3 (spec.md §4.2-§4.3): name resolution,
// overload and generic specialisation, the closed set of type
// meta-functions, constant folding, and endpoint-write resolution. The
// walker shape — a switch over concrete node types calling back into
// itself — follows the teacher's internal/semantics/resolver/resolver.go,
// generalised from "check identifiers, leave types to a separate pass"
// to a single pass that resolves both names and types together, since
// spec.md's closed AST has no separate untyped-AST stage.
package resolver

import (
	"fmt"

	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/source"
	"signalcore/internal/types"
)

// Resolver holds the state threaded through one compilation's
// resolution pass: the diagnostics sink, the shared StringDictionary
// every string literal interns into, and the specialization caches
// that make generic functions/processors resolve at most once per
// distinct argument-type tuple.
type Resolver struct {
	diags   *diagnostics.Bag
	strings *types.StringDictionary

	funcSpecs machineCache[*FunctionSpecialization]
	procSpecs machineCache[*ProcessorSpecialization]

	pendingFuncSpecs []*pendingFuncSpec
	pendingProcSpecs []*pendingProcSpec

	// overloads tracks every FunctionDecl sharing a name within a given
	// scope, since ast.Scope.Bindings only keeps one Decl per name (the
	// first overload wins the plain lookup slot; this side table is
	// what overload resolution actually searches).
	overloads map[*ast.Scope]map[string][]*ast.FunctionDecl

	// structDeclIDs caches struct nominal-type identity (internal/types.
	// StructType's declID) per Resolver instance rather than per
	// resolution environment, so the same *ast.StructDecl resolved from
	// two different top-level functions/processors in the same
	// compilation still compares Equal by internal/types.StructType's
	// nominal-identity rule.
	structDeclIDs map[*ast.StructDecl]uint64

	nextDeclID uint64
}

func (r *Resolver) registerOverload(scope *ast.Scope, fn *ast.FunctionDecl) {
	if r.overloads == nil {
		r.overloads = make(map[*ast.Scope]map[string][]*ast.FunctionDecl)
	}
	byName := r.overloads[scope]
	if byName == nil {
		byName = make(map[string][]*ast.FunctionDecl)
		r.overloads[scope] = byName
	}
	byName[fn.Name] = append(byName[fn.Name], fn)
}

// overloadsFor returns every FunctionDecl named name reachable from
// scope, preferring the nearest enclosing scope that declares any.
func (r *Resolver) overloadsFor(scope *ast.Scope, name string) []*ast.FunctionDecl {
	for s := scope; s != nil; s = s.Parent {
		if byName, ok := r.overloads[s]; ok {
			if fns, ok := byName[name]; ok {
				return fns
			}
		}
	}
	return nil
}

// machineCache memoizes specializations by a mangled string key.
type machineCache[T any] struct {
	entries map[string]T
}

func (c *machineCache[T]) get(key string) (T, bool) {
	if c.entries == nil {
		var zero T
		return zero, false
	}
	v, ok := c.entries[key]
	return v, ok
}

func (c *machineCache[T]) put(key string, v T) {
	if c.entries == nil {
		c.entries = make(map[string]T)
	}
	c.entries[key] = v
}

// New creates a Resolver reporting into diags and interning string
// literals into strings.
func New(diags *diagnostics.Bag, strings *types.StringDictionary) *Resolver {
	return &Resolver{diags: diags, strings: strings}
}

// nextDecl returns a fresh monotonically increasing declaration
// identity, used for struct nominal typing (internal/types.StructType's
// declID) and for specialization bookkeeping.
func (r *Resolver) nextDecl() uint64 {
	r.nextDeclID++
	return r.nextDeclID
}

// env is the generic-substitution environment threaded through a
// single function/processor body's resolution: it maps a generic type
// parameter name to the concrete types.Type it was specialized with.
// A nil env (the common case, resolving non-generic code) means no
// substitution is active.
type env struct {
	subst map[string]types.Type
	// callSite records the source.Location of the call that triggered
	// this resolution, if it is a specialization. It is passed on to
	// nested specializations but never read into a diagnostic, so errors
	// raised here carry no Trail frame pointing back to the call.
	callSite *source.Location
	generic  *ast.FunctionDecl
}

func newEnv() *env {
	return &env{}
}

func (e *env) withCallSite(loc source.Location, generic *ast.FunctionDecl, subst map[string]types.Type) *env {
	return &env{subst: subst, callSite: &loc, generic: generic}
}

func (e *env) lookupGeneric(name string) (types.Type, bool) {
	if e == nil || e.subst == nil {
		return nil, false
	}
	t, ok := e.subst[name]
	return t, ok
}

// structID returns a stable declID for decl, allocating one on first
// use, so repeated resolutions of the same struct — from different
// functions, processors, or lowering passes within one compilation —
// produce nominally Equal types.Type values.
func (r *Resolver) structID(decl *ast.StructDecl) uint64 {
	if id, ok := r.structDeclIDs[decl]; ok {
		return id
	}
	id := r.nextDecl()
	if r.structDeclIDs == nil {
		r.structDeclIDs = make(map[*ast.StructDecl]uint64)
	}
	r.structDeclIDs[decl] = id
	return id
}

// ResolveNamespace resolves every declaration in ns, recursing into
// nested namespaces. It runs to a fixed point: generic call sites
// discovered while resolving one function can produce new
// specializations that themselves need resolving, so the driver loops
// until a pass produces no new specialization (spec.md §4.2).
func (r *Resolver) ResolveNamespace(ns *ast.Namespace, parentScope *ast.Scope) {
	ns.Scope = ast.NewScope(parentScope)
	r.declareNamespaceMembers(ns)

	for _, sub := range ns.Namespaces {
		r.ResolveNamespace(sub, ns.Scope)
	}
	for _, s := range ns.Structs {
		r.resolveStruct(s, ns.Scope)
	}
	for _, c := range ns.Constants {
		r.resolveConstant(c, ns.Scope, newEnv())
	}
	for _, fn := range ns.Functions {
		if len(fn.Generics) == 0 {
			r.resolveFunction(fn, ns.Scope, newEnv())
		}
	}
	for _, p := range ns.Processors {
		r.resolveProcessor(p, ns.Scope)
	}
	for _, g := range ns.Graphs {
		r.resolveGraph(g, ns.Scope)
	}

	// Fixed point: resolving the bodies above may have queued generic
	// specializations (via r.funcSpecs/r.procSpecs); resolve those too,
	// since their bodies can in turn reference other generics.
	r.drainPendingSpecializations()
}

func (r *Resolver) declareNamespaceMembers(ns *ast.Namespace) {
	for _, s := range ns.Structs {
		if !ns.Scope.Declare(s.Name, s) {
			r.redeclared(s.Loc(), s.Name, ns.Scope)
		}
	}
	for _, c := range ns.Constants {
		if !ns.Scope.Declare(c.Name, c) {
			r.redeclared(c.Loc(), c.Name, ns.Scope)
		}
	}
	for _, f := range ns.Functions {
		// Overloads share a name; only the first declares the plain
		// lookup binding, but every overload is registered so call-site
		// resolution can see the whole set.
		if _, exists := ns.Scope.LookupLocal(f.Name); !exists {
			ns.Scope.Declare(f.Name, f)
		}
		r.registerOverload(ns.Scope, f)
	}
	for _, p := range ns.Processors {
		if !ns.Scope.Declare(p.Name, p) {
			r.redeclared(p.Loc(), p.Name, ns.Scope)
		}
	}
	for _, g := range ns.Graphs {
		if !ns.Scope.Declare(g.Name, g) {
			r.redeclared(g.Loc(), g.Name, ns.Scope)
		}
	}
	for _, u := range ns.Usings {
		if !ns.Scope.Declare(u.Name, u) {
			r.redeclared(u.Loc(), u.Name, ns.Scope)
		}
	}
	for _, sub := range ns.Namespaces {
		ns.Scope.Declare(sub.Name, nil) // namespaces are looked up by name, not typed as a Decl
	}
}

func (r *Resolver) redeclared(loc source.Location, name string, scope *ast.Scope) {
	r.diags.Add(diagnostics.NewError(diagnostics.DuplicateName, fmt.Sprintf("'%s' is already declared in this scope", name)).
		WithPrimaryLabel(loc, "duplicate declaration"))
}

func (r *Resolver) unresolved(loc source.Location, name string) {
	r.diags.Add(diagnostics.Unresolved(loc, name))
}

type pendingFuncSpec struct {
	spec *FunctionSpecialization
	e    *env
}

type pendingProcSpec struct {
	spec *ProcessorSpecialization
}

// maxSpecializationRounds bounds the fixed-point loop below (spec.md
// §5's "configurable iteration cap"): a pathological chain of generic
// calls that never stops discovering new specializations is reported as
// an internal error rather than looping forever.
const maxSpecializationRounds = 1000

func (r *Resolver) drainPendingSpecializations() {
	rounds := 0
	for len(r.pendingFuncSpecs) > 0 || len(r.pendingProcSpecs) > 0 {
		rounds++
		if rounds > maxSpecializationRounds {
			r.diags.Add(diagnostics.NewError(diagnostics.InternalError, "generic specialization did not reach a fixed point").
				WithPrimaryLabel(source.Location{}, "exceeded specialization round limit"))
			r.pendingFuncSpecs = nil
			r.pendingProcSpecs = nil
			return
		}

		funcs := r.pendingFuncSpecs
		r.pendingFuncSpecs = nil
		for _, p := range funcs {
			r.resolveFunction(p.spec.Decl, p.spec.Scope, p.e)
		}

		procs := r.pendingProcSpecs
		r.pendingProcSpecs = nil
		for _, p := range procs {
			r.resolveProcessorBody(p.spec.Decl, p.spec.Scope, p.spec.Subst)
		}
	}
}
