// Package lower implements C5 (spec.md §4.5): lowering an already
// resolved internal/ast tree into internal/ir's block/statement form.
// The walker shape follows the teacher's internal/mir/gen builder
// (newFunctionBuilder + newBlock/setBlock/emitInstr), generalised from
// that package's SSA-value model to this IR's mutable-local model:
// locals are named slots reassigned in place by Assign statements
// rather than versioned ValueIDs, so C6's optimizer passes (write-once-
// to-const, unused-variable removal) can work as direct statement
// rewrites.
package lower

import (
	"signalcore/internal/ast"
	"signalcore/internal/ir"
	"signalcore/internal/resolver"
	"signalcore/internal/types"
)

// Lower transforms ns into an ir.Module. res must be the exact
// *resolver.Resolver instance that resolved ns (ResolveNamespace), so
// struct declIDs and generic specialisations lowering discovers through
// res stay consistent with what is already baked into ns's
// Identifier.Resolved links.
func Lower(ns *ast.Namespace, res *resolver.Resolver, strings *types.StringDictionary, consts *types.ConstantTable) *ir.Module {
	l := &lowerer{
		res:         res,
		mod:         &ir.Module{Strings: strings, Constants: consts, Location: ns.Loc()},
		funcByDecl:  make(map[*ast.FunctionDecl]*ir.Function),
		funcCtx:     make(map[*ast.FunctionDecl]*procLowerCtx),
		procByDecl:  make(map[ast.Decl]*ir.Processor),
		constDecls:  make(map[*ast.ConstantDecl]bool),
	}
	l.collectConstants(ns)
	l.lowerNamespace(ns)
	for _, fn := range res.SpecializedFunctions() {
		l.ensureFunction(fn, nil)
	}
	for _, p := range res.SpecializedProcessors() {
		l.ensureProcessor(p)
	}
	return l.mod
}

// lowerer holds the cross-function/cross-processor state one Lower call
// threads through the recursive descent: memo tables keyed by AST decl
// identity so a name referenced from two call sites lowers once, plus
// the set of ConstantDecls that are genuine top-level/processor-level
// constants rather than the disguised local-variable wrapper
// ConstantDecls the resolver allocates for `var` declarations and
// function parameters (ast/scope.go's identity model: both share the
// same Go type, distinguished only by which slice originally declared
// them).
type lowerer struct {
	res *resolver.Resolver
	mod *ir.Module

	funcByDecl map[*ast.FunctionDecl]*ir.Function
	funcCtx    map[*ast.FunctionDecl]*procLowerCtx
	procByDecl map[ast.Decl]*ir.Processor
	constDecls map[*ast.ConstantDecl]bool
}

// procLowerCtx carries the state-variable local numbering and endpoint
// set a processor or graph's own functions need while lowering calls
// and identifier references to state (shared across the processor's
// init/run/event functions) rather than to an ordinary local variable.
type procLowerCtx struct {
	proc      *ir.Processor
	stateVars map[*ast.StateVarDecl]*ir.Local
	scope     *ast.Scope
}

func (l *lowerer) collectConstants(ns *ast.Namespace) {
	for _, c := range ns.Constants {
		l.constDecls[c] = true
	}
	for _, p := range ns.Processors {
		for _, c := range p.Constants {
			l.constDecls[c] = true
		}
	}
	for _, sub := range ns.Namespaces {
		l.collectConstants(sub)
	}
}

func (l *lowerer) lowerNamespace(ns *ast.Namespace) {
	for _, sub := range ns.Namespaces {
		l.lowerNamespace(sub)
	}
	for _, fn := range ns.Functions {
		if len(fn.Generics) == 0 {
			l.ensureFunction(fn, nil)
		}
	}
	for _, p := range ns.Processors {
		if len(p.Generics) == 0 {
			l.ensureProcessor(p)
		}
	}
	for _, g := range ns.Graphs {
		l.ensureProcessor(g)
	}
}

// ensureFunction lowers decl on first reference and memoizes the
// result, so mutually-recursive or forward-referencing calls resolve to
// the same *ir.Function pointer without re-lowering its body. The shell
// is registered before the body is lowered, so a call back into decl
// from within its own body sees the in-progress Function rather than
// recursing into lowerFunctionBody again.
func (l *lowerer) ensureFunction(decl *ast.FunctionDecl, ctx *procLowerCtx) *ir.Function {
	if fn, ok := l.funcByDecl[decl]; ok {
		return fn
	}
	fn := l.newFunctionShell(decl, ctx)
	l.funcByDecl[decl] = fn
	if ctx != nil {
		l.funcCtx[decl] = ctx
	} else {
		// A processor/graph's own functions are reachable through its
		// Processor.Init/Run/Events instead; only free namespace-level
		// functions (and their generic specialisations) live in the
		// module's flat function list.
		l.mod.Functions = append(l.mod.Functions, fn)
	}
	l.lowerFunctionBody(decl, fn, ctx)
	return fn
}

func (l *lowerer) newFunctionShell(fn *ast.FunctionDecl, ctx *procLowerCtx) *ir.Function {
	scope := fn.Scope
	irFn := &ir.Function{
		Name:          fn.Name,
		Location:      fn.Loc(),
		DoNotOptimise: fn.HasAnnotation("do_not_optimise"),
	}
	for _, p := range fn.Params {
		t, _ := l.res.ResolveType(p.Type, scope)
		irFn.Params = append(irFn.Params, &ir.Local{Name: p.Name, Type: t})
	}
	retT, _ := l.res.ResolveType(fn.ReturnType, scope)
	irFn.ReturnType = retT
	return irFn
}

func (l *lowerer) lowerFunctionBody(fn *ast.FunctionDecl, irFn *ir.Function, ctx *procLowerCtx) {
	b := newFuncBuilder(l, irFn, ctx)
	for i, p := range fn.Params {
		decl, _ := fn.Scope.LookupLocal(p.Name)
		if cd, ok := decl.(*ast.ConstantDecl); ok {
			b.localOf[cd] = irFn.Params[i].ID
		}
	}
	entry := b.newBlock("entry")
	b.switchTo(entry)
	if fn.Body != nil {
		b.lowerBlockStmts(fn.Body)
	}
	b.finish(fn.Loc())
}
