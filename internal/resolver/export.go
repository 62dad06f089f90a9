package resolver

import (
	"signalcore/internal/ast"
	"signalcore/internal/types"
)

// ResolveType exposes resolveType for pipeline stages downstream of C3
// (the lowering pass in internal/lower, and the optimiser in
// internal/optimize) that need a types.Type for a TypeNode already
// proven valid by resolution, without re-running name resolution from
// scratch. Callers must reuse the same *Resolver instance that resolved
// the enclosing namespace, so struct declIDs stay consistent with the
// ones already baked into the AST's Identifier.Resolved links.
func (r *Resolver) ResolveType(t ast.TypeNode, scope *ast.Scope) (types.Type, bool) {
	return r.resolveType(t, scope, newEnv())
}

// ExprType re-derives the type of an already-resolved expression, the
// expression-level analogue of ResolveType. e has already gone through
// resolveExpr once during ResolveNamespace; every diagnostic-producing
// branch resolveExpr could take on e was already ruled out then, so
// calling it again here is side-effect-free on a program that resolved
// without errors.
func (r *Resolver) ExprType(e ast.Expr, scope *ast.Scope) types.Type {
	return r.resolveExpr(e, scope, newEnv())
}

// SpecializedFunctions returns every generic function specialization
// produced while resolving the namespace. Specializations are memoized
// in r.funcSpecs rather than spliced back into ast.Namespace.Functions
// (spec.md §4.2), so lowering needs this accessor to discover them.
func (r *Resolver) SpecializedFunctions() []*ast.FunctionDecl {
	out := make([]*ast.FunctionDecl, 0, len(r.funcSpecs.entries))
	for _, spec := range r.funcSpecs.entries {
		out = append(out, spec.Decl)
	}
	return out
}

// SpecializedProcessors is the processor analogue of
// SpecializedFunctions.
func (r *Resolver) SpecializedProcessors() []*ast.ProcessorDecl {
	out := make([]*ast.ProcessorDecl, 0, len(r.procSpecs.entries))
	for _, spec := range r.procSpecs.entries {
		out = append(out, spec.Decl)
	}
	return out
}

// EvalConst exposes evalConst so lowering can fold a constant
// expression into a types.Value — used both for materialising
// ir.ConstExpr operands and for const-if dead-arm elimination.
func (r *Resolver) EvalConst(e ast.Expr, scope *ast.Scope) (types.Value, bool) {
	return r.evalConst(e, scope, newEnv())
}

// EvalConstBool is EvalConst narrowed to a bool result, the exact check
// C5's const-if elimination needs to decide which arm survives.
func (r *Resolver) EvalConstBool(e ast.Expr, scope *ast.Scope) (bool, bool) {
	return r.evalConstBool(e, scope, newEnv())
}

// EvalMetaFunctionValue re-evaluates one of the value-producing type
// meta-functions (size, isXxx) that a MetaFunction expression node can
// name, for lowering a value-position MetaFunction call into a
// compile-time constant. ok is false for a type-producing meta-function
// (makeConst and friends), which never reaches this call since the
// resolver already narrowed its ExprKind to TypeExpr rather than Value.
func (r *Resolver) EvalMetaFunctionValue(m *ast.MetaFunction, scope *ast.Scope) (types.Value, bool) {
	result, isType := r.resolveMetaFunction(m, scope, newEnv())
	if isType {
		return types.Value{}, false
	}
	v, ok := result.(types.Value)
	return v, ok
}
