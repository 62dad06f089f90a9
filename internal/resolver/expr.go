package resolver

import (
	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/types"
)

func (r *Resolver) resolveBlock(b *ast.Block, parent *ast.Scope, e *env) {
	b.Scope = ast.NewScope(parent)
	for _, s := range b.Statements {
		r.resolveStmt(s, b.Scope, e)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt, scope *ast.Scope, e *env) {
	switch v := s.(type) {
	case *ast.VariableDeclaration:
		var declared types.Type
		if v.Type != nil {
			declared, _ = r.resolveType(v.Type, scope, e)
		}
		if v.Init != nil {
			initType := r.resolveExpr(v.Init, scope, e)
			if declared == nil {
				declared = initType
			} else if initType != nil && !types.CanSilentlyCastTo(initType, declared) {
				r.diags.Add(diagnostics.CannotImplicitlyCastDiag(v.Init.Loc(), initType.String(), declared.String()))
			}
		}
		if declared != nil && types.IsVoid(declared) {
			r.diags.Add(diagnostics.NewError(diagnostics.VariableCannotBeVoid, "variable '"+v.Name+"' cannot have type void").
				WithPrimaryLabel(v.Loc(), "void variable"))
		}
		scope.Declare(v.Name, &ast.ConstantDecl{Header: v.Header, Name: v.Name, Type: v.Type, Value: v.Init})
	case *ast.If:
		condType := r.resolveExpr(v.Condition, scope, e)
		if condType != nil && !isBoolPrimitive(condType) {
			r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "if condition must be bool").
				WithPrimaryLabel(v.Condition.Loc(), "not bool"))
		}
		if v.Const {
			// The untaken arm is never resolved: it may reference
			// identifiers that only exist in the other specialization
			// (spec.md §4.6's const-if dead-arm elimination starts here).
			if taken, ok := r.evalConstBool(v.Condition, scope, e); ok {
				if taken {
					r.resolveBlock(v.Then, scope, e)
				} else if v.Else != nil {
					r.resolveStmt(v.Else, scope, e)
				}
				return
			}
		}
		r.resolveBlock(v.Then, scope, e)
		if v.Else != nil {
			r.resolveStmt(v.Else, scope, e)
		}
	case *ast.Loop:
		loopScope := ast.NewScope(scope)
		if v.Init != nil {
			r.resolveStmt(v.Init, loopScope, e)
		}
		if v.Condition != nil {
			r.resolveExpr(v.Condition, loopScope, e)
		}
		if v.Post != nil {
			r.resolveStmt(v.Post, loopScope, e)
		}
		r.resolveBlock(v.Body, loopScope, e)
	case *ast.Return:
		if v.Value != nil {
			r.resolveExpr(v.Value, scope, e)
		}
	case *ast.Break, *ast.Continue, *ast.Noop:
		// nothing to resolve
	case *ast.ExprStmt:
		r.resolveExpr(v.Value, scope, e)
	case *ast.Block:
		r.resolveBlock(v, scope, e)
	}
}

func isBoolPrimitive(t types.Type) bool {
	p, ok := t.(*types.PrimitiveType)
	return ok && p.Kind == types.Bool
}

func (r *Resolver) evalConstBool(c ast.Expr, scope *ast.Scope, e *env) (bool, bool) {
	v, ok := r.evalConst(c, scope, e)
	if !ok {
		return false, false
	}
	p, ok := v.Type.(*types.PrimitiveType)
	if !ok || p.Kind != types.Bool {
		return false, false
	}
	return v.AsBool(), true
}

// resolveExpr resolves e's identifiers, narrows its ExprKind, and
// returns its type (nil if resolution failed; the diagnostic has
// already been reported).
func (r *Resolver) resolveExpr(e ast.Expr, scope *ast.Scope, env_ *env) types.Type {
	switch v := e.(type) {
	case *ast.Literal:
		return r.resolveLiteral(v)
	case *ast.Identifier:
		return r.resolveIdentifier(v, scope, env_)
	case *ast.QualifiedIdent:
		return r.resolveQualifiedIdent(v, scope, env_)
	case *ast.Binary:
		return r.resolveBinary(v, scope, env_)
	case *ast.Unary:
		return r.resolveUnary(v, scope, env_)
	case *ast.Ternary:
		v.SetKind(ast.Value)
		r.resolveExpr(v.Condition, scope, env_)
		thenT := r.resolveExpr(v.Then, scope, env_)
		elseT := r.resolveExpr(v.Else, scope, env_)
		if thenT != nil && elseT != nil && !thenT.Equals(elseT) && types.CanSilentlyCastTo(elseT, thenT) {
			return thenT
		}
		return thenT
	case *ast.IncDec:
		v.SetKind(ast.Value)
		return r.resolveExpr(v.Operand, scope, env_)
	case *ast.Call:
		return r.resolveCall(v, scope, env_)
	case *ast.Cast:
		return r.resolveCast(v, scope, env_)
	case *ast.Index:
		return r.resolveIndex(v, scope, env_)
	case *ast.Slice:
		return r.resolveSlice(v, scope, env_)
	case *ast.Member:
		return r.resolveMember(v, scope, env_)
	case *ast.ChevronArgs:
		v.SetKind(v.Base.Kind())
		t := r.resolveExpr(v.Base, scope, env_)
		for _, a := range v.Args {
			r.resolveType(a, scope, env_)
		}
		return t
	case *ast.MetaFunction:
		result, isType := r.resolveMetaFunction(v, scope, env_)
		if isType {
			v.SetKind(ast.TypeExpr)
			return nil
		}
		v.SetKind(ast.Value)
		if val, ok := result.(types.Value); ok {
			return val.Type
		}
		return nil
	case *ast.List:
		v.SetKind(ast.Value)
		for _, el := range v.Elements {
			r.resolveExpr(el, scope, env_)
		}
		return nil
	case *ast.Write:
		return r.resolveWrite(v, scope, env_)
	case *ast.AdvanceClock:
		v.SetKind(ast.Value)
		return types.NewVoid()
	case *ast.StaticAssert:
		return r.resolveStaticAssert(v, scope, env_)
	case *ast.ProcessorProperty:
		return r.resolveProcessorProperty(v, scope, env_)
	case *ast.NamedTypeExpr, *ast.ArrayTypeExpr, *ast.VectorTypeExpr, *ast.BoundedIntTypeExpr:
		e.SetKind(ast.TypeExpr)
		t, _ := r.resolveType(e, scope, env_)
		return t
	default:
		return nil
	}
}

func (r *Resolver) resolveLiteral(l *ast.Literal) types.Type {
	l.SetKind(ast.Value)
	switch l.LitKind {
	case ast.BoolLit:
		return types.NewPrimitive(types.Bool)
	case ast.IntLit:
		return types.NewPrimitive(types.I32)
	case ast.FloatLit:
		return types.NewPrimitive(types.F32)
	case ast.StringLit:
		r.strings.Intern(l.Str)
		return types.NewPrimitive(types.String)
	default:
		return nil
	}
}

func (r *Resolver) resolveIdentifier(id *ast.Identifier, scope *ast.Scope, e *env) types.Type {
	decl, ok := scope.Lookup(id.Name)
	if !ok {
		r.unresolved(id.Loc(), id.Name)
		return nil
	}
	id.Resolved = decl
	switch d := decl.(type) {
	case *ast.ConstantDecl:
		id.SetKind(ast.Value)
		return r.constantType(d, scope, e)
	case *ast.StateVarDecl:
		id.SetKind(ast.Value)
		t, _ := r.resolveType(d.Type, scope, e)
		return t
	case *ast.EndpointDecl:
		id.SetKind(ast.Endpoint)
		return r.endpointType(d, scope, e)
	case *ast.ProcessorDecl, *ast.ProcessorInstanceDecl, *ast.GraphDecl:
		id.SetKind(ast.Processor)
		return nil
	case *ast.StructDecl, *ast.UsingDecl:
		id.SetKind(ast.TypeExpr)
		return nil
	default:
		return nil
	}
}

func (r *Resolver) resolveQualifiedIdent(q *ast.QualifiedIdent, scope *ast.Scope, e *env) types.Type {
	if len(q.Parts) == 1 {
		id := &ast.Identifier{Header: q.Header, Name: q.Parts[0]}
		t := r.resolveIdentifier(id, scope, e)
		q.SetKind(id.Kind())
		q.Resolved = id.Resolved
		return t
	}
	// Multi-segment namespace paths (spec.md §3's `a::b::c`) resolve by
	// walking each segment's nested Namespace list; this walker only
	// handles the common one-segment case used pervasively by
	// endpoint/local references, and reports anything deeper as
	// unresolved rather than guessing (see DESIGN.md's Open Question
	// on qualified namespace paths).
	r.unresolved(q.Loc(), q.Parts[len(q.Parts)-1])
	return nil
}

func (r *Resolver) constantType(c *ast.ConstantDecl, scope *ast.Scope, e *env) types.Type {
	if c.Type != nil {
		t, _ := r.resolveType(c.Type, scope, e)
		return t
	}
	if c.Value != nil {
		return r.resolveExpr(c.Value, scope, e)
	}
	return nil
}

func (r *Resolver) endpointType(ep *ast.EndpointDecl, scope *ast.Scope, e *env) types.Type {
	if len(ep.DataTypes) == 0 {
		return nil
	}
	t, _ := r.resolveType(ep.DataTypes[0], scope, e)
	return t
}

func (r *Resolver) resolveBinary(b *ast.Binary, scope *ast.Scope, e *env) types.Type {
	b.SetKind(ast.Value)
	leftT := r.resolveExpr(b.Left, scope, e)
	rightT := r.resolveExpr(b.Right, scope, e)
	if leftT == nil || rightT == nil {
		return nil
	}
	if b.Op == ast.Assign {
		if !types.CanSilentlyCastTo(rightT, leftT) {
			r.diags.Add(diagnostics.CannotImplicitlyCastDiag(b.Right.Loc(), rightT.String(), leftT.String()))
		}
		return leftT
	}
	if isComparison(b.Op) {
		return types.NewPrimitive(types.Bool)
	}
	if b.Op == ast.LogicalAnd || b.Op == ast.LogicalOr {
		return types.NewPrimitive(types.Bool)
	}
	return widerOf(leftT, rightT)
}

func isComparison(op ast.BinaryOp) bool {
	switch op {
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return true
	default:
		return false
	}
}

func widerOf(a, b types.Type) types.Type {
	if a.Equals(b) {
		return a
	}
	if types.CanSilentlyCastTo(a, b) {
		return b
	}
	return a
}

func (r *Resolver) resolveUnary(u *ast.Unary, scope *ast.Scope, e *env) types.Type {
	u.SetKind(ast.Value)
	operandT := r.resolveExpr(u.Operand, scope, e)
	if operandT == nil {
		return nil
	}
	if u.Op == ast.AddressOf {
		return types.MakeReference(operandT)
	}
	return operandT
}

func (r *Resolver) resolveCast(c *ast.Cast, scope *ast.Scope, e *env) types.Type {
	c.SetKind(ast.Value)
	target, ok := r.resolveType(c.Target, scope, e)
	operandT := r.resolveExpr(c.Operand, scope, e)
	if !ok || operandT == nil {
		return target
	}
	if c.Explicit {
		if !types.CanExplicitlyCastTo(operandT, target) {
			r.diags.Add(diagnostics.CannotCastDiag(c.Loc(), operandT.String(), target.String()))
		}
	} else if !types.CanSilentlyCastTo(operandT, target) {
		r.diags.Add(diagnostics.CannotImplicitlyCastDiag(c.Loc(), operandT.String(), target.String()))
	}
	return target
}

func (r *Resolver) resolveIndex(ix *ast.Index, scope *ast.Scope, e *env) types.Type {
	ix.SetKind(ast.Value)
	baseT := r.resolveExpr(ix.Base, scope, e)
	r.resolveExpr(ix.Index, scope, e)
	if baseT == nil {
		return nil
	}
	if id, ok := ix.Base.(*ast.Identifier); ok {
		if ep, ok := id.Resolved.(*ast.EndpointDecl); ok && ep.ArraySize != nil {
			ix.SetKind(ast.Endpoint)
			return r.endpointType(ep, scope, e)
		}
	}
	elem := types.ElementType(baseT)
	if elem == nil {
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "cannot index a value of type "+baseT.String()).
			WithPrimaryLabel(ix.Loc(), "not indexable"))
	}
	return elem
}

func (r *Resolver) resolveSlice(s *ast.Slice, scope *ast.Scope, e *env) types.Type {
	s.SetKind(ast.Value)
	baseT := r.resolveExpr(s.Base, scope, e)
	if s.Low != nil {
		r.resolveExpr(s.Low, scope, e)
	}
	if s.High != nil {
		r.resolveExpr(s.High, scope, e)
	}
	if baseT == nil {
		return nil
	}
	elem := types.ElementType(baseT)
	if elem == nil {
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "cannot slice a value of type "+baseT.String()).
			WithPrimaryLabel(s.Loc(), "not sliceable"))
		return nil
	}
	return types.NewUnsizedArray(elem)
}

func (r *Resolver) resolveMember(m *ast.Member, scope *ast.Scope, e *env) types.Type {
	baseT := r.resolveExpr(m.Base, scope, e)
	switch m.Base.Kind() {
	case ast.Processor:
		if id, ok := m.Base.(*ast.Identifier); ok {
			if inst, ok := id.Resolved.(*ast.ProcessorInstanceDecl); ok {
				return r.resolveInstanceEndpoint(m, inst, scope, e)
			}
			if proc, ok := id.Resolved.(*ast.ProcessorDecl); ok {
				for _, ep := range proc.Endpoints {
					if ep.Name == m.Name {
						m.SetKind(ast.Endpoint)
						return r.endpointType(ep, scope, e)
					}
				}
			}
		}
	}
	m.SetKind(ast.Value)
	if baseT == nil {
		return nil
	}
	st, ok := baseT.(*types.StructType)
	if !ok {
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "value of type "+baseT.String()+" has no member '"+m.Name+"'").
			WithPrimaryLabel(m.Loc(), "no such member"))
		return nil
	}
	for _, f := range st.Fields {
		if f.Name == m.Name {
			return f.Type
		}
	}
	r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "struct '"+st.Name+"' has no member '"+m.Name+"'").
		WithPrimaryLabel(m.Loc(), "unknown member"))
	return nil
}

func (r *Resolver) resolveInstanceEndpoint(m *ast.Member, inst *ast.ProcessorInstanceDecl, scope *ast.Scope, e *env) types.Type {
	name, ok := identName(inst.ProcessorRef)
	if !ok {
		return nil
	}
	decl, ok := scope.Lookup(name)
	if !ok {
		return nil
	}
	proc, ok := decl.(*ast.ProcessorDecl)
	if !ok {
		return nil
	}
	for _, ep := range proc.Endpoints {
		if ep.Name == m.Name {
			m.SetKind(ast.Endpoint)
			return r.endpointType(ep, scope, e)
		}
	}
	r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "'"+name+"' has no endpoint named '"+m.Name+"'").
		WithPrimaryLabel(m.Loc(), "unknown endpoint"))
	return nil
}

func (r *Resolver) resolveWrite(w *ast.Write, scope *ast.Scope, e *env) types.Type {
	w.SetKind(ast.Value)
	epT := r.resolveExpr(w.Endpoint, scope, e)
	valT := r.resolveExpr(w.Value, scope, e)
	if w.Endpoint.Kind() != ast.Endpoint {
		r.diags.Add(diagnostics.NewError(diagnostics.CannotReadFromOutput, "left side of a write is not an endpoint").
			WithPrimaryLabel(w.Endpoint.Loc(), "not an endpoint"))
		return types.NewVoid()
	}
	if epT != nil && valT != nil && !types.CanSilentlyCastTo(valT, epT) {
		r.diags.Add(diagnostics.CannotImplicitlyCastDiag(w.Value.Loc(), valT.String(), epT.String()))
	}
	return types.NewVoid()
}

func (r *Resolver) resolveStaticAssert(s *ast.StaticAssert, scope *ast.Scope, e *env) types.Type {
	s.SetKind(ast.Value)
	r.resolveExpr(s.Condition, scope, e)
	if s.Message != nil {
		r.resolveExpr(s.Message, scope, e)
	}
	if ok, fine := r.evalConstBool(s.Condition, scope, e); fine && !ok {
		r.diags.Add(diagnostics.NewError(diagnostics.StaticAssertionFailure, "static assertion failed").
			WithPrimaryLabel(s.Loc(), "assertion is false"))
	}
	return types.NewVoid()
}

var processorPropertyTypes = map[string]types.Primitive{
	"sampleRate":   types.F64,
	"blockSize":    types.I32,
	"channelCount": types.I32,
}

func (r *Resolver) resolveProcessorProperty(p *ast.ProcessorProperty, scope *ast.Scope, e *env) types.Type {
	p.SetKind(ast.Value)
	r.resolveExpr(p.Instance, scope, e)
	prim, ok := processorPropertyTypes[p.Property]
	if !ok {
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedValue, "unknown processor property '"+p.Property+"'").
			WithPrimaryLabel(p.Loc(), "unknown property"))
		return nil
	}
	return types.NewPrimitive(prim)
}
