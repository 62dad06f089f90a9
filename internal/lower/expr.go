package lower

import (
	"signalcore/internal/ast"
	"signalcore/internal/ir"
	"signalcore/internal/types"
)

// lowerValue lowers e to an ir.Expr usable anywhere a value is needed.
// Call and IncDec are always hoisted into a fresh local plus an Assign
// statement first (spec.md §4.5's "side-effect hoisting"): evaluating
// either twice would duplicate their effects, so giving every
// occurrence its own statement and handing back a LocalRef keeps every
// other expression-lowering rule free of that concern.
func (b *funcBuilder) lowerValue(e ast.Expr, scope *ast.Scope) ir.Expr {
	switch v := e.(type) {
	case *ast.Call:
		return b.hoistCall(v, scope)
	case *ast.IncDec:
		return b.hoistIncDec(v, scope)
	default:
		return b.lowerExprRaw(e, scope)
	}
}

func (b *funcBuilder) lowerExprRaw(e ast.Expr, scope *ast.Scope) ir.Expr {
	switch v := e.(type) {
	case *ast.Literal:
		return b.literalToConst(v)
	case *ast.Identifier:
		return b.lowerIdentifierRef(v.Resolved, v.Name, scope)
	case *ast.QualifiedIdent:
		return b.lowerIdentifierRef(v.Resolved, v.Parts[len(v.Parts)-1], scope)
	case *ast.Binary:
		return b.lowerBinary(v, scope)
	case *ast.Unary:
		return b.lowerUnary(v, scope)
	case *ast.Ternary:
		return &ir.Ternary{
			Cond: b.lowerValue(v.Condition, scope),
			Then: b.lowerValue(v.Then, scope),
			Else: b.lowerValue(v.Else, scope),
			Type: b.l.res.ExprType(v, scope),
		}
	case *ast.Cast:
		t, _ := b.l.res.ResolveType(v.Target, scope)
		return &ir.Cast{Operand: b.lowerValue(v.Operand, scope), Type: t}
	case *ast.Index:
		return b.lowerIndex(v, scope)
	case *ast.Slice:
		return &ir.Slice{
			Base: b.lowerValue(v.Base, scope),
			Low:  b.lowerOptional(v.Low, scope),
			High: b.lowerOptional(v.High, scope),
			Type: b.l.res.ExprType(v, scope),
		}
	case *ast.Member:
		return b.lowerMember(v, scope)
	case *ast.MetaFunction:
		// Operand is always a TypeNode (spec.md §4.3): the resolver has
		// already narrowed every meta-function that produces a type to
		// ExprKind TypeExpr, so any MetaFunction still reaching value-
		// position lowering is one of the value-producing forms (size,
		// the isXxx predicates) that folds to a constant.
		if val, ok := b.l.res.EvalMetaFunctionValue(v, scope); ok {
			return &ir.ConstExpr{Value: val}
		}
		return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
	case *ast.List:
		return b.lowerAggregate(v, scope)
	case *ast.ProcessorProperty:
		return b.lowerProcessorProperty(v, scope)
	case *ast.AdvanceClock:
		return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
	case *ast.StaticAssert:
		return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
	case *ast.Write:
		// Only reachable if a write expression is nested as a
		// subexpression, which the grammar never produces; lower it for
		// its side effect and hand back void so callers never see a nil
		// Expr.
		b.lowerWrite(v, scope)
		return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
	default:
		return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
	}
}

// lowerOptional lowers e if present, returning nil for an omitted slice
// bound rather than a void ConstExpr.
func (b *funcBuilder) lowerOptional(e ast.Expr, scope *ast.Scope) ir.Expr {
	if e == nil {
		return nil
	}
	return b.lowerValue(e, scope)
}

func (b *funcBuilder) literalToConst(l *ast.Literal) *ir.ConstExpr {
	switch l.LitKind {
	case ast.BoolLit:
		return &ir.ConstExpr{Value: types.NewBoolValue(types.NewPrimitive(types.Bool), l.Bool)}
	case ast.IntLit:
		return &ir.ConstExpr{Value: types.NewI32Value(types.NewPrimitive(types.I32), int32(l.Int))}
	case ast.FloatLit:
		return &ir.ConstExpr{Value: types.NewF32Value(types.NewPrimitive(types.F32), float32(l.Float))}
	case ast.StringLit:
		handle := b.l.mod.Strings.Intern(l.Str)
		return &ir.ConstExpr{Value: types.NewStringValue(types.NewPrimitive(types.String), handle)}
	default:
		return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
	}
}

// lowerIdentifierRef dispatches on what an Identifier/QualifiedIdent's
// Resolved link points at: a genuine namespace/processor-level constant
// folds in place through the resolver's exported evaluator; a
// ConstantDecl the resolver only used as a local-variable or parameter
// wrapper (never placed in a Constants slice, see lower.go's
// constDecls) becomes a LocalRef; a StateVarDecl becomes a StateVarRef;
// an EndpointDecl becomes an EndpointRead.
func (b *funcBuilder) lowerIdentifierRef(resolved ast.Decl, name string, scope *ast.Scope) ir.Expr {
	switch decl := resolved.(type) {
	case *ast.ConstantDecl:
		if b.isGenuineConstant(decl) {
			if val, ok := b.l.res.EvalConst(decl.Value, scope); ok {
				return &ir.ConstExpr{Value: val}
			}
		}
		if id, ok := b.localOf[decl]; ok {
			t := types.Type(nil)
			if local := b.fn.LocalByID(id); local != nil {
				t = local.Type
			}
			return &ir.LocalRef{ID: id, Type: t}
		}
	case *ast.StateVarDecl:
		if local, ok := b.stateVarLocal(decl); ok {
			return &ir.StateVarRef{ID: local.ID, Type: local.Type}
		}
	case *ast.EndpointDecl:
		t, _ := b.l.res.ResolveType(decl.DataTypes[0], scope)
		return &ir.EndpointRead{Endpoint: name, Type: t}
	}
	return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
}

var binOpMap = map[ast.BinaryOp]ir.BinOp{
	ast.Add: ir.Add, ast.Sub: ir.Sub, ast.Mul: ir.Mul, ast.Div: ir.Div, ast.Mod: ir.Mod,
	ast.Eq: ir.Eq, ast.Ne: ir.Ne, ast.Lt: ir.Lt, ast.Le: ir.Le, ast.Gt: ir.Gt, ast.Ge: ir.Ge,
	ast.BitAnd: ir.BitAnd, ast.BitOr: ir.BitOr, ast.BitXor: ir.BitXor, ast.Shl: ir.Shl, ast.Shr: ir.Shr,
}

// lowerBinary handles every ast.Binary op except Assign (lowered
// separately as a statement by stmt.go's lowerAssign). LogicalAnd/
// LogicalOr short-circuit, so they lower to control flow through a
// temporary local rather than to a plain Binary node.
func (b *funcBuilder) lowerBinary(v *ast.Binary, scope *ast.Scope) ir.Expr {
	if v.Op == ast.LogicalAnd || v.Op == ast.LogicalOr {
		return b.lowerShortCircuit(v, scope)
	}
	op, ok := binOpMap[v.Op]
	if !ok {
		return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
	}
	return &ir.Binary{
		Op:    op,
		Left:  b.lowerValue(v.Left, scope),
		Right: b.lowerValue(v.Right, scope),
		Type:  b.l.res.ExprType(v, scope),
	}
}

// lowerShortCircuit gives `&&`/`||` real control flow: the right
// operand's side effects (a call, an assignment nested in it) must not
// run when the left operand already decides the result.
func (b *funcBuilder) lowerShortCircuit(v *ast.Binary, scope *ast.Scope) ir.Expr {
	boolT := types.NewPrimitive(types.Bool)
	result := b.allocLocal("", boolT)
	left := b.lowerValue(v.Left, scope)
	b.emit(&ir.Assign{Target: result, Value: left, Location: v.Loc()})

	evalRight := b.newBlock("logic_rhs")
	end := b.newBlock("logic_end")
	if v.Op == ast.LogicalAnd {
		b.branch(v.Loc(), &ir.LocalRef{ID: result, Type: boolT}, evalRight, end)
	} else {
		b.branch(v.Loc(), &ir.LocalRef{ID: result, Type: boolT}, end, evalRight)
	}

	b.switchTo(evalRight)
	right := b.lowerValue(v.Right, scope)
	b.emit(&ir.Assign{Target: result, Value: right, Location: v.Loc()})
	b.jumpTo(v.Loc(), end)

	b.switchTo(end)
	return &ir.LocalRef{ID: result, Type: boolT}
}

func (b *funcBuilder) lowerUnary(v *ast.Unary, scope *ast.Scope) ir.Expr {
	operand := b.lowerValue(v.Operand, scope)
	switch v.Op {
	case ast.Neg:
		return &ir.Unary{Op: ir.Neg, Operand: operand, Type: operand.ExprType()}
	case ast.Not:
		return &ir.Unary{Op: ir.Not, Operand: operand, Type: operand.ExprType()}
	case ast.BitNot:
		return &ir.Unary{Op: ir.BitNot, Operand: operand, Type: operand.ExprType()}
	default:
		// AddressOf: spec.md's reference parameters pass by aliasing a
		// local/state-var slot, not by a runtime pointer value the IR
		// models, so the address-of operator itself erases to its
		// operand (see DESIGN.md's Open Question on reference params).
		return operand
	}
}

func (b *funcBuilder) lowerIndex(v *ast.Index, scope *ast.Scope) ir.Expr {
	if v.Kind() == ast.Endpoint {
		instance, endpoint, index := b.endpointTarget(v, scope)
		return &ir.EndpointRead{Instance: instance, Endpoint: endpoint, Index: index, Type: b.l.res.ExprType(v, scope)}
	}
	return &ir.Index{
		Base:  b.lowerValue(v.Base, scope),
		Index: b.lowerValue(v.Index, scope),
		Type:  b.l.res.ExprType(v, scope),
	}
}

func (b *funcBuilder) lowerMember(v *ast.Member, scope *ast.Scope) ir.Expr {
	if v.Kind() == ast.Endpoint {
		instance, endpoint, index := b.endpointTarget(v, scope)
		return &ir.EndpointRead{Instance: instance, Endpoint: endpoint, Index: index, Type: b.l.res.ExprType(v, scope)}
	}
	return &ir.FieldRead{
		Base:  b.lowerValue(v.Base, scope),
		Field: v.Name,
		Type:  b.l.res.ExprType(v, scope),
	}
}

func (b *funcBuilder) lowerAggregate(v *ast.List, scope *ast.Scope) ir.Expr {
	elems := make([]ir.Expr, len(v.Elements))
	for i, el := range v.Elements {
		elems[i] = b.lowerValue(el, scope)
	}
	return &ir.Aggregate{Type: b.l.res.ExprType(v, scope), Elements: elems}
}

func (b *funcBuilder) lowerProcessorProperty(v *ast.ProcessorProperty, scope *ast.Scope) ir.Expr {
	instance := ""
	if id, ok := v.Instance.(*ast.Identifier); ok {
		instance = id.Name
	}
	return &ir.PropertyRead{Instance: instance, Property: v.Property, Type: b.l.res.ExprType(v, scope)}
}

// hoistCall lowers call and, if its result is used (non-void), stores
// it into a fresh local so the caller gets a plain LocalRef instead of
// re-embedding the call expression.
func (b *funcBuilder) hoistCall(call *ast.Call, scope *ast.Scope) ir.Expr {
	irCall := b.lowerCallExpr(call, scope)
	if types.IsVoid(irCall.Type) {
		b.emit(&ir.CallStmt{Func: irCall.Func, Args: irCall.Args, Location: call.Loc()})
		return &ir.ConstExpr{Value: types.Value{Type: types.NewVoid()}}
	}
	id := b.allocLocal("", irCall.Type)
	b.emit(&ir.Assign{Target: id, Value: irCall, Location: call.Loc()})
	return &ir.LocalRef{ID: id, Type: irCall.Type}
}

func (b *funcBuilder) lowerCallStmt(call *ast.Call, scope *ast.Scope) {
	irCall := b.lowerCallExpr(call, scope)
	b.emit(&ir.CallStmt{Func: irCall.Func, Args: irCall.Args, Location: call.Loc()})
}

// lowerCallExpr builds the ir.Call for call, reconstructing the UFCS
// base argument internal/resolver/call.go's resolveCall spliced into
// the overload's parameter list without touching call.Args itself: a
// resolved parameter count one greater than len(call.Args), with a
// Member callee, means the base expression is the implicit first
// argument.
func (b *funcBuilder) lowerCallExpr(call *ast.Call, scope *ast.Scope) *ir.Call {
	if call.Resolved == nil {
		// Defensive fallback for the rare case internal/resolver/call.go
		// documents: a struct member sharing a callable's name can leave
		// overload resolution unable to bind a target. There is nothing
		// meaningful to call.
		return &ir.Call{Type: types.NewVoid()}
	}
	target := b.l.ensureFunction(call.Resolved, b.l.funcCtx[call.Resolved])
	args := make([]ir.Expr, 0, len(call.Args)+1)
	if member, ok := asUFCSMember(call.Callee); ok && len(call.Resolved.Params) == len(call.Args)+1 {
		args = append(args, b.lowerValue(member.Base, scope))
	}
	for _, a := range call.Args {
		args = append(args, b.lowerValue(a, scope))
	}
	return &ir.Call{Func: target, Args: args, Type: target.ReturnType}
}

func asUFCSMember(callee ast.Expr) (*ast.Member, bool) {
	switch c := callee.(type) {
	case *ast.Member:
		return c, true
	case *ast.ChevronArgs:
		if m, ok := c.Base.(*ast.Member); ok {
			return m, true
		}
	}
	return nil, false
}

// hoistIncDec evaluates Operand's current value, computes the
// incremented/decremented value, stores it back through the same
// lvalue-assignment path stmt.go's lowerAssign uses, and returns
// whichever of the two values the prefix/postfix form calls for.
func (b *funcBuilder) hoistIncDec(v *ast.IncDec, scope *ast.Scope) ir.Expr {
	t := b.l.res.ExprType(v.Operand, scope)
	old := b.lowerValue(v.Operand, scope)
	oldID := b.allocLocal("", t)
	b.emit(&ir.Assign{Target: oldID, Value: old, Location: v.Loc()})

	op := ir.Add
	if !v.Increment {
		op = ir.Sub
	}
	newVal := &ir.Binary{Op: op, Left: &ir.LocalRef{ID: oldID, Type: t}, Right: constOne(t), Type: t}
	newID := b.allocLocal("", t)
	b.emit(&ir.Assign{Target: newID, Value: newVal, Location: v.Loc()})

	b.storeToLValue(v.Operand, &ir.LocalRef{ID: newID, Type: t}, scope, v.Loc())

	if v.Prefix {
		return &ir.LocalRef{ID: newID, Type: t}
	}
	return &ir.LocalRef{ID: oldID, Type: t}
}

func (b *funcBuilder) lowerIncDecStmt(v *ast.IncDec, scope *ast.Scope) {
	b.hoistIncDec(v, scope)
}

func constOne(t types.Type) *ir.ConstExpr {
	if p, ok := t.(*types.PrimitiveType); ok {
		switch p.Kind {
		case types.I64:
			return &ir.ConstExpr{Value: types.NewI64Value(p, 1)}
		case types.F32:
			return &ir.ConstExpr{Value: types.NewF32Value(p, 1)}
		case types.F64:
			return &ir.ConstExpr{Value: types.NewF64Value(p, 1)}
		}
	}
	return &ir.ConstExpr{Value: types.NewI32Value(types.NewPrimitive(types.I32), 1)}
}
