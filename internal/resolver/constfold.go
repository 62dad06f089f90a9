package resolver

import "signalcore/internal/ast"
import "signalcore/internal/types"

// evalConst folds e into a compile-time Value, or reports ok=false if e
// is not a constant expression. It backs array/vector sizes,
// bounded_int limits, const-if conditions, and static_assert
// (spec.md §4.2, §4.4).
func (r *Resolver) evalConst(e ast.Expr, scope *ast.Scope, env_ *env) (types.Value, bool) {
	switch v := e.(type) {
	case *ast.Literal:
		return literalValue(v)
	case *ast.Identifier:
		decl, ok := scope.Lookup(v.Name)
		if !ok {
			return types.Value{}, false
		}
		c, ok := decl.(*ast.ConstantDecl)
		if !ok {
			return types.Value{}, false
		}
		return r.evalConst(c.Value, scope, env_)
	case *ast.Unary:
		operand, ok := r.evalConst(v.Operand, scope, env_)
		if !ok {
			return types.Value{}, false
		}
		return foldUnary(v.Op, operand)
	case *ast.Binary:
		left, ok := r.evalConst(v.Left, scope, env_)
		if !ok {
			return types.Value{}, false
		}
		right, ok := r.evalConst(v.Right, scope, env_)
		if !ok {
			return types.Value{}, false
		}
		return foldBinary(v.Op, left, right)
	case *ast.Cast:
		operand, ok := r.evalConst(v.Operand, scope, env_)
		if !ok {
			return types.Value{}, false
		}
		target, ok := r.resolveType(v.Target, scope, env_)
		if !ok {
			return types.Value{}, false
		}
		return types.CastValue(operand, target), true
	default:
		return types.Value{}, false
	}
}

// evalConstInt folds e and requires the result to be an integer.
func (r *Resolver) evalConstInt(e ast.Expr, scope *ast.Scope, env_ *env) (int64, bool) {
	v, ok := r.evalConst(e, scope, env_)
	if !ok {
		return 0, false
	}
	switch t := v.Type.(type) {
	case *types.PrimitiveType:
		if !t.Kind.IsInteger() {
			return 0, false
		}
		if t.Kind == types.I64 {
			return v.AsI64(), true
		}
		return int64(v.AsI32()), true
	case *types.BoundedIntType:
		return int64(v.AsI32()), true
	default:
		return 0, false
	}
}

func literalValue(l *ast.Literal) (types.Value, bool) {
	switch l.LitKind {
	case ast.BoolLit:
		return types.NewBoolValue(types.NewPrimitive(types.Bool), l.Bool), true
	case ast.IntLit:
		return types.NewI32Value(types.NewPrimitive(types.I32), int32(l.Int)), true
	case ast.FloatLit:
		return types.NewF32Value(types.NewPrimitive(types.F32), float32(l.Float)), true
	default:
		return types.Value{}, false
	}
}

func foldUnary(op ast.UnaryOp, v types.Value) (types.Value, bool) {
	switch op {
	case ast.Neg:
		if p, ok := v.Type.(*types.PrimitiveType); ok {
			if p.Kind == types.I32 {
				return types.NewI32Value(p, -v.AsI32()), true
			}
			if p.Kind == types.I64 {
				return types.NewI64Value(p, -v.AsI64()), true
			}
			if p.Kind == types.F32 {
				return types.NewF32Value(p, -v.AsF32()), true
			}
			if p.Kind == types.F64 {
				return types.NewF64Value(p, -v.AsF64()), true
			}
		}
	case ast.Not:
		if p, ok := v.Type.(*types.PrimitiveType); ok && p.Kind == types.Bool {
			return types.NewBoolValue(p, !v.AsBool()), true
		}
	}
	return types.Value{}, false
}

func foldBinary(op ast.BinaryOp, l, r types.Value) (types.Value, bool) {
	lp, lok := l.Type.(*types.PrimitiveType)
	rp, rok := r.Type.(*types.PrimitiveType)
	if !lok || !rok {
		return types.Value{}, false
	}
	if lp.Kind.IsInteger() && rp.Kind.IsInteger() {
		a, b := int64(l.AsI32()), int64(r.AsI32())
		if lp.Kind == types.I64 {
			a = l.AsI64()
		}
		if rp.Kind == types.I64 {
			b = r.AsI64()
		}
		result, isBool, ok := foldIntOp(op, a, b)
		if !ok {
			return types.Value{}, false
		}
		if isBool {
			return types.NewBoolValue(types.NewPrimitive(types.Bool), result != 0), true
		}
		return types.NewI32Value(types.NewPrimitive(types.I32), int32(result)), true
	}
	if lp.Kind.IsFloat() && rp.Kind.IsFloat() {
		a, b := float64(l.AsF32()), float64(r.AsF32())
		if lp.Kind == types.F64 {
			a = l.AsF64()
		}
		if rp.Kind == types.F64 {
			b = r.AsF64()
		}
		result, isBool, ok := foldFloatOp(op, a, b)
		if !ok {
			return types.Value{}, false
		}
		if isBool {
			return types.NewBoolValue(types.NewPrimitive(types.Bool), result != 0), true
		}
		return types.NewF32Value(types.NewPrimitive(types.F32), float32(result)), true
	}
	return types.Value{}, false
}

func foldIntOp(op ast.BinaryOp, a, b int64) (int64, bool, bool) {
	switch op {
	case ast.Add:
		return a + b, false, true
	case ast.Sub:
		return a - b, false, true
	case ast.Mul:
		return a * b, false, true
	case ast.Div:
		if b == 0 {
			return 0, false, false
		}
		return a / b, false, true
	case ast.Mod:
		if b == 0 {
			return 0, false, false
		}
		return a % b, false, true
	case ast.Eq:
		return boolToInt(a == b), true, true
	case ast.Ne:
		return boolToInt(a != b), true, true
	case ast.Lt:
		return boolToInt(a < b), true, true
	case ast.Le:
		return boolToInt(a <= b), true, true
	case ast.Gt:
		return boolToInt(a > b), true, true
	case ast.Ge:
		return boolToInt(a >= b), true, true
	default:
		return 0, false, false
	}
}

func foldFloatOp(op ast.BinaryOp, a, b float64) (float64, bool, bool) {
	switch op {
	case ast.Add:
		return a + b, false, true
	case ast.Sub:
		return a - b, false, true
	case ast.Mul:
		return a * b, false, true
	case ast.Div:
		return a / b, false, true
	case ast.Eq:
		return boolToFloat(a == b), true, true
	case ast.Ne:
		return boolToFloat(a != b), true, true
	case ast.Lt:
		return boolToFloat(a < b), true, true
	case ast.Le:
		return boolToFloat(a <= b), true, true
	case ast.Gt:
		return boolToFloat(a > b), true, true
	case ast.Ge:
		return boolToFloat(a >= b), true, true
	default:
		return 0, false, false
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
