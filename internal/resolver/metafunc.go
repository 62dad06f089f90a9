package resolver

import (
	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/types"
)

// resolveMetaFunction evaluates one of the closed set of type
// meta-functions (spec.md §4.3) against m.Operand. It returns either a
// types.Type (isType == true) for the type-producing functions, or a
// types.Value (isType == false) for the value-producing predicates and
// `size`. A *MetaFunctionError from internal/types is surfaced as the
// function's documented precondition violation.
func (r *Resolver) resolveMetaFunction(m *ast.MetaFunction, scope *ast.Scope, e *env) (any, bool) {
	operand, ok := r.resolveType(m.Operand, scope, e)
	if !ok {
		return nil, false
	}

	switch m.Function {
	case "makeConst":
		return types.MakeConst(operand), true
	case "makeConstSilent":
		return types.MakeConstSilent(operand), true
	case "makeReference":
		return types.MakeReference(operand), true
	case "removeReference":
		return types.RemoveReference(operand), true
	case "elementType":
		t, err := types.ElementTypeOf(operand)
		if err != nil {
			r.metaError(m, err)
			return nil, false
		}
		return t, true
	case "primitiveType":
		p, err := types.PrimitiveTypeOf(operand)
		if err != nil {
			r.metaError(m, err)
			return nil, false
		}
		return types.NewPrimitive(p), true
	case "size":
		n, err := types.SizeOf(operand)
		if err != nil {
			r.metaError(m, err)
			return nil, false
		}
		return types.NewI32Value(types.NewPrimitive(types.I32), int32(n)), false
	case "isVector":
		return boolValue(types.IsVector(operand)), false
	case "isStruct":
		return boolValue(types.IsStruct(operand)), false
	case "isBoundedInt":
		return boolValue(types.IsBoundedInt(operand)), false
	case "isVoid":
		return boolValue(types.IsVoid(operand)), false
	case "isFloat32":
		return boolValue(types.IsFloat32(operand)), false
	case "isFloat64":
		return boolValue(types.IsFloat64(operand)), false
	case "isInteger":
		return boolValue(types.IsIntegerType(operand)), false
	case "isArray":
		return boolValue(types.IsArray(operand)), false
	default:
		r.diags.Add(diagnostics.NewError(diagnostics.NotYetImplemented, "unknown type meta-function '"+m.Function+"'").
			WithPrimaryLabel(m.Loc(), "unknown meta-function"))
		return nil, false
	}
}

func boolValue(b bool) types.Value {
	return types.NewBoolValue(types.NewPrimitive(types.Bool), b)
}

func (r *Resolver) metaError(m *ast.MetaFunction, err error) {
	r.diags.Add(diagnostics.NewError(diagnostics.CannotTakeSizeOf, err.Error()).
		WithPrimaryLabel(m.Loc(), "meta-function precondition violated"))
}
