package resolver

import (
	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
	"signalcore/internal/types"
)

func builtinPrimitive(name string) (types.Primitive, bool) {
	switch name {
	case "bool":
		return types.Bool, true
	case "i32":
		return types.I32, true
	case "i64":
		return types.I64, true
	case "f32":
		return types.F32, true
	case "f64":
		return types.F64, true
	case "string":
		return types.String, true
	default:
		return 0, false
	}
}

func identName(e ast.Expr) (string, bool) {
	switch v := e.(type) {
	case *ast.Identifier:
		return v.Name, true
	case *ast.QualifiedIdent:
		if len(v.Parts) == 1 {
			return v.Parts[0], true
		}
	}
	return "", false
}

// resolveType resolves a TypeNode into exactly one instantiated Type,
// consulting e's generic substitution map before scope lookup so a
// generic parameter name shadows any same-named declaration in scope.
func (r *Resolver) resolveType(t ast.TypeNode, scope *ast.Scope, e *env) (types.Type, bool) {
	if t == nil {
		return types.NewVoid(), true
	}
	switch tn := t.(type) {
	case *ast.NamedTypeExpr:
		return r.resolveNamedType(tn, scope, e)
	case *ast.ArrayTypeExpr:
		elem, ok := r.resolveType(tn.Elem, scope, e)
		if !ok {
			return nil, false
		}
		if tn.Size == nil {
			return types.NewUnsizedArray(elem), true
		}
		n, ok := r.evalConstInt(tn.Size, scope, e)
		if !ok {
			r.diags.Add(diagnostics.NewError(diagnostics.NonIntegerArraySize, "array size must be a compile-time integer constant").
				WithPrimaryLabel(tn.Size.Loc(), "not a constant integer"))
			return nil, false
		}
		if n <= 0 {
			r.diags.Add(diagnostics.NewError(diagnostics.IllegalArraySize, "array size must be positive").
				WithPrimaryLabel(tn.Size.Loc(), "illegal size"))
			return nil, false
		}
		if types.IsArray(elem) {
			r.diags.Add(diagnostics.NewError(diagnostics.IllegalTypeForEndpoint, "multidimensional arrays are not supported").
				WithPrimaryLabel(tn.Loc(), "array of arrays"))
			return nil, false
		}
		return types.NewFixedArray(elem, int(n)), true
	case *ast.VectorTypeExpr:
		elemT, ok := r.resolveType(tn.Elem, scope, e)
		if !ok {
			return nil, false
		}
		prim, ok := elemT.(*types.PrimitiveType)
		if !ok {
			r.diags.Add(diagnostics.NewError(diagnostics.IllegalTypeForEndpoint, "vector element must be a primitive type").
				WithPrimaryLabel(tn.Elem.Loc(), "not a primitive"))
			return nil, false
		}
		width, ok := r.evalConstInt(tn.Width, scope, e)
		if !ok || width <= 0 {
			r.diags.Add(diagnostics.NewError(diagnostics.NonIntegerArraySize, "vector width must be a positive compile-time integer constant").
				WithPrimaryLabel(tn.Width.Loc(), "invalid width"))
			return nil, false
		}
		return types.NewVector(prim.Kind, int(width)), true
	case *ast.BoundedIntTypeExpr:
		limit, ok := r.evalConstInt(tn.Limit, scope, e)
		if !ok {
			r.diags.Add(diagnostics.NewError(diagnostics.NonIntegerArraySize, "bounded_int limit must be a compile-time integer constant").
				WithPrimaryLabel(tn.Limit.Loc(), "invalid limit"))
			return nil, false
		}
		mode := types.Wrap
		if tn.Mode == "clamp" {
			mode = types.Clamp
		}
		return types.NewBoundedInt(limit, mode), true
	case *ast.MetaFunction:
		result, isType := r.resolveMetaFunction(tn, scope, e)
		if !isType {
			r.diags.Add(diagnostics.NewError(diagnostics.ExpectedType, "expected a type-producing meta-function here").
				WithPrimaryLabel(tn.Loc(), "does not produce a type"))
			return nil, false
		}
		return result.(types.Type), true
	default:
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedType, "expected a type").
			WithPrimaryLabel(t.Loc(), "not a type"))
		return nil, false
	}
}

func (r *Resolver) resolveNamedType(tn *ast.NamedTypeExpr, scope *ast.Scope, e *env) (types.Type, bool) {
	name, ok := identName(tn.Name)
	if !ok {
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedType, "expected a type name").
			WithPrimaryLabel(tn.Loc(), "not a simple or qualified name"))
		return nil, false
	}

	if gt, ok := e.lookupGeneric(name); ok {
		return applyModifiers(gt, tn.Const, tn.Reference), true
	}

	if prim, ok := builtinPrimitive(name); ok {
		t := types.NewPrimitive(prim)
		return applyModifiers(t, tn.Const, tn.Reference), true
	}
	if name == "void" {
		return applyModifiers(types.NewVoid(), tn.Const, tn.Reference), true
	}

	decl, ok := scope.Lookup(name)
	if !ok {
		r.unresolved(tn.Loc(), name)
		return nil, false
	}
	switch d := decl.(type) {
	case *ast.StructDecl:
		st, ok := r.structType(d, scope, e)
		if !ok {
			return nil, false
		}
		return applyModifiers(st, tn.Const, tn.Reference), true
	case *ast.UsingDecl:
		target, ok := r.resolveType(d.Target, scope, e)
		if !ok {
			return nil, false
		}
		return applyModifiers(target, tn.Const, tn.Reference), true
	default:
		r.diags.Add(diagnostics.NewError(diagnostics.ExpectedType, "'"+name+"' does not name a type").
			WithPrimaryLabel(tn.Loc(), "not a type"))
		return nil, false
	}
}

func applyModifiers(t types.Type, isConst, isRef bool) types.Type {
	if isConst {
		t = types.MakeConst(t)
	}
	if isRef {
		t = types.MakeReference(t)
	}
	return t
}

func (r *Resolver) structType(decl *ast.StructDecl, scope *ast.Scope, e *env) (*types.StructType, bool) {
	id := r.structID(decl)
	fields := make([]types.StructField, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		ft, ok := r.resolveType(f.Type, scope, e)
		if !ok {
			return nil, false
		}
		if ft.IsConst() {
			r.diags.Add(diagnostics.NewError(diagnostics.MemberCannotBeConst, "struct member '"+f.Name+"' cannot be const").
				WithPrimaryLabel(f.Loc(), "const member"))
		}
		fields = append(fields, types.StructField{Name: f.Name, Type: ft})
	}
	st := types.NewStruct(decl.Name, fields, id)
	if st.ContainsSelf() {
		r.diags.Add(diagnostics.NewError(diagnostics.TypeContainsItself, "struct '"+decl.Name+"' contains itself").
			WithPrimaryLabel(decl.Loc(), "recursive struct"))
		return nil, false
	}
	return st, true
}

func (r *Resolver) resolveStruct(decl *ast.StructDecl, scope *ast.Scope) {
	r.structType(decl, scope, newEnv())
}
