package types

// CanSilentlyCastTo implements spec.md §4.1's silent-cast rule set:
// identical types; widening primitive-numeric conversions; bounded-int to
// integer (and back) honouring the mode; vector-of-size-1 <-> primitive;
// any type -> const T; adding/removing a reference; struct field-wise and
// array element-wise casts are handled at the expression level (they need
// a comma-list of source expressions, not just two types) and are not
// modelled here.
func CanSilentlyCastTo(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.Equals(to) {
		return true
	}
	// any type -> const T (ignoring reference).
	if bare := stripConst(to); from.Equals(bare) {
		return true
	}
	// adding/removing a reference on an otherwise-identical type.
	if sameIgnoringReference(from, to) {
		return true
	}
	// removing const is never silent.
	if from.IsConst() && !to.IsConst() {
		return false
	}

	switch f := from.(type) {
	case *PrimitiveType:
		t, ok := to.(*PrimitiveType)
		if !ok {
			return false
		}
		return canWidenPrimitive(f.Kind, t.Kind)
	case *BoundedIntType:
		if t, ok := to.(*PrimitiveType); ok {
			return t.Kind.IsInteger()
		}
	case *VectorType:
		if f.Width == 1 {
			if t, ok := to.(*PrimitiveType); ok {
				return t.Kind == f.Elem
			}
		}
	}

	if t, ok := to.(*BoundedIntType); ok {
		if f, ok := from.(*PrimitiveType); ok && f.Kind.IsInteger() {
			return true
		}
		_ = t
	}

	if t, ok := to.(*VectorType); ok && t.Width == 1 {
		if f, ok := from.(*PrimitiveType); ok {
			return f.Kind == t.Elem
		}
	}

	return false
}

// CanExplicitlyCastTo implements spec.md §4.1's explicit-cast rule set: the
// silent-cast set plus primitive-narrowing and integer<->float casts.
func CanExplicitlyCastTo(from, to Type) bool {
	if CanSilentlyCastTo(from, to) {
		return true
	}
	f, ok1 := from.(*PrimitiveType)
	t, ok2 := to.(*PrimitiveType)
	if !ok1 || !ok2 {
		return false
	}
	if f.Kind.IsNumeric() && t.Kind.IsNumeric() {
		return true // narrowing and int<->float
	}
	return false
}

func canWidenPrimitive(from, to Primitive) bool {
	if from == to {
		return true
	}
	if from.IsInteger() && to.IsInteger() {
		return widenRank(to) >= widenRank(from)
	}
	if from.IsFloat() && to.IsFloat() {
		return widenRank(to) >= widenRank(from)
	}
	return false
}

func stripConst(t Type) Type {
	switch v := t.(type) {
	case *PrimitiveType:
		c := *v
		c.constFlag = false
		return &c
	case *VectorType:
		c := *v
		c.constFlag = false
		return &c
	case *FixedArrayType:
		c := *v
		c.constFlag = false
		return &c
	case *UnsizedArrayType:
		c := *v
		c.constFlag = false
		return &c
	case *StructType:
		c := *v
		c.constFlag = false
		return &c
	case *BoundedIntType:
		c := *v
		c.constFlag = false
		return &c
	case *VoidType:
		c := *v
		c.constFlag = false
		return &c
	default:
		return t
	}
}

func sameIgnoringReference(a, b Type) bool {
	ar, br := a.IsReference(), b.IsReference()
	if ar == br {
		return false // handled by Equals already
	}
	return withReference(a, br).Equals(b)
}

func withReference(t Type, ref bool) Type {
	switch v := t.(type) {
	case *PrimitiveType:
		c := *v
		c.refFlag = ref
		return &c
	case *VectorType:
		c := *v
		c.refFlag = ref
		return &c
	case *FixedArrayType:
		c := *v
		c.refFlag = ref
		return &c
	case *UnsizedArrayType:
		c := *v
		c.refFlag = ref
		return &c
	case *StructType:
		c := *v
		c.refFlag = ref
		return &c
	case *BoundedIntType:
		c := *v
		c.refFlag = ref
		return &c
	case *VoidType:
		c := *v
		c.refFlag = ref
		return &c
	default:
		return t
	}
}

// PickUnambiguousCast resolves an overload/target ambiguity per spec.md
// §4.1: if more than one candidate accepts source by silent cast and none
// is exactly equal to source, the caller must report "ambiguous cast". It
// returns the index of the sole exact match, the index of the sole silent
// candidate, or -1, false if there is a genuine tie.
func PickUnambiguousCast(source Type, candidates []Type) (index int, ok bool) {
	exact := -1
	silent := -1
	silentCount := 0
	for i, c := range candidates {
		if source.Equals(c) {
			if exact != -1 {
				return -1, false
			}
			exact = i
			continue
		}
		if CanSilentlyCastTo(source, c) {
			silent = i
			silentCount++
		}
	}
	if exact != -1 {
		return exact, true
	}
	if silentCount == 1 {
		return silent, true
	}
	return -1, false
}
