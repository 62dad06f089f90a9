package types

import "testing"

func TestPrimitiveEquals(t *testing.T) {
	if !NewPrimitive(I32).Equals(NewPrimitive(I32)) {
		t.Error("i32 should equal i32")
	}
	if NewPrimitive(I32).Equals(NewPrimitive(I64)) {
		t.Error("i32 should not equal i64")
	}
}

func TestVectorInvariantElementIsPrimitive(t *testing.T) {
	v := NewVector(F32, 4)
	if v.Size() != 16 {
		t.Errorf("vector<f32,4> size = %d, want 16", v.Size())
	}
	if v.String() != "vector<f32, 4>" {
		t.Errorf("String() = %q", v.String())
	}
}

func TestStructNominalEquality(t *testing.T) {
	a := NewStruct("Point", []StructField{{Name: "x", Type: NewPrimitive(F32)}}, 1)
	b := NewStruct("Point", []StructField{{Name: "x", Type: NewPrimitive(F32)}}, 1)
	c := NewStruct("Point", []StructField{{Name: "x", Type: NewPrimitive(F32)}}, 2)

	if !a.Equals(b) {
		t.Error("structs sharing a declID should be equal")
	}
	if a.Equals(c) {
		t.Error("structs with different declIDs should not be equal even if structurally identical")
	}
}

func TestStructContainsSelf(t *testing.T) {
	self := &StructType{Name: "Node", declID: 7}
	self.Fields = []StructField{{Name: "next", Type: self}}
	if !self.ContainsSelf() {
		t.Error("expected self-referential struct to be detected")
	}

	ok := &StructType{Name: "Leaf", declID: 8, Fields: []StructField{{Name: "v", Type: NewPrimitive(I32)}}}
	if ok.ContainsSelf() {
		t.Error("non-recursive struct should not be flagged")
	}
}

func TestBoundedIntWrapNormalisation(t *testing.T) {
	b := NewBoundedInt(8, Wrap)
	cases := map[int64]int64{
		0: 0, 7: 7, 8: 0, 9: 1, -1: 7, -8: 0, -9: 7, 16: 0,
	}
	for n, want := range cases {
		if got := b.Normalize(n); got != want {
			t.Errorf("wrap(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestBoundedIntClampNormalisation(t *testing.T) {
	b := NewBoundedInt(8, Clamp)
	cases := map[int64]int64{
		0: 0, 7: 7, 8: 7, 100: 7, -1: 0, -100: 0,
	}
	for n, want := range cases {
		if got := b.Normalize(n); got != want {
			t.Errorf("clamp(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestCastTotality(t *testing.T) {
	// canSilentlyCastTo(a,b) => canCastTo(a,b) (spec.md §8).
	pairs := [][2]Type{
		{NewPrimitive(I32), NewPrimitive(I64)},
		{NewPrimitive(F32), NewPrimitive(F64)},
		{NewVector(F32, 1), NewPrimitive(F32)},
		{NewBoundedInt(16, Wrap), NewPrimitive(I32)},
	}
	for _, p := range pairs {
		if !CanSilentlyCastTo(p[0], p[1]) {
			t.Fatalf("expected %s to silently cast to %s", p[0], p[1])
		}
		if !CanExplicitlyCastTo(p[0], p[1]) {
			t.Errorf("silent cast %s -> %s should imply explicit cast", p[0], p[1])
		}
	}
}

func TestExplicitCastSupersetOfSilent(t *testing.T) {
	// Narrowing i64 -> i32 is explicit-only.
	if CanSilentlyCastTo(NewPrimitive(I64), NewPrimitive(I32)) {
		t.Error("narrowing i64->i32 should not be a silent cast")
	}
	if !CanExplicitlyCastTo(NewPrimitive(I64), NewPrimitive(I32)) {
		t.Error("narrowing i64->i32 should be an explicit cast")
	}
	// int <-> float is explicit-only.
	if CanSilentlyCastTo(NewPrimitive(I32), NewPrimitive(F32)) {
		t.Error("i32->f32 should not be silent")
	}
	if !CanExplicitlyCastTo(NewPrimitive(I32), NewPrimitive(F32)) {
		t.Error("i32->f32 should be an explicit cast")
	}
}

func TestConstAndReferenceModifiers(t *testing.T) {
	base := NewPrimitive(I32)
	if !CanSilentlyCastTo(base, base.WithConst()) {
		t.Error("any type should silently cast to const T")
	}
	if CanSilentlyCastTo(base.WithConst(), base) {
		t.Error("const T should not silently cast back to T")
	}
	ref := base.WithReference()
	if !CanSilentlyCastTo(base, ref) || !CanSilentlyCastTo(ref, base) {
		t.Error("adding/removing a reference should silently cast both ways")
	}
}

func TestAmbiguousCastDetection(t *testing.T) {
	source := NewPrimitive(I32)
	candidates := []Type{NewPrimitive(I64), NewPrimitive(F64)}
	// i32 only widens to i64, not f64: unambiguous.
	if _, ok := PickUnambiguousCast(source, candidates); !ok {
		t.Error("expected a single viable candidate to resolve unambiguously")
	}

	tied := []Type{NewVector(I32, 1), NewPrimitive(I32)}
	// i32 is exactly equal to the second candidate, so that should win outright.
	idx, ok := PickUnambiguousCast(source, tied)
	if !ok || idx != 1 {
		t.Errorf("expected exact match to win, got idx=%d ok=%v", idx, ok)
	}
}

func TestElementTypeAndIsArray(t *testing.T) {
	fa := NewFixedArray(NewPrimitive(F32), 4)
	if !IsArray(fa) {
		t.Error("fixed array should report IsArray")
	}
	if ElementType(fa).(*PrimitiveType).Kind != F32 {
		t.Error("element type of fixed_array<f32,4> should be f32")
	}
	ua := NewUnsizedArray(NewPrimitive(I32))
	if !IsArray(ua) {
		t.Error("unsized array should report IsArray")
	}
}
