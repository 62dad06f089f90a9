package types

import "testing"

func TestCastRoundTrip(t *testing.T) {
	// cast<T>(cast<U>(v)) == v for every primitive v:T and wider U (spec.md §8).
	i32 := NewPrimitive(I32)
	i64 := NewPrimitive(I64)
	v := NewI32Value(i32, 12345)

	widened := CastValue(v, i64)
	narrowed := CastValue(widened, i32)
	if narrowed.AsI32() != v.AsI32() {
		t.Errorf("round trip i32->i64->i32 = %d, want %d", narrowed.AsI32(), v.AsI32())
	}

	f32 := NewPrimitive(F32)
	f64 := NewPrimitive(F64)
	fv := NewF32Value(f32, 3.5)
	fWide := CastValue(fv, f64)
	fNarrow := CastValue(fWide, f32)
	if fNarrow.AsF32() != fv.AsF32() {
		t.Errorf("round trip f32->f64->f32 = %v, want %v", fNarrow.AsF32(), fv.AsF32())
	}
}

func TestCastValueBoundedInt(t *testing.T) {
	b := NewBoundedInt(8, Wrap)
	v := NewI32Value(NewPrimitive(I32), 11)
	cast := CastValue(v, b)
	if cast.AsI32() != 3 {
		t.Errorf("11 wrapped into bounded_int<8> = %d, want 3", cast.AsI32())
	}
}

func TestStringDictionaryInternAndGC(t *testing.T) {
	d := NewStringDictionary()
	a := d.Intern("out")
	b := d.Intern("in")
	c := d.Intern("out") // re-intern, should reuse handle a
	if a != c {
		t.Errorf("re-interning should reuse the handle: %d != %d", a, c)
	}

	d.GC(map[uint32]bool{a: true})

	if _, ok := d.Lookup(a); !ok {
		t.Error("live handle should still resolve after GC")
	}
	if _, ok := d.Lookup(b); ok {
		t.Error("unreferenced handle should be gone after GC")
	}
}

func TestConstantTable(t *testing.T) {
	ct := NewConstantTable()
	h := ct.Add([]Value{NewI32Value(NewPrimitive(I32), 1), NewI32Value(NewPrimitive(I32), 2)})
	got, ok := ct.Get(h)
	if !ok || len(got) != 2 {
		t.Fatalf("expected 2 elements at handle %d, got %v ok=%v", h, got, ok)
	}
	if _, ok := ct.Get(h + 1); ok {
		t.Error("expected out-of-range handle to fail")
	}
}
