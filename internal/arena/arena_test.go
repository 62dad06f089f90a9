package arena

import "testing"

func TestAllocGetSet(t *testing.T) {
	a := New[string]()
	h1 := a.Alloc("foo")
	h2 := a.Alloc("bar")
	if h1 == h2 {
		t.Fatal("distinct allocations should get distinct handles")
	}
	if a.Get(h1) != "foo" || a.Get(h2) != "bar" {
		t.Fatalf("got %q, %q", a.Get(h1), a.Get(h2))
	}
	a.Set(h1, "baz")
	if a.Get(h1) != "baz" {
		t.Errorf("Set did not take effect, got %q", a.Get(h1))
	}
}

func TestParentSideTable(t *testing.T) {
	a := New[int]()
	scope := a.Alloc(0)
	child := a.Alloc(1)
	a.SetParent(child, scope)
	if a.Parent(child) != scope {
		t.Errorf("Parent(child) = %v, want %v", a.Parent(child), scope)
	}
	if a.Parent(scope) != 0 {
		t.Errorf("Parent(scope) = %v, want 0 (unset)", a.Parent(scope))
	}
}

func TestHandlesExcludesReservedZero(t *testing.T) {
	a := New[int]()
	a.Alloc(1)
	a.Alloc(2)
	hs := a.Handles()
	if len(hs) != 2 {
		t.Fatalf("expected 2 handles, got %d", len(hs))
	}
	for _, h := range hs {
		if h == 0 {
			t.Error("reserved zero handle should not appear in Handles()")
		}
	}
}

func TestCloneRemapsIndependently(t *testing.T) {
	a := New[int]()
	h := a.Alloc(5)
	clone, remap := a.Clone(func(v int) int { return v * 2 })
	if clone.Get(remap[h]) != 10 {
		t.Errorf("clone value = %d, want 10", clone.Get(remap[h]))
	}
	a.Set(h, 99)
	if clone.Get(remap[h]) == 99 {
		t.Error("clone should be independent of the original arena")
	}
}
