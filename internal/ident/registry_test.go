package ident

import "testing"

func TestRegisterIdempotent(t *testing.T) {
	r := NewStringRegistry()
	a := r.Register("foo")
	b := r.Register("foo")
	if a != b {
		t.Fatalf("Register not idempotent: %v != %v", a, b)
	}
	c := r.Register("bar")
	if a == c {
		t.Fatalf("distinct strings got the same id")
	}
}

func TestAtRoundTrips(t *testing.T) {
	r := NewStringRegistry()
	ids := r.RegisterMany([]string{"alpha", "beta", "gamma"})
	for i, s := range []string{"alpha", "beta", "gamma"} {
		got, ok := r.At(ids[i])
		if !ok || got != s {
			t.Fatalf("At(%v) = %q, %v; want %q, true", ids[i], got, ok, s)
		}
	}
}

func TestAtInvalid(t *testing.T) {
	r := NewStringRegistry()
	if _, ok := r.At(Invalid); ok {
		t.Fatalf("At(Invalid) should fail")
	}
	if _, ok := r.At(999); ok {
		t.Fatalf("At(unregistered) should fail")
	}
}

func TestMatlabIdentifierComponents(t *testing.T) {
	r := NewStringRegistry()
	simple := NewMatlabIdentifier(r, "foo")
	if simple.IsCompound() {
		t.Fatalf("foo should not be compound")
	}
	dotted := NewMatlabIdentifier(r, "obj.method")
	if !dotted.IsCompound() || dotted.ComponentCount != 2 {
		t.Fatalf("obj.method should have 2 components, got %d", dotted.ComponentCount)
	}
}
