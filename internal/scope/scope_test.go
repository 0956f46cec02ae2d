package scope

import "testing"

func TestDefineLocalRejectsDuplicate(t *testing.T) {
	s := NewRoot()
	if !s.DefineLocal(1, Entry{Value: "a"}) {
		t.Fatalf("first definition should succeed")
	}
	if s.DefineLocal(1, Entry{Value: "b"}) {
		t.Fatalf("duplicate local definition should be rejected")
	}
}

func TestTypeScopeImportCycleTerminates(t *testing.T) {
	a := NewTypeRoot()
	b := NewTypeRoot()
	a.AddImport(b, true)
	b.AddImport(a, true)

	DefineType(a, 100, Entry{Value: "only-in-a"})
	a.Exports[100] = a.Local[100]

	if errs := ResolveImports(a); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if errs := ResolveImports(b); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if _, ok := LookupType(b, 100); !ok {
		t.Fatalf("b should see a's exported name through the cycle")
	}
	if _, ok := LookupType(a, 100); !ok {
		t.Fatalf("a should still see its own name")
	}
}

func TestTypeScopeDuplicateNameDifferentTargetsErrors(t *testing.T) {
	a := NewTypeRoot()
	b := NewTypeRoot()
	c := NewTypeRoot()

	DefineType(b, 7, Entry{Value: "from-b"})
	b.Exports[7] = b.Local[7]
	DefineType(c, 7, Entry{Value: "from-c"})
	c.Exports[7] = c.Local[7]

	a.AddImport(b, true)
	a.AddImport(c, true)

	errs := ResolveImports(a)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one duplicate-identifier error, got %d: %v", len(errs), errs)
	}
}

func TestValueScopeLookupOrder(t *testing.T) {
	parent := NewValueRoot()
	DefineType(parent.Scope, 1, Entry{Value: "parent-local"})

	child := NewValueChild(parent)
	DefineType(child.Scope, 2, Entry{Value: "child-local"})

	qualified := NewValueRoot()
	DefineType(qualified.Scope, 3, Entry{Value: "qualified"})
	qualified.Exports[3] = qualified.Local[3]
	child.AddFullyQualifiedImport(qualified, false)

	wildcard := NewValueRoot()
	DefineType(wildcard.Scope, 3, Entry{Value: "wildcard-shadowed"})
	wildcard.Exports[3] = wildcard.Local[3]
	DefineType(wildcard.Scope, 4, Entry{Value: "wildcard-only"})
	wildcard.Exports[4] = wildcard.Local[4]
	child.AddWildcardImport(wildcard, false)

	if e, ok := LookupValue(child, 2, nil); !ok || e.Value != "child-local" {
		t.Fatalf("expected child local to win")
	}
	if e, ok := LookupValue(child, 1, nil); !ok || e.Value != "parent-local" {
		t.Fatalf("expected parent-chain lookup to find parent local")
	}
	if e, ok := LookupValue(child, 3, nil); !ok || e.Value != "qualified" {
		t.Fatalf("fully-qualified import should win over wildcard for name 3, got %v", e.Value)
	}
	if e, ok := LookupValue(child, 4, nil); !ok || e.Value != "wildcard-only" {
		t.Fatalf("wildcard import should supply name 4")
	}
	if _, ok := LookupValue(child, 999, nil); ok {
		t.Fatalf("unknown name should fail without a fileVisible fallback")
	}
}
