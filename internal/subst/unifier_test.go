package subst

import (
	"testing"

	"github.com/nfagan/mtype-sub001/internal/typesys"
)

func newFixture() (*typesys.Store, *Substitution, *Unifier) {
	store := typesys.NewStore()
	sub := New()
	u := NewUnifier(store, sub)
	return store, sub, u
}

func TestUnifyVariableWithScalar(t *testing.T) {
	store, sub, u := newFixture()
	v := store.FreshVariable("t1")
	dbl := store.AllocScalar(1)
	if !u.Unify(v, dbl) {
		t.Fatalf("expected success, got diagnostics: %v", u.Diagnostics)
	}
	if sub.Resolve(v) != typesys.Term(dbl) {
		t.Fatalf("variable should resolve to the scalar it was bound to")
	}
}

func TestUnifySymmetry(t *testing.T) {
	store, _, u1 := newFixture()
	a := store.AllocScalar(1)
	b := store.FreshVariable("t1")
	if !u1.Unify(a, b) {
		t.Fatalf("a,b should unify")
	}

	_, _, u2 := newFixture()
	a2 := store.AllocScalar(1)
	b2 := store.FreshVariable("t2")
	if !u2.Unify(b2, a2) {
		t.Fatalf("b,a should also unify")
	}
}

func TestUnifyScalarNameMismatchFails(t *testing.T) {
	store, _, u := newFixture()
	a := store.AllocScalar(1)
	b := store.AllocScalar(2)
	if u.Unify(a, b) {
		t.Fatalf("differing scalar names must fail")
	}
	if len(u.Diagnostics) == 0 {
		t.Fatalf("expected a diagnostic to be recorded")
	}
}

func TestSchemeInstantiationFreshness(t *testing.T) {
	store := typesys.NewStore()
	p := store.FreshVariable("a")
	scheme := store.AllocScheme([]*typesys.Variable{p}, store.AllocTuple(p, p))

	i1 := store.Instantiate(scheme)
	i2 := store.Instantiate(scheme)
	if i1 == i2 {
		t.Fatalf("two instantiations must not share identity")
	}
	t1 := i1.(*typesys.Tuple)
	t2 := i2.(*typesys.Tuple)
	if t1.Elements[0] != t1.Elements[1] {
		t.Fatalf("sharing within one instantiation must be preserved")
	}
	if t1.Elements[0] == t2.Elements[0] {
		t.Fatalf("two instantiations must not share type variables")
	}
}

func TestUnifyDefinitionOutputsDiscardsExtras(t *testing.T) {
	store, _, u := newFixture()
	dblA := store.AllocScalar(1)
	dblB := store.AllocScalar(1)
	def := store.AllocDestructuredTuple(typesys.DefinitionOutputs, dblA, store.AllocScalar(2))
	use := store.AllocDestructuredTuple(typesys.Rvalue, dblB)
	if !u.Unify(def, use) {
		t.Fatalf("extra definition outputs should be discarded, not fail: %v", u.Diagnostics)
	}
}

func TestUnifyDefinitionInputsVarargin(t *testing.T) {
	store, _, u := newFixture()
	v := store.FreshVariable("elem")
	def := store.AllocDestructuredTuple(typesys.DefinitionInputs, store.AllocList(v))
	a := store.AllocScalar(1)
	b := store.AllocScalar(1)
	use := store.AllocDestructuredTuple(typesys.Rvalue, a, b)
	if !u.Unify(def, use) {
		t.Fatalf("varargin should absorb extra rvalue args: %v", u.Diagnostics)
	}
}

func TestUnifyRvalueExactArityFails(t *testing.T) {
	store, _, u := newFixture()
	l := store.AllocDestructuredTuple(typesys.Rvalue, store.AllocScalar(1))
	r := store.AllocDestructuredTuple(typesys.Rvalue, store.AllocScalar(1), store.AllocScalar(1))
	if u.Unify(l, r) {
		t.Fatalf("exact rvalue arity mismatch must fail")
	}
}

func TestApplicationAgainstSchemeInstantiates(t *testing.T) {
	store, sub, u := newFixture()
	alpha := store.FreshVariable("alpha")
	inputs := store.AllocDestructuredTuple(typesys.DefinitionInputs, alpha)
	outputs := store.AllocDestructuredTuple(typesys.DefinitionOutputs, alpha)
	idAbs := store.AllocAbstraction(typesys.AbsFunction, inputs, outputs)
	scheme := store.AllocScheme([]*typesys.Variable{alpha}, idAbs)

	dbl := store.AllocScalar(1)
	outVar := store.FreshVariable("r")
	appIn := store.AllocDestructuredTuple(typesys.Rvalue, dbl)
	appOut := store.AllocDestructuredTuple(typesys.Rvalue, outVar)
	app := store.AllocApplication(scheme, appIn, appOut)

	if !u.Unify(app, scheme) {
		t.Fatalf("application against its own scheme should unify: %v", u.Diagnostics)
	}
	if sub.Resolve(outVar) != typesys.Term(dbl) {
		t.Fatalf("id(double) should resolve the output to double, got %v", sub.Resolve(outVar))
	}
}
