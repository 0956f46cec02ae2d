package diagnostics

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

func TestFormatArrowIdentityScheme(t *testing.T) {
	store := typesys.NewStore()
	reg := ident.NewStringRegistry()

	alpha := store.FreshVariable("x")
	inputs := store.AllocDestructuredTuple(typesys.DefinitionInputs, alpha)
	outputs := store.AllocDestructuredTuple(typesys.DefinitionOutputs, alpha)
	abs := store.AllocAbstraction(typesys.AbsFunction, inputs, outputs)
	scheme := store.AllocScheme([]*typesys.Variable{alpha}, abs)

	got := FormatArrow(reg, nil, scheme, Options{})
	want := "∀α. (α) -> [α]"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FormatArrow(id) mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatMatlabStyleBracketsOutputsFirst(t *testing.T) {
	store := typesys.NewStore()
	reg := ident.NewStringRegistry()

	in := store.FreshVariable("x")
	out := store.FreshVariable("y")
	inputs := store.AllocDestructuredTuple(typesys.DefinitionInputs, in)
	outputs := store.AllocDestructuredTuple(typesys.DefinitionOutputs, out)
	abs := store.AllocAbstraction(typesys.AbsFunction, inputs, outputs)

	got := FormatMatlab(reg, nil, abs, Options{})
	if !strings.HasPrefix(got, "[") || !strings.Contains(got, "] = (") {
		t.Fatalf("FormatMatlab = %q, want MATLAB-style brackets", got)
	}
}

func TestFormatScalarWithGenericArg(t *testing.T) {
	store := typesys.NewStore()
	reg := ident.NewStringRegistry()
	doubleName := typesys.ScalarName(reg.Register("double"))
	listName := typesys.ScalarName(reg.Register("list"))

	double := store.AllocScalar(doubleName)
	list := store.AllocScalar(listName, double)

	got := FormatArrow(reg, nil, list, Options{})
	if diff := cmp.Diff("list<double>", got); diff != "" {
		t.Fatalf("FormatArrow(list<double>) mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDTExplicitShowsKind(t *testing.T) {
	store := typesys.NewStore()
	reg := ident.NewStringRegistry()
	v := store.FreshVariable("x")
	dt := store.AllocDestructuredTuple(typesys.Rvalue, v)

	got := FormatArrow(reg, nil, dt, Options{ExplicitDT: true})
	if !strings.Contains(got, "rvalue") {
		t.Fatalf("expected explicit dt kind in output, got %q", got)
	}
}

func TestFormatToleratesSelfReferentialAlias(t *testing.T) {
	// Occurs-check is deliberately absent (spec §9), so a bound term can
	// legitimately cycle back through itself; formatting such a term
	// must terminate rather than recurse forever.
	store := typesys.NewStore()
	reg := ident.NewStringRegistry()

	a := store.AllocAlias("self", nil)
	a.Target = a

	got := FormatArrow(reg, nil, a, Options{ExplicitAliases: true})
	if diff := cmp.Diff("…", got); diff != "" {
		t.Fatalf("FormatArrow(self-alias) mismatch (-want +got):\n%s", diff)
	}
}
