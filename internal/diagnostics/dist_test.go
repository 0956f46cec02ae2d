package diagnostics

import (
	"strings"
	"testing"

	"github.com/nfagan/mtype-sub001/internal/typesys"
)

func TestDistributionCountsEachReachableTermOnce(t *testing.T) {
	store := typesys.NewStore()
	v := store.FreshVariable("x")
	inputs := store.AllocDestructuredTuple(typesys.DefinitionInputs, v)
	outputs := store.AllocDestructuredTuple(typesys.DefinitionOutputs, v)
	abs := store.AllocAbstraction(typesys.AbsFunction, inputs, outputs)

	d := NewDistribution()
	d.Add(abs)
	d.Add(abs) // re-adding the same root must not double-count

	out := d.String()
	if !strings.Contains(out, "abstraction: 1") {
		t.Fatalf("distribution = %q, want exactly one abstraction", out)
	}
	if !strings.Contains(out, "destructured_tuple: 2") {
		t.Fatalf("distribution = %q, want two destructured tuples", out)
	}
	if !strings.Contains(out, "variable: 1") {
		t.Fatalf("distribution = %q, want one shared variable", out)
	}
}
