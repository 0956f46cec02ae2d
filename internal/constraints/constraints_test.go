package constraints

import (
	"testing"

	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/library"
	"github.com/nfagan/mtype-sub001/internal/parser"
	"github.com/nfagan/mtype-sub001/internal/subst"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

type fixture struct {
	reg   *ident.StringRegistry
	store *typesys.Store
	sub   *subst.Substitution
	lib   *library.Library
	defs  *defstore.Store
	gen   *Generator
	uni   *subst.Unifier
}

func newFixture() *fixture {
	reg := ident.NewStringRegistry()
	store := typesys.NewStore()
	sub := subst.New()
	lib := library.New(store, reg)
	defs := defstore.New()
	gen := New(store, sub, lib, defs, reg)
	return &fixture{reg: reg, store: store, sub: sub, lib: lib, defs: defs, gen: gen, uni: subst.NewUnifier(store, sub)}
}

func (f *fixture) generate(src string) []FunctionBinding {
	res := parser.Parse(f.reg, []byte(src))
	if len(res.Errors) != 0 {
		panic(res.Errors[0].Error())
	}
	return f.gen.GenerateFile(res.File, res.ValueScope, res.TypeScope, "test.m", nil)
}

func TestIdentityFunctionGeneralizesToOneVariableScheme(t *testing.T) {
	f := newFixture()
	bindings := f.generate("function y = id(x)\n  y = x;\nend\n")
	f.uni.Drain()

	if len(bindings) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(bindings))
	}
	diags := Generalize(f.store, f.sub, f.defs, bindings[0])
	if len(diags) != 0 {
		t.Fatalf("expected no could_not_infer_type diagnostics for id, got %v", diags)
	}

	var def defstore.FunctionDef
	f.defs.ReadScoped(func(r *defstore.ReadView) {
		def, _ = r.FunctionDef(bindings[0].Handle)
	})
	if def.Scheme == nil {
		t.Fatalf("expected a scheme to be recorded")
	}
	if len(def.Scheme.Params) != 1 {
		t.Fatalf("expected exactly one quantified variable, got %d", len(def.Scheme.Params))
	}
	abs, ok := def.Scheme.Body.(*typesys.Abstraction)
	if !ok {
		t.Fatalf("expected scheme body to be an Abstraction, got %T", def.Scheme.Body)
	}
	in := f.sub.Resolve(abs.Inputs.Members[0])
	out := f.sub.Resolve(abs.Outputs.Members[0])
	if in != out {
		t.Fatalf("expected input and output to share a representative, got %v vs %v", in, out)
	}
}

func TestSwapFunctionOutputsMatchInputsSwapped(t *testing.T) {
	f := newFixture()
	bindings := f.generate(`
function [a, b] = swap(x, y)
  a = y;
  b = x;
end

function main()
  [p, q] = swap(1, 'c');
end
`)
	f.uni.Drain()
	if len(f.uni.Diagnostics) != 0 {
		t.Fatalf("unexpected unification diagnostics: %v", f.uni.Diagnostics)
	}
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
}

func TestAnonymousFunctionNarrowsToDoubleViaOperator(t *testing.T) {
	f := newFixture()
	f.generate("function main()\n  g = @(x) x + 1;\nend\n")
	f.uni.Drain()
	if len(f.uni.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.uni.Diagnostics)
	}
}

func TestSelfRecursiveFunctionFlagsUnusedParameter(t *testing.T) {
	f := newFixture()
	bindings := f.generate("function y = r(x)\n  y = r(x);\nend\n")
	f.uni.Drain()

	diags := Generalize(f.store, f.sub, f.defs, bindings[0])
	found := false
	for _, d := range diags {
		if d.Kind == subst.CouldNotInferType {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a could_not_infer_type diagnostic naming the unused parameter, got %v", diags)
	}
}

func TestUnresolvedCallIsRecordedForExternalResolution(t *testing.T) {
	f := newFixture()
	f.generate("function main()\n  y = helper(1);\nend\n")
	unresolved := f.gen.TakeUnresolved()
	if len(unresolved) != 1 {
		t.Fatalf("expected 1 unresolved reference, got %d", len(unresolved))
	}
	if unresolved[0].Name != "helper" {
		t.Fatalf("got name %q", unresolved[0].Name)
	}
}

func TestGenerateFunctionBodyRecordsLocalVariables(t *testing.T) {
	f := newFixture()
	bindings := f.generate("function y = id(x)\n  y = x;\nend\n")
	f.uni.Drain()

	if len(bindings[0].Vars) != 2 {
		t.Fatalf("expected 2 recorded locals (x, y), got %d", len(bindings[0].Vars))
	}
	names := map[string]bool{}
	f.defs.ReadScoped(func(r *defstore.ReadView) {
		for _, h := range bindings[0].Vars {
			v, ok := r.VariableDef(h)
			if !ok {
				t.Fatalf("expected variable def for handle %v", h)
			}
			names[v.Name.String(f.reg)] = true
		}
	})
	if !names["x"] || !names["y"] {
		t.Fatalf("expected both x and y recorded, got %v", names)
	}
}

func TestFieldAccessConstrainsTargetToRecord(t *testing.T) {
	f := newFixture()
	f.generate("function main()\n  y = a.b;\nend\n")
	f.uni.Drain()
	if len(f.uni.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.uni.Diagnostics)
	}
}
