package library

import (
	"testing"

	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

func newFixture() (*Library, *typesys.Store, *ident.StringRegistry) {
	reg := ident.NewStringRegistry()
	store := typesys.NewStore()
	return New(store, reg), store, reg
}

func TestPrimitivesAreDistinctScalars(t *testing.T) {
	l, _, _ := newFixture()
	if l.Double == nil || l.Char == nil || l.String == nil || l.Logical == nil {
		t.Fatalf("expected all primitives to be allocated")
	}
	if l.Double.Name == l.Char.Name {
		t.Fatalf("expected double and char to have distinct scalar names")
	}
}

func TestListSchemeIsOneParameter(t *testing.T) {
	l, _, _ := newFixture()
	if len(l.ListScheme.Params) != 1 {
		t.Fatalf("expected list<T> to have exactly one parameter, got %d", len(l.ListScheme.Params))
	}
	body, ok := l.ListScheme.Body.(*typesys.Scalar)
	if !ok {
		t.Fatalf("expected list<T>'s body to be a Scalar, got %T", l.ListScheme.Body)
	}
	if len(body.Args) != 1 {
		t.Fatalf("expected one type argument, got %d", len(body.Args))
	}
}

func TestBinaryOperatorTableCoversArithmeticAndRelational(t *testing.T) {
	l, _, _ := newFixture()
	for _, op := range []string{"+", "-", "*", "==", "~=", "&&"} {
		if _, ok := l.BinaryOperators[op]; !ok {
			t.Fatalf("missing binary operator scheme for %q", op)
		}
	}
}

func TestUnaryOperatorTable(t *testing.T) {
	l, _, _ := newFixture()
	for _, op := range []string{"-", "~", "'"} {
		if _, ok := l.UnaryOperators[op]; !ok {
			t.Fatalf("missing unary operator scheme for %q", op)
		}
	}
}

func TestSubsrefShapeIsListKeyToElement(t *testing.T) {
	l, _, _ := newFixture()
	abs := l.Subsref.Body.(*typesys.Abstraction)
	if len(abs.Inputs.Members) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(abs.Inputs.Members))
	}
	if len(abs.Outputs.Members) != 1 {
		t.Fatalf("expected 1 output, got %d", len(abs.Outputs.Members))
	}
}

func TestBaseScopesExportPrimitiveTypeNames(t *testing.T) {
	l, _, reg := newFixture()
	id := reg.Register(Double)
	e, ok := l.BaseType.Local[int64(id)]
	if !ok {
		t.Fatalf("expected double to be exported from the base type scope")
	}
	if _, ok := e.Value.(*typesys.Scalar); !ok {
		t.Fatalf("expected double's entry to carry a *Scalar, got %T", e.Value)
	}
}

func TestBaseValueScopeExportsConcatenationBuiltins(t *testing.T) {
	l, _, reg := newFixture()
	for _, name := range []string{"horzcat", "vertcat", "subsref", "subsasgn"} {
		id := reg.Register(name)
		if _, ok := l.BaseValue.Local[int64(id)]; !ok {
			t.Fatalf("expected %q to be exported from the base value scope", name)
		}
	}
}
