package subst

import (
	"fmt"

	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// TypeErrorKind tags the taxonomy from spec §7.
type TypeErrorKind string

const (
	UnresolvedFunction     TypeErrorKind = "unresolved_function"
	CouldNotInferType      TypeErrorKind = "could_not_infer_type"
	UnificationFailure     TypeErrorKind = "unification_failure"
	ArityMismatch          TypeErrorKind = "arity_mismatch"
	DuplicateField         TypeErrorKind = "duplicate_field"
	RecursiveType          TypeErrorKind = "recursive_type"
	OccursCheck            TypeErrorKind = "occurs_check"
	InvalidOperatorApply   TypeErrorKind = "invalid_operator_application"
)

// TypeError is a tagged diagnostic record. Construction happens inline
// in the unifier and constraint generator; rendering it for a human
// (ANSI styling, source snippets) is internal/diagnostics' job, out of
// this package's scope per spec §1.
type TypeError struct {
	Kind TypeErrorKind
	LHS  typesys.Term
	RHS  typesys.Term
	Site string // call-site / expression label, when known
	// KindString backs could_not_infer_type (§7), with the source term
	// in LHS: what kind of site (parameter, return, local) failed to get
	// a concrete type.
	KindString string
	Message    string
}

func (e *TypeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s", e.Kind)
}

func newUnificationFailure(lhs, rhs typesys.Term, reason string) *TypeError {
	return &TypeError{
		Kind:    UnificationFailure,
		LHS:     lhs,
		RHS:     rhs,
		Message: fmt.Sprintf("cannot unify %s with %s: %s", lhs.Kind(), rhs.Kind(), reason),
	}
}

func newArityMismatch(lhs, rhs typesys.Term, la, lb int) *TypeError {
	return &TypeError{
		Kind:    ArityMismatch,
		LHS:     lhs,
		RHS:     rhs,
		Message: fmt.Sprintf("arity mismatch: %d vs %d", la, lb),
	}
}

func newDuplicateField(rec typesys.Term, field string) *TypeError {
	return &TypeError{
		Kind:    DuplicateField,
		LHS:     rec,
		Message: fmt.Sprintf("duplicate field %q", field),
	}
}

func newRecursiveType(v typesys.Term, other typesys.Term) *TypeError {
	return &TypeError{
		Kind:    RecursiveType,
		LHS:     v,
		RHS:     other,
		Message: "recursive type detected while binding a variable",
	}
}

func newCouldNotInferType(site, kindString string, source typesys.Term) *TypeError {
	return &TypeError{
		Kind:       CouldNotInferType,
		Site:       site,
		KindString: kindString,
		LHS:        source,
		Message:    fmt.Sprintf("could not infer type for %s %q", kindString, site),
	}
}

// NewUnresolvedFunction reports an external function reference that
// never resolved to a definition.
func NewUnresolvedFunction(name string) *TypeError {
	return &TypeError{
		Kind:    UnresolvedFunction,
		Message: fmt.Sprintf("unresolved function %q", name),
	}
}

// NewCouldNotInferType is exported for the constraint generator, which
// is the only caller outside this package that needs to raise it (for
// top-level signatures with no remaining concrete evidence).
func NewCouldNotInferType(site, kindString string, source typesys.Term) *TypeError {
	return newCouldNotInferType(site, kindString, source)
}

// NewDuplicateField is exported for the constraint generator, which
// raises it when a classdef declares the same property name twice
// (spec §7's duplicate_field kind).
func NewDuplicateField(rec typesys.Term, field string) *TypeError {
	return newDuplicateField(rec, field)
}

// NewInvalidOperatorApplication is exported for the constraint
// generator, which raises it when a source file applies an operator
// symbol the builtin library's binary/unary operator tables don't
// cover (spec §7's invalid_operator_application kind).
func NewInvalidOperatorApplication(op string, lhs, rhs typesys.Term) *TypeError {
	return newInvalidOperatorApplication(op, lhs, rhs)
}

func newInvalidOperatorApplication(op string, lhs, rhs typesys.Term) *TypeError {
	return &TypeError{
		Kind:    InvalidOperatorApply,
		LHS:     lhs,
		RHS:     rhs,
		Message: fmt.Sprintf("invalid application of operator %q", op),
	}
}
