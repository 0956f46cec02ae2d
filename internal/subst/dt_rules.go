package subst

import "github.com/nfagan/mtype-sub001/internal/typesys"

// unifyDT implements the DestructuredTuple length rules of spec §4.C.3.
// Each allowed (lhs.DTKind, rhs.DTKind) pair is handled explicitly;
// unspecified combinations are treated as requiring exact arity (the
// safest default per §9's Open Question), falling back to a trailing
// List absorbing any remainder on either side.
func (u *Unifier) unifyDT(l *typesys.DestructuredTuple, rhs typesys.Term) bool {
	r, ok := rhs.(*typesys.DestructuredTuple)
	if !ok {
		if lst, ok := rhs.(*typesys.List); ok {
			return u.unifyListAgainstDT(lst, l)
		}
		return u.fail(newUnificationFailure(l, rhs, "destructured tuple vs incompatible term"), l, rhs)
	}

	switch {
	case l.DTKind == typesys.DefinitionOutputs && r.DTKind == typesys.Rvalue:
		return u.unifyDefinitionOutputsRvalue(l, r)
	case l.DTKind == typesys.DefinitionInputs && r.DTKind == typesys.Rvalue:
		return u.unifyDefinitionInputsRvalue(l, r)
	case l.DTKind == typesys.DefinitionInputs && r.DTKind == typesys.Lvalue:
		return u.unifyExactOrTrailingList(l, r)
	case l.DTKind == typesys.Rvalue && r.DTKind == typesys.Rvalue:
		return u.unifyRvalueRvalue(l, r)
	// Symmetric counterparts: swap and reuse the rule above.
	case l.DTKind == typesys.Rvalue && r.DTKind == typesys.DefinitionOutputs:
		return u.unifyDefinitionOutputsRvalue(r, l)
	case l.DTKind == typesys.Rvalue && r.DTKind == typesys.DefinitionInputs:
		return u.unifyDefinitionInputsRvalue(r, l)
	case l.DTKind == typesys.Lvalue && r.DTKind == typesys.DefinitionInputs:
		return u.unifyExactOrTrailingList(r, l)
	default:
		return u.unifyExactOrTrailingList(l, r)
	}
}

// unifyDefinitionOutputsRvalue: a definition may return more outputs
// than the caller uses; extras on the definition side are discarded
// silently.
func (u *Unifier) unifyDefinitionOutputsRvalue(def, use *typesys.DestructuredTuple) bool {
	if len(use.Members) > len(def.Members) && !hasTrailingList(def.Members) {
		return u.fail(newArityMismatch(def, use, len(def.Members), len(use.Members)), def, use)
	}
	ok := true
	for i, m := range use.Members {
		de := trailingAwareAt(def.Members, i)
		if de == nil {
			ok = false
			continue
		}
		if !u.Unify(de, m) {
			ok = false
		}
	}
	return ok
}

// unifyDefinitionInputsRvalue: a call may pass fewer arguments than the
// definition if trailing definition inputs accept a List (varargin) or
// the definition arity simply exceeds the call's (default-ignorable
// inputs); a call may not pass MORE arguments than the definition
// accepts, unless the definition's trailing member is a List.
func (u *Unifier) unifyDefinitionInputsRvalue(def, use *typesys.DestructuredTuple) bool {
	if len(use.Members) > len(def.Members) && !hasTrailingList(def.Members) {
		return u.fail(newArityMismatch(def, use, len(def.Members), len(use.Members)), def, use)
	}
	ok := true
	for i, m := range use.Members {
		de := trailingAwareAt(def.Members, i)
		if de == nil {
			ok = false
			continue
		}
		if !u.Unify(de, m) {
			ok = false
		}
	}
	return ok
}

// unifyRvalueRvalue requires exact arity unless either side contains a
// nested DestructuredTuple, in which case it's flattened
// right-associatively before comparing lengths.
func (u *Unifier) unifyRvalueRvalue(l, r *typesys.DestructuredTuple) bool {
	lm := flattenRvalue(l.Members)
	rm := flattenRvalue(r.Members)
	if len(lm) != len(rm) {
		if hasTrailingList(lm) || hasTrailingList(rm) {
			return u.unifyWithTrailingList(lm, rm)
		}
		return u.fail(newArityMismatch(l, r, len(lm), len(rm)), l, r)
	}
	ok := true
	for i := range lm {
		if !u.Unify(lm[i], rm[i]) {
			ok = false
		}
	}
	return ok
}

func (u *Unifier) unifyExactOrTrailingList(l, r *typesys.DestructuredTuple) bool {
	if len(l.Members) != len(r.Members) {
		if hasTrailingList(l.Members) || hasTrailingList(r.Members) {
			return u.unifyWithTrailingList(l.Members, r.Members)
		}
		return u.fail(newArityMismatch(l, r, len(l.Members), len(r.Members)), l, r)
	}
	ok := true
	for i := range l.Members {
		if !u.Unify(l.Members[i], r.Members[i]) {
			ok = false
		}
	}
	return ok
}

func (u *Unifier) unifyWithTrailingList(l, r []typesys.Term) bool {
	n := len(l)
	if len(r) > n {
		n = len(r)
	}
	ok := true
	for i := 0; i < n; i++ {
		le := trailingAwareAt(l, i)
		re := trailingAwareAt(r, i)
		if le == nil || re == nil {
			ok = false
			continue
		}
		if !u.Unify(le, re) {
			ok = false
		}
	}
	return ok
}

func hasTrailingList(members []typesys.Term) bool {
	if len(members) == 0 {
		return false
	}
	_, ok := members[len(members)-1].(*typesys.List)
	return ok
}

// trailingAwareAt returns members[i] for positions before a trailing
// List; from the List's own position onward it returns that List's
// repeating element (or the List itself if empty), so the List absorbs
// every remaining position. Past the end without a trailing List it
// returns nil.
func trailingAwareAt(members []typesys.Term, i int) typesys.Term {
	if len(members) == 0 {
		return nil
	}
	last := len(members) - 1
	if lst, ok := members[last].(*typesys.List); ok && i >= last {
		if len(lst.Elements) == 0 {
			return lst
		}
		return lst.Elements[len(lst.Elements)-1]
	}
	if i < len(members) {
		return members[i]
	}
	return nil
}

func flattenRvalue(members []typesys.Term) []typesys.Term {
	out := make([]typesys.Term, 0, len(members))
	for _, m := range members {
		if nested, ok := m.(*typesys.DestructuredTuple); ok && nested.DTKind == typesys.Rvalue {
			out = append(out, flattenRvalue(nested.Members)...)
			continue
		}
		out = append(out, m)
	}
	return out
}
