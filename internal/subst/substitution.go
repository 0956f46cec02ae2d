// Package subst implements the substitution table, the equation
// worklist, and the unifier that drains it (spec §4.C).
package subst

import "github.com/nfagan/mtype-sub001/internal/typesys"

// Equation is one pending unification obligation.
type Equation struct {
	LHS, RHS typesys.Term
}

// Substitution maps a Variable term to whatever it's bound to, plus a
// FIFO of equations still waiting to be unified. The bound table only
// grows: nothing is ever unbound within one compilation.
type Substitution struct {
	bound   map[typesys.Term]typesys.Term
	pending []Equation
	// poisoned marks terms that already produced a unification error,
	// so dependent equations that mention them are skipped instead of
	// re-reporting the same failure (spec §7).
	poisoned map[typesys.Term]bool
}

// New creates an empty substitution.
func New() *Substitution {
	return &Substitution{
		bound:    make(map[typesys.Term]typesys.Term),
		poisoned: make(map[typesys.Term]bool),
	}
}

// PushEquation enqueues lhs = rhs for later unification.
func (s *Substitution) PushEquation(lhs, rhs typesys.Term) {
	s.pending = append(s.pending, Equation{LHS: lhs, RHS: rhs})
}

// PopEquation removes and returns the oldest pending equation. ok is
// false when the worklist is empty.
func (s *Substitution) PopEquation() (Equation, bool) {
	if len(s.pending) == 0 {
		return Equation{}, false
	}
	eq := s.pending[0]
	s.pending = s.pending[1:]
	return eq, true
}

// Pending reports how many equations are still queued.
func (s *Substitution) Pending() int { return len(s.pending) }

// Bind records var -> other. It is a logic error (not a type error) to
// call Bind when var does not currently resolve to itself: that would
// silently discard an earlier binding, which should never happen if the
// unifier always resolves before dispatching.
func (s *Substitution) Bind(v *typesys.Variable, other typesys.Term) {
	var vt typesys.Term = v
	if s.Resolve(vt) != vt {
		panic("subst: Bind called on a variable that is already bound")
	}
	s.bound[vt] = other
}

// Resolve chases bindings from t to its representative: the first term
// reached that is either not a Variable or has no binding yet. Cycles
// (e.g. accidental self-binds though Bind above forbids the direct
// case) are guarded defensively with a visited set so Resolve always
// terminates.
func (s *Substitution) Resolve(t typesys.Term) typesys.Term {
	seen := make(map[typesys.Term]bool)
	for {
		v, ok := t.(*typesys.Variable)
		if !ok {
			return t
		}
		if seen[t] {
			return t
		}
		seen[t] = true
		next, bound := s.bound[v]
		if !bound {
			return t
		}
		t = next
	}
}

// Poison marks t (and transitively nothing else — callers poison each
// offending term individually) so future equations referencing it are
// skipped rather than re-diagnosed.
func (s *Substitution) Poison(t typesys.Term) {
	s.poisoned[t] = true
}

// Poisoned reports whether t was previously marked poisoned.
func (s *Substitution) Poisoned(t typesys.Term) bool {
	return s.poisoned[t]
}
