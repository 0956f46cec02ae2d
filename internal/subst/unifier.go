package subst

import (
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Unifier drains a Substitution's equation worklist, dispatching each
// pair by variant tag per spec §4.C.2. Failures are collected into
// Diagnostics rather than aborting the drain (spec §7): a failing
// equation poisons its terms and unification continues with whatever
// is left in the worklist.
type Unifier struct {
	Store *typesys.Store
	Sub   *Substitution

	Diagnostics []*TypeError

	// visitedExternal dedupes (as_referenced, as_defined) re-entry pairs
	// for external function resolution (spec §4.C.5), keyed by an
	// opaque string the pipeline supplies.
	visitedExternal map[string]bool
}

// NewUnifier builds a unifier over store and sub.
func NewUnifier(store *typesys.Store, sub *Substitution) *Unifier {
	return &Unifier{
		Store:           store,
		Sub:             sub,
		visitedExternal: make(map[string]bool),
	}
}

// Drain repeatedly pops and unifies equations until the worklist is
// empty. It returns the number of equations processed.
func (u *Unifier) Drain() int {
	n := 0
	for {
		eq, ok := u.Sub.PopEquation()
		if !ok {
			return n
		}
		u.Unify(eq.LHS, eq.RHS)
		n++
	}
}

func (u *Unifier) fail(err *TypeError, poison ...typesys.Term) bool {
	u.Diagnostics = append(u.Diagnostics, err)
	for _, t := range poison {
		u.Sub.Poison(t)
	}
	return false
}

// Unify unifies lhs and rhs, returning whether it succeeded. On
// success the Substitution may have grown new bindings and/or new
// pending equations (e.g. from unifying sub-terms).
func (u *Unifier) Unify(lhs, rhs typesys.Term) bool {
	lhs = u.Sub.Resolve(lhs)
	rhs = u.Sub.Resolve(rhs)

	if u.Sub.Poisoned(lhs) || u.Sub.Poisoned(rhs) {
		return false
	}

	lv, lIsVar := lhs.(*typesys.Variable)
	rv, rIsVar := rhs.(*typesys.Variable)

	switch {
	case lIsVar && rIsVar && lv == rv:
		return true
	case lIsVar:
		return u.bindVariable(lv, rhs)
	case rIsVar:
		return u.bindVariable(rv, lhs)
	}

	switch l := lhs.(type) {
	case *typesys.Scalar:
		return u.unifyScalar(l, rhs)
	case *typesys.Tuple:
		return u.unifyTuple(l, rhs)
	case *typesys.DestructuredTuple:
		return u.unifyDT(l, rhs)
	case *typesys.List:
		return u.unifyList(l, rhs)
	case *typesys.Union:
		return u.unifyUnion(l, rhs)
	case *typesys.Record:
		return u.unifyRecord(l, rhs)
	case *typesys.Class:
		return u.unifyClass(l, rhs)
	case *typesys.Abstraction:
		return u.unifyAbstraction(l, rhs)
	case *typesys.Application:
		return u.unifyApplication(l, rhs)
	case *typesys.Scheme:
		return u.unifyScheme(l, rhs)
	case *typesys.Alias:
		return u.Unify(typesys.Follow(l), rhs)
	case *typesys.ConstantValue:
		return u.unifyConstant(l, rhs)
	default:
		return u.fail(newUnificationFailure(lhs, rhs, "unhandled term kind"), lhs, rhs)
	}
}

// bindVariable binds v to other, with no occurs-check (spec: the graph
// is intentionally cyclic for recursive classes; a cycle-closing bind
// instead raises a recursive_type diagnostic and proceeds, per §9 Open
// Questions).
func (u *Unifier) bindVariable(v *typesys.Variable, other typesys.Term) bool {
	if closesRecursiveCycle(v, other) {
		u.Diagnostics = append(u.Diagnostics, newRecursiveType(v, other))
		// Do not forbid the bind; record and proceed (§9).
	}
	if other2, ok := other.(*typesys.Alias); ok {
		other = typesys.Follow(other2)
	}
	u.Sub.Bind(v, other)
	return true
}

// closesRecursiveCycle reports whether binding v to other would make v
// reachable from other through the term graph. It's a best-effort,
// cycle-guarded walk, not a full occurs-check (the spec explicitly asks
// us not to forbid such binds, only to flag them).
func closesRecursiveCycle(v *typesys.Variable, other typesys.Term) bool {
	visited := make(map[typesys.Term]bool)
	var walk func(t typesys.Term) bool
	walk = func(t typesys.Term) bool {
		if t == nil || visited[t] {
			return false
		}
		visited[t] = true
		if t == typesys.Term(v) {
			return true
		}
		switch n := t.(type) {
		case *typesys.Scalar:
			for _, a := range n.Args {
				if walk(a) {
					return true
				}
			}
		case *typesys.Tuple:
			for _, e := range n.Elements {
				if walk(e) {
					return true
				}
			}
		case *typesys.DestructuredTuple:
			for _, m := range n.Members {
				if walk(m) {
					return true
				}
			}
		case *typesys.List:
			for _, e := range n.Elements {
				if walk(e) {
					return true
				}
			}
		case *typesys.Union:
			for _, m := range n.Members {
				if walk(m) {
					return true
				}
			}
		case *typesys.Record:
			for _, f := range n.Fields {
				if walk(f) {
					return true
				}
			}
		case *typesys.Class:
			return walk(n.Source)
		case *typesys.Abstraction:
			return walk(n.Inputs) || walk(n.Outputs)
		case *typesys.Alias:
			return walk(n.Target)
		}
		return false
	}
	return walk(other)
}

func (u *Unifier) unifyScalar(l *typesys.Scalar, rhs typesys.Term) bool {
	r, ok := rhs.(*typesys.Scalar)
	if !ok {
		if c, ok := rhs.(*typesys.ConstantValue); ok {
			return u.unifyConstant(c, l)
		}
		if a, ok := rhs.(*typesys.Alias); ok {
			return u.Unify(l, typesys.Follow(a))
		}
		return u.fail(newUnificationFailure(l, rhs, "scalar vs non-scalar"), l, rhs)
	}
	if l.Name != r.Name {
		return u.fail(newUnificationFailure(l, r, "differing scalar names"), l, r)
	}
	if len(l.Args) != len(r.Args) {
		return u.fail(newArityMismatch(l, r, len(l.Args), len(r.Args)), l, r)
	}
	ok2 := true
	for i := range l.Args {
		if !u.Unify(l.Args[i], r.Args[i]) {
			ok2 = false
		}
	}
	return ok2
}

func (u *Unifier) unifyTuple(l *typesys.Tuple, rhs typesys.Term) bool {
	r, ok := rhs.(*typesys.Tuple)
	if !ok {
		return u.fail(newUnificationFailure(l, rhs, "tuple vs non-tuple"), l, rhs)
	}
	if len(l.Elements) != len(r.Elements) {
		return u.fail(newArityMismatch(l, r, len(l.Elements), len(r.Elements)), l, r)
	}
	ok2 := true
	for i := range l.Elements {
		if !u.Unify(l.Elements[i], r.Elements[i]) {
			ok2 = false
		}
	}
	return ok2
}

func (u *Unifier) unifyList(l *typesys.List, rhs typesys.Term) bool {
	switch r := rhs.(type) {
	case *typesys.List:
		// Pairwise where both have positions; once one side runs out,
		// remaining positions on the other re-unify against the last
		// (repeating) element of the shorter list.
		n := len(l.Elements)
		if len(r.Elements) > n {
			n = len(r.Elements)
		}
		ok := true
		for i := 0; i < n; i++ {
			le := repeatingElementAt(l.Elements, i)
			re := repeatingElementAt(r.Elements, i)
			if le == nil || re == nil {
				continue
			}
			if !u.Unify(le, re) {
				ok = false
			}
		}
		return ok
	case *typesys.DestructuredTuple:
		return u.unifyListAgainstDT(l, r)
	default:
		return u.fail(newUnificationFailure(l, rhs, "list vs incompatible term"), l, rhs)
	}
}

func repeatingElementAt(elems []typesys.Term, i int) typesys.Term {
	if len(elems) == 0 {
		return nil
	}
	if i < len(elems) {
		return elems[i]
	}
	return elems[len(elems)-1]
}

func (u *Unifier) unifyListAgainstDT(l *typesys.List, dt *typesys.DestructuredTuple) bool {
	if len(l.Elements) == 0 {
		return len(dt.Members) == 0
	}
	ok := true
	for i := range dt.Members {
		le := repeatingElementAt(l.Elements, i)
		if !u.Unify(le, dt.Members[i]) {
			ok = false
		}
	}
	return ok
}

func (u *Unifier) unifyUnion(l *typesys.Union, rhs typesys.Term) bool {
	if r, ok := rhs.(*typesys.Union); ok {
		// Refine: keep pairwise-unifiable members from both sides. This
		// is a simplification of full union refinement but matches the
		// spec's "keep only members unifiable with X" rule applied
		// symmetrically.
		var kept []typesys.Term
		for _, m := range l.Members {
			for _, o := range r.Members {
				if tentativelyUnifiable(u, m, o) {
					kept = append(kept, m)
					break
				}
			}
		}
		if len(kept) == 0 {
			return u.fail(newUnificationFailure(l, r, "no compatible union members"), l, r)
		}
		return true
	}
	var kept []typesys.Term
	for _, m := range l.Members {
		if tentativelyUnifiable(u, m, rhs) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return u.fail(newUnificationFailure(l, rhs, "no union member unifies"), l, rhs)
	}
	// Commit: actually unify rhs against the first surviving member so
	// bindings take effect.
	return u.Unify(kept[0], rhs)
}

// tentativelyUnifiable probes whether a and b could unify without
// committing any bindings, by running the unification against a scratch
// substitution that shares the arena but not the binding table.
func tentativelyUnifiable(u *Unifier, a, b typesys.Term) bool {
	scratch := New()
	probe := NewUnifier(u.Store, scratch)
	ok := probe.Unify(a, b)
	return ok && len(probe.Diagnostics) == 0
}

func (u *Unifier) unifyRecord(l *typesys.Record, rhs typesys.Term) bool {
	r, ok := rhs.(*typesys.Record)
	if !ok {
		return u.fail(newUnificationFailure(l, rhs, "record vs non-record"), l, rhs)
	}
	if len(l.Fields) != len(r.Fields) {
		return u.fail(newUnificationFailure(l, r, "record field count mismatch"), l, r)
	}
	ok2 := true
	for name, lt := range l.Fields {
		rt, exists := r.Fields[name]
		if !exists {
			ok2 = false
			u.fail(newUnificationFailure(l, r, "missing field"), l, r)
			continue
		}
		if !u.Unify(lt, rt) {
			ok2 = false
		}
	}
	return ok2
}

func (u *Unifier) unifyClass(l *typesys.Class, rhs typesys.Term) bool {
	r, ok := rhs.(*typesys.Class)
	if !ok {
		return u.fail(newUnificationFailure(l, rhs, "class vs non-class"), l, rhs)
	}
	if l.Name != r.Name {
		return u.fail(newUnificationFailure(l, r, "differing class names"), l, r)
	}
	// Source types unify lazily: enqueue rather than recurse immediately,
	// so a chain of same-named recursive classes doesn't blow the stack.
	u.Sub.PushEquation(l.Source, r.Source)
	return true
}

func (u *Unifier) unifyAbstraction(l *typesys.Abstraction, rhs typesys.Term) bool {
	r, ok := rhs.(*typesys.Abstraction)
	if !ok {
		return u.fail(newUnificationFailure(l, rhs, "abstraction vs non-abstraction"), l, rhs)
	}
	if l.AbsKind != r.AbsKind {
		return u.fail(newUnificationFailure(l, r, "mixed abstraction kinds"), l, r)
	}
	ok1 := u.Unify(l.Inputs, r.Inputs)
	ok2 := u.Unify(l.Outputs, r.Outputs)
	return ok1 && ok2
}

func (u *Unifier) unifyScheme(l *typesys.Scheme, rhs typesys.Term) bool {
	if r, ok := rhs.(*typesys.Scheme); ok {
		// Instantiate each scheme independently and unify the two fresh
		// bodies; no parameter mapping is shared between the two sides.
		lBody := u.Store.Instantiate(l)
		rBody := u.Store.Instantiate(r)
		return u.Unify(lBody, rBody)
	}
	// A bare scheme unified against a concrete term: instantiate and
	// retry (mirrors App/Scheme below for direct scheme uses).
	return u.Unify(u.Store.Instantiate(l), rhs)
}

func (u *Unifier) unifyApplication(l *typesys.Application, rhs typesys.Term) bool {
	switch r := rhs.(type) {
	case *typesys.Scheme:
		body := u.Store.Instantiate(r)
		return u.resolveApplicationAgainst(l, body)
	case *typesys.Abstraction:
		return u.resolveApplicationAgainst(l, r)
	case *typesys.Application:
		// Two unresolved applications: unify targets and packs directly.
		ok1 := u.Unify(l.Target, r.Target)
		ok2 := u.Unify(l.Inputs, r.Inputs)
		ok3 := u.Unify(l.Outputs, r.Outputs)
		return ok1 && ok2 && ok3
	default:
		return u.fail(newUnificationFailure(l, rhs, "application target is neither scheme nor abstraction"), l, rhs)
	}
}

func (u *Unifier) resolveApplicationAgainst(app *typesys.Application, target typesys.Term) bool {
	abs, ok := target.(*typesys.Abstraction)
	if !ok {
		// target may itself still be a Variable freshly instantiated
		// from a scheme whose body is a bare variable; unify directly.
		return u.Unify(app.Target, target)
	}
	// A forward or self-recursive call site binds app.Target to this
	// very Application before the callee's own defining equation has
	// run (the constraint generator links a call to a same-file
	// function's placeholder variable before that function's body
	// equation is necessarily drained). Once the callee resolves,
	// app.Target chases back to app itself; re-unifying it against abs
	// would re-enter this same call forever. Inputs/Outputs below are
	// what actually carries the resolution through to the call site, so
	// skip the vacuous self-link instead of recursing into it.
	if u.Sub.Resolve(app.Target) == typesys.Term(app) {
		ok2 := u.Unify(app.Inputs, abs.Inputs)
		ok3 := u.Unify(app.Outputs, abs.Outputs)
		return ok2 && ok3
	}
	ok1 := u.Unify(app.Target, abs)
	ok2 := u.Unify(app.Inputs, abs.Inputs)
	ok3 := u.Unify(app.Outputs, abs.Outputs)
	return ok1 && ok2 && ok3
}

func (u *Unifier) unifyConstant(l *typesys.ConstantValue, rhs typesys.Term) bool {
	r, ok := rhs.(*typesys.Scalar)
	if !ok {
		if c, ok := rhs.(*typesys.ConstantValue); ok {
			if l.LitKind == c.LitKind {
				return true
			}
			return u.fail(newUnificationFailure(l, c, "differing literal kinds"), l, c)
		}
		return u.fail(newUnificationFailure(l, rhs, "constant vs non-scalar"), l, rhs)
	}
	if !constantMatchesScalar(l.LitKind) {
		return u.fail(newUnificationFailure(l, r, "literal kind has no intrinsic scalar match"), l, r)
	}
	return true
}

// constantMatchesScalar only guards against nonsensical literal kinds:
// unifyConstant does not compare a literal's kind with the Scalar's
// name, so any known literal kind unifies with any Scalar. (The
// constraint generator maps literals straight to the library's scalars
// and does not allocate ConstantValues.)
func constantMatchesScalar(k typesys.ConstantLiteralKind) bool {
	switch k {
	case typesys.ConstNumeric, typesys.ConstChar, typesys.ConstString:
		return true
	default:
		return false
	}
}

// MarkExternalVisited records that the (asReferenced, asDefined) pair
// has been re-enqueued once, so the pipeline's external-resolution loop
// (spec §4.C.5) never re-enqueues it again. It returns true if this is
// the first time the pair is seen.
func (u *Unifier) MarkExternalVisited(asReferenced, asDefined string) bool {
	key := asReferenced + "\x00" + asDefined
	if u.visitedExternal[key] {
		return false
	}
	u.visitedExternal[key] = true
	return true
}
