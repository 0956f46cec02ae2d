package typesys

// Instantiate clones scheme's body, replacing every occurrence of its
// quantified parameters with fresh variables (spec §4.C.4). Two calls
// to Instantiate on the same scheme never share the variables that
// replace its parameters; free (non-quantified) variables are shared.
//
// Non-quantified subterms are cloned once per distinct node (memoized
// by original pointer) so that sharing within the body's graph (e.g. a
// DAG where one record type is referenced from two fields) survives
// the clone: both references end up pointing at the same cloned node.
// Nested schemes get their own fresh parameters layered on top of the
// outer substitution, so an inner scheme can never capture an outer
// one's freshly minted variables.
func (s *Store) Instantiate(scheme *Scheme) Term {
	fresh := make(map[*Variable]*Variable, len(scheme.Params))
	for _, p := range scheme.Params {
		fresh[p] = s.FreshVariable(p.Label)
	}
	memo := make(map[Term]Term)
	return s.cloneTerm(scheme.Body, fresh, memo)
}

func (s *Store) cloneTerm(t Term, fresh map[*Variable]*Variable, memo map[Term]Term) Term {
	if t == nil {
		return nil
	}
	if c, ok := memo[t]; ok {
		return c
	}
	switch n := t.(type) {
	case *Variable:
		if f, ok := fresh[n]; ok {
			return f
		}
		return n // free variable: shared, not cloned

	case *Scalar:
		clone := &Scalar{base: base{s.nextArenaID()}, Name: n.Name}
		memo[t] = clone
		clone.Args = s.cloneSlice(n.Args, fresh, memo)
		return clone

	case *Tuple:
		clone := &Tuple{base: base{s.nextArenaID()}}
		memo[t] = clone
		clone.Elements = s.cloneSlice(n.Elements, fresh, memo)
		return clone

	case *DestructuredTuple:
		clone := &DestructuredTuple{base: base{s.nextArenaID()}, DTKind: n.DTKind}
		memo[t] = clone
		clone.Members = s.cloneSlice(n.Members, fresh, memo)
		return clone

	case *List:
		clone := &List{base: base{s.nextArenaID()}}
		memo[t] = clone
		clone.Elements = s.cloneSlice(n.Elements, fresh, memo)
		return clone

	case *Union:
		clone := &Union{base: base{s.nextArenaID()}}
		memo[t] = clone
		clone.Members = s.cloneSlice(n.Members, fresh, memo)
		return clone

	case *Record:
		clone := &Record{
			base:       base{s.nextArenaID()},
			Fields:     make(map[int64]Term, len(n.Fields)),
			FieldOrder: append([]int64(nil), n.FieldOrder...),
			FieldNames: n.FieldNames,
		}
		memo[t] = clone
		for k, v := range n.Fields {
			clone.Fields[k] = s.cloneTerm(v, fresh, memo)
		}
		return clone

	case *Class:
		clone := &Class{base: base{s.nextArenaID()}, Name: n.Name}
		memo[t] = clone // registered before recursing: breaks recursive-class cycles
		clone.Source = s.cloneTerm(n.Source, fresh, memo)
		return clone

	case *Abstraction:
		clone := &Abstraction{base: base{s.nextArenaID()}, AbsKind: n.AbsKind}
		memo[t] = clone
		clone.Inputs = s.cloneTerm(n.Inputs, fresh, memo).(*DestructuredTuple)
		clone.Outputs = s.cloneTerm(n.Outputs, fresh, memo).(*DestructuredTuple)
		return clone

	case *Scheme:
		// Give the nested scheme its own fresh parameters, layered over
		// (and shadowing) the outer substitution, so it can't capture
		// the outer instantiation's variables.
		inner := make(map[*Variable]*Variable, len(fresh)+len(n.Params))
		for k, v := range fresh {
			inner[k] = v
		}
		innerParams := make([]*Variable, len(n.Params))
		for i, p := range n.Params {
			fv := s.FreshVariable(p.Label)
			inner[p] = fv
			innerParams[i] = fv
		}
		clone := &Scheme{base: base{s.nextArenaID()}, Params: innerParams}
		memo[t] = clone
		clone.Body = s.cloneTerm(n.Body, inner, memo)
		return clone

	case *Application:
		clone := &Application{base: base{s.nextArenaID()}}
		memo[t] = clone
		clone.Target = s.cloneTerm(n.Target, fresh, memo)
		clone.Inputs = s.cloneTerm(n.Inputs, fresh, memo).(*DestructuredTuple)
		clone.Outputs = s.cloneTerm(n.Outputs, fresh, memo).(*DestructuredTuple)
		return clone

	case *Alias:
		clone := &Alias{base: base{s.nextArenaID()}, Name: n.Name}
		memo[t] = clone
		clone.Target = s.cloneTerm(n.Target, fresh, memo)
		return clone

	case *Parameters:
		clone := &Parameters{base: base{s.nextArenaID()}}
		memo[t] = clone
		if of := s.cloneTerm(n.Of, fresh, memo); of != nil {
			clone.Of = of.(*Scheme)
		}
		return clone

	case *ConstantValue:
		return n // literal bridge never varies: shared, not cloned

	default:
		return t
	}
}

func (s *Store) cloneSlice(ts []Term, fresh map[*Variable]*Variable, memo map[Term]Term) []Term {
	if ts == nil {
		return nil
	}
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = s.cloneTerm(t, fresh, memo)
	}
	return out
}
