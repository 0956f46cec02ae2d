package typesys

import "sync/atomic"

// DefaultCapacityHint is the bulk capacity preallocated for the arena's
// bookkeeping slices. It's a hint, not a ceiling: the arena grows past
// it like any Go slice.
const DefaultCapacityHint = 4096

// Store is the arena that owns every Term allocated during one
// compilation. It is never cleared mid-compilation (spec §4.B); pointers
// it returns stay valid for the arena's whole lifetime. Arena IDs come
// from an atomically-incremented counter, but every alloc_* call also
// appends to an unguarded bookkeeping slice, so a Store is not safe for
// concurrent allocation from multiple goroutines (unlike
// internal/defstore.Store, which guards its shared state with the MRSW
// discipline from spec §5).
type Store struct {
	nextID  atomic.Uint64
	all     []Term // retained so the arena can be walked/sized; not an identity source
}

// NewStore creates an empty arena, preallocating bookkeeping capacity.
func NewStore() *Store {
	return &Store{all: make([]Term, 0, DefaultCapacityHint)}
}

func (s *Store) nextArenaID() uint64 {
	return s.nextID.Add(1)
}

func (s *Store) track(t Term) {
	s.all = append(s.all, t)
}

// Len reports how many terms have been allocated so far.
func (s *Store) Len() int { return len(s.all) }

// FreshVariable allocates a new unification variable.
func (s *Store) FreshVariable(label string) *Variable {
	v := &Variable{base: base{s.nextArenaID()}, Label: label}
	s.track(v)
	return v
}

// AllocScalar allocates a named nominal type term.
func (s *Store) AllocScalar(name ScalarName, args ...Term) *Scalar {
	t := &Scalar{base: base{s.nextArenaID()}, Name: name, Args: args}
	s.track(t)
	return t
}

// AllocTuple allocates a fixed-arity ordered product.
func (s *Store) AllocTuple(elems ...Term) *Tuple {
	t := &Tuple{base: base{s.nextArenaID()}, Elements: elems}
	s.track(t)
	return t
}

// AllocDestructuredTuple allocates an argument/return pack of the given
// kind.
func (s *Store) AllocDestructuredTuple(kind DTKind, members ...Term) *DestructuredTuple {
	t := &DestructuredTuple{base: base{s.nextArenaID()}, DTKind: kind, Members: members}
	s.track(t)
	return t
}

// AllocList allocates a variadic repeating pack.
func (s *Store) AllocList(elems ...Term) *List {
	t := &List{base: base{s.nextArenaID()}, Elements: elems}
	s.track(t)
	return t
}

// AllocUnion allocates a set of alternatives.
func (s *Store) AllocUnion(members ...Term) *Union {
	t := &Union{base: base{s.nextArenaID()}, Members: members}
	s.track(t)
	return t
}

// AllocRecord allocates a record with the given ordered fields. names
// maps a field's interned id to its display string for error messages.
func (s *Store) AllocRecord(order []int64, fields map[int64]Term, names map[int64]string) *Record {
	t := &Record{
		base:       base{s.nextArenaID()},
		Fields:     fields,
		FieldOrder: order,
		FieldNames: names,
	}
	s.track(t)
	return t
}

// AllocClass allocates a nominal class type over an underlying source
// term (typically a *Record).
func (s *Store) AllocClass(name string, source Term) *Class {
	t := &Class{base: base{s.nextArenaID()}, Name: name, Source: source}
	s.track(t)
	return t
}

// AllocAbstraction allocates a function/method type. Both inputs and
// outputs are mandatory (possibly zero-arity) destructured tuples.
func (s *Store) AllocAbstraction(kind AbstractionKind, inputs, outputs *DestructuredTuple) *Abstraction {
	if inputs == nil {
		inputs = s.AllocDestructuredTuple(DefinitionInputs)
	}
	if outputs == nil {
		outputs = s.AllocDestructuredTuple(DefinitionOutputs)
	}
	t := &Abstraction{base: base{s.nextArenaID()}, Inputs: inputs, Outputs: outputs, AbsKind: kind}
	s.track(t)
	return t
}

// AllocScheme allocates a universally quantified term over params.
func (s *Store) AllocScheme(params []*Variable, body Term) *Scheme {
	t := &Scheme{base: base{s.nextArenaID()}, Params: params, Body: body}
	s.track(t)
	return t
}

// AllocApplication allocates a deferred call-site term.
func (s *Store) AllocApplication(target Term, inputs, outputs *DestructuredTuple) *Application {
	t := &Application{base: base{s.nextArenaID()}, Target: target, Inputs: inputs, Outputs: outputs}
	s.track(t)
	return t
}

// AllocAlias allocates a transparent synonym.
func (s *Store) AllocAlias(name string, target Term) *Alias {
	t := &Alias{base: base{s.nextArenaID()}, Name: name, Target: target}
	s.track(t)
	return t
}

// AllocConstantValue allocates a literal-type bridge term.
func (s *Store) AllocConstantValue(kind ConstantLiteralKind, text string) *ConstantValue {
	t := &ConstantValue{base: base{s.nextArenaID()}, LitKind: kind, Text: text}
	s.track(t)
	return t
}
