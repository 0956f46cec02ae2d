// Package library builds the builtin type Library (spec §6.2): the
// primitive scalars, the list<T> scheme, the binary/unary operator
// tables, the subsref/subsasgn/horzcat/vertcat abstractions, and the
// base value/type scope every file's root scope imports from (spec
// §9's "pre-import" resolution: original_source/src/mt/pre_imports.cpp
// treats the base scope as an implicit wildcard import rather than a
// real search-path hit, which internal/pipeline replicates by adding
// the shared base scope as an import of every file's root scope instead
// of running it through searchpath.SearchFor).
package library

import (
	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/scope"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Names of the primitive scalars, interned once and reused everywhere
// the library or constraint generator needs to build a literal type.
const (
	Double  = "double"
	Char    = "char"
	String  = "string"
	Logical = "logical"
	List    = "list"
)

// Library holds every builtin term plus the base scopes that export
// them.
type Library struct {
	Store *typesys.Store
	Reg   *ident.StringRegistry

	Double  *typesys.Scalar
	Char    *typesys.Scalar
	String  *typesys.Scalar
	Logical *typesys.Scalar

	// ListScheme is `list<T>`: a one-parameter Scheme over a Scalar named
	// "list" carrying its element variable as an Arg (spec §6.2).
	ListScheme *typesys.Scheme

	// BinaryOperators maps an operator symbol (+, -, *, /, ==, ...) to
	// the Scheme<...>Abstraction(...) the unifier matches call sites
	// against.
	BinaryOperators map[string]*typesys.Scheme
	UnaryOperators  map[string]*typesys.Scheme

	Subsref      *typesys.Scheme
	Subsasgn     *typesys.Scheme
	Horzcat      *typesys.Scheme
	Vertcat      *typesys.Scheme
	HorzcatCell  *typesys.Scheme

	// BaseType is the type scope every file's root type scope imports;
	// BaseValue is its value-scope counterpart, exporting the builtin
	// function names (horzcat, vertcat, ...). The constraint generator
	// itself resolves those builtins through Callable, not through
	// BaseValue.
	BaseType  *scope.TypeScope
	BaseValue *scope.ValueScope
}

// New builds the Library against the given arena and identifier
// registry. Both must be shared with the rest of the compilation: the
// terms allocated here live in the same arena as everything the
// constraint generator and unifier produce, and their exported names
// must resolve through the same registry the scanner/parser used.
func New(store *typesys.Store, reg *ident.StringRegistry) *Library {
	l := &Library{Store: store, Reg: reg}

	l.Double = store.AllocScalar(scalarName(reg, Double))
	l.Char = store.AllocScalar(scalarName(reg, Char))
	l.String = store.AllocScalar(scalarName(reg, String))
	l.Logical = store.AllocScalar(scalarName(reg, Logical))

	elem := store.FreshVariable("t")
	listBody := store.AllocScalar(scalarName(reg, List), elem)
	l.ListScheme = store.AllocScheme([]*typesys.Variable{elem}, listBody)

	l.BinaryOperators = l.buildBinaryOperators()
	l.UnaryOperators = l.buildUnaryOperators()
	l.Subsref = l.buildSubsref()
	l.Subsasgn = l.buildSubsasgn()
	l.Horzcat, l.Vertcat, l.HorzcatCell = l.buildConcatenation()

	l.BaseType = scope.NewTypeRoot()
	l.BaseValue = scope.NewValueRoot()
	l.populateBaseScopes()

	return l
}

// Callable looks up a builtin function-valued name (horzcat, vertcat,
// subsref, subsasgn, horzcat_cell) by the name the parser's desugaring
// or a direct call site used. It's the constraint generator's fallback
// once a call target isn't a local variable or a same-file function.
func (l *Library) Callable(name string) (*typesys.Scheme, bool) {
	switch name {
	case "horzcat":
		return l.Horzcat, true
	case "vertcat":
		return l.Vertcat, true
	case "horzcat_cell":
		return l.HorzcatCell, true
	case "subsref":
		return l.Subsref, true
	case "subsasgn":
		return l.Subsasgn, true
	default:
		return nil, false
	}
}

func scalarName(reg *ident.StringRegistry, name string) typesys.ScalarName {
	return typesys.ScalarName(reg.Register(name))
}

// instantiatedList returns a fresh instance of list<elem>, i.e. a
// Scalar named "list" parameterized by elem, without going through
// Scheme instantiation (the element is already concrete or a fresh
// variable the caller owns).
func (l *Library) instantiatedList(elem typesys.Term) *typesys.Scalar {
	return l.Store.AllocScalar(scalarName(l.Reg, List), elem)
}

// binaryScheme builds `Scheme<t>(t, t) -> t` style schemes used for
// operators that are homogeneous over one fresh type variable (e.g.
// arithmetic operators). The constraint generator instantiates this
// scheme as is; no per-scalar overloads or Union alternatives are
// produced for an operator.
func (l *Library) binaryScheme(outputSameAsInput bool) *typesys.Scheme {
	s := l.Store
	t := s.FreshVariable("t")
	inputs := s.AllocDestructuredTuple(typesys.DefinitionInputs, t, t)
	var outTerm typesys.Term = t
	if !outputSameAsInput {
		outTerm = l.Logical
	}
	outputs := s.AllocDestructuredTuple(typesys.DefinitionOutputs, outTerm)
	abs := s.AllocAbstraction(typesys.AbsBinaryOperator, inputs, outputs)
	return s.AllocScheme([]*typesys.Variable{t}, abs)
}

func (l *Library) unaryScheme() *typesys.Scheme {
	s := l.Store
	t := s.FreshVariable("t")
	inputs := s.AllocDestructuredTuple(typesys.DefinitionInputs, t)
	outputs := s.AllocDestructuredTuple(typesys.DefinitionOutputs, t)
	abs := s.AllocAbstraction(typesys.AbsUnaryOperator, inputs, outputs)
	return s.AllocScheme([]*typesys.Variable{t}, abs)
}

var arithmeticOps = []string{"+", "-", "*", "/", ".*", "./", "^", ".^"}
var relationalOps = []string{"==", "~=", "<", ">", "<=", ">="}
var logicalBinaryOps = []string{"&&", "||"}

func (l *Library) buildBinaryOperators() map[string]*typesys.Scheme {
	out := make(map[string]*typesys.Scheme, len(arithmeticOps)+len(relationalOps)+len(logicalBinaryOps))
	for _, op := range arithmeticOps {
		out[op] = l.binaryScheme(true)
	}
	for _, op := range relationalOps {
		out[op] = l.binaryScheme(false)
	}
	for _, op := range logicalBinaryOps {
		out[op] = l.binaryScheme(false)
	}
	return out
}

var unaryOps = []string{"-", "+", "~", "'", ".'"}

func (l *Library) buildUnaryOperators() map[string]*typesys.Scheme {
	out := make(map[string]*typesys.Scheme, len(unaryOps))
	for _, op := range unaryOps {
		out[op] = l.unaryScheme()
	}
	return out
}

// buildSubsref builds `Scheme<t>(list<t>, t) -> t`: indexing a list by
// a key (numeric or ':'-style subscript; the generator narrows the key
// position further at call sites) returns its element type.
func (l *Library) buildSubsref() *typesys.Scheme {
	s := l.Store
	t := s.FreshVariable("t")
	listT := l.instantiatedList(t)
	inputs := s.AllocDestructuredTuple(typesys.DefinitionInputs, listT, t)
	outputs := s.AllocDestructuredTuple(typesys.DefinitionOutputs, t)
	abs := s.AllocAbstraction(typesys.AbsSubscript, inputs, outputs)
	return s.AllocScheme([]*typesys.Variable{t}, abs)
}

// buildSubsasgn builds `Scheme<t>(list<t>, t, t) -> list<t>`: assigning
// a value into a list at a key returns the (unchanged-shape) list type.
func (l *Library) buildSubsasgn() *typesys.Scheme {
	s := l.Store
	t := s.FreshVariable("t")
	listT := l.instantiatedList(t)
	inputs := s.AllocDestructuredTuple(typesys.DefinitionInputs, listT, t, t)
	outputs := s.AllocDestructuredTuple(typesys.DefinitionOutputs, listT)
	abs := s.AllocAbstraction(typesys.AbsSubscript, inputs, outputs)
	return s.AllocScheme([]*typesys.Variable{t}, abs)
}

// buildConcatenation builds the horzcat/vertcat/horzcat_cell
// abstractions the parser's matrix/cell-literal desugaring (spec
// §4.F.1) targets: a varargin-style List of t's concatenates into
// list<t>.
func (l *Library) buildConcatenation() (horzcat, vertcat, horzcatCell *typesys.Scheme) {
	build := func() *typesys.Scheme {
		s := l.Store
		t := s.FreshVariable("t")
		varargin := s.AllocList(t)
		inputs := s.AllocDestructuredTuple(typesys.DefinitionInputs, varargin)
		outputs := s.AllocDestructuredTuple(typesys.DefinitionOutputs, l.instantiatedList(t))
		abs := s.AllocAbstraction(typesys.AbsConcatenation, inputs, outputs)
		return s.AllocScheme([]*typesys.Variable{t}, abs)
	}
	return build(), build(), build()
}

// populateBaseScopes exports every builtin name into the base type and
// value scopes so that `scope.LookupType`/`LookupValue` find them from
// any file's root scope once the pipeline adds the base scope as an
// import (spec §9's pre-import resolution, grounded on
// original_source/src/mt/pre_imports.cpp).
func (l *Library) populateBaseScopes() {
	defineType := func(name string, t typesys.Term) {
		id := l.Reg.Register(name)
		l.BaseType.DefineLocal(int64(id), scope.Entry{Value: t})
		l.BaseType.Exports[int64(id)] = scope.Entry{Value: t}
	}
	defineValue := func(name string, t typesys.Term) {
		id := l.Reg.Register(name)
		l.BaseValue.DefineLocal(int64(id), scope.Entry{Value: t})
		l.BaseValue.Exports[int64(id)] = scope.Entry{Value: t}
	}

	defineType(Double, l.Double)
	defineType(Char, l.Char)
	defineType(String, l.String)
	defineType(Logical, l.Logical)
	defineType(List, l.ListScheme)

	defineValue("subsref", l.Subsref)
	defineValue("subsasgn", l.Subsasgn)
	defineValue("horzcat", l.Horzcat)
	defineValue("vertcat", l.Vertcat)
	defineValue("horzcat_cell", l.HorzcatCell)
}
