// Package scope implements the two parallel scope trees from spec
// §3.3/§4.D: the value scope (MATLAB identifiers -> variables, local
// functions, classes, imports) and the type scope (type identifiers ->
// type refs). Both share the same tree shape, implemented here once;
// value_scope.go and type_scope.go layer the per-kind lookup order on
// top.
package scope

// ImportEdge is one entry in a scope's ordered import list: the root of
// the scope being imported from, and whether that import itself is
// re-exported through this scope's root.
type ImportEdge struct {
	TargetRoot *Scope
	IsExported bool
}

// Scope is one lexical frame, shared shape for both the value-scope and
// type-scope trees (spec §3.3).
type Scope struct {
	Root     *Scope
	Parent   *Scope
	Children []*Scope

	// Local holds this scope's own entries, keyed by interned name id.
	Local map[int64]Entry

	// Exports holds names visible to importers; only ever populated on
	// a root scope (spec §3.3: "on the root only").
	Exports map[int64]Entry

	Imports []ImportEdge

	// importsResolved guards against re-running import resolution for
	// this scope more than once per compilation (memoization, §4.D.3).
	importsResolved bool
}

// Entry is what a scope binds a name to; its concrete payload (variable
// handle, function reference, class handle, type ref, import alias...)
// is opaque to this package — callers type-assert Value.
type Entry struct {
	Value  interface{}
	Source SourceToken
}

// SourceToken is an opaque position/reference used only for error
// messages ("duplicate type identifier ... citing the earlier source
// token"); its concrete shape is whatever the parser hands us.
type SourceToken struct {
	File string
	Pos  int
}

// NewRoot creates a fresh root scope (Root points to itself, no
// parent).
func NewRoot() *Scope {
	s := &Scope{
		Local:   make(map[int64]Entry),
		Exports: make(map[int64]Entry),
	}
	s.Root = s
	return s
}

// NewChild creates a child scope of parent, sharing parent's root.
func NewChild(parent *Scope) *Scope {
	s := &Scope{
		Root:   parent.Root,
		Parent: parent,
		Local:  make(map[int64]Entry),
	}
	parent.Children = append(parent.Children, s)
	return s
}

// IsRoot reports whether s is its own root.
func (s *Scope) IsRoot() bool { return s.Root == s }

// DefineLocal inserts name -> entry into s.Local. It returns false
// without modifying s if name is already locally defined (duplicate
// local definition), letting the caller decide how to report it.
func (s *Scope) DefineLocal(name int64, entry Entry) bool {
	if _, exists := s.Local[name]; exists {
		return false
	}
	s.Local[name] = entry
	return true
}

// AddImport records an import edge from s to target, exported or not.
// Duplicate sources (the same target imported twice) are tolerated
// (spec §4.D.3): it's simply appended again, and resolution treats
// re-visiting the same target as a no-op via its own memoization.
func (s *Scope) AddImport(target *Scope, exported bool) {
	s.Imports = append(s.Imports, ImportEdge{TargetRoot: target.Root, IsExported: exported})
}
