package scope

// ValueScope is the per-function-body scope tree for MATLAB
// identifiers (spec §3.3, §4.D.1): variables, local functions, classes,
// and imports, with a lookup order of locals -> parent chain ->
// imports (fully-qualified first, then wildcard) -> file-visible
// functions on the search path (the last step is supplied by the
// caller, since it depends on the pipeline/search path, components
// this package doesn't know about).
type ValueScope struct {
	*Scope

	// FullyQualifiedImports and WildcardImports track the imported
	// scopes in the order they should be consulted; AddImport on the
	// embedded Scope only records edges for the generic import-graph
	// traversal (used by other readers), so value-scope lookup walks
	// these two slices directly to honor the fully-qualified-before-
	// wildcard precedence spec §4.D.1 requires.
	FullyQualifiedImports []*ValueScope
	WildcardImports       []*ValueScope
}

// NewValueRoot creates a fresh value-scope root.
func NewValueRoot() *ValueScope {
	return &ValueScope{Scope: NewRoot()}
}

// NewValueChild creates a child value scope (e.g. one per function
// body) of parent.
func NewValueChild(parent *ValueScope) *ValueScope {
	return &ValueScope{Scope: NewChild(parent.Scope)}
}

// AddFullyQualifiedImport records an explicit `import a.b.c` target.
func (v *ValueScope) AddFullyQualifiedImport(target *ValueScope, exported bool) {
	v.FullyQualifiedImports = append(v.FullyQualifiedImports, target)
	v.Scope.AddImport(target.Scope, exported)
}

// AddWildcardImport records an `import a.b.*` (or the injected base
// library scope) target.
func (v *ValueScope) AddWildcardImport(target *ValueScope, exported bool) {
	v.WildcardImports = append(v.WildcardImports, target)
	v.Scope.AddImport(target.Scope, exported)
}

// LookupValue resolves name per the order in spec §4.D.1: this scope's
// locals, then up the parent chain (each frame's own locals), then
// fully-qualified imports, then wildcard imports. fileVisible is an
// optional last-resort callback for "file-visible functions on the
// search path"; pass nil to skip that step.
func LookupValue(v *ValueScope, name int64, fileVisible func(int64) (Entry, bool)) (Entry, bool) {
	visited := make(map[*Scope]bool)
	for frame := v; frame != nil; {
		s := frame.Scope
		if visited[s] {
			break
		}
		visited[s] = true
		if e, ok := s.Local[name]; ok {
			return e, true
		}
		if s.Parent == nil {
			break
		}
		frame = &ValueScope{Scope: s.Parent}
	}

	if e, ok := lookupInImports(v.FullyQualifiedImports, name, make(map[*Scope]bool)); ok {
		return e, true
	}
	if e, ok := lookupInImports(v.WildcardImports, name, make(map[*Scope]bool)); ok {
		return e, true
	}
	if fileVisible != nil {
		return fileVisible(name)
	}
	return Entry{}, false
}

func lookupInImports(imports []*ValueScope, name int64, visited map[*Scope]bool) (Entry, bool) {
	for _, imp := range imports {
		root := imp.Scope.Root
		if visited[root] {
			continue
		}
		visited[root] = true
		if e, ok := root.Exports[name]; ok {
			return e, true
		}
		// Transitive re-exports: only chase an import's own imports
		// when each hop is marked exported, matching the cycle-guarded
		// rule in spec §3.3.
		var nested []*ValueScope
		for _, edge := range root.Imports {
			if edge.IsExported {
				nested = append(nested, &ValueScope{Scope: edge.TargetRoot})
			}
		}
		if e, ok := lookupInImports(nested, name, visited); ok {
			return e, true
		}
	}
	return Entry{}, false
}
