package pipeline

import (
	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/constraints"
	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/scope"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Entry is one file's row in the AstStore (spec §3.6): "file path ->
// {root_block, parsed_ok, added_base_scope, resolved_type_imports,
// resolved_type_identifiers, generated_constraints,
// file_entry_class_or_function_ref, file_type}". Every bool flag here
// is append-only within one compilation: each pipeline stage inspects
// and sets exactly the flag it guards, and never flips one back to
// false.
type Entry struct {
	File string

	ParsedOK    bool
	ParseFailed bool

	AST        *ast.File // root_block
	ValueScope *scope.ValueScope
	TypeScope  *scope.TypeScope

	AddedBaseScope          bool
	ResolvedTypeImports     bool
	ResolvedTypeIdentifiers bool
	GeneratedConstraints    bool

	EntryFunctionRef defstore.FunctionDefHandle

	// Bindings is what GenerateFile reported for this file's top-level
	// functions, kept around so later loop iterations of step 8 can
	// re-Generalize after new external bindings land.
	Bindings []constraints.FunctionBinding

	// DeclaredFunctionTypes holds the per-name declared type resolved
	// from this file's `%<...>` `fun Name :: TypeExpr` macro blocks
	// (spec §6.3), computed during the ResolvedTypeIdentifiers stage and
	// consumed later by GenerateFile, once Name's target Variable
	// actually exists.
	DeclaredFunctionTypes map[string]typesys.Term
}

// AstStore maps file path -> Entry, growing monotonically across one
// compilation (spec §3.6). Files is insertion order, which doubles as
// the `--show-visited-files` listing order.
type AstStore struct {
	entries map[string]*Entry
	order   []string
}

// NewAstStore creates an empty store.
func NewAstStore() *AstStore {
	return &AstStore{entries: make(map[string]*Entry)}
}

// Get looks up an existing entry without creating one.
func (a *AstStore) Get(file string) (*Entry, bool) {
	e, ok := a.entries[file]
	return e, ok
}

// GetOrCreate returns file's entry, creating an empty one (and
// recording visitation order) on first reference.
func (a *AstStore) GetOrCreate(file string) *Entry {
	if e, ok := a.entries[file]; ok {
		return e
	}
	e := &Entry{File: file}
	a.entries[file] = e
	a.order = append(a.order, file)
	return e
}

// Files lists every file ever referenced, in first-visit order.
func (a *AstStore) Files() []string {
	return append([]string(nil), a.order...)
}
