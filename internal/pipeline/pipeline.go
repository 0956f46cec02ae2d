// Package pipeline wires the parser, the builtin library, the
// constraint generator, and the unifier into the per-file stage
// machine spec §4.F describes, plus the global generate/unify/resolve-
// external loop that converges across file boundaries (§4.C.5, §3.5).
package pipeline

import (
	"os"
	"path/filepath"

	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/constraints"
	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/library"
	"github.com/nfagan/mtype-sub001/internal/parser"
	"github.com/nfagan/mtype-sub001/internal/scope"
	"github.com/nfagan/mtype-sub001/internal/searchpath"
	"github.com/nfagan/mtype-sub001/internal/subst"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Config configures one compilation run.
type Config struct {
	// SearchPath resolves dotted names to defining files for both the
	// pending-type-import stage (§4.F.2) and external function
	// resolution (§4.C.5). Required.
	SearchPath *searchpath.Path

	// OverrideManifestPath, if non-empty, names a YAML file of builtin
	// type aliases (internal/library.OverrideManifest) applied to the
	// base type scope before any file is visited (spec §6.2's Library
	// is normally fixed at startup; this is the CLI's escape hatch).
	OverrideManifestPath string
}

// Result is everything a completed Run produced: the shared arena and
// definition store (so a caller like cmd/mtype can print inferred
// schemes), every diagnostic raised along the way, and the files
// touched, in visitation order (for `--show-visited-files`).
type Result struct {
	Store *typesys.Store
	Sub   *subst.Substitution
	Defs  *defstore.Store
	Reg   *ident.StringRegistry
	Lib   *library.Library
	Asts  *AstStore

	TypeErrors     []*subst.TypeError
	ParseErrors    []*parser.ParseError
	VisitedFiles   []string
	OverrideErrors []error
}

// Session holds the process-wide resources spec §5 calls out as shared
// across one compilation: the interned string table, the type arena,
// the substitution/unifier, the definition store, and the AST store.
// None of it is safe to reuse across two unrelated Run calls; build a
// fresh Session per compilation.
type Session struct {
	cfg   Config
	reg   *ident.StringRegistry
	store *typesys.Store
	sub   *subst.Substitution
	lib   *library.Library
	defs  *defstore.Store
	gen   *constraints.Generator
	uni   *subst.Unifier
	asts  *AstStore

	parseErrors    []*parser.ParseError
	overrideErrors []error
}

// NewSession builds the shared state a Run needs.
func NewSession(cfg Config) *Session {
	reg := ident.NewStringRegistry()
	store := typesys.NewStore()
	sub := subst.New()
	lib := library.New(store, reg)
	defs := defstore.New()
	gen := constraints.New(store, sub, lib, defs, reg)
	uni := subst.NewUnifier(store, sub)
	s := &Session{
		cfg:   cfg,
		reg:   reg,
		store: store,
		sub:   sub,
		lib:   lib,
		defs:  defs,
		gen:   gen,
		uni:   uni,
		asts:  NewAstStore(),
	}
	if cfg.OverrideManifestPath != "" {
		s.applyOverrideManifest(cfg.OverrideManifestPath)
	}
	return s
}

// applyOverrideManifest loads cfg.OverrideManifestPath and registers
// its aliases into the base type scope every file's root type scope
// imports from, before any file is visited. A manifest that fails to
// load or parse is reported as a single override error rather than
// aborting the run.
func (s *Session) applyOverrideManifest(path string) {
	manifest, err := library.LoadOverrideManifest(path)
	if err != nil {
		s.overrideErrors = append(s.overrideErrors, err)
		return
	}
	s.overrideErrors = append(s.overrideErrors, s.lib.ApplyOverrides(manifest)...)
}

// Run compiles starting from roots, which name either a bare file path
// or a dotted identifier resolved against the search path (spec §4.F:
// "Root identifiers supplied by the user are seeded as external
// functions before step 1 and drive which files get visited").
func Run(cfg Config, roots []string) *Result {
	s := NewSession(cfg)
	for _, r := range roots {
		s.visitRoot(r)
	}
	s.converge()
	s.finalGeneralize()

	typeErrors := append(s.uni.Diagnostics, s.gen.TakeDiagnostics()...)

	return &Result{
		Store:          s.store,
		Sub:            s.sub,
		Defs:           s.defs,
		Reg:            s.reg,
		Lib:            s.lib,
		Asts:           s.asts,
		TypeErrors:     typeErrors,
		ParseErrors:    s.parseErrors,
		VisitedFiles:   s.asts.Files(),
		OverrideErrors: s.overrideErrors,
	}
}

// visitRoot resolves a user-supplied root identifier to a file (trying
// it directly as a path first, then through the search path) and
// visits it.
func (s *Session) visitRoot(root string) {
	if fileExists(root) {
		s.Visit(root)
		return
	}
	if cand, ok := s.cfg.SearchPath.SearchFor(root, ""); ok {
		s.Visit(cand.DefiningFile)
	}
}

// Visit implements spec §4.F steps 1-6 for one file: parse, pull in
// its pending type imports (recursively visiting their files), inject
// the base scope, resolve type imports, resolve type identifiers, and
// generate constraints. Each stage is guarded by an AstStore flag that
// only ever flips false -> true (spec §3.6, tested property 6), so
// re-Visiting an already-complete file is a no-op.
func (s *Session) Visit(file string) *Entry {
	e := s.asts.GetOrCreate(file)
	if e.GeneratedConstraints || e.ParseFailed {
		return e
	}

	if !e.ParsedOK {
		src, err := os.ReadFile(file)
		if err != nil {
			e.ParseFailed = true
			s.parseErrors = append(s.parseErrors, &parser.ParseError{Kind: "io", Message: err.Error()})
			return e
		}
		res := parser.Parse(s.reg, src)
		if len(res.Errors) != 0 {
			e.ParseFailed = true
			s.parseErrors = append(s.parseErrors, res.Errors...)
			return e
		}
		e.AST = res.File
		e.ValueScope = res.ValueScope
		e.TypeScope = res.TypeScope
		e.ParsedOK = true
	}

	if !e.AddedBaseScope {
		s.exportTopLevelFunctions(e)
		e.ValueScope.AddWildcardImport(s.lib.BaseValue, false)
		e.TypeScope.AddImport(s.lib.BaseType, false)
		e.AddedBaseScope = true
	}

	if !e.ResolvedTypeImports {
		// Flip the flag before recursing into imported files, not after:
		// a circular import (spec §8 scenario 6) re-enters Visit(file)
		// for a file whose own import loop is still running, and this
		// guard is what keeps that a finite recursion instead of mutual
		// infinite descent (the same tolerance scope.ResolveImports
		// applies to its own cycle, by a visiting-set rather than an
		// early flag flip, since it isn't recursive across files).
		e.ResolvedTypeImports = true

		baseDir := filepath.Dir(file)
		for _, path := range e.AST.PendingTypeImports {
			cand, ok := s.cfg.SearchPath.SearchFor(path, baseDir)
			if !ok {
				continue
			}
			dep := s.Visit(cand.DefiningFile)
			if dep.ParsedOK {
				if importIsWildcard(e.AST, path) {
					e.ValueScope.AddWildcardImport(dep.ValueScope, true)
				} else {
					e.ValueScope.AddFullyQualifiedImport(dep.ValueScope, true)
				}
				e.TypeScope.AddImport(dep.TypeScope, true)
			}
		}
		scope.ResolveImports(e.TypeScope)
	}

	if !e.ResolvedTypeIdentifiers {
		e.DeclaredFunctionTypes = s.resolveTypeAnnotations(e.AST, e.TypeScope)
		e.ResolvedTypeIdentifiers = true
	}

	if !e.GeneratedConstraints {
		e.Bindings = s.gen.GenerateFile(e.AST, e.ValueScope, e.TypeScope, file, e.DeclaredFunctionTypes)
		e.GeneratedConstraints = true
	}

	return e
}

// exportTopLevelFunctions makes a file's top-level functions visible to
// an importer's wildcard/fully-qualified import (spec §3.3's "Exports
// holds names visible to importers; only ever populated on a root
// scope"): the parser only ever calls DefineLocal, since at parse time
// it doesn't yet know which other files will import this one.
func (s *Session) exportTopLevelFunctions(e *Entry) {
	for name, entry := range e.ValueScope.Local {
		e.ValueScope.Exports[name] = entry
	}
}

// importIsWildcard reports whether the import statement that produced
// the pending-type-import entry path (a dotted name) was `import
// a.b.*` rather than `import a.b.c`.
func importIsWildcard(file *ast.File, path string) bool {
	for _, imp := range file.Imports {
		if dottedPath(imp.Path) == path {
			return imp.Wildcard
		}
	}
	return false
}

func dottedPath(parts []string) string {
	out := ""
	for i, part := range parts {
		if i > 0 {
			out += "."
		}
		out += part
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
