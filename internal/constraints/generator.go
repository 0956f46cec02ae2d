// Package constraints walks the AST (spec §4.E) producing the
// equations the substitution's worklist drains. It holds four pieces
// of state per the spec: the current value scope, the current type
// scope, the current function, and (implicitly, through where a term
// is produced — assignTo vs generateExpr) the lvalue/rvalue category.
// Generation happens before unification settles (spec §4.F steps 6-7),
// so function signatures are built as raw, un-generalized Abstractions
// first; Generalize (generalize.go) wraps them into Schemes once the
// pipeline's unify/resolve-external loop has drained.
package constraints

import (
	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/library"
	"github.com/nfagan/mtype-sub001/internal/scope"
	"github.com/nfagan/mtype-sub001/internal/subst"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Generator owns the shared compilation resources every file's
// constraint generation needs: the arena, the substitution worklist,
// the builtin library, the definition store, and the identifier
// registry (spec §5: "the interned string table, the type arena, and
// the AST store are process-wide within one compilation").
type Generator struct {
	Store *typesys.Store
	Sub   *subst.Substitution
	Lib   *library.Library
	Defs  *defstore.Store
	Reg   *ident.StringRegistry

	unresolved  []UnresolvedRef
	diagnostics []*subst.TypeError
}

// New builds a Generator over shared compilation state.
func New(store *typesys.Store, sub *subst.Substitution, lib *library.Library, defs *defstore.Store, reg *ident.StringRegistry) *Generator {
	return &Generator{Store: store, Sub: sub, Lib: lib, Defs: defs, Reg: reg}
}

// UnresolvedRef is a call site whose callee name didn't resolve within
// the file being generated: neither a local variable, a sibling
// function, nor a builtin. The pipeline's external-function resolution
// stage (spec §4.C.5) is responsible for turning this into a
// defstore.FunctionReference, searching for its defining file, and
// eventually pushing an equation binding Term to the resolved scheme.
type UnresolvedRef struct {
	Name     string
	Term     *typesys.Variable
	FromFile string
}

// TakeUnresolved drains and returns the unresolved call references
// accumulated since the last call.
func (g *Generator) TakeUnresolved() []UnresolvedRef {
	out := g.unresolved
	g.unresolved = nil
	return out
}

// TakeDiagnostics drains and returns the generation-time diagnostics
// accumulated since the last call (spec §7's duplicate_field and
// invalid_operator_application kinds, raised while walking rather than
// while unifying).
func (g *Generator) TakeDiagnostics() []*subst.TypeError {
	out := g.diagnostics
	g.diagnostics = nil
	return out
}

// FunctionBinding is what GenerateFile reports per top-level function:
// its defstore handle and the placeholder Variable that the function's
// body equation (pushed at the end of generateFunctionBody) eventually
// binds to the function's raw Abstraction.
type FunctionBinding struct {
	Handle defstore.FunctionDefHandle
	Target *typesys.Variable
	Name   string
	// Vars are the defstore.VariableDef records generated for this
	// function's local environment (spec §6.1 --show-var-types), in no
	// particular order — a renderer wanting a stable order should sort
	// on the resolved VariableDef.Name.
	Vars []defstore.VariableDefHandle
}

// GenerateFile walks one file's top-level function and class
// definitions (spec §4.E), registering each into the definition store
// and emitting equations for its body. Functions are pre-registered
// with a target placeholder before any body is generated so that
// mutual recursion and self-recursion resolve within the same file
// without requiring a second pass (spec §4.D.1 lookup order already
// covers "local functions" via this map).
//
// declaredTypes is the per-name declared-type term the pipeline's
// type-identifier-resolution stage computed from any `%<...>` `fun
// Name :: TypeExpr` macro block (spec §6.3); when a top-level
// function's name has one, its raw target is equated against the
// declared term rather than left to inference alone, giving §8's
// round-trip law something to actually check.
func (g *Generator) GenerateFile(file *ast.File, valueScope *scope.ValueScope, typeScope *scope.TypeScope, filePath string, declaredTypes map[string]typesys.Term) []FunctionBinding {
	var topFns []*ast.FunctionDef
	targets := make(map[string]*typesys.Variable)
	for _, stmt := range file.Root.Stmts {
		if fn, ok := stmt.(*ast.FunctionDef); ok {
			topFns = append(topFns, fn)
			targets[fn.Name] = g.Store.FreshVariable(fn.Name)
		}
	}

	var bindings []FunctionBinding
	for _, fn := range topFns {
		handle := g.registerFunctionDef(fn, valueScope, filePath)
		target := targets[fn.Name]
		varHandles := g.generateFunctionBody(fn, target, valueScope, typeScope, targets, filePath)
		if declared, ok := declaredTypes[fn.Name]; ok {
			g.Sub.PushEquation(target, declared)
		}
		bindings = append(bindings, FunctionBinding{Handle: handle, Target: target, Name: fn.Name, Vars: varHandles})
	}

	for _, stmt := range file.Root.Stmts {
		if cd, ok := stmt.(*ast.ClassDef); ok {
			bindings = append(bindings, g.generateClassDef(cd, valueScope, typeScope, filePath)...)
		}
	}

	return bindings
}

// generateClassDef registers cd's class type and generates each of its
// methods (spec §4.E: "Class method — the constructor's output is the
// class type; public/static/instance dispatch is encoded by the
// method's Abstraction.kind"). The class's underlying source term is a
// Record over its declared property names, matching AllocClass's
// "typically a *Record" contract.
func (g *Generator) generateClassDef(cd *ast.ClassDef, valueScope *scope.ValueScope, typeScope *scope.TypeScope, filePath string) []FunctionBinding {
	var fieldOrder []int64
	fields := make(map[int64]typesys.Term, len(cd.Properties))
	fieldNames := make(map[int64]string, len(cd.Properties))
	source := g.Store.AllocRecord(nil, fields, fieldNames)
	for _, prop := range cd.Properties {
		id := int64(g.Reg.Register(prop))
		if _, dup := fields[id]; dup {
			g.diagnostics = append(g.diagnostics, subst.NewDuplicateField(source, prop))
			continue
		}
		fieldOrder = append(fieldOrder, id)
		fields[id] = g.Store.FreshVariable(prop)
		fieldNames[id] = prop
	}
	source.FieldOrder = fieldOrder
	class := g.Store.AllocClass(cd.Name, source)

	g.Defs.WriteScoped(func(w *defstore.WriteView) {
		w.AddClassDef(defstore.ClassDef{
			Name:   cd.Name,
			Type:   class,
			Source: valueScope,
		})
	})

	targets := make(map[string]*typesys.Variable)
	for _, m := range cd.Methods {
		targets[m.Fn.Name] = g.Store.FreshVariable(m.Fn.Name)
	}

	var bindings []FunctionBinding
	for _, m := range cd.Methods {
		kind := typesys.AbsInstanceMethod
		if m.Static {
			kind = typesys.AbsStaticMethod
		}
		var constructorOf *typesys.Class
		if m.Fn.Name == cd.Name {
			constructorOf = class
		}
		handle := g.registerFunctionDef(m.Fn, valueScope, filePath)
		target := targets[m.Fn.Name]
		varHandles := g.generateMethodBody(m.Fn, target, kind, constructorOf, valueScope, typeScope, targets, filePath)
		bindings = append(bindings, FunctionBinding{Handle: handle, Target: target, Name: m.Fn.Name, Vars: varHandles})
	}
	return bindings
}

func (g *Generator) registerFunctionDef(fn *ast.FunctionDef, valueScope *scope.ValueScope, filePath string) defstore.FunctionDefHandle {
	var handle defstore.FunctionDefHandle
	g.Defs.WriteScoped(func(w *defstore.WriteView) {
		handle = w.AddFunctionDef(defstore.FunctionDef{
			Name:          g.matlabIdent(fn.Name),
			InputNames:    g.matlabIdents(fn.Inputs),
			OutputNames:   g.matlabIdents(fn.Outputs),
			DefiningScope: valueScope,
			File:          filePath,
		})
	})
	return handle
}

func (g *Generator) matlabIdent(name string) ident.MatlabIdentifier {
	return ident.NewMatlabIdentifier(g.Reg, name)
}

func (g *Generator) matlabIdents(names []string) []ident.MatlabIdentifier {
	out := make([]ident.MatlabIdentifier, len(names))
	for i, n := range names {
		out[i] = g.matlabIdent(n)
	}
	return out
}
