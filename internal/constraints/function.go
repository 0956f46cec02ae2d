package constraints

import (
	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/scope"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// funcCtx is the per-function-body state the walker threads through
// statement and expression generation: the value/type scope for this
// body, the map of same-file function names to their placeholder
// target variables (shared across sibling functions in one file so
// forward references and recursion resolve without a second pass), and
// the local-variable environment (spec §4.E: "Variable reference
// (rvalue) -> term is the variable's latest assigned term").
type funcCtx struct {
	gen        *Generator
	valueScope *scope.ValueScope
	typeScope  *scope.TypeScope
	targets    map[string]*typesys.Variable
	locals     map[string]typesys.Term
	filePath   string
}

// generateFunctionBody walks fn's body, pushes the equation that binds
// target to the function's raw (un-generalized) Abstraction, and
// records every local variable's final term into the definition store
// for later rendering (spec §6.1 --show-var-types).
func (g *Generator) generateFunctionBody(fn *ast.FunctionDef, target *typesys.Variable, parentValueScope *scope.ValueScope, typeScope *scope.TypeScope, targets map[string]*typesys.Variable, filePath string) []defstore.VariableDefHandle {
	return g.generateAbstractionBody(fn, target, typesys.AbsFunction, nil, parentValueScope, typeScope, targets, filePath)
}

// generateMethodBody is generateFunctionBody specialized to a class
// method: absKind carries the instance/static dispatch distinction
// (spec §4.E) that an ordinary top-level function has no use for.
// constructorOf is non-nil only for the method that is cd's
// constructor (its Name equals cd's Name), in which case the method's
// first output is equated with the class type (spec §4.E: "the
// constructor's output is the class type").
func (g *Generator) generateMethodBody(fn *ast.FunctionDef, target *typesys.Variable, absKind typesys.AbstractionKind, constructorOf *typesys.Class, parentValueScope *scope.ValueScope, typeScope *scope.TypeScope, targets map[string]*typesys.Variable, filePath string) []defstore.VariableDefHandle {
	return g.generateAbstractionBody(fn, target, absKind, constructorOf, parentValueScope, typeScope, targets, filePath)
}

func (g *Generator) generateAbstractionBody(fn *ast.FunctionDef, target *typesys.Variable, absKind typesys.AbstractionKind, constructorOf *typesys.Class, parentValueScope *scope.ValueScope, typeScope *scope.TypeScope, targets map[string]*typesys.Variable, filePath string) []defstore.VariableDefHandle {
	fctx := &funcCtx{
		gen:        g,
		valueScope: scope.NewValueChild(parentValueScope),
		typeScope:  typeScope,
		targets:    targets,
		locals:     make(map[string]typesys.Term),
		filePath:   filePath,
	}

	inputTerms := make([]typesys.Term, len(fn.Inputs))
	for i, name := range fn.Inputs {
		v := g.Store.FreshVariable(name)
		fctx.locals[name] = v
		inputTerms[i] = v
	}
	for _, name := range fn.Outputs {
		if _, exists := fctx.locals[name]; !exists {
			fctx.locals[name] = g.Store.FreshVariable(name)
		}
	}

	for _, stmt := range fn.Body.Stmts {
		fctx.generateStmt(stmt)
	}

	outputTerms := make([]typesys.Term, len(fn.Outputs))
	for i, name := range fn.Outputs {
		outputTerms[i] = fctx.locals[name]
	}

	if constructorOf != nil && len(outputTerms) > 0 {
		g.Sub.PushEquation(outputTerms[0], constructorOf)
	}

	inputsDT := g.Store.AllocDestructuredTuple(typesys.DefinitionInputs, inputTerms...)
	outputsDT := g.Store.AllocDestructuredTuple(typesys.DefinitionOutputs, outputTerms...)
	abs := g.Store.AllocAbstraction(absKind, inputsDT, outputsDT)

	g.Sub.PushEquation(target, abs)

	return g.recordLocals(fctx.locals)
}

// recordLocals writes one VariableDef per entry in locals (spec §3.4).
// The local environment is mutated in place as assignments rebind a
// name to a fresh term, so what's recorded here is each name's final
// term for this body, the same value an identifier reference would
// resolve to on the last line of the function.
func (g *Generator) recordLocals(locals map[string]typesys.Term) []defstore.VariableDefHandle {
	handles := make([]defstore.VariableDefHandle, 0, len(locals))
	g.Defs.WriteScoped(func(w *defstore.WriteView) {
		for name, term := range locals {
			handles = append(handles, w.AddVariableDef(defstore.VariableDef{
				Name: g.matlabIdent(name),
				Type: term,
			}))
		}
	})
	return handles
}

func (fctx *funcCtx) generateStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		fctx.generateAssignment(s)
	case *ast.ExprStmt:
		fctx.generateExpr(s.X)
	case *ast.FunctionDef:
		// A nested local function def: register it and generate its body
		// against the same sibling-target map so it can also be called by
		// (or call) its enclosing function's other locals.
		handle := fctx.gen.registerFunctionDef(s, fctx.valueScope, fctx.filePath)
		target := fctx.gen.Store.FreshVariable(s.Name)
		fctx.targets[s.Name] = target
		_ = handle
		fctx.gen.generateFunctionBody(s, target, fctx.valueScope, fctx.typeScope, fctx.targets, fctx.filePath)
	}
}

// generateAssignment implements spec §4.E's assignment rule: a fresh
// variable ν is equated with the rhs term, and the lhs variable(s) are
// bound to ν; a destructured lhs instead equates a DT(lvalue, …)
// against the rhs positions (§4.C.3 governs how those positions line
// up when the rhs itself is a DT, e.g. a multi-output call).
func (fctx *funcCtx) generateAssignment(s *ast.Assignment) {
	n := len(s.LHS)
	if n == 0 {
		return
	}
	if n == 1 {
		rhsTerm := fctx.generateSingleRHS(s.RHS)
		nu := fctx.gen.Store.FreshVariable("v")
		fctx.gen.Sub.PushEquation(nu, rhsTerm)
		fctx.assignTo(s.LHS[0], nu)
		return
	}

	rhsTerms := fctx.generateMultiRHS(s.RHS, n)
	lhsVars := make([]typesys.Term, n)
	for i, l := range s.LHS {
		v := fctx.gen.Store.FreshVariable("v")
		lhsVars[i] = v
		fctx.assignTo(l, v)
	}
	lhsDT := fctx.gen.Store.AllocDestructuredTuple(typesys.Lvalue, lhsVars...)
	rhsDT := fctx.gen.Store.AllocDestructuredTuple(typesys.Rvalue, rhsTerms...)
	fctx.gen.Sub.PushEquation(lhsDT, rhsDT)
}

func (fctx *funcCtx) generateSingleRHS(e ast.Expr) typesys.Term {
	if call, ok := e.(*ast.FunctionCallExpr); ok {
		outs := fctx.generateCall(call, 1)
		return outs[0]
	}
	return fctx.generateExpr(e)
}

func (fctx *funcCtx) generateMultiRHS(e ast.Expr, n int) []typesys.Term {
	if call, ok := e.(*ast.FunctionCallExpr); ok {
		return fctx.generateCall(call, n)
	}
	return []typesys.Term{fctx.generateExpr(e)}
}

// assignTo binds an lvalue expression to term: an identifier simply
// rebinds its entry in the local environment (the "latest assigned
// term" spec §4.E describes); a field access equates its target with a
// fresh single-field Record.
func (fctx *funcCtx) assignTo(l ast.Expr, term typesys.Term) {
	switch t := l.(type) {
	case *ast.Identifier:
		fctx.locals[t.Name] = term
	case *ast.FieldAccess:
		targetTerm := fctx.generateExpr(t.Target)
		fieldID := int64(fctx.gen.Reg.Register(t.Field))
		rec := fctx.gen.Store.AllocRecord(
			[]int64{fieldID},
			map[int64]typesys.Term{fieldID: term},
			map[int64]string{fieldID: t.Field},
		)
		fctx.gen.Sub.PushEquation(targetTerm, rec)
	}
}
