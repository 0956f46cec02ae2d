package constraints

import (
	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/subst"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// generateExpr produces the term an rvalue expression evaluates to,
// emitting whatever equations are needed along the way (spec §4.E).
func (fctx *funcCtx) generateExpr(e ast.Expr) typesys.Term {
	switch x := e.(type) {
	case *ast.NumberLiteral:
		return fctx.gen.Lib.Double
	case *ast.CharLiteral:
		return fctx.gen.Lib.Char
	case *ast.StringLiteral:
		return fctx.gen.Lib.String
	case *ast.Identifier:
		return fctx.resolveIdentifier(x.Name)
	case *ast.FieldAccess:
		return fctx.generateFieldAccess(x)
	case *ast.BinaryExpr:
		return fctx.generateBinary(x)
	case *ast.UnaryExpr:
		return fctx.generateUnary(x)
	case *ast.FunctionCallExpr:
		outs := fctx.generateCall(x, 1)
		return outs[0]
	case *ast.AnonymousFunction:
		return fctx.generateAnonymous(x)
	default:
		return fctx.gen.Store.FreshVariable("?")
	}
}

// resolveIdentifier implements "Variable reference (rvalue) -> term is
// the variable's latest assigned term (or a fresh variable if first
// use)". A name that is itself a same-file function (used as a bare
// handle, without a call) resolves to that function's target
// placeholder instead.
func (fctx *funcCtx) resolveIdentifier(name string) typesys.Term {
	if t, ok := fctx.locals[name]; ok {
		return t
	}
	if t, ok := fctx.targets[name]; ok {
		return t
	}
	v := fctx.gen.Store.FreshVariable(name)
	fctx.locals[name] = v
	return v
}

// generateFieldAccess implements `a.b`: equate a with a Record
// containing field b bound to a fresh variable, and return that
// variable as the access's result (spec §4.E).
func (fctx *funcCtx) generateFieldAccess(x *ast.FieldAccess) typesys.Term {
	targetTerm := fctx.generateExpr(x.Target)
	fieldVar := fctx.gen.Store.FreshVariable(x.Field)
	fieldID := int64(fctx.gen.Reg.Register(x.Field))
	rec := fctx.gen.Store.AllocRecord(
		[]int64{fieldID},
		map[int64]typesys.Term{fieldID: fieldVar},
		map[int64]string{fieldID: x.Field},
	)
	fctx.gen.Sub.PushEquation(targetTerm, rec)
	return fieldVar
}

// generateBinary synthesizes an Abstraction from the builtin binary
// operator table and unifies both operands and the result against it
// (spec §4.E: "synthesize an Abstraction whose inputs/outputs are
// unified against the builtin operator table (§6.2)").
func (fctx *funcCtx) generateBinary(x *ast.BinaryExpr) typesys.Term {
	lt := fctx.generateExpr(x.Left)
	rt := fctx.generateExpr(x.Right)
	store := fctx.gen.Store

	scheme, ok := fctx.gen.Lib.BinaryOperators[x.Op]
	if !ok {
		fctx.gen.diagnostics = append(fctx.gen.diagnostics, subst.NewInvalidOperatorApplication(x.Op, lt, rt))
		return store.FreshVariable("op")
	}
	abs := store.Instantiate(scheme).(*typesys.Abstraction)
	fctx.gen.Sub.PushEquation(abs.Inputs.Members[0], lt)
	fctx.gen.Sub.PushEquation(abs.Inputs.Members[1], rt)
	outVar := store.FreshVariable("ret")
	fctx.gen.Sub.PushEquation(outVar, abs.Outputs.Members[0])
	return outVar
}

func (fctx *funcCtx) generateUnary(x *ast.UnaryExpr) typesys.Term {
	operand := fctx.generateExpr(x.Operand)
	store := fctx.gen.Store

	scheme, ok := fctx.gen.Lib.UnaryOperators[x.Op]
	if !ok {
		fctx.gen.diagnostics = append(fctx.gen.diagnostics, subst.NewInvalidOperatorApplication(x.Op, operand, nil))
		return store.FreshVariable("op")
	}
	abs := store.Instantiate(scheme).(*typesys.Abstraction)
	fctx.gen.Sub.PushEquation(abs.Inputs.Members[0], operand)
	outVar := store.FreshVariable("ret")
	fctx.gen.Sub.PushEquation(outVar, abs.Outputs.Members[0])
	return outVar
}

// generateCall implements spec §4.E's call rule: a fresh
// Application(target, inputs=DT(rvalue,args), outputs=DT(rvalue,
// fresh...)) is allocated and equated against the callee's term. A
// forward reference or self-recursive call reaches this before the
// callee's own body equation has necessarily run, so target may still
// be a bare Variable when this equation drains; internal/subst's
// unifier tolerates that (app.Target is allowed to resolve back to its
// own Application without looping), so call sites and a same-file
// function's defining equation converge regardless of processing order.
func (fctx *funcCtx) generateCall(x *ast.FunctionCallExpr, numOutputs int) []typesys.Term {
	store := fctx.gen.Store
	args := make([]typesys.Term, len(x.Args))
	for i, a := range x.Args {
		args[i] = fctx.generateExpr(a)
	}
	inputsDT := store.AllocDestructuredTuple(typesys.Rvalue, args...)

	if numOutputs < 1 {
		numOutputs = 1
	}
	outVars := make([]typesys.Term, numOutputs)
	outTerms := make([]typesys.Term, numOutputs)
	for i := range outVars {
		v := store.FreshVariable("ret")
		outVars[i] = v
		outTerms[i] = v
	}
	outputsDT := store.AllocDestructuredTuple(typesys.Rvalue, outTerms...)

	target := fctx.resolveCallTarget(x.Callee)
	app := store.AllocApplication(target, inputsDT, outputsDT)
	fctx.gen.Sub.PushEquation(app, target)

	return outVars
}

// resolveCallTarget determines what term a call's callee resolves to:
// a local variable holding a callable value, a same-file function
// (possibly forward-declared or self-recursive via fctx.targets), a
// builtin from the library, or — failing all of those — an unresolved
// external reference the pipeline must resolve via the search path.
func (fctx *funcCtx) resolveCallTarget(callee ast.Expr) typesys.Term {
	id, ok := callee.(*ast.Identifier)
	if !ok {
		return fctx.generateExpr(callee)
	}
	if t, ok := fctx.locals[id.Name]; ok {
		return t
	}
	if t, ok := fctx.targets[id.Name]; ok {
		return t
	}
	if scheme, ok := fctx.gen.Lib.Callable(id.Name); ok {
		return scheme
	}
	v := fctx.gen.Store.FreshVariable(id.Name)
	fctx.gen.unresolved = append(fctx.gen.unresolved, UnresolvedRef{
		Name:     id.Name,
		Term:     v,
		FromFile: fctx.filePath,
	})
	return v
}

// generateAnonymous implements `@(params) body`: a child environment
// shadows the captured locals with fresh parameter variables, and the
// body's term becomes the sole member of the resulting Abstraction's
// output DT (spec §4.E: "Scheme over the free variables captured at
// construction; body abstraction unified against the expression's
// type."). The result is returned as a bare Abstraction rather than a
// Scheme: it stays monomorphic until something generalizes it, which
// matches how a `f = @(x) x + 1` literal narrows to a single concrete
// type from its usage rather than floating free (spec §8 scenario 3).
func (fctx *funcCtx) generateAnonymous(x *ast.AnonymousFunction) typesys.Term {
	store := fctx.gen.Store
	newLocals := make(map[string]typesys.Term, len(fctx.locals)+len(x.Params))
	for k, v := range fctx.locals {
		newLocals[k] = v
	}
	paramTerms := make([]typesys.Term, len(x.Params))
	for i, p := range x.Params {
		v := store.FreshVariable(p)
		newLocals[p] = v
		paramTerms[i] = v
	}

	childCtx := &funcCtx{
		gen:        fctx.gen,
		valueScope: fctx.valueScope,
		typeScope:  fctx.typeScope,
		targets:    fctx.targets,
		locals:     newLocals,
		filePath:   fctx.filePath,
	}
	bodyTerm := childCtx.generateExpr(x.Body)

	inputsDT := store.AllocDestructuredTuple(typesys.DefinitionInputs, paramTerms...)
	outputsDT := store.AllocDestructuredTuple(typesys.DefinitionOutputs, bodyTerm)
	return store.AllocAbstraction(typesys.AbsAnonymous, inputsDT, outputsDT)
}
