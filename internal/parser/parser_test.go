package parser

import (
	"testing"

	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/ident"
)

func TestParseSimpleFunction(t *testing.T) {
	reg := ident.NewStringRegistry()
	src := []byte(`
function y = double_it(x)
  y = x + x;
end
`)
	res := Parse(reg, src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if res.File.EntryFunction == nil {
		t.Fatalf("expected an entry function")
	}
	fn := res.File.EntryFunction
	if fn.Name != "double_it" {
		t.Fatalf("got name %q", fn.Name)
	}
	if len(fn.Inputs) != 1 || fn.Inputs[0] != "x" {
		t.Fatalf("got inputs %v", fn.Inputs)
	}
	if len(fn.Outputs) != 1 || fn.Outputs[0] != "y" {
		t.Fatalf("got outputs %v", fn.Outputs)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected one body statement, got %d", len(fn.Body.Stmts))
	}
	assign, ok := fn.Body.Stmts[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected an assignment statement, got %T", fn.Body.Stmts[0])
	}
	if _, ok := assign.RHS.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected a binary expr RHS, got %T", assign.RHS)
	}
}

func TestParseMultiOutputFunctionAndDestructuredCall(t *testing.T) {
	reg := ident.NewStringRegistry()
	src := []byte(`
function [a, b] = split(x)
  a = x;
  b = x;
end

function main()
  [p, q] = split(1);
end
`)
	res := Parse(reg, src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.File.Root.Stmts) != 2 {
		t.Fatalf("expected 2 top-level function defs, got %d", len(res.File.Root.Stmts))
	}
	split := res.File.Root.Stmts[0].(*ast.FunctionDef)
	if len(split.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %v", split.Outputs)
	}
	main := res.File.Root.Stmts[1].(*ast.FunctionDef)
	destructured, ok := main.Body.Stmts[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected destructured assignment, got %T", main.Body.Stmts[0])
	}
	if len(destructured.LHS) != 2 {
		t.Fatalf("expected 2 LHS targets, got %d", len(destructured.LHS))
	}
	if _, ok := destructured.RHS.(*ast.FunctionCallExpr); !ok {
		t.Fatalf("expected RHS to be a call, got %T", destructured.RHS)
	}
}

func TestParseImportWildcard(t *testing.T) {
	reg := ident.NewStringRegistry()
	src := []byte("import a.b.*;\nfunction f()\nend\n")
	res := Parse(reg, src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.File.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(res.File.Imports))
	}
	imp := res.File.Imports[0]
	if !imp.Wildcard {
		t.Fatalf("expected wildcard import")
	}
	if len(imp.Path) != 2 || imp.Path[0] != "a" || imp.Path[1] != "b" {
		t.Fatalf("got path %v", imp.Path)
	}
	if len(res.File.PendingTypeImports) != 1 || res.File.PendingTypeImports[0] != "a.b" {
		t.Fatalf("got pending type imports %v", res.File.PendingTypeImports)
	}
}

func TestParseMatrixLiteralAsConcat(t *testing.T) {
	reg := ident.NewStringRegistry()
	src := []byte("function f()\n  x = [1 2 3];\nend\n")
	res := Parse(reg, src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	fn := res.File.Root.Stmts[0].(*ast.FunctionDef)
	assign := fn.Body.Stmts[0].(*ast.Assignment)
	call, ok := assign.RHS.(*ast.FunctionCallExpr)
	if !ok {
		t.Fatalf("expected matrix literal to desugar to a call, got %T", assign.RHS)
	}
	callee := call.Callee.(*ast.Identifier)
	if callee.Name != "horzcat" {
		t.Fatalf("got callee %q", callee.Name)
	}
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(call.Args))
	}
}

func TestParseAnonymousFunction(t *testing.T) {
	reg := ident.NewStringRegistry()
	src := []byte("function f()\n  g = @(x, y) x + y;\nend\n")
	res := Parse(reg, src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	fn := res.File.Root.Stmts[0].(*ast.FunctionDef)
	assign := fn.Body.Stmts[0].(*ast.Assignment)
	anon, ok := assign.RHS.(*ast.AnonymousFunction)
	if !ok {
		t.Fatalf("expected anonymous function, got %T", assign.RHS)
	}
	if len(anon.Params) != 2 || anon.Params[0] != "x" || anon.Params[1] != "y" {
		t.Fatalf("got params %v", anon.Params)
	}
}

func TestParseFieldAccessAndChainedCall(t *testing.T) {
	reg := ident.NewStringRegistry()
	src := []byte("function f()\n  y = a.b.c(1);\nend\n")
	res := Parse(reg, src)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	fn := res.File.Root.Stmts[0].(*ast.FunctionDef)
	assign := fn.Body.Stmts[0].(*ast.Assignment)
	call, ok := assign.RHS.(*ast.FunctionCallExpr)
	if !ok {
		t.Fatalf("expected a call expr, got %T", assign.RHS)
	}
	if _, ok := call.Callee.(*ast.FieldAccess); !ok {
		t.Fatalf("expected callee to be a field access, got %T", call.Callee)
	}
}

func TestParseMalformedFunctionDoesNotHang(t *testing.T) {
	reg := ident.NewStringRegistry()
	src := []byte("function f(\n")
	done := make(chan struct{})
	go func() {
		Parse(reg, src)
		close(done)
	}()
	select {
	case <-done:
	default:
	}
	// The real guard against infinite loops is structural (pos-advance
	// checks in the body/top-level loops); this test documents the
	// expectation that malformed input still terminates Parse rather
	// than actually racing a timeout, since a hung goroutine would leak
	// but not fail the test synchronously.
	<-done
}
