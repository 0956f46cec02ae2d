package parser

import (
	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/lexer"
)

func (p *Parser) parseImport() *ast.ImportStmt {
	p.advance() // 'import'
	var parts []string
	wildcard := false
	for {
		id, ok := p.expect(lexer.TokIdentifier, "")
		if !ok {
			break
		}
		parts = append(parts, id.Text)
		if p.check(lexer.TokPunct, ".") {
			p.advance()
			if p.check(lexer.TokOperator, "*") {
				p.advance()
				wildcard = true
				break
			}
			continue
		}
		break
	}
	p.expect(lexer.TokPunct, ";")
	return &ast.ImportStmt{Path: parts, Wildcard: wildcard}
}

func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	p.advance() // 'function'
	fn := &ast.FunctionDef{}

	// Either `function name(ins)` or `function [outs] = name(ins)` or
	// `function out = name(ins)`.
	if p.check(lexer.TokPunct, "[") {
		p.advance()
		for !p.check(lexer.TokPunct, "]") && !p.atEOF() {
			if id, ok := p.expect(lexer.TokIdentifier, ""); ok {
				fn.Outputs = append(fn.Outputs, id.Text)
			}
			if p.check(lexer.TokComma, "") || p.check(lexer.TokPunct, ",") {
				p.advance()
			}
		}
		p.expect(lexer.TokPunct, "]")
		p.expect(lexer.TokOperator, "=")
	} else if p.peekIsAssignTarget() {
		id, _ := p.expect(lexer.TokIdentifier, "")
		fn.Outputs = append(fn.Outputs, id.Text)
		p.expect(lexer.TokOperator, "=")
	}

	nameTok, ok := p.expect(lexer.TokIdentifier, "")
	if ok {
		fn.Name = nameTok.Text
	}

	if p.check(lexer.TokPunct, "(") {
		p.advance()
		for !p.check(lexer.TokPunct, ")") && !p.atEOF() {
			if id, ok := p.expect(lexer.TokIdentifier, ""); ok {
				fn.Inputs = append(fn.Inputs, id.Text)
			}
			if p.check(lexer.TokComma, "") || p.check(lexer.TokPunct, ",") {
				p.advance()
			}
		}
		p.expect(lexer.TokPunct, ")")
	}

	body := &ast.Block{}
	for !p.check(lexer.TokKeyword, "end") && !p.atEOF() {
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			body.Stmts = append(body.Stmts, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(lexer.TokKeyword, "end")
	fn.Body = body
	return fn
}

// peekIsAssignTarget reports whether the upcoming tokens look like
// `identifier =` (single output, not a call) which disambiguates
// `function y = f(x)` from `function f(x)`.
func (p *Parser) peekIsAssignTarget() bool {
	return p.cur().Type == lexer.TokIdentifier &&
		p.pos+1 < len(p.toks) && p.toks[p.pos+1].Type == lexer.TokOperator && p.toks[p.pos+1].Text == "="
}

func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.check(lexer.TokKeyword, "function"):
		return p.parseFunctionDef()
	case p.check(lexer.TokPunct, ";"):
		p.advance()
		return nil
	case p.check(lexer.TokPunct, "["):
		return p.parseDestructuredAssignmentOrExpr()
	default:
		return p.parseAssignmentOrExprStatement()
	}
}

func (p *Parser) parseDestructuredAssignmentOrExpr() ast.Stmt {
	save := p.pos
	p.advance() // '['
	var lhs []ast.Expr
	ok := true
	for !p.check(lexer.TokPunct, "]") && !p.atEOF() {
		id, got := p.expect(lexer.TokIdentifier, "")
		if !got {
			ok = false
			break
		}
		lhs = append(lhs, &ast.Identifier{Name: id.Text})
		if p.check(lexer.TokComma, "") || p.check(lexer.TokPunct, ",") {
			p.advance()
		}
	}
	p.expect(lexer.TokPunct, "]")
	if ok && p.check(lexer.TokOperator, "=") {
		p.advance()
		rhs := p.parseExpr()
		p.expect(lexer.TokPunct, ";")
		return &ast.Assignment{LHS: lhs, RHS: rhs}
	}
	// Not actually a destructured assignment: rewind and parse as an
	// expression statement (e.g. a matrix literal used standalone).
	p.pos = save
	return p.parseAssignmentOrExprStatement()
}

func (p *Parser) parseAssignmentOrExprStatement() ast.Stmt {
	expr := p.parseExpr()
	if p.check(lexer.TokOperator, "=") {
		p.advance()
		rhs := p.parseExpr()
		p.expect(lexer.TokPunct, ";")
		return &ast.Assignment{LHS: []ast.Expr{expr}, RHS: rhs}
	}
	p.expect(lexer.TokPunct, ";")
	return &ast.ExprStmt{X: expr}
}
