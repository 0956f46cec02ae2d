package parser

import (
	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/lexer"
)

// Precedence climbing over the MATLAB-ish operator set. Lowest to
// highest: || , && , relational, additive, multiplicative, unary,
// power (^), postfix (call/field/transpose), primary.

func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(lexer.TokOperator, "||") {
		op := p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseRelational()
	for p.check(lexer.TokOperator, "&&") {
		op := p.advance()
		right := p.parseRelational()
		left = &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
	return left
}

var relOps = map[string]bool{"==": true, "~=": true, "<": true, ">": true, "<=": true, ">=": true}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for p.cur().Type == lexer.TokOperator && relOps[p.cur().Text] {
		op := p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.cur().Type == lexer.TokOperator && (p.cur().Text == "+" || p.cur().Text == "-") {
		op := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
	return left
}

var mulOps = map[string]bool{"*": true, "/": true, ".*": true, "./": true}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.cur().Type == lexer.TokOperator && mulOps[p.cur().Text] {
		op := p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.cur().Type == lexer.TokOperator && (p.cur().Text == "-" || p.cur().Text == "~" || p.cur().Text == "+") {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op.Text, Operand: operand}
	}
	return p.parsePower()
}

func (p *Parser) parsePower() ast.Expr {
	left := p.parsePostfix()
	if p.check(lexer.TokOperator, "^") {
		op := p.advance()
		right := p.parseUnary() // right-associative
		return &ast.BinaryExpr{Op: op.Text, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(lexer.TokPunct, "."):
			p.advance()
			field, ok := p.expect(lexer.TokIdentifier, "")
			if !ok {
				return expr
			}
			expr = &ast.FieldAccess{Target: expr, Field: field.Text}
		case p.check(lexer.TokPunct, "("):
			p.advance()
			var args []ast.Expr
			for !p.check(lexer.TokPunct, ")") && !p.atEOF() {
				args = append(args, p.parseExpr())
				if p.check(lexer.TokComma, "") || p.check(lexer.TokPunct, ",") {
					p.advance()
				}
			}
			p.expect(lexer.TokPunct, ")")
			expr = &ast.FunctionCallExpr{Callee: expr, Args: args}
		case p.check(lexer.TokOperator, "'") || p.check(lexer.TokOperator, ".'"):
			op := p.advance()
			expr = &ast.UnaryExpr{Op: op.Text, Operand: expr}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch {
	case t.Type == lexer.TokNumber:
		p.advance()
		return &ast.NumberLiteral{Text: t.Text}
	case t.Type == lexer.TokChar:
		p.advance()
		return &ast.CharLiteral{Text: t.Text}
	case t.Type == lexer.TokString:
		p.advance()
		return &ast.StringLiteral{Text: t.Text}
	case t.Type == lexer.TokIdentifier:
		p.advance()
		return &ast.Identifier{Name: t.Text}
	case p.check(lexer.TokOperator, "@"):
		return p.parseAnonymousFunction()
	case p.check(lexer.TokPunct, "("):
		p.advance()
		e := p.parseExpr()
		p.expect(lexer.TokPunct, ")")
		return e
	case p.check(lexer.TokPunct, "["):
		return p.parseMatrixLiteral("[", "]")
	case p.check(lexer.TokPunct, "{"):
		return p.parseMatrixLiteral("{", "}")
	default:
		p.errs = append(p.errs, &ParseError{Kind: "syntactic", Token: t, Message: "unexpected token in expression"})
		p.advance()
		return &ast.Identifier{Name: "<error>"}
	}
}

func (p *Parser) parseAnonymousFunction() ast.Expr {
	p.advance() // '@'
	var params []string
	if p.check(lexer.TokPunct, "(") {
		p.advance()
		for !p.check(lexer.TokPunct, ")") && !p.atEOF() {
			if id, ok := p.expect(lexer.TokIdentifier, ""); ok {
				params = append(params, id.Text)
			}
			if p.check(lexer.TokComma, "") || p.check(lexer.TokPunct, ",") {
				p.advance()
			}
		}
		p.expect(lexer.TokPunct, ")")
	}
	body := p.parseExpr()
	return &ast.AnonymousFunction{Params: params, Body: body}
}

// parseMatrixLiteral parses `[e1, e2, ...]` or `{e1, e2, ...}` as a
// concatenation expression; the constraint generator treats it as a
// call to the builtin horzcat/vertcat abstraction (spec §6.2).
func (p *Parser) parseMatrixLiteral(open, close string) ast.Expr {
	p.advance() // opening bracket
	callee := "horzcat"
	if open == "{" {
		callee = "horzcat_cell"
	}
	var elems []ast.Expr
	for !p.check(lexer.TokPunct, close) && !p.atEOF() {
		if p.check(lexer.TokPunct, ";") {
			p.advance()
			callee = "vertcat"
			continue
		}
		elems = append(elems, p.parseExpr())
		if p.check(lexer.TokComma, "") || p.check(lexer.TokPunct, ",") {
			p.advance()
		}
	}
	p.expect(lexer.TokPunct, close)
	return &ast.FunctionCallExpr{Callee: &ast.Identifier{Name: callee}, Args: elems}
}
