package parser

import (
	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/lexer"
)

// parseClassDef parses `classdef Name ... properties ... end ...
// methods ... end ... end` (spec §4.E).
func (p *Parser) parseClassDef() *ast.ClassDef {
	p.advance() // 'classdef'
	cd := &ast.ClassDef{}
	if p.check(lexer.TokPunct, "(") {
		p.skipParenGroup() // class attributes, e.g. `classdef (Sealed) Name`
	}
	if nameTok, ok := p.expect(lexer.TokIdentifier, ""); ok {
		cd.Name = nameTok.Text
	}

	for !p.check(lexer.TokKeyword, "end") && !p.atEOF() {
		switch {
		case p.check(lexer.TokKeyword, "properties"):
			cd.Properties = append(cd.Properties, p.parsePropertiesBlock()...)
		case p.check(lexer.TokKeyword, "methods"):
			cd.Methods = append(cd.Methods, p.parseMethodsBlock()...)
		default:
			before := p.pos
			p.advance()
			if p.pos == before {
				break
			}
		}
	}
	p.expect(lexer.TokKeyword, "end")
	return cd
}

func (p *Parser) parsePropertiesBlock() []string {
	p.advance() // 'properties'
	if p.check(lexer.TokPunct, "(") {
		p.skipParenGroup() // e.g. `properties (Access = private)`
	}
	var names []string
	for !p.check(lexer.TokKeyword, "end") && !p.atEOF() {
		if id, ok := p.expect(lexer.TokIdentifier, ""); ok {
			names = append(names, id.Text)
		} else {
			p.advance()
			continue
		}
		if p.check(lexer.TokPunct, ";") || p.check(lexer.TokComma, "") {
			p.advance()
		}
	}
	p.expect(lexer.TokKeyword, "end")
	return names
}

func (p *Parser) parseMethodsBlock() []*ast.MethodDef {
	p.advance() // 'methods'
	static := false
	if p.check(lexer.TokPunct, "(") {
		static = p.skipMethodAttributes()
	}
	var methods []*ast.MethodDef
	for !p.check(lexer.TokKeyword, "end") && !p.atEOF() {
		if p.check(lexer.TokKeyword, "function") {
			fn := p.parseFunctionDef()
			methods = append(methods, &ast.MethodDef{Fn: fn, Static: static})
			continue
		}
		before := p.pos
		p.advance()
		if p.pos == before {
			break
		}
	}
	p.expect(lexer.TokKeyword, "end")
	return methods
}

// skipMethodAttributes consumes a `(Attr, Attr = value, ...)` group and
// reports whether `Static` (case-sensitive, as MATLAB spells it)
// appeared among the attribute names.
func (p *Parser) skipMethodAttributes() bool {
	static := false
	p.advance() // '('
	depth := 1
	for !p.atEOF() && depth > 0 {
		switch {
		case p.check(lexer.TokPunct, "("):
			depth++
		case p.check(lexer.TokPunct, ")"):
			depth--
		case p.cur().Type == lexer.TokIdentifier && p.cur().Text == "Static":
			static = true
		}
		p.advance()
	}
	return static
}

// skipParenGroup consumes a balanced `(...)` group without interpreting
// its contents.
func (p *Parser) skipParenGroup() {
	p.advance() // '('
	depth := 1
	for !p.atEOF() && depth > 0 {
		switch {
		case p.check(lexer.TokPunct, "("):
			depth++
		case p.check(lexer.TokPunct, ")"):
			depth--
		}
		p.advance()
	}
}
