// Package parser is a recursive-descent parser over internal/lexer's
// token stream, producing an internal/ast.File plus the per-file value
// and type scopes (spec §4.G: "Parser returns a root block, a per-file
// value scope, a per-file type scope, an ordered list of pending
// type-import identifiers, optional file-entry function or class,
// parse errors and warnings").
package parser

import (
	"fmt"

	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/lexer"
	"github.com/nfagan/mtype-sub001/internal/scope"
)

// ParseError is a parse-time diagnostic (spec §7): it carries the
// offending token, a message, and the kind for downstream reporting.
type ParseError struct {
	Kind    string
	Token   lexer.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Token.Line, e.Token.Col, e.Message)
}

// Result bundles everything one Parse call produces.
type Result struct {
	File        *ast.File
	ValueScope  *scope.ValueScope
	TypeScope   *scope.TypeScope
	Errors      []*ParseError
	Warnings    []*ParseError
}

// Parser holds parse state for one file.
type Parser struct {
	reg    *ident.StringRegistry
	toks   []lexer.Token
	pos    int
	errs   []*ParseError
	warns  []*ParseError

	valueScope *scope.ValueScope
	typeScope  *scope.TypeScope
}

// Parse scans and parses src, returning a Result. A scan error (bad
// UTF-8, unterminated literal) is reported as a single lexical
// ParseError and parsing stops immediately, per spec §4.F.1 ("parse
// failures mark the entry as failed; dependent stages short-circuit").
func Parse(reg *ident.StringRegistry, src []byte) *Result {
	scanned, err := lexer.Scan(src)
	if err != nil {
		return &Result{
			Errors: []*ParseError{{Kind: "lexical", Message: err.Error()}},
		}
	}

	p := &Parser{
		reg:        reg,
		toks:       scanned.Tokens,
		valueScope: scope.NewValueRoot(),
		typeScope:  scope.NewTypeRoot(),
	}

	file := &ast.File{Root: &ast.Block{}}
	for !p.atEOF() && !p.check(lexer.TokKeyword, "end") {
		if p.check(lexer.TokKeyword, "import") {
			imp := p.parseImport()
			if imp != nil {
				file.Imports = append(file.Imports, imp)
				file.PendingTypeImports = append(file.PendingTypeImports, dottedPath(imp.Path))
			}
			continue
		}
		if p.check(lexer.TokKeyword, "function") {
			fn := p.parseFunctionDef()
			if fn != nil {
				file.Root.Stmts = append(file.Root.Stmts, fn)
				if file.EntryFunction == nil {
					file.EntryFunction = fn
				}
				p.defineLocalFunction(fn)
			}
			continue
		}
		if p.check(lexer.TokKeyword, "classdef") {
			cd := p.parseClassDef()
			if cd != nil {
				file.Root.Stmts = append(file.Root.Stmts, cd)
				if file.EntryClass == nil {
					file.EntryClass = cd
				}
				p.defineLocalClass(cd)
			}
			continue
		}
		if p.check(lexer.TokTypeAnnotationBegin, "") {
			anno := p.parseTypeAnnotation()
			if anno != nil {
				file.Root.Stmts = append(file.Root.Stmts, anno)
				file.TypeAnnotations = append(file.TypeAnnotations, anno)
			}
			continue
		}
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			file.Root.Stmts = append(file.Root.Stmts, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}

	return &Result{
		File:       file,
		ValueScope: p.valueScope,
		TypeScope:  p.typeScope,
		Errors:     p.errs,
		Warnings:   p.warns,
	}
}

func dottedPath(parts []string) string {
	out := ""
	for i, s := range parts {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

func (p *Parser) defineLocalFunction(fn *ast.FunctionDef) {
	name := p.reg.Register(fn.Name)
	p.valueScope.DefineLocal(int64(name), scope.Entry{Value: fn})
}

func (p *Parser) defineLocalClass(cd *ast.ClassDef) {
	name := p.reg.Register(cd.Name)
	p.valueScope.DefineLocal(int64(name), scope.Entry{Value: cd})
}

// --- token stream helpers ---

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.toks) || p.toks[p.pos].Type == lexer.TokEOF
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Type: lexer.TokEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) check(typ lexer.TokenType, text string) bool {
	t := p.cur()
	return t.Type == typ && (text == "" || t.Text == text)
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if !p.atEOF() {
		p.pos++
	}
	return t
}

func (p *Parser) expect(typ lexer.TokenType, text string) (lexer.Token, bool) {
	if p.check(typ, text) {
		return p.advance(), true
	}
	p.errs = append(p.errs, &ParseError{
		Kind:    "syntactic",
		Token:   p.cur(),
		Message: fmt.Sprintf("expected %s %q, got %q", typ, text, p.cur().Text),
	})
	return lexer.Token{}, false
}

