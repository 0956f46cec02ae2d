package parser

import (
	"strings"

	"github.com/nfagan/mtype-sub001/internal/ast"
)

// parseTypeAnnotation parses one already-scanned `%<...>` @T macro
// block (spec §6.3) into its `given`/`let`/`fun` declarations. The
// scanner hands the whole block over as a single TokTypeAnnotationBegin
// token whose Text is the block's body, space-joined word by word; this
// is a small word-level parser over that string rather than a second
// pass through the lexer's token stream.
func (p *Parser) parseTypeAnnotation() *ast.TypeAnnotation {
	tok := p.advance() // the TokTypeAnnotationBegin token
	words := strings.Fields(tok.Text)
	anno := &ast.TypeAnnotation{}

	i := 0
	next := func() string {
		if i >= len(words) {
			return ""
		}
		w := words[i]
		i++
		return w
	}
	peek := func() string {
		if i >= len(words) {
			return ""
		}
		return words[i]
	}

	for i < len(words) {
		switch next() {
		case "begin", "end", "export", "namespace", "struct", "declare", "constructor":
			// Recognized but carry no further semantics yet (spec §6.3).
		case "given":
			for peek() != "" && !isTypeAnnoKeyword(peek()) {
				anno.Givens = append(anno.Givens, next())
			}
		case "let":
			name := next()
			if peek() == "=" {
				next()
			}
			expr := parseWordTypeExpr(words, &i)
			anno.Lets = append(anno.Lets, ast.TypeAliasDecl{Name: name, Expr: expr})
		case "fun":
			name := next()
			if peek() == "::" {
				next()
			}
			expr := parseWordTypeExpr(words, &i)
			anno.Funs = append(anno.Funs, ast.FunTypeDecl{Name: name, Expr: expr})
		}
	}
	return anno
}

func isTypeAnnoKeyword(w string) bool {
	switch w {
	case "begin", "end", "export", "given", "let", "fun", "namespace", "struct", "declare", "constructor":
		return true
	default:
		return false
	}
}

// parseWordTypeExpr parses a `A -> B -> C` arrow chain (right-
// associative) out of words[*i:], stopping at the next macro keyword.
func parseWordTypeExpr(words []string, i *int) ast.TypeExpr {
	var parts []ast.TypeExpr
	for *i < len(words) {
		w := words[*i]
		if isTypeAnnoKeyword(w) {
			break
		}
		*i++
		if w == "->" {
			continue
		}
		parts = append(parts, &ast.TypeRef{Name: w})
	}
	if len(parts) == 0 {
		return nil
	}
	expr := parts[len(parts)-1]
	for j := len(parts) - 2; j >= 0; j-- {
		expr = &ast.TypeArrow{In: parts[j], Out: expr}
	}
	return expr
}
