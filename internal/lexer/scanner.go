package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Result is what Scan returns on success: the token stream, the
// row/column index for translating offsets back to positions, and
// whether this file's functions require an explicit `end` (MATLAB
// allows omitting it in script files with exactly one function; mtype,
// like the original, only supports the end-terminated form, so this is
// always true here and kept only to match the spec §4.G interface
// shape).
type Result struct {
	Tokens                 []Token
	Index                  *RowColumnIndex
	FunctionsAreEndTerminated bool
}

// ScanError is a lexical failure: bad UTF-8 or an unterminated
// literal/comment.
type ScanError struct {
	Offset  int
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

var keywords = map[string]bool{
	"function": true, "end": true, "if": true, "elseif": true, "else": true,
	"while": true, "for": true, "return": true, "break": true, "continue": true,
	"classdef": true, "properties": true, "methods": true, "import": true,
	"switch": true, "case": true, "otherwise": true, "try": true, "catch": true,
	"global": true, "persistent": true,
}

// Scan validates src as UTF-8, strips comments, inserts implicit commas
// inside []/{} (spec §4.F.1), and returns the resulting token stream.
func Scan(src []byte) (*Result, error) {
	if !utf8.Valid(src) {
		return nil, &ScanError{Message: "source is not valid UTF-8"}
	}
	src = Normalize(src)
	idx := newRowColumnIndex(src)

	s := &scanner{src: src, idx: idx}
	toks, err := s.run()
	if err != nil {
		return nil, err
	}
	toks = insertImplicitCommas(toks)
	return &Result{Tokens: toks, Index: idx, FunctionsAreEndTerminated: true}, nil
}

type scanner struct {
	src []byte
	pos int
	idx *RowColumnIndex
}

func (s *scanner) run() ([]Token, error) {
	var toks []Token
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.pos++
		case c == '%':
			tok, err := s.skipComment()
			if err != nil {
				return nil, err
			}
			if tok != nil {
				toks = append(toks, *tok)
			}
		case c == '\'':
			tok, err := s.scanCharOrTranspose(toks)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case c == '"':
			tok, err := s.scanString()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case c >= '0' && c <= '9':
			toks = append(toks, s.scanNumber())
		case isIdentStart(rune(c)) || c >= utf8.RuneSelf:
			toks = append(toks, s.scanIdentifier())
		default:
			tok, err := s.scanOperatorOrPunct()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		}
	}
	toks = append(toks, Token{Type: TokEOF, Line: 0, Col: 0, Offset: len(s.src)})
	return toks, nil
}

// typeAnnotationKeywords are the @T macro-block keywords recognized
// inside `%<...>` comments (spec §6.3).
var typeAnnotationKeywords = map[string]bool{
	"begin": true, "export": true, "given": true, "let": true, "fun": true,
	"namespace": true, "struct": true, "declare": true, "constructor": true, "end": true,
}

// skipComment consumes one comment and, for an ordinary line/block
// comment, returns a nil token (comments carry no syntax). A `%<...>`
// @T macro block instead returns a TokTypeAnnotationBegin token whose
// Text is the block's inner content, joined line by line with its
// leading `%` stripped, so the parser can parse the macro's mini
// grammar (spec §6.3) without re-scanning raw source.
func (s *scanner) skipComment() (*Token, error) {
	start := s.pos
	if strings.HasPrefix(string(s.src[s.pos:]), "%{") {
		// Block comment: runs until a matching "%}" on its own.
		end := strings.Index(string(s.src[s.pos+2:]), "%}")
		if end < 0 {
			return nil, &ScanError{Offset: start, Message: "unterminated block comment"}
		}
		s.pos += 2 + end + 2
		return nil, nil
	}
	if strings.HasPrefix(string(s.src[s.pos:]), "%<") {
		return s.scanTypeAnnotationBlock(start)
	}
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
	return nil, nil
}

// scanTypeAnnotationBlock scans a `%<...>` @T macro comment. Each line
// inside must still start with `%` (it's a comment to everything but
// mtype); the block runs until a closing `%>` line or a bare `end`
// keyword line at the same nesting depth, matching the `begin ... end`
// shape the macro keywords imply.
func (s *scanner) scanTypeAnnotationBlock(start int) (*Token, error) {
	depth := 0
	var body []string
	for s.pos < len(s.src) {
		lineEnd := s.pos
		for lineEnd < len(s.src) && s.src[lineEnd] != '\n' {
			lineEnd++
		}
		line := string(s.src[s.pos:lineEnd])
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "%"))
		if strings.HasSuffix(trimmed, ">") {
			trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ">"))
			if trimmed != "" {
				body = append(body, trimmed)
			}
			s.pos = lineEnd
			return s.makeAnnotationToken(start, body), nil
		}
		for _, w := range strings.Fields(trimmed) {
			if w == "begin" {
				depth++
			}
			if w == "end" {
				depth--
				if depth <= 0 {
					s.pos = lineEnd
					return s.makeAnnotationToken(start, body), nil
				}
			}
		}
		if trimmed != "" {
			body = append(body, trimmed)
		}
		if lineEnd >= len(s.src) {
			s.pos = lineEnd
			return s.makeAnnotationToken(start, body), nil
		}
		s.pos = lineEnd + 1
	}
	return nil, &ScanError{Offset: start, Message: "unterminated type annotation block"}
}

func (s *scanner) makeAnnotationToken(start int, body []string) *Token {
	line, col := s.idx.At(start)
	return &Token{Type: TokTypeAnnotationBegin, Text: strings.Join(body, " "), Line: line, Col: col, Offset: start}
}

func (s *scanner) makeToken(typ TokenType, start int) Token {
	line, col := s.idx.At(start)
	return Token{Type: typ, Text: string(s.src[start:s.pos]), Line: line, Col: col, Offset: start}
}

func (s *scanner) scanCharOrTranspose(prev []Token) (Token, error) {
	start := s.pos
	// A ' immediately after an identifier/number/) /] is a transpose
	// operator, not a char-literal open, unless followed by content and
	// a matching close quote makes more sense contextually. We use the
	// common heuristic: transpose when the previous token is a value-
	// producing token with no intervening whitespace.
	if len(prev) > 0 && s.pos > 0 && !isSpace(s.src[s.pos-1]) && isValueEnd(prev[len(prev)-1]) {
		s.pos++
		return s.makeToken(TokOperator, start), nil
	}
	s.pos++ // opening quote
	for {
		if s.pos >= len(s.src) {
			return Token{}, &ScanError{Offset: start, Message: "unterminated char literal"}
		}
		if s.src[s.pos] == '\'' {
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\'' {
				s.pos += 2 // escaped quote
				continue
			}
			s.pos++
			break
		}
		s.pos++
	}
	return s.makeToken(TokChar, start), nil
}

func isValueEnd(t Token) bool {
	switch t.Type {
	case TokIdentifier, TokNumber, TokChar, TokString:
		return true
	case TokPunct:
		return t.Text == ")" || t.Text == "]" || t.Text == "}"
	default:
		return false
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func (s *scanner) scanString() (Token, error) {
	start := s.pos
	s.pos++
	for {
		if s.pos >= len(s.src) {
			return Token{}, &ScanError{Offset: start, Message: "unterminated string literal"}
		}
		if s.src[s.pos] == '"' {
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '"' {
				s.pos += 2
				continue
			}
			s.pos++
			break
		}
		s.pos++
	}
	return s.makeToken(TokString, start), nil
}

func (s *scanner) scanNumber() Token {
	start := s.pos
	for s.pos < len(s.src) && (isDigit(s.src[s.pos]) || s.src[s.pos] == '.') {
		s.pos++
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		s.pos++
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'i' || s.src[s.pos] == 'j') {
		s.pos++
	}
	return s.makeToken(TokNumber, start)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *scanner) scanIdentifier() Token {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRune(s.src[s.pos:])
		if !isIdentCont(r) {
			break
		}
		s.pos += size
	}
	tok := s.makeToken(TokIdentifier, start)
	if keywords[tok.Text] {
		tok.Type = TokKeyword
	}
	return tok
}

var multiCharOps = []string{"==", "~=", "<=", ">=", "&&", "||", ".*", "./", ".^", ".'"}

func (s *scanner) scanOperatorOrPunct() (Token, error) {
	start := s.pos
	rest := string(s.src[s.pos:])
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			s.pos += len(op)
			return s.makeToken(TokOperator, start), nil
		}
	}
	c := s.src[s.pos]
	switch c {
	case '(', ')', '[', ']', '{', '}', ',', ';', ':':
		s.pos++
		return s.makeToken(TokPunct, start), nil
	case '.':
		s.pos++
		return s.makeToken(TokPunct, start), nil
	case '+', '-', '*', '/', '^', '<', '>', '=', '&', '|', '~', '@':
		s.pos++
		return s.makeToken(TokOperator, start), nil
	default:
		return Token{}, &ScanError{Offset: start, Message: fmt.Sprintf("unexpected character %q", c)}
	}
}

// insertImplicitCommas implements spec §4.F.1: inside [] or {}, two
// adjacent identifier/literal tokens separated only by whitespace (no
// explicit comma, operator, or punct between them) are list elements,
// not one expression continuing onto the next token; a synthetic
// TokComma is spliced between them so the parser never has to special-
// case it.
func insertImplicitCommas(toks []Token) []Token {
	var out []Token
	var bracketDepth int
	isBracketOpen := func(t Token) bool { return t.Type == TokPunct && (t.Text == "[" || t.Text == "{") }
	isBracketClose := func(t Token) bool { return t.Type == TokPunct && (t.Text == "]" || t.Text == "}") }
	isElementValue := func(t Token) bool {
		return t.Type == TokIdentifier || t.Type == TokNumber || t.Type == TokChar || t.Type == TokString
	}

	for i, t := range toks {
		out = append(out, t)
		if isBracketOpen(t) {
			bracketDepth++
		} else if isBracketClose(t) {
			if bracketDepth > 0 {
				bracketDepth--
			}
		}
		if bracketDepth > 0 && i+1 < len(toks) {
			next := toks[i+1]
			if isElementValue(t) && isElementValue(next) {
				out = append(out, Token{Type: TokComma, Text: ",", Line: next.Line, Col: next.Col, Offset: next.Offset})
			}
		}
	}
	return out
}
