package lexer

// TokenType discriminates the lexical classes the scanner produces.
type TokenType int

const (
	TokEOF TokenType = iota
	TokIdentifier
	TokNumber
	TokChar
	TokString
	TokKeyword
	TokOperator
	TokPunct               // ( ) [ ] { } , ; : .
	TokTypeAnnotationBegin // a whole `%<...>` @T macro block, Text = its joined body
	TokComma               // synthetic, implicit comma insertion (§4.F.1)
)

func (t TokenType) String() string {
	switch t {
	case TokEOF:
		return "eof"
	case TokIdentifier:
		return "identifier"
	case TokNumber:
		return "number"
	case TokChar:
		return "char"
	case TokString:
		return "string"
	case TokKeyword:
		return "keyword"
	case TokOperator:
		return "operator"
	case TokPunct:
		return "punct"
	case TokTypeAnnotationBegin:
		return "type_annotation_begin"
	case TokComma:
		return "comma"
	default:
		return "unknown"
	}
}

// Token is one lexeme, its slice into the retained file contents (spec
// §4.G: "tokens carry lexeme slices referring into the retained file
// contents"), and its row/column position.
type Token struct {
	Type   TokenType
	Text   string
	Line   int
	Col    int
	Offset int
}

// RowColumnIndex maps byte offsets to (line, col) pairs, built once
// while scanning so later stages can translate an offset into a
// reportable position without re-scanning (spec §4.G).
type RowColumnIndex struct {
	lineStarts []int // byte offset of the start of each line
}

func newRowColumnIndex(src []byte) *RowColumnIndex {
	idx := &RowColumnIndex{lineStarts: []int{0}}
	for i, b := range src {
		if b == '\n' {
			idx.lineStarts = append(idx.lineStarts, i+1)
		}
	}
	return idx
}

// At returns the 1-based (line, col) for a byte offset.
func (idx *RowColumnIndex) At(offset int) (line, col int) {
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(idx.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - idx.lineStarts[lo] + 1
}
