package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the scanner boundary,
// mirroring the layout validation spec §4.F.1 asks Visit to perform
// before tokenizing:
//  1. Strips a UTF-8 byte order mark if present.
//  2. Applies Unicode NFC normalization, so lexically equivalent source
//     (e.g. a precomposed vs. decomposed accented identifier) produces
//     identical tokens regardless of how the file was encoded.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
