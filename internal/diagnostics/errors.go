package diagnostics

import (
	"fmt"

	"github.com/nfagan/mtype-sub001/internal/parser"
	"github.com/nfagan/mtype-sub001/internal/subst"
)

// RenderParseError formats one parse error (spec §7: "carry
// (source_slice, offending_token, message, file_descriptor)") as a
// single display line, styled red with the kind dimmed, mirroring
// ailang's cmd/ailang/main.go error-line convention.
func RenderParseError(file string, e *parser.ParseError, style Style) string {
	loc := fmt.Sprintf("%s:%d:%d", file, e.Token.Line, e.Token.Col)
	return fmt.Sprintf("%s %s: %s", style.Red(loc), style.Dim(e.Kind), e.Message)
}

// RenderTypeError formats one type error (spec §7's tagged taxonomy)
// as a single display line, styled yellow with the kind bolded.
func RenderTypeError(e *subst.TypeError, style Style) string {
	label := style.Bold(string(e.Kind))
	if e.Site != "" {
		return fmt.Sprintf("%s %s (%s): %s", style.Yellow("type error"), label, e.Site, e.Error())
	}
	return fmt.Sprintf("%s %s: %s", style.Yellow("type error"), label, e.Error())
}

// IsWarning reports whether kind is advisory rather than a hard
// failure — spec §7 names could_not_infer_type as the one kind that
// still yields a usable (if partial) scheme, so --show-warnings and
// --show-errors (spec §6.1) can split the diagnostics slice on it.
func IsWarning(kind subst.TypeErrorKind) bool {
	return kind == subst.CouldNotInferType
}
