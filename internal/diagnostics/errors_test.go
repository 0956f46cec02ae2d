package diagnostics

import (
	"strings"
	"testing"

	"github.com/nfagan/mtype-sub001/internal/lexer"
	"github.com/nfagan/mtype-sub001/internal/parser"
	"github.com/nfagan/mtype-sub001/internal/subst"
)

func TestRenderParseErrorIncludesFileAndPosition(t *testing.T) {
	e := &parser.ParseError{
		Kind:    "syntactic",
		Token:   lexer.Token{Line: 3, Col: 7},
		Message: "unexpected token",
	}
	got := RenderParseError("a.m", e, NewStyle(true))
	if !strings.Contains(got, "a.m:3:7") || !strings.Contains(got, "unexpected token") {
		t.Fatalf("RenderParseError = %q", got)
	}
}

func TestRenderTypeErrorIncludesSite(t *testing.T) {
	e := subst.NewCouldNotInferType("x", "parameter", nil)
	got := RenderTypeError(e, NewStyle(true))
	if !strings.Contains(got, "x") || !strings.Contains(got, string(subst.CouldNotInferType)) {
		t.Fatalf("RenderTypeError = %q", got)
	}
}

func TestIsWarningOnlyCouldNotInferType(t *testing.T) {
	if !IsWarning(subst.CouldNotInferType) {
		t.Fatalf("expected could_not_infer_type to be a warning")
	}
	if IsWarning(subst.UnificationFailure) {
		t.Fatalf("expected unification_failure to not be a warning")
	}
}
