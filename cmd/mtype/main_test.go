package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeM(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func captureRun(t *testing.T, args []string) (string, int) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	code := run(args, w)
	w.Close()
	buf := make([]byte, 1<<16)
	n, _ := r.Read(buf)
	return string(buf[:n]), code
}

func TestRunNoArgsShowsUsageAndSucceeds(t *testing.T) {
	_, code := captureRun(t, nil)
	if code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}
}

func TestRunHelpFlagSucceeds(t *testing.T) {
	_, code := captureRun(t, []string{"-h"})
	if code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}
}

func TestRunInfersIdentityFunction(t *testing.T) {
	dir := t.TempDir()
	writeM(t, dir, "id.m", "function y = id(x)\n  y = x;\nend\n")

	out, code := captureRun(t, []string{"-sf", filepath.Join(dir, "id.m")})
	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out)
	}
	if out == "" {
		t.Fatalf("expected some output describing id's inferred type")
	}
}

func TestRunReportsParseErrorAsFailure(t *testing.T) {
	dir := t.TempDir()
	writeM(t, dir, "bad.m", "function y = id(x\n  y = x;\nend\n")

	_, code := captureRun(t, []string{filepath.Join(dir, "bad.m")})
	if code != exitFailure {
		t.Fatalf("expected exit %d for a parse error, got %d", exitFailure, code)
	}
}

func TestRunShowVarTypesIncludesLocals(t *testing.T) {
	dir := t.TempDir()
	writeM(t, dir, "id.m", "function y = id(x)\n  y = x;\nend\n")

	out, code := captureRun(t, []string{"-sv", filepath.Join(dir, "id.m")})
	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out)
	}
	if !strings.Contains(out, "id.x") || !strings.Contains(out, "id.y") {
		t.Fatalf("expected locals id.x and id.y in output, got: %s", out)
	}
}

func TestRunMatlabNotationSwitchesStyle(t *testing.T) {
	dir := t.TempDir()
	writeM(t, dir, "id.m", "function y = id(x)\n  y = x;\nend\n")

	out, code := captureRun(t, []string{"-mft", "-pt", filepath.Join(dir, "id.m")})
	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out)
	}
	if !strings.Contains(out, "] = (") {
		t.Fatalf("expected [out] = (in) notation, got: %s", out)
	}
}

func TestWasSetDetectsEitherSpelling(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	he := new(bool)
	fs.BoolVar(he, "show-errors", false, "")
	fs.BoolVar(he, "he", false, "")
	if err := fs.Parse([]string{"-he"}); err != nil {
		t.Fatal(err)
	}
	if !wasSet(fs, "show-errors", "he") {
		t.Fatalf("expected wasSet to detect the short spelling")
	}
}
