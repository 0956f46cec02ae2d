package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/searchpath"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

func TestSingleFileIdentityGeneralizes(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.m", "function y = id(x)\n  y = x;\nend\n")

	res := Run(Config{SearchPath: searchpath.New([]string{dir})}, []string{main})
	if len(res.ParseErrors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.ParseErrors)
	}
	if len(res.TypeErrors) != 0 {
		t.Fatalf("unexpected type errors: %v", res.TypeErrors)
	}
}

func TestCrossFileCallResolvesThroughSearchPath(t *testing.T) {
	dir := t.TempDir()
	bFile := writeFile(t, dir, "b.m", "function y = b(x)\n  y = [x, x];\nend\n")
	aFile := writeFile(t, dir, "a.m", "function y = a()\n  y = b(1);\nend\n")

	res := Run(Config{SearchPath: searchpath.New([]string{dir})}, []string{aFile})
	if len(res.ParseErrors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.ParseErrors)
	}
	for _, d := range res.TypeErrors {
		t.Fatalf("unexpected type error: %v", d)
	}

	foundA, foundB := false, false
	for _, f := range res.VisitedFiles {
		if f == aFile {
			foundA = true
		}
		if f == bFile {
			foundB = true
		}
	}
	if !foundA || !foundB {
		t.Fatalf("expected both files visited, got %v", res.VisitedFiles)
	}

	entry, ok := res.Asts.Get(bFile)
	if !ok || len(entry.Bindings) != 1 {
		t.Fatalf("expected b.m to have generated one binding")
	}
	var scheme *typesys.Scheme
	res.Defs.ReadScoped(func(r *defstore.ReadView) {
		if def, ok := r.FunctionDef(entry.Bindings[0].Handle); ok {
			scheme = def.Scheme
		}
	})
	if scheme == nil {
		t.Fatalf("expected b to have a recorded scheme")
	}
}

func TestUnresolvableRootIdentifierReportsUnresolvedFunction(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.m", "function y = main()\n  y = doesNotExist(1);\nend\n")

	res := Run(Config{SearchPath: searchpath.New([]string{dir})}, []string{main})
	found := false
	for _, d := range res.TypeErrors {
		if d.Kind == "unresolved_function" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unresolved_function diagnostic, got %v", res.TypeErrors)
	}
}
