package searchpath

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSearchForSimpleName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.m"), "function y = b(x)\ny = x;\nend\n")

	p := New([]string{dir})
	c, ok := p.SearchFor("b", "")
	if !ok {
		t.Fatalf("expected to resolve b")
	}
	if c.DefiningFile != filepath.Join(dir, "b.m") {
		t.Fatalf("got %q", c.DefiningFile)
	}
	if c.ParentPackage != "" {
		t.Fatalf("expected empty parent package, got %q", c.ParentPackage)
	}
}

func TestSearchForDottedName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ns", "c.m"), "function y = c(x)\ny = x;\nend\n")

	p := New([]string{dir})
	c, ok := p.SearchFor("ns.c", "")
	if !ok {
		t.Fatalf("expected to resolve ns.c")
	}
	if c.ParentPackage != "ns" {
		t.Fatalf("got parent package %q", c.ParentPackage)
	}
}

func TestSearchForMissingReturnsNotOK(t *testing.T) {
	p := New([]string{t.TempDir()})
	if _, ok := p.SearchFor("nonexistent", ""); ok {
		t.Fatalf("expected not found")
	}
}

func TestSearchForBaseDirTakesPriority(t *testing.T) {
	pathDir := t.TempDir()
	baseDir := t.TempDir()
	writeFile(t, filepath.Join(pathDir, "b.m"), "% path version\n")
	writeFile(t, filepath.Join(baseDir, "b.m"), "% base dir version\n")

	p := New([]string{pathDir})
	c, ok := p.SearchFor("b", baseDir)
	if !ok {
		t.Fatalf("expected to resolve b")
	}
	if c.DefiningFile != filepath.Join(baseDir, "b.m") {
		t.Fatalf("expected base dir to win, got %q", c.DefiningFile)
	}
}

func TestFromColonDelimited(t *testing.T) {
	p := FromColonDelimited("/a:/b: :/c")
	if len(p.roots) != 3 {
		t.Fatalf("got roots %v", p.roots)
	}
}

func TestFromFileIgnoresBlankAndCommentLines(t *testing.T) {
	dir := t.TempDir()
	pf := filepath.Join(dir, "path.txt")
	writeFile(t, pf, "/a\n\n# comment\n/b\n")
	p, err := FromFile(pf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.roots) != 2 || p.roots[0] != "/a" || p.roots[1] != "/b" {
		t.Fatalf("got roots %v", p.roots)
	}
}

func TestFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	pf := filepath.Join(dir, "path.yaml")
	writeFile(t, pf, "roots:\n  - /a\n  - /b\n")
	p, err := FromYAMLFile(pf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.roots) != 2 || p.roots[0] != "/a" || p.roots[1] != "/b" {
		t.Fatalf("got roots %v", p.roots)
	}
}

func TestFromManifestFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "path.yml")
	writeFile(t, yamlPath, "roots:\n  - /a\n")
	p, err := FromManifestFile(yamlPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.roots) != 1 || p.roots[0] != "/a" {
		t.Fatalf("got roots %v", p.roots)
	}

	txtPath := filepath.Join(dir, "path.txt")
	writeFile(t, txtPath, "/b\n")
	p, err = FromManifestFile(txtPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.roots) != 1 || p.roots[0] != "/b" {
		t.Fatalf("got roots %v", p.roots)
	}
}
