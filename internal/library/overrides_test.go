package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nfagan/mtype-sub001/internal/typesys"
)

func TestApplyOverridesRegistersAlias(t *testing.T) {
	l, _, reg := newFixture()
	m := &OverrideManifest{Aliases: []AliasOverride{{Name: "int", Target: Double}}}

	if errs := l.ApplyOverrides(m); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	id := reg.Register("int")
	entry, ok := l.BaseType.Local[int64(id)]
	if !ok {
		t.Fatalf("expected int to be defined in the base type scope")
	}
	alias, ok := entry.Value.(*typesys.Alias)
	if !ok {
		t.Fatalf("expected an *typesys.Alias, got %T", entry.Value)
	}
	if alias.Target != typesys.Term(l.Double) {
		t.Fatalf("expected int to alias double")
	}
}

func TestApplyOverridesReportsUnknownTarget(t *testing.T) {
	l, _, _ := newFixture()
	m := &OverrideManifest{Aliases: []AliasOverride{{Name: "weird", Target: "nonexistent"}}}

	errs := l.ApplyOverrides(m)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
}

func TestApplyOverridesReportsCollision(t *testing.T) {
	l, _, _ := newFixture()
	m := &OverrideManifest{Aliases: []AliasOverride{{Name: Double, Target: Double}}}

	errs := l.ApplyOverrides(m)
	if len(errs) != 1 {
		t.Fatalf("expected a collision error, got %v", errs)
	}
}

func TestLoadOverrideManifestParsesYAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "overrides.yaml")
	if err := os.WriteFile(p, []byte("aliases:\n  - name: int\n    target: double\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadOverrideManifest(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Aliases) != 1 || m.Aliases[0].Name != "int" || m.Aliases[0].Target != "double" {
		t.Fatalf("got %+v", m.Aliases)
	}
}
