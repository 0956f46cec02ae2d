package library

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nfagan/mtype-sub001/internal/scope"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// OverrideManifest is an optional builtin-signature override file (spec
// §6.2's Library is otherwise fixed at startup; the manifest is this
// CLI's own addition). Each entry adds a transparent type alias into the
// base type scope, the same shape the parser's own `%<...>` `let`
// macro (§6.3) produces, so e.g. an `int: double` entry lets source
// files reference `int` wherever `double` would otherwise be required.
type OverrideManifest struct {
	Aliases []AliasOverride `yaml:"aliases"`
}

// AliasOverride is one `name: target` pair; Target must already name a
// primitive the Library defines (double, char, string, logical, list).
type AliasOverride struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// LoadOverrideManifest reads and parses path as YAML.
func LoadOverrideManifest(path string) (*OverrideManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("library: reading override manifest: %w", err)
	}
	var m OverrideManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("library: parsing override manifest: %w", err)
	}
	return &m, nil
}

// ApplyOverrides registers each alias in m into l's base type scope. An
// override naming an unknown target, or a name that collides with an
// existing base type entry, is skipped and reported in the returned
// slice rather than aborting the rest of the manifest (spec §7's
// "collected, never thrown" policy applies here too).
func (l *Library) ApplyOverrides(m *OverrideManifest) []error {
	var errs []error
	for _, a := range m.Aliases {
		target, ok := l.lookupBaseType(a.Target)
		if !ok {
			errs = append(errs, fmt.Errorf("library: override %q: unknown target %q", a.Name, a.Target))
			continue
		}
		alias := l.Store.AllocAlias(a.Name, target)
		id := l.Reg.Register(a.Name)
		if !l.BaseType.DefineLocal(int64(id), scope.Entry{Value: alias}) {
			errs = append(errs, fmt.Errorf("library: override %q: already defined", a.Name))
			continue
		}
		l.BaseType.Exports[int64(id)] = scope.Entry{Value: alias}
	}
	return errs
}

func (l *Library) lookupBaseType(name string) (typesys.Term, bool) {
	id := l.Reg.Register(name)
	entry, ok := l.BaseType.Local[int64(id)]
	if !ok {
		return nil, false
	}
	t, ok := entry.Value.(typesys.Term)
	return t, ok
}
