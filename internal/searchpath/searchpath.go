// Package searchpath resolves a dotted module name to a source file on
// disk, the way the pipeline's external-function and type-import
// resolution stages need (spec §4.G): "search_for(name, optional
// base_dir) → optional candidate{defining_file, parent_package}". The
// resolver reads a newline-delimited path file or a colon-delimited
// string, mirroring Go's own GOPATH-style search semantics and the
// directory-walking conventions ailang's eval_analysis.LoadResults uses
// for locating files under a root.
package searchpath

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Candidate is the result of resolving a name against the path: the
// file it resolved to, and the package (directory) it was found under.
// defstore.SearchCandidate deliberately mirrors this shape so the
// defstore package doesn't need to import searchpath (see
// internal/defstore/handles.go).
type Candidate struct {
	DefiningFile  string
	ParentPackage string
}

// Path is an ordered list of root directories to search, each
// containing `.m`-suffixed source files named after the identifiers
// they define (e.g. `b.m` defines `b`, `ns/c.m` defines `ns.c`).
type Path struct {
	roots []string
}

// New builds a Path from an explicit root list.
func New(roots []string) *Path {
	cp := make([]string, len(roots))
	copy(cp, roots)
	return &Path{roots: cp}
}

// FromColonDelimited parses a colon-delimited search path string, as
// given to `--path / -p`.
func FromColonDelimited(s string) *Path {
	var roots []string
	for _, part := range strings.Split(s, ":") {
		part = strings.TrimSpace(part)
		if part != "" {
			roots = append(roots, part)
		}
	}
	return &Path{roots: roots}
}

// FromFile parses a newline-delimited path file, one root directory per
// line; blank lines and lines beginning with `#` are ignored.
func FromFile(path string) (*Path, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("searchpath: opening path file: %w", err)
	}
	defer f.Close()

	var roots []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		roots = append(roots, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("searchpath: reading path file: %w", err)
	}
	return &Path{roots: roots}, nil
}

// yamlManifest is a path-file expressed as YAML instead of
// newline-delimited text (`--path-file / -pf`, spec §6.1): a plain
// `roots:` list, dispatched on by FromManifestFile's extension check.
type yamlManifest struct {
	Roots []string `yaml:"roots"`
}

// FromYAMLFile parses path as a YAML manifest of root directories.
func FromYAMLFile(path string) (*Path, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("searchpath: reading yaml path file: %w", err)
	}
	var m yamlManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("searchpath: parsing yaml path file: %w", err)
	}
	return &Path{roots: m.Roots}, nil
}

// FromManifestFile reads path as either YAML (.yaml/.yml extension) or
// newline-delimited text, whichever original_source's path-file format
// the caller handed the CLI's `--path-file / -pf` flag.
func FromManifestFile(path string) (*Path, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAMLFile(path)
	default:
		return FromFile(path)
	}
}

// SearchFor resolves a dotted name (e.g. "ns.c") to a Candidate. If
// baseDir is non-empty it is tried first, ahead of the configured
// roots, so that a file can refer to sibling files without requiring
// them to also sit on the global path. Returns ok=false if no root
// yields an existing file.
func (p *Path) SearchFor(name string, baseDir string) (Candidate, bool) {
	rel := strings.ReplaceAll(name, ".", string(filepath.Separator)) + ".m"

	roots := p.roots
	if baseDir != "" {
		roots = append([]string{baseDir}, roots...)
	}
	for _, root := range roots {
		full := filepath.Join(root, rel)
		if fileExists(full) {
			return Candidate{
				DefiningFile:  full,
				ParentPackage: parentPackage(name),
			}, true
		}
	}
	return Candidate{}, false
}

// parentPackage returns all but the last dotted component, or "" for a
// single-component name.
func parentPackage(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[:idx]
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
