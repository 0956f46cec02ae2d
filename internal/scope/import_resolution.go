package scope

import "fmt"

// ResolveImports is the recursive, memoized closure over the scope
// graph from spec §4.D.3: for scope s, visit each import edge,
// recursing first to make sure the target's own exports are stable,
// then copy the target's exports into s.Local (and into s.Root.Exports
// when the edge is marked exported).
//
// Duplicate *sources* (the same target imported more than once) are
// silently fine. Duplicate *names* imported from different targets are
// reported as a "duplicate type identifier" error citing the earlier
// source.
func ResolveImports(s *Scope) []error {
	return resolveImports(s, make(map[*Scope]bool))
}

func resolveImports(s *Scope, visiting map[*Scope]bool) []error {
	if s.importsResolved {
		return nil
	}
	if visiting[s] {
		// A cycle in progress: the target's exports-so-far are used
		// as-is: that's what makes mutually-importing scopes (spec §8
		// scenario 6) resolve to a finite, deterministic result instead
		// of infinite recursion.
		return nil
	}
	visiting[s] = true
	defer delete(visiting, s)

	var errs []error
	// importedFrom tracks, per name, which target first introduced it,
	// for the "citing the earlier source" duplicate message.
	importedFrom := make(map[int64]*Scope)
	firstEntry := make(map[int64]Entry)

	for _, edge := range s.Imports {
		errs = append(errs, resolveImports(edge.TargetRoot, visiting)...)
		for name, entry := range edge.TargetRoot.Exports {
			if existingTarget, seen := importedFrom[name]; seen {
				if existingTarget != edge.TargetRoot {
					errs = append(errs, fmt.Errorf(
						"duplicate type identifier (first imported from %s at %v)",
						describeScope(existingTarget), firstEntry[name].Source))
				}
				continue
			}
			importedFrom[name] = edge.TargetRoot
			firstEntry[name] = entry
			if _, local := s.Local[name]; !local {
				s.Local[name] = entry
			}
			if edge.IsExported {
				s.Root.Exports[name] = entry
			}
		}
	}
	s.importsResolved = true
	return errs
}

func describeScope(s *Scope) string {
	return fmt.Sprintf("scope@%p", s)
}
