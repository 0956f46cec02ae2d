package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/nfagan/mtype-sub001/internal/constraints"
	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/subst"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// PendingExternalFunctions is the single re-entry guard for external
// function resolution (spec §4.C.5, §3.5). original_source's
// ExternalFunctionRegistry and FunctionRegistry overlapped in exactly
// this responsibility (spec §9 Open Question); folding both into one
// structure fronting the unifier's (as_referenced, as_defined) dedup
// table resolves it the way original_source/src/mt/external_resolution.cpp
// does it, without a second registry object.
type PendingExternalFunctions struct {
	uni *subst.Unifier
}

// NewPendingExternalFunctions builds the guard over uni's dedup table.
func NewPendingExternalFunctions(uni *subst.Unifier) *PendingExternalFunctions {
	return &PendingExternalFunctions{uni: uni}
}

// TryVisit reports whether (asReferenced, asDefined) has already been
// drained once; a repeat pair is a no-op (idempotent re-enqueue).
func (p *PendingExternalFunctions) TryVisit(asReferenced, asDefined string) bool {
	return p.uni.MarkExternalVisited(asReferenced, asDefined)
}

// converge runs spec §4.F steps 7-8 to a fixed point: drain the
// substitution, regeneralize every function generated so far (so newly
// resolved externals can be instantiated from an up-to-date scheme),
// then walk the constraint generator's unresolved call references,
// visiting whatever file the search path says defines each one and
// feeding the unifier a fresh equation once it does. The loop
// terminates because each (site, candidate) pair is visited at most
// once (PendingExternalFunctions) and the search path names a finite
// set of files.
func (s *Session) converge() {
	pending := NewPendingExternalFunctions(s.uni)
	for {
		n := s.uni.Drain()
		s.regeneralizeAll()

		unresolved := s.gen.TakeUnresolved()
		for _, ref := range unresolved {
			s.resolveExternal(ref, pending)
		}
		if n == 0 && len(unresolved) == 0 {
			return
		}
	}
}

// resolveExternal implements spec §4.C.5 for one unresolved call site:
// resolve ref.Name's defining file via the search path, visit it
// (idempotent if already done), find the matching top-level function
// among its bindings, and push an equation linking ref.Term to a fresh
// instantiation of that function's scheme (or, if the dependency
// hasn't generalized yet — e.g. mutual cross-file recursion — its raw
// target, deferring proper generalization to a later regeneralizeAll
// pass).
func (s *Session) resolveExternal(ref constraints.UnresolvedRef, pending *PendingExternalFunctions) {
	baseDir := filepath.Dir(ref.FromFile)
	cand, ok := s.cfg.SearchPath.SearchFor(ref.Name, baseDir)
	if !ok {
		s.uni.Diagnostics = append(s.uni.Diagnostics, subst.NewUnresolvedFunction(ref.Name))
		return
	}
	if !pending.TryVisit(fmt.Sprintf("%s::%s@%p", ref.FromFile, ref.Name, ref.Term), cand.DefiningFile) {
		return
	}

	dep := s.Visit(cand.DefiningFile)
	if !dep.GeneratedConstraints {
		s.uni.Diagnostics = append(s.uni.Diagnostics, subst.NewUnresolvedFunction(ref.Name))
		return
	}

	var match *constraints.FunctionBinding
	for i := range dep.Bindings {
		if dep.Bindings[i].Name == ref.Name {
			match = &dep.Bindings[i]
			break
		}
	}
	if match == nil {
		s.uni.Diagnostics = append(s.uni.Diagnostics, subst.NewUnresolvedFunction(ref.Name))
		return
	}

	s.defs.WriteScoped(func(w *defstore.WriteView) {
		w.AddFunctionReference(defstore.FunctionReference{
			Name:      ident.NewMatlabIdentifier(s.reg, ref.Name),
			DefHandle: match.Handle,
			Candidate: &defstore.SearchCandidate{DefiningFile: cand.DefiningFile, ParentPackage: cand.ParentPackage},
		})
	})

	var scheme *typesys.Scheme
	s.defs.ReadScoped(func(r *defstore.ReadView) {
		if def, ok := r.FunctionDef(match.Handle); ok {
			scheme = def.Scheme
		}
	})
	if scheme == nil {
		s.sub.PushEquation(ref.Term, match.Target)
		return
	}
	s.sub.PushEquation(ref.Term, s.store.Instantiate(scheme))
}

// regeneralizeAll recomputes a Scheme for every function generated so
// far, discarding the could_not_infer_type diagnostics it raises along
// the way: generalizing mid-convergence is necessary so instantiation
// has something to work with, but only the final pass (finalGeneralize)
// has actually seen every equation the compilation will ever produce,
// so only its diagnostics are kept.
func (s *Session) regeneralizeAll() {
	for _, file := range s.asts.Files() {
		e, _ := s.asts.Get(file)
		if !e.GeneratedConstraints {
			continue
		}
		for _, b := range e.Bindings {
			constraints.Generalize(s.store, s.sub, s.defs, b)
		}
	}
}

// finalGeneralize runs once after converge() reaches a fixed point,
// keeping the could_not_infer_type diagnostics this time.
func (s *Session) finalGeneralize() {
	for _, file := range s.asts.Files() {
		e, _ := s.asts.Get(file)
		if !e.GeneratedConstraints {
			continue
		}
		for _, b := range e.Bindings {
			diags := constraints.Generalize(s.store, s.sub, s.defs, b)
			s.uni.Diagnostics = append(s.uni.Diagnostics, diags...)
		}
	}
}
