package constraints

import (
	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/subst"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Generalize wraps a function binding's resolved term into a Scheme
// over whatever Variables remain free after unification, and records
// it on the definition store (spec §4.C.4's instantiation is the
// mirror operation, consumed by the unifier; this is the one place a
// Scheme gets built instead of instantiated). It must run only after
// the pipeline's generate/unify/resolve-external loop (spec §4.F
// steps 6-8) has fully drained, since generalizing too early would
// quantify over variables unification hasn't had a chance to narrow
// yet.
//
// It also raises the could_not_infer_type diagnostic spec §8 scenario
// 4 describes: an input parameter whose resolved representative never
// appears anywhere in the function's output positions is considered to
// have no data-flow evidence, even though it's syntactically "used" (a
// purely self-referential recursive call like `r(x)` doesn't count as
// evidence, since its own return type is independent of x). A
// parameter that does flow into an output — even as a fully free type
// variable, as in the identity function — is legitimate polymorphism,
// not a diagnostic.
func Generalize(store *typesys.Store, sub *subst.Substitution, defs *defstore.Store, b FunctionBinding) []*subst.TypeError {
	resolved := resolveDeep(sub, b.Target)

	free := freeVariables(sub, resolved)
	scheme := store.AllocScheme(free, resolved)

	defs.WriteScoped(func(w *defstore.WriteView) {
		w.SetFunctionDefScheme(b.Handle, scheme)
	})

	var diags []*subst.TypeError
	abs, ok := resolved.(*typesys.Abstraction)
	if !ok {
		return diags
	}
	for _, in := range abs.Inputs.Members {
		pv, ok := resolveDeep(sub, in).(*typesys.Variable)
		if !ok {
			continue
		}
		if !reachable(sub, abs.Outputs, pv) {
			diags = append(diags, subst.NewCouldNotInferType(pv.Label, "parameter", pv))
		}
	}
	return diags
}

func resolveDeep(sub *subst.Substitution, t typesys.Term) typesys.Term {
	return sub.Resolve(t)
}

// freeVariables collects every still-unbound Variable reachable from
// root, in first-seen order, for use as a Scheme's Params.
func freeVariables(sub *subst.Substitution, root typesys.Term) []*typesys.Variable {
	var out []*typesys.Variable
	seen := make(map[typesys.Term]bool)
	var walk func(t typesys.Term)
	walk = func(t typesys.Term) {
		if t == nil {
			return
		}
		t = sub.Resolve(t)
		if seen[t] {
			return
		}
		seen[t] = true
		if v, ok := t.(*typesys.Variable); ok {
			out = append(out, v)
			return
		}
		for _, child := range children(t) {
			walk(child)
		}
	}
	walk(root)
	return out
}

// reachable reports whether needle (an unbound Variable) is reachable
// from root's term graph, resolving through the substitution at every
// step.
func reachable(sub *subst.Substitution, root typesys.Term, needle *typesys.Variable) bool {
	seen := make(map[typesys.Term]bool)
	var walk func(t typesys.Term) bool
	walk = func(t typesys.Term) bool {
		if t == nil {
			return false
		}
		t = sub.Resolve(t)
		if seen[t] {
			return false
		}
		seen[t] = true
		if t == typesys.Term(needle) {
			return true
		}
		for _, child := range children(t) {
			if walk(child) {
				return true
			}
		}
		return false
	}
	return walk(root)
}

// children returns a term's immediate sub-terms for the walks above; it
// mirrors the Kind switch internal/subst.closesRecursiveCycle uses, but
// also covers Scheme/Application/Parameters since generalization
// and reachability need to walk through those, unlike the unifier's
// narrower cycle probe.
func children(t typesys.Term) []typesys.Term {
	switch n := t.(type) {
	case *typesys.Scalar:
		return n.Args
	case *typesys.Tuple:
		return n.Elements
	case *typesys.DestructuredTuple:
		return n.Members
	case *typesys.List:
		return n.Elements
	case *typesys.Union:
		return n.Members
	case *typesys.Record:
		out := make([]typesys.Term, 0, len(n.Fields))
		for _, f := range n.Fields {
			out = append(out, f)
		}
		return out
	case *typesys.Class:
		return []typesys.Term{n.Source}
	case *typesys.Abstraction:
		return []typesys.Term{n.Inputs, n.Outputs}
	case *typesys.Scheme:
		return []typesys.Term{n.Body}
	case *typesys.Application:
		return []typesys.Term{n.Target, n.Inputs, n.Outputs}
	case *typesys.Alias:
		return []typesys.Term{n.Target}
	case *typesys.Parameters:
		if n.Of == nil {
			return nil
		}
		return []typesys.Term{n.Of.Body}
	default:
		return nil
	}
}
