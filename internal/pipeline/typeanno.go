package pipeline

import (
	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/library"
	"github.com/nfagan/mtype-sub001/internal/scope"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// resolveTypeAnnotations walks file's `%<...>` @T macro blocks (spec
// §6.3), binding each `given` name to a fresh type variable and each
// `let` name to its resolved type expression in typeScope, and
// returning the resolved declared type for every `fun Name ::
// TypeExpr`. This runs as the ResolvedTypeIdentifiers stage, strictly
// before GenerateFile creates a function's target Variable, so the
// returned map is threaded through GenerateFile rather than consumed
// here directly.
func (s *Session) resolveTypeAnnotations(file *ast.File, typeScope *scope.TypeScope) map[string]typesys.Term {
	declared := make(map[string]typesys.Term)
	for _, anno := range file.TypeAnnotations {
		for _, g := range anno.Givens {
			v := s.store.FreshVariable(g)
			scope.DefineType(typeScope, int64(s.reg.Register(g)), scope.Entry{Value: typesys.Term(v)})
		}
		for _, let := range anno.Lets {
			term := s.resolveTypeExpr(typeScope, let.Expr)
			if term != nil {
				scope.DefineType(typeScope, int64(s.reg.Register(let.Name)), scope.Entry{Value: term})
			}
		}
		for _, fn := range anno.Funs {
			if term := s.resolveTypeExpr(typeScope, fn.Expr); term != nil {
				declared[fn.Name] = term
			}
		}
	}
	return declared
}

// resolveTypeExpr resolves one type expression against typeScope (for
// names bound by an earlier `given`/`let`), falling back to a builtin
// primitive scalar by name, and finally a fresh variable for a name
// that resolves to neither — annotations are an optional cross-check
// on inference (spec §8's round-trip law), never a hard failure.
func (s *Session) resolveTypeExpr(typeScope *scope.TypeScope, expr ast.TypeExpr) typesys.Term {
	switch t := expr.(type) {
	case *ast.TypeRef:
		if entry, ok := scope.LookupType(typeScope, int64(s.reg.Register(t.Name))); ok {
			if term, ok := entry.Value.(typesys.Term); ok {
				return term
			}
		}
		switch t.Name {
		case library.Double:
			return s.lib.Double
		case library.Char:
			return s.lib.Char
		case library.String:
			return s.lib.String
		case library.Logical:
			return s.lib.Logical
		}
		return s.store.FreshVariable(t.Name)
	case *ast.TypeArrow:
		in := s.resolveTypeExpr(typeScope, t.In)
		out := s.resolveTypeExpr(typeScope, t.Out)
		inputs := s.store.AllocDestructuredTuple(typesys.DefinitionInputs, in)
		outputs := s.store.AllocDestructuredTuple(typesys.DefinitionOutputs, out)
		return s.store.AllocAbstraction(typesys.AbsFunction, inputs, outputs)
	default:
		return nil
	}
}
