package diagnostics

import (
	"fmt"
	"strings"

	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/subst"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Options controls the optional expansions spec §6.1 names:
// --explicit-dt shows a DestructuredTuple's kind alongside its
// members, --explicit-aliases follows an Alias to its target instead
// of printing the alias name (original_source/bin/mtype/show.cpp's
// TypeToString.explicit_destructured_tuples/explicit_aliases fields).
type Options struct {
	ExplicitDT      bool
	ExplicitAliases bool
}

// notation picks the two concrete styles original_source's show.cpp
// configures via TypeToString.arrow_function_notation: arrow style
// `(in) -> [out]` or MATLAB style `[out] = (in)` (spec §6.1
// --arrow-function-types / --matlab-function-types).
type notation int

const (
	arrowNotation notation = iota
	matlabNotation
)

// FormatArrow renders t as `(in1, in2) -> [out1, out2]` for an
// Abstraction, and as the ordinary type name otherwise. sub resolves
// bound variables before printing; pass nil to print a term exactly as
// allocated (e.g. a freshly instantiated scheme body nothing has
// unified yet).
func FormatArrow(reg *ident.StringRegistry, sub *subst.Substitution, t typesys.Term, opts Options) string {
	f := newFormatter(reg, sub, opts, arrowNotation)
	return f.format(t)
}

// FormatMatlab renders t as `[out1, out2] = (in1, in2)` for an
// Abstraction, MATLAB's own assignment-destructuring signature shape.
func FormatMatlab(reg *ident.StringRegistry, sub *subst.Substitution, t typesys.Term, opts Options) string {
	f := newFormatter(reg, sub, opts, matlabNotation)
	return f.format(t)
}

type formatter struct {
	reg    *ident.StringRegistry
	sub    *subst.Substitution
	opts   Options
	style  notation
	names  map[typesys.Term]string
	next   int
	inSeen map[typesys.Term]bool
}

func newFormatter(reg *ident.StringRegistry, sub *subst.Substitution, opts Options, style notation) *formatter {
	return &formatter{
		reg:    reg,
		sub:    sub,
		opts:   opts,
		style:  style,
		names:  make(map[typesys.Term]string),
		inSeen: make(map[typesys.Term]bool),
	}
}

func (f *formatter) resolve(t typesys.Term) typesys.Term {
	if f.sub == nil {
		return t
	}
	return f.sub.Resolve(t)
}

// format is the entry point for any term; it resolves through the
// substitution once, then dispatches. Composite terms push themselves
// onto inSeen for the duration of their own formatting — the absent
// occurs-check (spec §9) means a bound variable can legitimately cycle
// back through its own Application or Abstraction, and printing that
// must terminate rather than recurse forever.
func (f *formatter) format(t typesys.Term) string {
	t = f.resolve(t)
	if f.inSeen[t] {
		return "…"
	}

	switch x := t.(type) {
	case *typesys.Scheme:
		return f.formatScheme(x)
	case *typesys.Abstraction:
		return f.formatAbstraction(x)
	case *typesys.Variable:
		return f.nameFor(x)
	case *typesys.Scalar:
		return f.formatScalar(x)
	case *typesys.Tuple:
		return f.formatBracketed(x, "(", ")", x.Elements)
	case *typesys.DestructuredTuple:
		return f.formatDT(x)
	case *typesys.List:
		return f.formatBracketed(x, "{", "}", x.Elements)
	case *typesys.Union:
		return f.formatUnion(x)
	case *typesys.Record:
		return f.formatRecord(x)
	case *typesys.Class:
		return x.Name
	case *typesys.Application:
		return f.formatApplication(x)
	case *typesys.Alias:
		return f.formatAlias(x)
	case *typesys.Parameters:
		return f.formatParameters(x)
	case *typesys.ConstantValue:
		return x.Text
	default:
		return "?"
	}
}

// formatScheme prints `∀α,β. body`, matching spec §8 scenario 1's
// `id :: ∀α. α → α` and scenario 4's `∀α,β. α → β` wording — a scheme
// with no params (everything already concrete) just prints its body.
func (f *formatter) formatScheme(s *typesys.Scheme) string {
	f.inSeen[s] = true
	defer delete(f.inSeen, s)

	if len(s.Params) == 0 {
		return f.format(s.Body)
	}
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = f.nameFor(p)
	}
	return fmt.Sprintf("∀%s. %s", strings.Join(names, ","), f.format(s.Body))
}

func (f *formatter) formatAbstraction(a *typesys.Abstraction) string {
	f.inSeen[a] = true
	defer delete(f.inSeen, a)

	ins := f.joinMembers(a.Inputs)
	outs := f.joinMembers(a.Outputs)
	if f.style == matlabNotation {
		return fmt.Sprintf("[%s] = (%s)", outs, ins)
	}
	return fmt.Sprintf("(%s) -> [%s]", ins, outs)
}

func (f *formatter) joinMembers(dt *typesys.DestructuredTuple) string {
	if dt == nil {
		return ""
	}
	parts := make([]string, len(dt.Members))
	for i, m := range dt.Members {
		parts[i] = f.format(m)
	}
	return strings.Join(parts, ", ")
}

func (f *formatter) formatDT(dt *typesys.DestructuredTuple) string {
	body := f.joinMembers(dt)
	if !f.opts.ExplicitDT {
		return body
	}
	return fmt.Sprintf("%s<%s>", dt.DTKind, body)
}

func (f *formatter) formatBracketed(key typesys.Term, open, close string, elems []typesys.Term) string {
	f.inSeen[key] = true
	defer delete(f.inSeen, key)

	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = f.format(e)
	}
	return open + strings.Join(parts, ", ") + close
}

func (f *formatter) formatUnion(u *typesys.Union) string {
	f.inSeen[u] = true
	defer delete(f.inSeen, u)

	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = f.format(m)
	}
	return strings.Join(parts, " | ")
}

func (f *formatter) formatRecord(r *typesys.Record) string {
	f.inSeen[r] = true
	defer delete(f.inSeen, r)

	parts := make([]string, 0, len(r.FieldOrder))
	for _, id := range r.FieldOrder {
		parts = append(parts, fmt.Sprintf("%s: %s", r.FieldNames[id], f.format(r.Fields[id])))
	}
	return "struct(" + strings.Join(parts, ", ") + ")"
}

func (f *formatter) formatApplication(a *typesys.Application) string {
	f.inSeen[a] = true
	defer delete(f.inSeen, a)

	// An Application still waiting on its target is printed as the call
	// it would make once resolved, not as its own opaque term.
	return f.format(a.Target)
}

func (f *formatter) formatAlias(a *typesys.Alias) string {
	if f.opts.ExplicitAliases {
		f.inSeen[a] = true
		defer delete(f.inSeen, a)
		return f.format(a.Target)
	}
	return a.Name
}

func (f *formatter) formatParameters(p *typesys.Parameters) string {
	if p.Of == nil {
		return "parameters"
	}
	names := make([]string, len(p.Of.Params))
	for i, v := range p.Of.Params {
		names[i] = f.nameFor(v)
	}
	return strings.Join(names, ",")
}

func (f *formatter) formatScalar(s *typesys.Scalar) string {
	name := f.scalarName(s.Name)
	if len(s.Args) == 0 {
		return name
	}
	f.inSeen[s] = true
	defer delete(f.inSeen, s)

	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = f.format(a)
	}
	return fmt.Sprintf("%s<%s>", name, strings.Join(args, ","))
}

func (f *formatter) scalarName(name typesys.ScalarName) string {
	if f.reg == nil {
		return fmt.Sprintf("t%d", name)
	}
	s, ok := f.reg.At(ident.ID(name))
	if !ok {
		return fmt.Sprintf("t%d", name)
	}
	return s
}

// greekAlphabet backs free-variable display (spec §8 scenarios 1 and
// 4's α/β naming); nameFor assigns the next unused letter the first
// time it sees a given Variable term and reuses it on every later
// reference within the same format call, so `id :: ∀α. α → α` shares
// one name across both occurrences.
var greekAlphabet = []rune("αβγδεζηθικλμνξοπρστυφχψω")

func (f *formatter) nameFor(t typesys.Term) string {
	if n, ok := f.names[t]; ok {
		return n
	}
	n := greekLetter(f.next)
	f.next++
	f.names[t] = n
	return n
}

func greekLetter(i int) string {
	letter := greekAlphabet[i%len(greekAlphabet)]
	if i < len(greekAlphabet) {
		return string(letter)
	}
	return fmt.Sprintf("%s%d", string(letter), i/len(greekAlphabet))
}
