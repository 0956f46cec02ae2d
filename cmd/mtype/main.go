// Command mtype runs the static type checker over one or more root
// identifiers (spec §6.1): `mtype [options] <root-ident> [<root-ident>...]`.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nfagan/mtype-sub001/internal/ast"
	"github.com/nfagan/mtype-sub001/internal/defstore"
	"github.com/nfagan/mtype-sub001/internal/diagnostics"
	"github.com/nfagan/mtype-sub001/internal/pipeline"
	"github.com/nfagan/mtype-sub001/internal/searchpath"
)

// exitOK/exitFailure mirror original_source/bin/mtype/main.cpp's literal
// `return 0`/`return -1` (spec §6.1: "Exit codes: 0 success, -1
// parse-error or path-build failure").
const (
	exitOK      = 0
	exitFailure = -1
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// flagSpec pairs a long flag name with its short alias, the way
// original_source/bin/mtype/command_line.cpp's ParameterName does.
type flagSpec struct {
	long, short string
}

func boolFlag(fs *flag.FlagSet, spec flagSpec, dflt bool, usage string) *bool {
	v := new(bool)
	fs.BoolVar(v, spec.long, dflt, usage)
	fs.BoolVar(v, spec.short, dflt, usage)
	return v
}

func stringFlag(fs *flag.FlagSet, spec flagSpec, dflt string, usage string) *string {
	v := new(string)
	fs.StringVar(v, spec.long, dflt, usage)
	fs.StringVar(v, spec.short, dflt, usage)
	return v
}

// wasSet reports whether any of names was present on the command line,
// used for the toggle-style flags (spec §6.1 `--show-errors / -he`
// etc.) whose effect is "pass once to flip", not "pass a value".
func wasSet(fs *flag.FlagSet, names ...string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	found := false
	fs.Visit(func(f *flag.Flag) {
		if set[f.Name] {
			found = true
		}
	})
	return found
}

func run(args []string, out *os.File) int {
	fs := flag.NewFlagSet("mtype", flag.ContinueOnError)
	fs.SetOutput(out)

	help := boolFlag(fs, flagSpec{"help", "h"}, false, "print help, exit 0")
	path := stringFlag(fs, flagSpec{"path", "p"}, "", "colon-delimited search path (overrides path-file)")
	pathFile := stringFlag(fs, flagSpec{"path-file", "pf"}, "", "newline- or YAML-delimited path file")
	showAST := boolFlag(fs, flagSpec{"show-ast", "sa"}, false, "dump AST")
	showVarTypes := boolFlag(fs, flagSpec{"show-var-types", "sv"}, false, "print variable types")
	showFnTypes := boolFlag(fs, flagSpec{"show-function-types", "sf"}, true, "print local function types")
	hideFnTypes := boolFlag(fs, flagSpec{"hide-function-types", "hf"}, false, "hide local function types")
	arrowFnTypes := boolFlag(fs, flagSpec{"arrow-function-types", "aft"}, false, "(in) -> [out] notation")
	matlabFnTypes := boolFlag(fs, flagSpec{"matlab-function-types", "mft"}, false, "[out] = (in) notation")
	showVisited := boolFlag(fs, flagSpec{"show-visited-files", "svf"}, false, "list visited files")
	showDist := boolFlag(fs, flagSpec{"show-dist", "sd"}, false, "print type distribution")
	explicitDT := boolFlag(fs, flagSpec{"explicit-dt", "edt"}, false, "expand destructured tuples")
	explicitAliases := boolFlag(fs, flagSpec{"explicit-aliases", "ea"}, false, "expand aliases")
	plainText := boolFlag(fs, flagSpec{"plain-text", "pt"}, false, "disable ANSI styling")
	overrideManifest := stringFlag(fs, flagSpec{"override-manifest", "om"}, "", "YAML file of builtin type aliases applied before compilation")
	_ = boolFlag(fs, flagSpec{"show-errors", "he"}, false, "toggle error printing")
	_ = boolFlag(fs, flagSpec{"show-warnings", "hw"}, false, "toggle warning printing")
	_ = boolFlag(fs, flagSpec{"show-diagnostics", "sdi"}, false, "toggle diagnostics")

	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	if *help || fs.NArg() == 0 {
		fs.Usage()
		return exitOK
	}

	// §6.1's toggles default on and flip once per appearance of either
	// spelling; SetOutput/BoolVar above gives both spellings the same
	// backing bool, so a single wasSet check per pair is enough.
	showErrors := !wasSet(fs, "show-errors", "he")
	showWarnings := !wasSet(fs, "show-warnings", "hw")
	showDiagnostics := !wasSet(fs, "show-diagnostics", "sdi")

	showFunctionTypes := *showFnTypes && !*hideFnTypes
	matlabNotation := *matlabFnTypes && !*arrowFnTypes

	sp, err := buildSearchPath(*path, *pathFile)
	if err != nil {
		fmt.Fprintln(out, err)
		return exitFailure
	}

	res := pipeline.Run(pipeline.Config{SearchPath: sp, OverrideManifestPath: *overrideManifest}, fs.Args())

	style := diagnostics.NewStyle(*plainText)
	opts := diagnostics.Options{ExplicitDT: *explicitDT, ExplicitAliases: *explicitAliases}

	if len(res.OverrideErrors) != 0 && showErrors {
		for _, e := range res.OverrideErrors {
			fmt.Fprintln(out, e)
		}
	}

	if len(res.ParseErrors) != 0 {
		if showErrors {
			for _, e := range res.ParseErrors {
				fmt.Fprintln(out, diagnostics.RenderParseError("", e, style))
			}
		}
		return exitFailure
	}

	if *showAST {
		printASTs(out, res, style)
	}
	if showFunctionTypes {
		printFunctionTypes(out, res, opts, matlabNotation, style)
	}
	if *showVarTypes {
		printVarTypes(out, res, opts, style)
	}
	if *showVisited {
		printVisitedFiles(out, res, style)
	}
	if *showDist {
		printDistribution(out, res)
	}

	errCount, warnCount := printDiagnostics(out, res, style, showErrors, showWarnings)
	if showDiagnostics {
		fmt.Fprintf(out, "%d error(s), %d warning(s)\n", errCount, warnCount)
	}
	if errCount > 0 {
		return exitFailure
	}
	return exitOK
}

// buildSearchPath implements spec §6.1's "--path overrides path-file":
// an explicit -p always wins even if -pf was also given.
func buildSearchPath(path, pathFile string) (*searchpath.Path, error) {
	if path != "" {
		return searchpath.FromColonDelimited(path), nil
	}
	if pathFile != "" {
		return searchpath.FromManifestFile(pathFile)
	}
	return searchpath.New(nil), nil
}

func printDiagnostics(out *os.File, res *pipeline.Result, style diagnostics.Style, showErrors, showWarnings bool) (errCount, warnCount int) {
	for _, e := range res.TypeErrors {
		if diagnostics.IsWarning(e.Kind) {
			warnCount++
			if showWarnings {
				fmt.Fprintln(out, diagnostics.RenderTypeError(e, style))
			}
			continue
		}
		errCount++
		if showErrors {
			fmt.Fprintln(out, diagnostics.RenderTypeError(e, style))
		}
	}
	return errCount, warnCount
}

func printVisitedFiles(out *os.File, res *pipeline.Result, style diagnostics.Style) {
	fmt.Fprintln(out, style.Bold("visited files:"))
	for _, f := range res.VisitedFiles {
		fmt.Fprintf(out, "  %s\n", f)
	}
}

func printDistribution(out *os.File, res *pipeline.Result) {
	d := diagnostics.NewDistribution()
	for _, file := range res.VisitedFiles {
		entry, ok := res.Asts.Get(file)
		if !ok {
			continue
		}
		for _, b := range entry.Bindings {
			res.Defs.ReadScoped(func(r *defstore.ReadView) {
				if def, ok := r.FunctionDef(b.Handle); ok && def.Scheme != nil {
					d.Add(def.Scheme)
				}
			})
		}
	}
	fmt.Fprint(out, d.String())
}

func printFunctionTypes(out *os.File, res *pipeline.Result, opts diagnostics.Options, matlabNotation bool, style diagnostics.Style) {
	for _, file := range res.VisitedFiles {
		entry, ok := res.Asts.Get(file)
		if !ok || len(entry.Bindings) == 0 {
			continue
		}
		fmt.Fprintln(out, style.Bold(file)+":")

		type row struct {
			name string
			line string
		}
		rows := make([]row, 0, len(entry.Bindings))
		for _, b := range entry.Bindings {
			res.Defs.ReadScoped(func(r *defstore.ReadView) {
				def, ok := r.FunctionDef(b.Handle)
				if !ok || def.Scheme == nil {
					return
				}
				var line string
				if matlabNotation {
					line = diagnostics.FormatMatlab(res.Reg, res.Sub, def.Scheme, opts)
				} else {
					line = diagnostics.FormatArrow(res.Reg, res.Sub, def.Scheme, opts)
				}
				rows = append(rows, row{name: b.Name, line: line})
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
		for i, r := range rows {
			fmt.Fprintf(out, "  %d. %s :: %s\n", i+1, r.name, r.line)
		}
	}
}

func printVarTypes(out *os.File, res *pipeline.Result, opts diagnostics.Options, style diagnostics.Style) {
	for _, file := range res.VisitedFiles {
		entry, ok := res.Asts.Get(file)
		if !ok || len(entry.Bindings) == 0 {
			continue
		}
		fmt.Fprintln(out, style.Bold(file)+":")
		for _, b := range entry.Bindings {
			type row struct {
				name string
				line string
			}
			var rows []row
			res.Defs.ReadScoped(func(r *defstore.ReadView) {
				for _, h := range b.Vars {
					v, ok := r.VariableDef(h)
					if !ok {
						continue
					}
					rows = append(rows, row{
						name: v.Name.String(res.Reg),
						line: diagnostics.FormatArrow(res.Reg, res.Sub, v.Type, opts),
					})
				}
			})
			sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
			for _, r := range rows {
				fmt.Fprintf(out, "  %s.%s :: %s\n", b.Name, r.name, r.line)
			}
		}
	}
}

func printASTs(out *os.File, res *pipeline.Result, style diagnostics.Style) {
	for _, file := range res.VisitedFiles {
		entry, ok := res.Asts.Get(file)
		if !ok || entry.AST == nil {
			continue
		}
		fmt.Fprintln(out, style.Bold(file)+":")
		dumpBlock(out, entry.AST.Root, 1)
		fmt.Fprintln(out)
	}
}

// dumpBlock prints a minimal indented AST dump (original_source's
// show_asts uses a dedicated StringVisitor; this package builds no such
// visitor yet, so the dump is a direct recursive switch over ast's
// node set instead).
func dumpBlock(out *os.File, b *ast.Block, depth int) {
	if b == nil {
		return
	}
	for _, stmt := range b.Stmts {
		dumpStmt(out, stmt, depth)
	}
}

func dumpStmt(out *os.File, s ast.Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	switch x := s.(type) {
	case *ast.Assignment:
		lhs := make([]string, len(x.LHS))
		for i, l := range x.LHS {
			lhs[i] = dumpExpr(l)
		}
		fmt.Fprintf(out, "%sassign %s = %s\n", indent, strings.Join(lhs, ", "), dumpExpr(x.RHS))
	case *ast.ExprStmt:
		fmt.Fprintf(out, "%sexpr %s\n", indent, dumpExpr(x.X))
	case *ast.FunctionDef:
		fmt.Fprintf(out, "%sfunction [%s] = %s(%s)\n", indent, strings.Join(x.Outputs, ", "), x.Name, strings.Join(x.Inputs, ", "))
		dumpBlock(out, x.Body, depth+1)
	default:
		fmt.Fprintf(out, "%s?\n", indent)
	}
}

func dumpExpr(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.NumberLiteral:
		return x.Text
	case *ast.CharLiteral:
		return "'" + x.Text + "'"
	case *ast.StringLiteral:
		return "\"" + x.Text + "\""
	case *ast.Identifier:
		return x.Name
	case *ast.FieldAccess:
		return dumpExpr(x.Target) + "." + x.Field
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", dumpExpr(x.Left), x.Op, dumpExpr(x.Right))
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s%s)", x.Op, dumpExpr(x.Operand))
	case *ast.FunctionCallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = dumpExpr(a)
		}
		return fmt.Sprintf("%s(%s)", dumpExpr(x.Callee), strings.Join(args, ", "))
	case *ast.AnonymousFunction:
		return fmt.Sprintf("@(%s) %s", strings.Join(x.Params, ", "), dumpExpr(x.Body))
	default:
		return "?"
	}
}
