// Package diagnostics renders parse/type diagnostics and type terms
// for the CLI (spec §6.1, §7). typesys.Term carries no String method
// (internal/typesys deliberately stays arena-only, spec §3.1), so the
// recursive term-to-string logic lives here, alongside the ANSI
// styling ailang's cmd/ailang/main.go and internal/repl/repl.go apply
// at their own presentation layer.
package diagnostics

import (
	"fmt"

	"github.com/fatih/color"
)

// Style holds the color.SprintFuncs the renderer applies, built once
// per CLI invocation from --plain-text (spec §6.1). Mirrors ailang's
// package-level green/red/yellow/cyan/bold vars, but scoped to an
// instance rather than globals so --plain-text can disable them
// without a process-wide color.NoColor flip.
type Style struct {
	Red    func(a ...interface{}) string
	Yellow func(a ...interface{}) string
	Cyan   func(a ...interface{}) string
	Green  func(a ...interface{}) string
	Bold   func(a ...interface{}) string
	Dim    func(a ...interface{}) string
}

// NewStyle builds a Style; plainText true degrades every function to
// the identity (sprintf with no codes), which is --plain-text's escape
// hatch (spec §6.1).
func NewStyle(plainText bool) Style {
	if plainText {
		return Style{
			Red:    plainSprint,
			Yellow: plainSprint,
			Cyan:   plainSprint,
			Green:  plainSprint,
			Bold:   plainSprint,
			Dim:    plainSprint,
		}
	}
	return Style{
		Red:    color.New(color.FgRed).SprintFunc(),
		Yellow: color.New(color.FgYellow).SprintFunc(),
		Cyan:   color.New(color.FgCyan).SprintFunc(),
		Green:  color.New(color.FgGreen).SprintFunc(),
		Bold:   color.New(color.Bold).SprintFunc(),
		Dim:    color.New(color.Faint).SprintFunc(),
	}
}

func plainSprint(a ...interface{}) string {
	return fmt.Sprint(a...)
}
