// Package defstore is the arena of FunctionDef, FunctionReference,
// ClassDef and VariableDef records (spec §3.4), addressed by monotonic
// handles, with the multiple-readers/single-writer acquisition
// discipline spec §5 asks for.
//
// The source material's ExternalFunctionRegistry and FunctionRegistry
// overlap in responsibility (spec §9 Open Question); this package
// folds both into the single Store below, which owns the
// FunctionReference arena directly instead of through a second
// registry object.
package defstore

import (
	"github.com/nfagan/mtype-sub001/internal/ident"
	"github.com/nfagan/mtype-sub001/internal/scope"
	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Handle is a monotonic arena index. The zero value never denotes a
// real entry (arenas are 1-indexed, matching ident.ID's invalid-is-zero
// convention).
type Handle int

const InvalidHandle Handle = 0

type FunctionDefHandle Handle
type FunctionReferenceHandle Handle
type ClassDefHandle Handle
type VariableDefHandle Handle

// FunctionDef is a resolved function definition: its name, parameter
// scopes, and (once inferred) its type scheme.
type FunctionDef struct {
	Name          ident.MatlabIdentifier
	InputNames    []ident.MatlabIdentifier
	OutputNames   []ident.MatlabIdentifier
	DefiningScope *scope.ValueScope
	Scheme        *typesys.Scheme
	File          string
}

// SearchCandidate mirrors searchpath.Candidate so that this package
// does not import searchpath.
type SearchCandidate struct {
	DefiningFile  string
	ParentPackage string
}

// FunctionReference is (name, optional resolved definition, defining
// scope); it is "external" when DefHandle is InvalidHandle and
// Candidate names the file the search path resolved it to (spec §3.5).
type FunctionReference struct {
	Name          ident.MatlabIdentifier
	DefHandle     FunctionDefHandle
	DefiningScope *scope.ValueScope
	Candidate     *SearchCandidate
}

func (r *FunctionReference) IsExternal() bool {
	return r.DefHandle == FunctionDefHandle(InvalidHandle) && r.Candidate != nil
}

// ClassDef is a resolved class definition.
type ClassDef struct {
	Name   string
	Type   *typesys.Class
	Source *scope.ValueScope
}

// VariableDef is a resolved local variable: its declared/inferred type
// term, written once per function body with the term the name holds at
// the end of that body.
type VariableDef struct {
	Name ident.MatlabIdentifier
	Type typesys.Term
}
