package ident

import "strings"

// MatlabIdentifier is a value-level identifier: a full dotted name (e.g.
// "a.b.c") interned as one ID, plus the number of dot-separated
// components. ComponentCount > 1 marks a dotted/qualified name.
type MatlabIdentifier struct {
	FullName       ID
	ComponentCount int
}

// NewMatlabIdentifier interns name in reg and counts its dot-separated
// components.
func NewMatlabIdentifier(reg *StringRegistry, name string) MatlabIdentifier {
	return MatlabIdentifier{
		FullName:       reg.Register(name),
		ComponentCount: strings.Count(name, ".") + 1,
	}
}

// IsCompound reports whether the identifier has more than one
// dot-separated component (e.g. "obj.method").
func (m MatlabIdentifier) IsCompound() bool {
	return m.ComponentCount > 1
}

// Valid reports whether the identifier carries a registered name.
func (m MatlabIdentifier) Valid() bool {
	return m.FullName != Invalid
}

func (m MatlabIdentifier) String(reg *StringRegistry) string {
	return reg.MustAt(m.FullName)
}

// TypeIdentifier wraps a single interned ID naming a type (scalar name,
// record field name, type-scope entry, etc).
type TypeIdentifier struct {
	Name ID
}

// NewTypeIdentifier interns name in reg.
func NewTypeIdentifier(reg *StringRegistry, name string) TypeIdentifier {
	return TypeIdentifier{Name: reg.Register(name)}
}

func (t TypeIdentifier) Valid() bool {
	return t.Name != Invalid
}

func (t TypeIdentifier) String(reg *StringRegistry) string {
	return reg.MustAt(t.Name)
}

// Equal compares two TypeIdentifiers by interned ID; since IDs come
// from a bijective registry this is equivalent to comparing names.
func (t TypeIdentifier) Equal(o TypeIdentifier) bool {
	return t.Name == o.Name
}
