// Package ident provides canonical interning of symbol names into stable
// integer IDs, and the thin identifier wrappers (MatlabIdentifier,
// TypeIdentifier) built on top of them.
package ident

import "sync"

// ID is an interned string handle. Zero and negative values are never
// produced by Register; they're reserved to mean "invalid" to callers
// that store an ID in a zero-valued struct field.
type ID int64

// Invalid is the zero value of ID, returned by lookups that fail.
const Invalid ID = 0

// StringRegistry is a bijective string<->ID interning table. It is safe
// for concurrent use: registration is serialized by mu, and reads made
// after a successful registration observe it immediately (mu also
// guards lookups, so there is no race window between publish and read).
type StringRegistry struct {
	mu      sync.Mutex
	byStr   map[string]ID
	byID    []string // byID[i] holds the string for ID(i+1)
}

// NewStringRegistry creates an empty registry.
func NewStringRegistry() *StringRegistry {
	return &StringRegistry{
		byStr: make(map[string]ID),
	}
}

// Register interns s, returning its ID. Calling Register twice with the
// same string returns the same ID; this makes Register idempotent.
func (r *StringRegistry) Register(s string) ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(s)
}

func (r *StringRegistry) registerLocked(s string) ID {
	if id, ok := r.byStr[s]; ok {
		return id
	}
	r.byID = append(r.byID, s)
	id := ID(len(r.byID))
	r.byStr[s] = id
	return id
}

// RegisterMany interns every string in ss, in order, returning the
// parallel slice of IDs. It is atomic in intent (either all strings end
// up registered or none of the IDs are usable) but does not need to be
// atomic in isolation: duplicate registrations racing with other
// callers are tolerated since Register is idempotent.
func (r *StringRegistry) RegisterMany(ss []string) []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]ID, len(ss))
	for i, s := range ss {
		ids[i] = r.registerLocked(s)
	}
	return ids
}

// At returns the string registered under id. It is total for every ID
// ever returned by Register; the second return is false for an ID this
// registry never produced.
func (r *StringRegistry) At(id ID) (string, bool) {
	if id <= 0 {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := int(id) - 1
	if idx < 0 || idx >= len(r.byID) {
		return "", false
	}
	return r.byID[idx], true
}

// MustAt is At without the ok flag, for callers that already know id is
// valid (e.g. it came from this same registry moments ago).
func (r *StringRegistry) MustAt(id ID) string {
	s, _ := r.At(id)
	return s
}

// Len reports how many distinct strings have been registered.
func (r *StringRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
