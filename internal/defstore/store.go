package defstore

import (
	"sync"

	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Store is the arena over FunctionDef, FunctionReference, ClassDef and
// VariableDef, plus the PendingExternalFunctions bookkeeping from spec
// §3.5. All access goes through ReadScoped/WriteScoped, which enforce
// the multiple-readers/single-writer discipline of spec §5: a write
// acquisition blocks until no readers or writer are active, and Go's
// sync.RWMutex already gives pending writers priority over new readers,
// which is exactly the anti-starvation guarantee §5 asks for.
//
// This compiler only ever runs on one logical thread (spec §5), so in
// practice ReadScoped/WriteScoped never actually contend; the
// discipline exists so test doubles and any future concurrent driver
// can rely on it without the Store's shape changing.
type Store struct {
	mu sync.RWMutex

	functionDefs       []FunctionDef
	functionReferences []FunctionReference
	classDefs          []ClassDef
	variableDefs       []VariableDef

	// pendingExternal collects, per search candidate file, the set of
	// Application terms (opaque to this package; callers pass whatever
	// typesys.Term they like) whose target must be bound once that
	// file's defining function resolves.
	pendingExternal map[string][]PendingCallSite
}

// PendingCallSite is one call site waiting on an external function to
// resolve, along with the reference it was recorded against.
type PendingCallSite struct {
	Reference FunctionReferenceHandle
	// Site is an opaque token identifying the Application term; the
	// store never inspects it.
	Site interface{}
}

// New creates an empty store.
func New() *Store {
	return &Store{pendingExternal: make(map[string][]PendingCallSite)}
}

// ReadScoped runs fn while holding a read acquisition, guaranteeing the
// lock is released on every exit path (normal return or panic).
func (s *Store) ReadScoped(fn func(r *ReadView)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&ReadView{s: s})
}

// WriteScoped runs fn while holding the write acquisition, guaranteeing
// release on every exit path.
func (s *Store) WriteScoped(fn func(w *WriteView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&WriteView{ReadView: ReadView{s: s}})
}

// ReadView is the read-only handle surface passed into ReadScoped.
type ReadView struct{ s *Store }

func (r *ReadView) FunctionDef(h FunctionDefHandle) (FunctionDef, bool) {
	i := int(h) - 1
	if i < 0 || i >= len(r.s.functionDefs) {
		return FunctionDef{}, false
	}
	return r.s.functionDefs[i], true
}

func (r *ReadView) FunctionReference(h FunctionReferenceHandle) (FunctionReference, bool) {
	i := int(h) - 1
	if i < 0 || i >= len(r.s.functionReferences) {
		return FunctionReference{}, false
	}
	return r.s.functionReferences[i], true
}

func (r *ReadView) ClassDef(h ClassDefHandle) (ClassDef, bool) {
	i := int(h) - 1
	if i < 0 || i >= len(r.s.classDefs) {
		return ClassDef{}, false
	}
	return r.s.classDefs[i], true
}

func (r *ReadView) VariableDef(h VariableDefHandle) (VariableDef, bool) {
	i := int(h) - 1
	if i < 0 || i >= len(r.s.variableDefs) {
		return VariableDef{}, false
	}
	return r.s.variableDefs[i], true
}

// PendingForCandidate lists the call sites waiting on file.
func (r *ReadView) PendingForCandidate(file string) []PendingCallSite {
	return append([]PendingCallSite(nil), r.s.pendingExternal[file]...)
}

// WriteView adds mutation on top of ReadView; embedding means every
// WriteScoped callback can also read without a second acquisition.
type WriteView struct{ ReadView }

func (w *WriteView) AddFunctionDef(d FunctionDef) FunctionDefHandle {
	w.s.functionDefs = append(w.s.functionDefs, d)
	return FunctionDefHandle(len(w.s.functionDefs))
}

func (w *WriteView) AddFunctionReference(r FunctionReference) FunctionReferenceHandle {
	w.s.functionReferences = append(w.s.functionReferences, r)
	return FunctionReferenceHandle(len(w.s.functionReferences))
}

func (w *WriteView) AddClassDef(c ClassDef) ClassDefHandle {
	w.s.classDefs = append(w.s.classDefs, c)
	return ClassDefHandle(len(w.s.classDefs))
}

func (w *WriteView) AddVariableDef(v VariableDef) VariableDefHandle {
	w.s.variableDefs = append(w.s.variableDefs, v)
	return VariableDefHandle(len(w.s.variableDefs))
}

// SetFunctionDefScheme records the inferred scheme for a function once
// unification has produced one; it's the only field of FunctionDef the
// pipeline mutates after creation.
func (w *WriteView) SetFunctionDefScheme(h FunctionDefHandle, scheme *typesys.Scheme) bool {
	i := int(h) - 1
	if i < 0 || i >= len(w.s.functionDefs) {
		return false
	}
	w.s.functionDefs[i].Scheme = scheme
	return true
}

// ResolveFunctionReference points an existing external reference at a
// now-known definition.
func (w *WriteView) ResolveFunctionReference(h FunctionReferenceHandle, def FunctionDefHandle) bool {
	i := int(h) - 1
	if i < 0 || i >= len(w.s.functionReferences) {
		return false
	}
	w.s.functionReferences[i].DefHandle = def
	return true
}

// RecordPendingCallSite queues site against the file an external
// reference resolved to.
func (w *WriteView) RecordPendingCallSite(file string, site PendingCallSite) {
	w.s.pendingExternal[file] = append(w.s.pendingExternal[file], site)
}

// ClearPendingForCandidate removes all queued call sites for file once
// they've been drained into equations.
func (w *WriteView) ClearPendingForCandidate(file string) {
	delete(w.s.pendingExternal, file)
}
