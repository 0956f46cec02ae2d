package defstore

import "testing"

func TestAddAndReadFunctionDef(t *testing.T) {
	s := New()
	var h FunctionDefHandle
	s.WriteScoped(func(w *WriteView) {
		h = w.AddFunctionDef(FunctionDef{File: "a.m"})
	})
	s.ReadScoped(func(r *ReadView) {
		d, ok := r.FunctionDef(h)
		if !ok || d.File != "a.m" {
			t.Fatalf("expected to read back a.m, got %+v, %v", d, ok)
		}
	})
}

func TestPendingCallSitesRoundTrip(t *testing.T) {
	s := New()
	s.WriteScoped(func(w *WriteView) {
		w.RecordPendingCallSite("b.m", PendingCallSite{Reference: 1, Site: "app1"})
		w.RecordPendingCallSite("b.m", PendingCallSite{Reference: 2, Site: "app2"})
	})
	s.ReadScoped(func(r *ReadView) {
		sites := r.PendingForCandidate("b.m")
		if len(sites) != 2 {
			t.Fatalf("expected 2 pending call sites, got %d", len(sites))
		}
	})
	s.WriteScoped(func(w *WriteView) {
		w.ClearPendingForCandidate("b.m")
	})
	s.ReadScoped(func(r *ReadView) {
		if len(r.PendingForCandidate("b.m")) != 0 {
			t.Fatalf("expected pending sites to be cleared")
		}
	})
}

func TestReleaseOnPanicStillUnlocks(t *testing.T) {
	s := New()
	func() {
		defer func() { _ = recover() }()
		s.WriteScoped(func(w *WriteView) {
			panic("boom")
		})
	}()
	// If WriteScoped's defer didn't run, this would deadlock.
	done := make(chan struct{})
	go func() {
		s.ReadScoped(func(r *ReadView) {})
		close(done)
	}()
	<-done
}
