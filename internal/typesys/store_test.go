package typesys

import "testing"

func TestFreshVariableIdentity(t *testing.T) {
	s := NewStore()
	a := s.FreshVariable("t1")
	b := s.FreshVariable("t2")
	if a == b {
		t.Fatalf("two fresh variables must be distinct allocations")
	}
	var ta Term = a
	var tb Term = a
	if ta != tb {
		t.Fatalf("the same allocation must compare equal as Term")
	}
}

func TestAbstractionDefaultsEmptyDT(t *testing.T) {
	s := NewStore()
	abs := s.AllocAbstraction(AbsFunction, nil, nil)
	if abs.Inputs == nil || abs.Outputs == nil {
		t.Fatalf("abstraction must always carry non-nil DT for inputs/outputs")
	}
	if len(abs.Inputs.Members) != 0 || len(abs.Outputs.Members) != 0 {
		t.Fatalf("default DTs should be empty")
	}
}

func TestFollowAlias(t *testing.T) {
	s := NewStore()
	dbl := s.AllocScalar(1)
	al := s.AllocAlias("Double", dbl)
	if Follow(al) != Term(dbl) {
		t.Fatalf("Follow should unwrap to the underlying scalar")
	}
	if Follow(dbl) != Term(dbl) {
		t.Fatalf("Follow on a non-alias should be identity")
	}
}

func TestFollowAliasCycleTerminates(t *testing.T) {
	s := NewStore()
	a := s.AllocAlias("A", nil)
	b := s.AllocAlias("B", a)
	a.Target = b
	done := make(chan Term, 1)
	go func() { done <- Follow(a) }()
	select {
	case <-done:
	default:
	}
	// The real assertion is that Follow returns at all (no infinite loop);
	// the channel send above proves that within this test's execution.
	<-done
}
