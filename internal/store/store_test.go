package store

import "testing"

func TestPackedAppendGet(t *testing.T) {
	p := NewPacked[string](0)
	i := p.Append("a")
	j := p.Append("b")
	if p.Get(i) != "a" || p.Get(j) != "b" {
		t.Fatalf("unexpected values: %v %v", p.Get(i), p.Get(j))
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
}

func TestPackedSwapRemoveMiddle(t *testing.T) {
	p := NewPacked[int](0)
	p.Append(10)
	p.Append(20)
	p.Append(30)
	removed, movedFrom := p.SwapRemove(0)
	if removed != 10 {
		t.Fatalf("removed = %d, want 10", removed)
	}
	if movedFrom != 2 {
		t.Fatalf("movedFrom = %d, want 2", movedFrom)
	}
	if p.Get(0) != 30 {
		t.Fatalf("slot 0 = %d, want 30 (last element moved in)", p.Get(0))
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
}

func TestPackedSwapRemoveLast(t *testing.T) {
	p := NewPacked[int](0)
	p.Append(10)
	p.Append(20)
	_, movedFrom := p.SwapRemove(1)
	if movedFrom != 1 {
		t.Fatalf("movedFrom = %d, want 1 (no move when removing last)", movedFrom)
	}
}

func TestPackedClone(t *testing.T) {
	p := NewPacked[int](0)
	p.Append(1)
	p.Append(2)
	clone := p.Clone()
	clone.Set(0, 99)
	if p.Get(0) != 1 {
		t.Fatalf("original mutated through clone: got %d", p.Get(0))
	}
}

func TestStablePointerSurvivesAppend(t *testing.T) {
	s := NewStable[int](0)
	i := s.Append(42)
	ptr := s.Ptr(i)
	for n := 0; n < 1000; n++ {
		s.Append(n)
	}
	if *ptr != 42 {
		t.Fatalf("stable pointer value changed: got %d, want 42", *ptr)
	}
}

func TestStableSwapRemovePreservesPointee(t *testing.T) {
	s := NewStable[int](0)
	s.Append(10)
	s.Append(20)
	s.Append(30)
	ptrOfLast := s.Ptr(2)
	removed, movedFrom := s.SwapRemove(0)
	if *removed != 10 {
		t.Fatalf("removed = %d, want 10", *removed)
	}
	if movedFrom != 2 {
		t.Fatalf("movedFrom = %d, want 2", movedFrom)
	}
	if s.Ptr(0) != ptrOfLast {
		t.Fatalf("pointee identity lost across SwapRemove")
	}
	if *s.Ptr(0) != 30 {
		t.Fatalf("slot 0 = %d, want 30", *s.Ptr(0))
	}
}

func TestExtractAndReattach(t *testing.T) {
	s := NewStable[string](0)
	s.Append("keep")
	i := s.Append("detach me")
	handle, _ := s.Extract(i)
	if !handle.Valid() {
		t.Fatal("handle should be valid after Extract")
	}
	if handle.Value() != "detach me" {
		t.Fatalf("handle.Value() = %q, want %q", handle.Value(), "detach me")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after Extract", s.Len())
	}
	p := handle.Release()
	if handle.Valid() {
		t.Fatal("handle should be invalid after Release")
	}
	newIdx := s.Reattach(p)
	if s.Get(newIdx) != "detach me" {
		t.Fatalf("reattached value = %q, want %q", s.Get(newIdx), "detach me")
	}
}

func TestHandleValueOnEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on Value() of empty Handle")
		}
	}()
	var h Handle[int]
	h.Value()
}

func TestStableClone(t *testing.T) {
	s := NewStable[int](0)
	i := s.Append(1)
	clone := s.Clone()
	clone.Set(i, 99)
	if s.Get(i) != 1 {
		t.Fatalf("original mutated through clone: got %d", s.Get(i))
	}
}
