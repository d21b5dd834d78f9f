package assoc

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSetAddContainsRemove(t *testing.T) {
	s := NewSet[string]()
	if s.Add("a") != true {
		t.Fatal("expected a newly added")
	}
	if s.Add("a") != false {
		t.Fatal("expected a already present")
	}
	if !s.Contains("a") {
		t.Fatal("expected a present")
	}
	if !s.Remove("a") {
		t.Fatal("expected a removed")
	}
	if s.Contains("a") {
		t.Fatal("expected a gone")
	}
}

func TestSetAddUniqueRejectsDuplicate(t *testing.T) {
	s := NewSet[string]()
	if !s.AddUnique("a") {
		t.Fatal("expected first AddUnique to succeed")
	}
	if s.AddUnique("a") {
		t.Fatal("expected second AddUnique to report false")
	}
}

func TestOrderedSetPreservesOrder(t *testing.T) {
	s := NewOrderedSet[string]()
	order := []string{"z", "a", "m"}
	for _, k := range order {
		s.Add(k)
	}
	var got []string
	s.OrderedRange(func(k string) bool { got = append(got, k); return true })
	for i := range order {
		if got[i] != order[i] {
			t.Fatalf("got %v, want %v", got, order)
		}
	}
}

func TestStableSetLen(t *testing.T) {
	s := NewStableSet[string]()
	for i := 0; i < 100; i++ {
		s.Add(fmt.Sprintf("k%d", i))
	}
	if s.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", s.Len())
	}
}

func TestSetCloneIndependent(t *testing.T) {
	s := NewSet[string]()
	s.Add("a")
	clone := s.Clone()
	clone.Add("b")
	if s.Contains("b") {
		t.Fatal("original mutated through clone")
	}
}

func TestSetEqual(t *testing.T) {
	a, b := NewSet[string](), NewSet[string]()
	a.Add("x")
	a.Add("y")
	b.Add("y")
	b.Add("x")
	if !a.Equal(b) {
		t.Fatal("expected equal sets regardless of insertion order")
	}
	b.Add("z")
	if a.Equal(b) {
		t.Fatal("expected inequality after extra element")
	}
}

func TestSetWithMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSet[string](WithMetrics[string, string](reg), WithNamespace[string, string]("assoc_test_set"))
	s.Add("a")
	s.Contains("a")
	s.Remove("a")
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatal("expected at least one registered metric family")
	}
}
