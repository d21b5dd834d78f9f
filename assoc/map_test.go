package assoc

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapPutGetDelete(t *testing.T) {
	m := NewMap[string, int]()
	if m.Put("a", 1) != true {
		t.Fatal("expected a newly inserted")
	}
	if m.Put("a", 2) != false {
		t.Fatal("expected a already present")
	}
	v, ok := m.Get("a")
	if !ok || v != 2 {
		t.Fatalf("Get(a) = %d, %v, want 2, true", v, ok)
	}
	if !m.Delete("a") {
		t.Fatal("expected a deleted")
	}
	if _, ok := m.Get("a"); ok {
		t.Fatal("expected a gone")
	}
}

func TestMapPutUniqueRejectsDuplicate(t *testing.T) {
	m := NewMap[string, int]()
	if !m.PutUnique("a", 1) {
		t.Fatal("expected first PutUnique to succeed")
	}
	if m.PutUnique("a", 2) {
		t.Fatal("expected second PutUnique to report false")
	}
	v, _ := m.Get("a")
	if v != 1 {
		t.Fatalf("Get(a) = %d, want 1 (PutUnique must not overwrite)", v)
	}
}

func TestMapAtReturnsErrKeyNotFound(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)
	if v, err := m.At("a"); err != nil || v != 1 {
		t.Fatalf("At(a) = %d, %v, want 1, nil", v, err)
	}
	if _, err := m.At("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("At(missing) err = %v, want ErrKeyNotFound", err)
	}
}

func TestMapMustGetPanicsOnMissingKey(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustGet to panic on a missing key")
		}
	}()
	NewMap[string, int]().MustGet("missing")
}

func TestOrderedMapPreservesOrder(t *testing.T) {
	m := NewOrderedMap[string, int]()
	order := []string{"z", "a", "m"}
	for i, k := range order {
		m.Put(k, i)
	}
	var got []string
	m.OrderedRange(func(k string, v int) bool { got = append(got, k); return true })
	for i := range order {
		if got[i] != order[i] {
			t.Fatalf("got %v, want %v", got, order)
		}
	}
}

func TestStableMapPointerAcrossGrowth(t *testing.T) {
	m := NewStableMap[string, int]()
	m.Put("a", 1)
	for i := 0; i < 500; i++ {
		m.Put(fmt.Sprintf("pad-%d", i), i)
	}
	v, ok := m.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v, want 1, true", v, ok)
	}
}

func TestMapCloneIndependent(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)
	clone := m.Clone()
	clone.Put("a", 99)
	if v, _ := m.Get("a"); v != 1 {
		t.Fatal("original mutated through clone")
	}
}

func TestMapEqual(t *testing.T) {
	a, b := NewMap[string, int](), NewMap[string, int]()
	a.Put("x", 1)
	a.Put("y", 2)
	b.Put("y", 2)
	b.Put("x", 1)
	eq := func(p, q int) bool { return p == q }
	if !a.Equal(b, eq) {
		t.Fatal("expected equal maps regardless of insertion order")
	}
	b.Put("x", 999)
	if a.Equal(b, eq) {
		t.Fatal("expected inequality after value change")
	}
}
