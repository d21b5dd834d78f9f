package assoc

import "testing"

func TestDenseSetAddContainsRemove(t *testing.T) {
	s := NewDenseSet[string]()
	s.Add("a")
	s.Add("b")
	if !s.Contains("a") {
		t.Fatal("expected a present")
	}
	if !s.Remove("a") {
		t.Fatal("expected a removed")
	}
	if s.Contains("a") {
		t.Fatal("expected a gone")
	}
	if !s.Contains("b") {
		t.Fatal("expected b unaffected by erase of a")
	}
}

func TestOrderedDenseSetPreservesOrder(t *testing.T) {
	s := NewOrderedDenseSet[string]()
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

func TestDenseSetBucketIteratesChain(t *testing.T) {
	s := NewDenseSet[string]()
	s.Add("a")
	count := 0
	s.Bucket("a", func(string) bool { count++; return true })
	if count == 0 {
		t.Fatal("expected bucket containing a to be walked")
	}
}

func TestDenseMapPutGetDelete(t *testing.T) {
	m := NewDenseMap[string, int]()
	m.Put("a", 1)
	v, ok := m.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v, want 1, true", v, ok)
	}
	if !m.Delete("a") {
		t.Fatal("expected a deleted")
	}
}

func TestDenseMapPutUniqueRejectsDuplicate(t *testing.T) {
	m := NewDenseMap[string, int]()
	if !m.PutUnique("a", 1) {
		t.Fatal("expected first PutUnique to succeed")
	}
	if m.PutUnique("a", 2) {
		t.Fatal("expected second PutUnique to report false")
	}
}

func TestDenseMapAtReturnsErrKeyNotFound(t *testing.T) {
	m := NewDenseMap[string, int]()
	m.Put("a", 1)
	if v, err := m.At("a"); err != nil || v != 1 {
		t.Fatalf("At(a) = %d, %v, want 1, nil", v, err)
	}
	if _, err := m.At("missing"); err == nil {
		t.Fatal("expected At(missing) to return ErrKeyNotFound")
	}
}

func TestDenseMapCloneIndependent(t *testing.T) {
	m := NewDenseMap[string, int]()
	m.Put("a", 1)
	clone := m.Clone()
	clone.Put("a", 99)
	if v, _ := m.Get("a"); v != 1 {
		t.Fatal("original mutated through clone")
	}
}
