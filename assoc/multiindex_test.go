package assoc

import "testing"

type employee struct {
	ID    int
	Email string
	Name  string
}

func newEmployeeIndex() *MultiIndex[int, string, employee] {
	return NewMultiIndex[int, string, employee](MultiIndexConfig[int, string, employee]{
		Key1Of: func(e employee) int { return e.ID },
		Key2Of: func(e employee) string { return e.Email },
	})
}

func TestMultiIndexFindByEitherKey(t *testing.T) {
	idx := newEmployeeIndex()
	idx.Insert(employee{ID: 1, Email: "a@example.com", Name: "Alice"})
	idx.Insert(employee{ID: 2, Email: "b@example.com", Name: "Bob"})

	v, ok := idx.FindByKey1(1)
	if !ok || v.Name != "Alice" {
		t.Fatalf("FindByKey1(1) = %+v, %v", v, ok)
	}
	v, ok = idx.FindByKey2("b@example.com")
	if !ok || v.Name != "Bob" {
		t.Fatalf("FindByKey2 = %+v, %v", v, ok)
	}
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}
}

func TestMultiIndexEraseByKey1UpdatesBothIndexes(t *testing.T) {
	idx := newEmployeeIndex()
	idx.Insert(employee{ID: 1, Email: "a@example.com", Name: "Alice"})
	idx.Insert(employee{ID: 2, Email: "b@example.com", Name: "Bob"})
	idx.Insert(employee{ID: 3, Email: "c@example.com", Name: "Carol"})

	if !idx.EraseByKey1(1) {
		t.Fatal("expected erase of ID 1 to succeed")
	}
	if _, ok := idx.FindByKey1(1); ok {
		t.Fatal("ID 1 should be gone")
	}
	if _, ok := idx.FindByKey2("a@example.com"); ok {
		t.Fatal("Email for ID 1 should also be gone")
	}
	// The node that swap-removal relocated must remain findable via both keys.
	v, ok := idx.FindByKey1(3)
	if !ok || v.Email != "c@example.com" {
		t.Fatalf("FindByKey1(3) = %+v, %v after erase relocated it", v, ok)
	}
	v, ok = idx.FindByKey2("c@example.com")
	if !ok || v.ID != 3 {
		t.Fatalf("FindByKey2(c@example.com) = %+v, %v after erase relocated it", v, ok)
	}
	v, ok = idx.FindByKey1(2)
	if !ok || v.Name != "Bob" {
		t.Fatalf("FindByKey1(2) = %+v, %v, unrelated entry disturbed", v, ok)
	}
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}
}

func TestMultiIndexEraseByKey2(t *testing.T) {
	idx := newEmployeeIndex()
	idx.Insert(employee{ID: 1, Email: "a@example.com", Name: "Alice"})
	if !idx.EraseByKey2("a@example.com") {
		t.Fatal("expected erase by email to succeed")
	}
	if idx.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", idx.Len())
	}
	if idx.EraseByKey2("a@example.com") {
		t.Fatal("second erase should report false")
	}
}

func TestMultiIndexInsertReplacesExistingKey1(t *testing.T) {
	idx := newEmployeeIndex()
	idx.Insert(employee{ID: 1, Email: "a@example.com", Name: "Alice"})
	idx.Insert(employee{ID: 2, Email: "b@example.com", Name: "Bob"})
	idx.Insert(employee{ID: 1, Email: "a2@example.com", Name: "Alice2"})

	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (re-insert under an existing key must not orphan a slot)", idx.Len())
	}
	if _, ok := idx.FindByKey2("a@example.com"); ok {
		t.Fatal("old email should no longer resolve after replace")
	}
	v, ok := idx.FindByKey1(1)
	if !ok || v.Name != "Alice2" || v.Email != "a2@example.com" {
		t.Fatalf("FindByKey1(1) = %+v, %v, want replaced Alice2 row", v, ok)
	}
	v, ok = idx.FindByKey2("a2@example.com")
	if !ok || v.Name != "Alice2" {
		t.Fatalf("FindByKey2(a2@example.com) = %+v, %v", v, ok)
	}
	v, ok = idx.FindByKey1(2)
	if !ok || v.Name != "Bob" {
		t.Fatalf("FindByKey1(2) = %+v, %v, unrelated entry disturbed", v, ok)
	}
}

func TestMultiIndexValuesIteratesAll(t *testing.T) {
	idx := newEmployeeIndex()
	idx.Insert(employee{ID: 1, Email: "a@example.com", Name: "Alice"})
	idx.Insert(employee{ID: 2, Email: "b@example.com", Name: "Bob"})
	count := 0
	idx.Values(func(employee) bool { count++; return true })
	if count != 2 {
		t.Fatalf("Values visited %d entries, want 2", count)
	}
}
