package persist

import "testing"

func intHash(k int) uint64 { return uint64(k) }

func TestMapInsertLookup(t *testing.T) {
	m := NewMap[int, string](intHash)
	m, err := m.Insert(1, "one")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	m, err = m.Insert(2, "two")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if v, ok := m.Lookup(1); !ok || v != "one" {
		t.Fatalf("expected one, got %q ok=%v", v, ok)
	}
	if v, ok := m.Lookup(2); !ok || v != "two" {
		t.Fatalf("expected two, got %q ok=%v", v, ok)
	}
	if _, ok := m.Lookup(3); ok {
		t.Fatalf("expected missing key 3 to be absent")
	}
	if m.Len() != 2 {
		t.Fatalf("expected len 2, got %d", m.Len())
	}
}

func TestMapInsertDuplicateFails(t *testing.T) {
	m := NewMap[int, string](intHash)
	m, err := m.Insert(1, "one")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := m.Insert(1, "uno"); err != ErrKeyExists {
		t.Fatalf("expected ErrKeyExists, got %v", err)
	}
	// original map must be unaffected by the failed insert
	if v, _ := m.Lookup(1); v != "one" {
		t.Fatalf("expected original map untouched, got %q", v)
	}
}

func TestMapStructuralSharing(t *testing.T) {
	base := NewMap[int, string](intHash)
	base, _ = base.Insert(1, "one")
	base, _ = base.Insert(2, "two")

	derived, err := base.Insert(3, "three")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// base must remain exactly as it was before deriving.
	if _, ok := base.Lookup(3); ok {
		t.Fatalf("base map mutated by derived insert")
	}
	if v, ok := derived.Lookup(1); !ok || v != "one" {
		t.Fatalf("derived map lost antecedent entry: %q ok=%v", v, ok)
	}
	if v, ok := derived.Lookup(3); !ok || v != "three" {
		t.Fatalf("derived map missing new entry: %q ok=%v", v, ok)
	}
}

func TestMapInsertOrUpdate(t *testing.T) {
	m := NewMap[string, int](stringHash)
	m = m.InsertOrUpdate("a", 1, func(cur int) (int, bool) { return cur + 1, true })
	if v, ok := m.Lookup("a"); !ok || v != 1 {
		t.Fatalf("expected initial insert of 1, got %d ok=%v", v, ok)
	}
	m = m.InsertOrUpdate("a", 1, func(cur int) (int, bool) { return cur + 1, true })
	if v, ok := m.Lookup("a"); !ok || v != 2 {
		t.Fatalf("expected updated value 2, got %d ok=%v", v, ok)
	}
}

func TestMapInsertOrUpdateRemoval(t *testing.T) {
	m := NewMap[string, int](stringHash)
	m = m.InsertOrUpdate("a", 1, func(cur int) (int, bool) { return cur, true })
	m = m.InsertOrUpdate("a", 0, func(int) (int, bool) { return 0, false })
	if _, ok := m.Lookup("a"); ok {
		t.Fatalf("expected key removed after update returning ok=false")
	}
}

func TestMapHashCollision(t *testing.T) {
	constHash := func(int) uint64 { return 42 }
	m := NewMap[int, string](constHash)
	m, err := m.Insert(1, "one")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	m, err = m.Insert(2, "two")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if v, ok := m.Lookup(1); !ok || v != "one" {
		t.Fatalf("colliding key 1 lost: %q ok=%v", v, ok)
	}
	if v, ok := m.Lookup(2); !ok || v != "two" {
		t.Fatalf("colliding key 2 lost: %q ok=%v", v, ok)
	}
}

func TestMapIter(t *testing.T) {
	m := NewMap[int, int](intHash)
	want := map[int]int{}
	for i := 0; i < 50; i++ {
		var err error
		m, err = m.Insert(i, i*i)
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		want[i] = i * i
	}
	got := map[int]int{}
	m.Iter(func(k, v int) bool {
		got[k] = v
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("entry %d: expected %d, got %d", k, v, got[k])
		}
	}
}

func stringHash(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
