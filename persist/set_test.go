package persist

import "testing"

func TestSetAddIdempotent(t *testing.T) {
	s := NewSet[int](intHash)
	s = s.Add(1)
	s = s.Add(1)
	if s.Len() != 1 {
		t.Fatalf("expected idempotent add, got len %d", s.Len())
	}
	if !s.Contains(1) {
		t.Fatalf("expected set to contain 1")
	}
}

func TestSetStructuralSharing(t *testing.T) {
	base := NewSet[int](intHash)
	base = base.Add(1)
	derived := base.Add(2)

	if base.Contains(2) {
		t.Fatalf("base set mutated by derived add")
	}
	if !derived.Contains(1) || !derived.Contains(2) {
		t.Fatalf("derived set missing expected elements")
	}
}

func TestSetIter(t *testing.T) {
	s := NewSet[int](intHash)
	for i := 0; i < 10; i++ {
		s = s.Add(i)
	}
	seen := map[int]bool{}
	s.Iter(func(x int) bool {
		seen[x] = true
		return true
	})
	if len(seen) != 10 {
		t.Fatalf("expected 10 elements, got %d", len(seen))
	}
}
