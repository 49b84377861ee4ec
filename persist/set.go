package persist

// Set is a persistent set built on Map with a unit value, matching C2's
// contract: structural-sharing insert that is idempotent on elements
// already present.
type Set[K comparable] struct {
	m Map[K, struct{}]
}

// NewSet returns an empty Set keyed by the given hash function.
func NewSet[K comparable](hash HashFunc[K]) Set[K] {
	return Set[K]{m: NewMap[K, struct{}](hash)}
}

// Len returns the number of elements in the set.
func (s Set[K]) Len() int { return s.m.Len() }

// Contains reports whether x is in the set.
func (s Set[K]) Contains(x K) bool {
	_, ok := s.m.Lookup(x)
	return ok
}

// Add returns a new Set containing x. If x is already present, Add returns
// s unchanged (idempotent), matching add_element's contract.
func (s Set[K]) Add(x K) Set[K] {
	if s.Contains(x) {
		return s
	}
	next, err := s.m.Insert(x, struct{}{})
	if err != nil {
		// Insert only fails on a key that already exists, which Contains
		// just ruled out.
		return s
	}
	return Set[K]{m: next}
}

// Iter calls fn for every element in unspecified order.
func (s Set[K]) Iter(fn func(K) bool) {
	s.m.Iter(func(k K, _ struct{}) bool { return fn(k) })
}
