// Package persist implements a persistent (structurally-shared) hash trie,
// the C1/C2 components of the explorer indexing core. Every insert returns a
// new Map that shares all untouched trie nodes with its antecedent, so
// deriving one snapshot from another costs O(log n) rather than O(n).
//
// The design follows the hash-array-mapped trie shape used by
// rogpeppe/generic's ctrie (see _examples/other_examples) and by Rust's
// imhamt that the original jormungandr explorer is built on: a shared
// hash function, 32-way branching per level, and collision chains at leaves
// when two keys hash identically.
package persist

import (
	"errors"
	"math/bits"
)

// ErrKeyExists is returned by Insert when the key is already present.
var ErrKeyExists = errors.New("persist: key already exists")

// HashFunc computes a stable 64-bit hash for a key. The same function must
// be used for every Map derived from a common ancestor, or trie lookups
// will silently miss.
type HashFunc[K comparable] func(K) uint64

const (
	bitsPerLevel = 5
	fanout       = 1 << bitsPerLevel // 32
	levelMask    = fanout - 1
	maxShift     = 64 // levels at shifts 0, 5, ..., 60 (13 levels) cover the full 64-bit hash
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// node is either a leaf (entries != nil, one or more keys sharing the same
// hash) or a branch (bitmap/children populated, entries nil). A nil *node
// represents an empty subtree.
type node[K comparable, V any] struct {
	// leaf fields
	entries []entry[K, V]
	hash    uint64

	// branch fields
	bitmap   uint32
	children []*node[K, V]
}

func (n *node[K, V]) isLeaf() bool { return n != nil && n.entries != nil }

// Map is an immutable, structurally-shared map from K to V.
type Map[K comparable, V any] struct {
	root *node[K, V]
	hash HashFunc[K]
	size int
}

// NewMap returns an empty Map keyed by the given hash function.
func NewMap[K comparable, V any](hash HashFunc[K]) Map[K, V] {
	return Map[K, V]{hash: hash}
}

// Len returns the number of entries in the map.
func (m Map[K, V]) Len() int { return m.size }

// Lookup returns the value for key and whether it was present.
func (m Map[K, V]) Lookup(key K) (V, bool) {
	return lookup(m.root, m.hash(key), 0, key)
}

func lookup[K comparable, V any](n *node[K, V], hash uint64, shift uint, key K) (V, bool) {
	if n == nil {
		var zero V
		return zero, false
	}
	if n.isLeaf() {
		if n.hash != hash {
			var zero V
			return zero, false
		}
		for _, e := range n.entries {
			if e.key == key {
				return e.value, true
			}
		}
		var zero V
		return zero, false
	}
	bit := bitpos(hash, shift)
	if n.bitmap&bit == 0 {
		var zero V
		return zero, false
	}
	idx := childIndex(n.bitmap, bit)
	return lookup(n.children[idx], hash, shift+bitsPerLevel, key)
}

// Insert adds key->value, returning a new Map that shares structure with m.
// It fails with ErrKeyExists if key is already present.
func (m Map[K, V]) Insert(key K, value V) (Map[K, V], error) {
	hash := m.hash(key)
	newRoot, existed := insertNode(m.root, hash, 0, key, value, false)
	if existed {
		return Map[K, V]{}, ErrKeyExists
	}
	return Map[K, V]{root: newRoot, hash: m.hash, size: m.size + 1}, nil
}

// UpdateFunc computes a replacement value given the current one. Returning
// ok=false removes the key.
type UpdateFunc[V any] func(current V) (updated V, ok bool)

// InsertOrUpdate inserts initial if key is absent, or applies update to the
// current value if key is present. This core never removes entries, but the
// contract (mirroring C1's insert_or_update) supports it for completeness.
func (m Map[K, V]) InsertOrUpdate(key K, initial V, update UpdateFunc[V]) Map[K, V] {
	hash := m.hash(key)
	newRoot, wasPresent := insertOrUpdateNode(m.root, hash, 0, key, initial, update)
	size := m.size
	if !wasPresent {
		size++
	}
	return Map[K, V]{root: newRoot, hash: m.hash, size: size}
}

// Iter calls fn for every entry in unspecified order. Iteration stops early
// if fn returns false.
func (m Map[K, V]) Iter(fn func(K, V) bool) {
	iterNode(m.root, fn)
}

func iterNode[K comparable, V any](n *node[K, V], fn func(K, V) bool) bool {
	if n == nil {
		return true
	}
	if n.isLeaf() {
		for _, e := range n.entries {
			if !fn(e.key, e.value) {
				return false
			}
		}
		return true
	}
	for _, c := range n.children {
		if !iterNode(c, fn) {
			return false
		}
	}
	return true
}

func bitpos(hash uint64, shift uint) uint32 {
	if shift >= 64 {
		return 1
	}
	return 1 << ((hash >> shift) & levelMask)
}

func childIndex(bitmap uint32, bit uint32) int {
	return bits.OnesCount32(bitmap & (bit - 1))
}

// insertNode inserts (key, value) under n, never overwriting an existing
// key. It reports whether the key already existed (in which case the
// returned node is meaningless and discarded by the caller).
func insertNode[K comparable, V any](n *node[K, V], hash uint64, shift uint, key K, value V, _ bool) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{hash: hash, entries: []entry[K, V]{{key, value}}}, false
	}
	if n.isLeaf() {
		if n.hash == hash {
			for _, e := range n.entries {
				if e.key == key {
					return n, true
				}
			}
			entries := append(append([]entry[K, V]{}, n.entries...), entry[K, V]{key, value})
			return &node[K, V]{hash: hash, entries: entries}, false
		}
		// Hash collision between two different hashes at this shift: split
		// the existing leaf down one more level and retry.
		if shift >= maxShift {
			entries := append(append([]entry[K, V]{}, n.entries...), entry[K, V]{key, value})
			return &node[K, V]{hash: n.hash, entries: entries}, false
		}
		branch := &node[K, V]{}
		branch = attachLeaf(branch, n, shift)
		return insertNode(branch, hash, shift, key, value, false)
	}
	bit := bitpos(hash, shift)
	idx := childIndex(n.bitmap, bit)
	if n.bitmap&bit == 0 {
		children := make([]*node[K, V], len(n.children)+1)
		copy(children[:idx], n.children[:idx])
		children[idx] = &node[K, V]{hash: hash, entries: []entry[K, V]{{key, value}}}
		copy(children[idx+1:], n.children[idx:])
		return &node[K, V]{bitmap: n.bitmap | bit, children: children}, false
	}
	newChild, existed := insertNode(n.children[idx], hash, shift+bitsPerLevel, key, value, false)
	if existed {
		return n, true
	}
	children := append([]*node[K, V]{}, n.children...)
	children[idx] = newChild
	return &node[K, V]{bitmap: n.bitmap, children: children}, false
}

// attachLeaf re-inserts an existing leaf node one level deeper into branch,
// used when two distinct hashes collide in the same slot.
func attachLeaf[K comparable, V any](branch *node[K, V], leaf *node[K, V], shift uint) *node[K, V] {
	bit := bitpos(leaf.hash, shift)
	return &node[K, V]{bitmap: bit, children: []*node[K, V]{leaf}}
}

func insertOrUpdateNode[K comparable, V any](n *node[K, V], hash uint64, shift uint, key K, initial V, update UpdateFunc[V]) (*node[K, V], bool) {
	if n == nil {
		return &node[K, V]{hash: hash, entries: []entry[K, V]{{key, initial}}}, false
	}
	if n.isLeaf() {
		if n.hash == hash {
			for i, e := range n.entries {
				if e.key == key {
					updated, ok := update(e.value)
					if !ok {
						entries := make([]entry[K, V], 0, len(n.entries)-1)
						entries = append(entries, n.entries[:i]...)
						entries = append(entries, n.entries[i+1:]...)
						if len(entries) == 0 {
							return nil, true
						}
						return &node[K, V]{hash: hash, entries: entries}, true
					}
					entries := append([]entry[K, V]{}, n.entries...)
					entries[i] = entry[K, V]{key, updated}
					return &node[K, V]{hash: hash, entries: entries}, true
				}
			}
			entries := append(append([]entry[K, V]{}, n.entries...), entry[K, V]{key, initial})
			return &node[K, V]{hash: hash, entries: entries}, false
		}
		if shift >= maxShift {
			entries := append(append([]entry[K, V]{}, n.entries...), entry[K, V]{key, initial})
			return &node[K, V]{hash: n.hash, entries: entries}, false
		}
		branch := attachLeaf(&node[K, V]{}, n, shift)
		return insertOrUpdateNode(branch, hash, shift, key, initial, update)
	}
	bit := bitpos(hash, shift)
	idx := childIndex(n.bitmap, bit)
	if n.bitmap&bit == 0 {
		children := make([]*node[K, V], len(n.children)+1)
		copy(children[:idx], n.children[:idx])
		children[idx] = &node[K, V]{hash: hash, entries: []entry[K, V]{{key, initial}}}
		copy(children[idx+1:], n.children[idx:])
		return &node[K, V]{bitmap: n.bitmap | bit, children: children}, false
	}
	newChild, wasPresent := insertOrUpdateNode(n.children[idx], hash, shift+bitsPerLevel, key, initial, update)
	children := append([]*node[K, V]{}, n.children...)
	if newChild == nil {
		children = append(children[:idx], children[idx+1:]...)
		bitmap := n.bitmap &^ bit
		if bitmap == 0 && len(children) == 0 {
			return nil, wasPresent
		}
		return &node[K, V]{bitmap: bitmap, children: children}, wasPresent
	}
	children[idx] = newChild
	return &node[K, V]{bitmap: n.bitmap, children: children}, wasPresent
}
