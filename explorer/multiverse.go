package explorer

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/synnergy-chain/explorer/chain"
)

// multiverseKey identifies one entry in the multiverse by the pair the spec
// requires (§4.4): chain length plus block id, since distinct branches can
// share a chain length but never a block id.
type multiverseKey struct {
	length chain.ChainLength
	block  chain.BlockId
}

type multiverseEntry struct {
	snapshot Snapshot
	refs     int
}

// GCRoot is an opaque retention token returned by Multiverse.Insert. As long
// as a caller holds a GCRoot for a snapshot, that snapshot (and everything
// it structurally shares with its ancestors) stays addressable by block id.
// Release must be called exactly once when the caller no longer needs the
// snapshot.
type GCRoot struct {
	id  uuid.UUID
	key multiverseKey
	mv  *Multiverse
}

// Release drops this retention token. It is safe to call at most once.
func (r GCRoot) Release() {
	if r.mv == nil {
		return
	}
	r.mv.release(r.key)
}

// Multiverse holds every live snapshot keyed by (ChainLength, BlockId) and
// evicts ones with no live GCRoot once a configurable number of them have
// accumulated, so memory does not grow without bound across a long-running
// process even though the core itself never expires a branch explicitly.
type Multiverse struct {
	mu      sync.Mutex
	entries map[multiverseKey]*multiverseEntry
	byBlock map[chain.BlockId]multiverseKey

	// evictable tracks zero-refcount entries in roughly least-recently-
	// freed order; once it exceeds retentionDepth, the oldest entries are
	// dropped from entries/byBlock. This is a policy choice, not a core
	// correctness requirement (§4.4 leaves collection to the
	// collaborator).
	evictable      *lru.Cache[multiverseKey, struct{}]
	retentionDepth int

	logger *log.Logger
}

// NewMultiverse returns an empty Multiverse. retentionDepth bounds how many
// zero-reference snapshots are kept around before being reclaimed; it does
// not bound snapshots that still have a live GCRoot.
func NewMultiverse(retentionDepth int, logger *log.Logger) (*Multiverse, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	mv := &Multiverse{
		entries:        make(map[multiverseKey]*multiverseEntry),
		byBlock:        make(map[chain.BlockId]multiverseKey),
		retentionDepth: retentionDepth,
		logger:         logger,
	}
	cache, err := lru.NewWithEvict(retentionDepth, mv.onEvict)
	if err != nil {
		return nil, err
	}
	mv.evictable = cache
	return mv, nil
}

// Insert stores snapshot under (length, blockId) and returns a GCRoot
// pinning it. Insert is idempotent-unsafe by design: callers (the indexer)
// are responsible for never inserting the same key twice, matching
// ErrBlockAlreadyExists being reported one layer up before Insert is ever
// called for a duplicate.
func (mv *Multiverse) Insert(length chain.ChainLength, blockId chain.BlockId, snapshot Snapshot) GCRoot {
	mv.mu.Lock()
	defer mv.mu.Unlock()

	key := multiverseKey{length: length, block: blockId}
	entry := &multiverseEntry{snapshot: snapshot, refs: 1}
	mv.entries[key] = entry
	mv.byBlock[blockId] = key

	mv.logger.WithFields(log.Fields{
		"chain_length": uint32(length),
		"block":        blockId.String(),
	}).Debug("multiverse: published snapshot")

	return GCRoot{id: uuid.New(), key: key, mv: mv}
}

// Get retrieves the snapshot published for blockId, along with a new GCRoot
// pinning it for the duration of the caller's use. ok is false if no
// snapshot has ever been published for that block.
func (mv *Multiverse) Get(blockId chain.BlockId) (Snapshot, GCRoot, bool) {
	mv.mu.Lock()
	defer mv.mu.Unlock()

	key, ok := mv.byBlock[blockId]
	if !ok {
		return Snapshot{}, GCRoot{}, false
	}
	entry, ok := mv.entries[key]
	if !ok {
		return Snapshot{}, GCRoot{}, false
	}
	entry.refs++
	mv.evictable.Remove(key)
	return entry.snapshot, GCRoot{id: uuid.New(), key: key, mv: mv}, true
}

func (mv *Multiverse) release(key multiverseKey) {
	mv.mu.Lock()
	defer mv.mu.Unlock()

	entry, ok := mv.entries[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		mv.evictable.Add(key, struct{}{})
	}
}

// onEvict is called by the LRU cache when a zero-refcount entry ages out of
// the retention window. It performs the actual reclamation.
func (mv *Multiverse) onEvict(key multiverseKey, _ struct{}) {
	entry, ok := mv.entries[key]
	if !ok || entry.refs > 0 {
		return
	}
	delete(mv.entries, key)
	if mv.byBlock[key.block] == key {
		delete(mv.byBlock, key.block)
	}
	mv.logger.WithFields(log.Fields{
		"chain_length": uint32(key.length),
		"block":        key.block.String(),
	}).Debug("multiverse: reclaimed snapshot")
}
