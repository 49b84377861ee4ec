package explorer

import "github.com/synnergy-chain/explorer/chain"

// QueryEngine evaluates read-only lookups against the current longest-chain
// tip snapshot (§4.7). Every method follows the same three-step pattern:
// read the tip id under the latch, fetch that snapshot from the
// multiverse, then run a single lookup. A query never observes a partial
// update because the snapshot referenced by the tip is fully derived
// before the tip ever advances to point at it.
type QueryEngine struct {
	indexer    *Indexer
	multiverse *Multiverse
}

// NewQueryEngine constructs a QueryEngine over a running Indexer.
func NewQueryEngine(indexer *Indexer, multiverse *Multiverse) *QueryEngine {
	return &QueryEngine{indexer: indexer, multiverse: multiverse}
}

func (q *QueryEngine) tipSnapshot() (Snapshot, bool) {
	tip := q.indexer.Tip()
	snapshot, root, ok := q.multiverse.Get(tip.Id)
	if !ok {
		return Snapshot{}, false
	}
	defer root.Release()
	return snapshot, true
}

// GetBlock returns the full indexed block for blockId, if known to the tip
// branch.
func (q *QueryEngine) GetBlock(blockId chain.BlockId) (*ExplorerBlock, bool) {
	snapshot, ok := q.tipSnapshot()
	if !ok {
		return nil, false
	}
	return snapshot.Blocks.Lookup(blockId)
}

// FindBlockByChainLength returns the block at chainLength on the tip
// branch.
func (q *QueryEngine) FindBlockByChainLength(chainLength chain.ChainLength) (chain.BlockId, bool) {
	snapshot, ok := q.tipSnapshot()
	if !ok {
		return chain.BlockId{}, false
	}
	return snapshot.ChainLengths.Lookup(chainLength)
}

// FindBlockByTransaction returns the block containing txId on the tip
// branch.
func (q *QueryEngine) FindBlockByTransaction(txId chain.FragmentId) (chain.BlockId, bool) {
	snapshot, ok := q.tipSnapshot()
	if !ok {
		return chain.BlockId{}, false
	}
	return snapshot.Transactions.Lookup(txId)
}

// GetEpoch returns the aggregate stats for epoch on the tip branch.
func (q *QueryEngine) GetEpoch(epoch chain.Epoch) (EpochData, bool) {
	snapshot, ok := q.tipSnapshot()
	if !ok {
		return EpochData{}, false
	}
	return snapshot.Epochs.Lookup(epoch)
}

// FindTransactionsByAddress returns every transaction id that referenced
// address as an input or output on the tip branch. This is an extension
// query following the same read pattern as the four core queries (§4.7).
func (q *QueryEngine) FindTransactionsByAddress(address chain.Address) ([]chain.FragmentId, bool) {
	snapshot, ok := q.tipSnapshot()
	if !ok {
		return nil, false
	}
	set, ok := snapshot.Addresses.Lookup(address)
	if !ok {
		return nil, false
	}
	ids := make([]chain.FragmentId, 0, set.Len())
	set.Iter(func(id chain.FragmentId) bool {
		ids = append(ids, id)
		return true
	})
	return ids, true
}
