package explorer

import "github.com/synnergy-chain/explorer/chain"

// Snapshot is the immutable bundle of five persistent indexes representing
// the world state at one block (§3.3). Snapshots are never mutated after
// publication into the multiverse; deriving a new one from an old one
// shares every trie node neither update touches.
type Snapshot struct {
	Transactions Transactions
	Blocks       Blocks
	Addresses    Addresses
	Epochs       Epochs
	ChainLengths ChainLengths
}

// EmptySnapshot returns the zero-state snapshot used as the ancestor of
// genesis during bootstrap.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Transactions: emptyTransactions(),
		Blocks:       emptyBlocks(),
		Addresses:    emptyAddresses(),
		Epochs:       emptyEpochs(),
		ChainLengths: emptyChainLengths(),
	}
}

// DeriveSnapshot applies eb's five index updates to prev, in the order
// specified by §4.3, and returns the resulting immutable Snapshot. Any
// derivation failure aborts the whole derivation: prev is untouched and the
// caller must not publish a partial result.
func DeriveSnapshot(prev Snapshot, eb *ExplorerBlock) (Snapshot, error) {
	transactions, err := applyToTransactions(prev.Transactions, eb)
	if err != nil {
		return Snapshot{}, err
	}

	blocks, err := applyToBlocks(prev.Blocks, eb)
	if err != nil {
		return Snapshot{}, err
	}

	addresses := applyToAddresses(prev.Addresses, eb)

	epochs := applyToEpochs(prev.Epochs, eb)

	chainLengths, err := applyToChainLengths(prev.ChainLengths, eb)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Transactions: transactions,
		Blocks:       blocks,
		Addresses:    addresses,
		Epochs:       epochs,
		ChainLengths: chainLengths,
	}, nil
}

func applyToTransactions(transactions Transactions, eb *ExplorerBlock) (Transactions, error) {
	for id, tx := range eb.Transactions {
		next, err := transactions.Insert(tx.Id, eb.Id)
		if err != nil {
			return Transactions{}, transactionAlreadyExists(id)
		}
		transactions = next
	}
	return transactions, nil
}

func applyToBlocks(blocks Blocks, eb *ExplorerBlock) (Blocks, error) {
	next, err := blocks.Insert(eb.Id, eb)
	if err != nil {
		return Blocks{}, blockAlreadyExists(eb.Id)
	}
	return next, nil
}

// applyToAddresses indexes every transaction under each address it touches
// as either an output or a resolved input, matching the original
// explorer's apply_block_to_addresses which walks both lists (see
// SPEC_FULL.md's supplemented feature 1).
func applyToAddresses(addresses Addresses, eb *ExplorerBlock) Addresses {
	for id, tx := range eb.Transactions {
		for _, output := range tx.Outputs {
			addresses = addOrUpdateAddressSet(addresses, output.Address, id)
		}
		for _, input := range tx.Inputs {
			addresses = addOrUpdateAddressSet(addresses, input.Address, id)
		}
	}
	return addresses
}

func addOrUpdateAddressSet(addresses Addresses, address chain.Address, txId chain.FragmentId) Addresses {
	return addresses.InsertOrUpdate(
		address,
		emptyFragmentSet().Add(txId),
		func(current setOfFragmentIds) (setOfFragmentIds, bool) {
			return current.Add(txId), true
		},
	)
}

// applyToEpochs tracks the first/last block and block count of each epoch.
// The initial insert sets total=0 and every subsequent update increments
// it, so total_blocks is always one less than the true block count of the
// epoch — an observed behavior of the original explorer preserved here
// rather than silently "fixed" (§9 open question 1).
func applyToEpochs(epochs Epochs, eb *ExplorerBlock) Epochs {
	epoch := eb.Date.Epoch
	return epochs.InsertOrUpdate(
		epoch,
		EpochData{FirstBlock: eb.Id, LastBlock: eb.Id, TotalBlocks: 0},
		func(current EpochData) (EpochData, bool) {
			return EpochData{
				FirstBlock:  current.FirstBlock,
				LastBlock:   eb.Id,
				TotalBlocks: current.TotalBlocks + 1,
			}, true
		},
	)
}

func applyToChainLengths(chainLengths ChainLengths, eb *ExplorerBlock) (ChainLengths, error) {
	next, err := chainLengths.Insert(eb.ChainLength, eb.Id)
	if err != nil {
		return ChainLengths{}, chainLengthBlockAlreadyExists(eb.ChainLength)
	}
	return next, nil
}
