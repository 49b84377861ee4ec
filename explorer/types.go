package explorer

import (
	"github.com/synnergy-chain/explorer/chain"
	"github.com/synnergy-chain/explorer/persist"
)

// The five index types that make up a Snapshot (§3.3).
type (
	Transactions = persist.Map[chain.FragmentId, chain.BlockId]
	Blocks       = persist.Map[chain.BlockId, *ExplorerBlock]
	ChainLengths = persist.Map[chain.ChainLength, chain.BlockId]
	Addresses    = persist.Map[chain.Address, persist.Set[chain.FragmentId]]
	Epochs       = persist.Map[chain.Epoch, EpochData]

	setOfFragmentIds = persist.Set[chain.FragmentId]
)

func emptyTransactions() Transactions { return persist.NewMap[chain.FragmentId, chain.BlockId](hashFragmentId) }
func emptyBlocks() Blocks             { return persist.NewMap[chain.BlockId, *ExplorerBlock](hashBlockId) }
func emptyChainLengths() ChainLengths { return persist.NewMap[chain.ChainLength, chain.BlockId](hashChainLength) }
func emptyAddresses() Addresses {
	return persist.NewMap[chain.Address, persist.Set[chain.FragmentId]](hashAddress)
}
func emptyEpochs() Epochs { return persist.NewMap[chain.Epoch, EpochData](hashEpoch) }
func emptyFragmentSet() persist.Set[chain.FragmentId] {
	return persist.NewSet[chain.FragmentId](hashFragmentId)
}
