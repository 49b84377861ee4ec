package explorer

import (
	"hash/maphash"

	"github.com/synnergy-chain/explorer/chain"
)

// seed is shared by every hash function below so that hashes stay stable
// across snapshots derived from one another within a process, matching the
// contract that a persist.Map's keys must hash consistently across its
// antecedents (§4.1: "A shared hasher is used").
var seed = maphash.MakeSeed()

func hashBytes(b []byte) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	_, _ = h.Write(b)
	return h.Sum64()
}

func hashBlockId(id chain.BlockId) uint64     { return hashBytes(id[:]) }
func hashFragmentId(id chain.FragmentId) uint64 { return hashBytes(id[:]) }
func hashAddress(a chain.Address) uint64      { return hashBytes(a[:]) }

func hashChainLength(l chain.ChainLength) uint64 {
	b := [4]byte{byte(l), byte(l >> 8), byte(l >> 16), byte(l >> 24)}
	return hashBytes(b[:])
}

func hashEpoch(e chain.Epoch) uint64 {
	b := [4]byte{byte(e), byte(e >> 8), byte(e >> 16), byte(e >> 24)}
	return hashBytes(b[:])
}
