package explorer

import (
	"crypto/sha256"

	"github.com/synnergy-chain/explorer/chain"
)

func testBlockId(s string) chain.BlockId {
	return chain.BlockId(sha256.Sum256([]byte("block:" + s)))
}

func testFragId(s string) chain.FragmentId {
	return chain.FragmentId(sha256.Sum256([]byte("frag:" + s)))
}

func testAddress(s string) chain.Address {
	return chain.Address(sha256.Sum256([]byte("addr:" + s)))
}

func testAccountId(s string) chain.AccountId {
	return chain.AccountId(sha256.Sum256([]byte("account:" + s)))
}

func genesisBlock(id chain.BlockId, discrimination chain.Discrimination, consensus chain.ConsensusVersion) chain.RawBlock {
	return chain.RawBlock{
		Id:          id,
		Parent:      chain.BlockId{},
		Date:        chain.BlockDate{Epoch: 0, Slot: 0},
		ChainLength: 0,
		Contents: []chain.Fragment{
			{
				Id:   testFragId("initial"),
				Kind: chain.FragmentInitial,
				Initial: &chain.ConfigParams{Params: []chain.ConfigParam{
					{Kind: chain.ConfigDiscrimination, Discrimination: discrimination},
					{Kind: chain.ConfigConsensusVersion, ConsensusVersion: consensus},
				}},
			},
		},
	}
}

func txFragment(id chain.FragmentId, inputs []chain.RawInput, witnesses []chain.Witness, outputs []chain.RawOutput) chain.Fragment {
	return chain.Fragment{
		Id:   id,
		Kind: chain.FragmentTransaction,
		Tx: &chain.RawTransaction{
			Inputs:    inputs,
			Outputs:   outputs,
			Witnesses: witnesses,
		},
	}
}

func blockWithTx(id, parent chain.BlockId, length chain.ChainLength, epoch chain.Epoch, fragments ...chain.Fragment) chain.RawBlock {
	return chain.RawBlock{
		Id:          id,
		Parent:      parent,
		Date:        chain.BlockDate{Epoch: epoch, Slot: 0},
		ChainLength: length,
		Contents:    fragments,
	}
}
