package explorer

import (
	"github.com/synnergy-chain/explorer/chain"
)

// ExplorerOutput is a resolved transaction output.
type ExplorerOutput struct {
	Address chain.Address
	Value   chain.Value
}

// ExplorerInput is a resolved transaction input: the original input
// reference has already been dereferenced to the address and value it
// spends, at projection time.
type ExplorerInput struct {
	Address chain.Address
	Value   chain.Value
}

// ExplorerTransaction is the indexing-relevant projection of a single
// transaction-bearing fragment. Output order is semantically significant:
// later utxo inputs reference outputs by position.
type ExplorerTransaction struct {
	Id      chain.FragmentId
	Inputs  []ExplorerInput
	Outputs []ExplorerOutput
}

// ExplorerBlock is the indexing-relevant projection of a raw block.
type ExplorerBlock struct {
	Id          chain.BlockId
	Parent      chain.BlockId
	Date        chain.BlockDate
	ChainLength chain.ChainLength
	// Transactions is keyed by fragment id so duplicate detection and
	// lookup by id are both O(1); order within a block no longer matters
	// once every transaction carries its own id.
	Transactions map[chain.FragmentId]*ExplorerTransaction
}

// EpochData aggregates per-epoch statistics.
type EpochData struct {
	FirstBlock  chain.BlockId
	LastBlock   chain.BlockId
	TotalBlocks uint32
}

func isTransactionBearing(kind chain.FragmentKind) bool {
	switch kind {
	case chain.FragmentTransaction,
		chain.FragmentOwnerStakeDelegation,
		chain.FragmentStakeDelegation,
		chain.FragmentPoolRegistration,
		chain.FragmentPoolManagement:
		return true
	default:
		return false
	}
}

// ProjectBlock reduces a raw, already-validated block to its
// ExplorerBlock shape, resolving utxo-style inputs against the parent
// snapshot's Transactions and Blocks indexes. Account inputs never consult
// the parent indexes; they are resolved by synthesizing an address from the
// account id and the chain's discrimination.
//
// A utxo input that fails to resolve means the block was accepted upstream
// with a reference validation should have rejected; that contract violation
// is reported as ErrInternal rather than silently skipped.
func ProjectBlock(block chain.RawBlock, discrimination chain.Discrimination, prevTransactions Transactions, prevBlocks Blocks) (*ExplorerBlock, error) {
	eb := &ExplorerBlock{
		Id:           block.Id,
		Parent:       block.Parent,
		Date:         block.Date,
		ChainLength:  block.ChainLength,
		Transactions: make(map[chain.FragmentId]*ExplorerTransaction),
	}

	for _, fragment := range block.Contents {
		if !isTransactionBearing(fragment.Kind) {
			continue
		}
		tx, err := projectTransaction(fragment.Id, fragment.Tx, discrimination, prevTransactions, prevBlocks)
		if err != nil {
			return nil, err
		}
		eb.Transactions[fragment.Id] = tx
	}

	return eb, nil
}

func projectTransaction(id chain.FragmentId, raw *chain.RawTransaction, discrimination chain.Discrimination, transactions Transactions, blocks Blocks) (*ExplorerTransaction, error) {
	outputs := make([]ExplorerOutput, len(raw.Outputs))
	for i, o := range raw.Outputs {
		outputs[i] = ExplorerOutput{Address: o.Address, Value: o.Value}
	}

	inputs := make([]ExplorerInput, 0, len(raw.Inputs))
	for i, in := range raw.Inputs {
		var witness chain.Witness
		if i < len(raw.Witnesses) {
			witness = raw.Witnesses[i]
		}

		resolved, ok, err := resolveInput(in, witness, discrimination, transactions, blocks)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		inputs = append(inputs, resolved)
	}

	return &ExplorerTransaction{Id: id, Inputs: inputs, Outputs: outputs}, nil
}

// resolveInput implements the (input-kind, witness-kind) policy table from
// §4.2. ok is false for combinations that are deliberately not indexed.
func resolveInput(in chain.RawInput, witness chain.Witness, discrimination chain.Discrimination, transactions Transactions, blocks Blocks) (ExplorerInput, bool, error) {
	switch in.Kind {
	case chain.InputAccount:
		switch witness.Kind {
		case chain.WitnessAccount:
			address := synthesizeAccountAddress(in.AccountId, discrimination)
			return ExplorerInput{Address: address, Value: in.Value}, true, nil
		case chain.WitnessMultisig:
			// Multisig account inputs are deliberately not indexed; see §9
			// open question 2 (known gap, not a bug).
			return ExplorerInput{}, false, nil
		default:
			return ExplorerInput{}, false, nil
		}
	case chain.InputUtxo:
		blockId, ok := transactions.Lookup(in.Utxo.TransactionId)
		if !ok {
			return ExplorerInput{}, false, internalError("utxo input references an unknown transaction " + in.Utxo.TransactionId.String())
		}
		block, ok := blocks.Lookup(blockId)
		if !ok {
			return ExplorerInput{}, false, internalError("utxo input references a transaction in an unindexed block " + blockId.String())
		}
		tx, ok := block.Transactions[in.Utxo.TransactionId]
		if !ok {
			return ExplorerInput{}, false, internalError("utxo input's transaction is missing from its own block")
		}
		if int(in.Utxo.OutputIndex) >= len(tx.Outputs) {
			return ExplorerInput{}, false, internalError("utxo input references an out-of-range output index")
		}
		output := tx.Outputs[in.Utxo.OutputIndex]
		return ExplorerInput{Address: output.Address, Value: output.Value}, true, nil
	default:
		return ExplorerInput{}, false, nil
	}
}
