package explorer

import (
	"errors"
	"testing"

	"github.com/synnergy-chain/explorer/chain"
)

// property 6: account-input transactions project inputs/outputs verbatim.
func TestProjectBlockAccountInputsVerbatim(t *testing.T) {
	acct := testAccountId("alice")
	outA := testAddress("A")
	outB := testAddress("B")

	tx := txFragment(
		testFragId("t1"),
		[]chain.RawInput{{Kind: chain.InputAccount, AccountId: acct, Value: 7}},
		[]chain.Witness{{Kind: chain.WitnessAccount}},
		[]chain.RawOutput{{Address: outA, Value: 10}, {Address: outB, Value: 5}},
	)
	block := blockWithTx(testBlockId("b1"), testBlockId("genesis"), 1, 0, tx)

	eb, err := ProjectBlock(block, chain.DiscriminationTest, emptyTransactions(), emptyBlocks())
	if err != nil {
		t.Fatalf("ProjectBlock failed: %v", err)
	}

	got, ok := eb.Transactions[testFragId("t1")]
	if !ok {
		t.Fatalf("expected transaction t1 to be projected")
	}
	if len(got.Outputs) != 2 || got.Outputs[0].Address != outA || got.Outputs[0].Value != 10 ||
		got.Outputs[1].Address != outB || got.Outputs[1].Value != 5 {
		t.Fatalf("outputs not preserved verbatim and in order: %+v", got.Outputs)
	}
	if len(got.Inputs) != 1 || got.Inputs[0].Value != 7 {
		t.Fatalf("expected one resolved account input with value 7, got %+v", got.Inputs)
	}
	wantAddr := synthesizeAccountAddress(acct, chain.DiscriminationTest)
	if got.Inputs[0].Address != wantAddr {
		t.Fatalf("account input address not synthesized consistently")
	}
}

// property 7: a utxo input resolves to exactly the referenced output.
func TestProjectBlockUtxoResolution(t *testing.T) {
	addrA := testAddress("A")
	t1 := txFragment(testFragId("t1"), nil, nil, []chain.RawOutput{{Address: addrA, Value: 10}, {Address: testAddress("B"), Value: 5}})
	b1 := blockWithTx(testBlockId("b1"), testBlockId("genesis"), 1, 0, t1)

	eb1, err := ProjectBlock(b1, chain.DiscriminationTest, emptyTransactions(), emptyBlocks())
	if err != nil {
		t.Fatalf("ProjectBlock b1 failed: %v", err)
	}
	snap1, err := DeriveSnapshot(EmptySnapshot(), eb1)
	if err != nil {
		t.Fatalf("DeriveSnapshot failed: %v", err)
	}

	t2 := txFragment(
		testFragId("t2"),
		[]chain.RawInput{{Kind: chain.InputUtxo, Utxo: chain.UtxoPointer{TransactionId: testFragId("t1"), OutputIndex: 0}}},
		[]chain.Witness{{Kind: chain.WitnessUtxo}},
		[]chain.RawOutput{{Address: testAddress("C"), Value: 10}},
	)
	b2 := blockWithTx(testBlockId("b2"), testBlockId("b1"), 2, 0, t2)

	eb2, err := ProjectBlock(b2, chain.DiscriminationTest, snap1.Transactions, snap1.Blocks)
	if err != nil {
		t.Fatalf("ProjectBlock b2 failed: %v", err)
	}

	got := eb2.Transactions[testFragId("t2")]
	if len(got.Inputs) != 1 || got.Inputs[0].Address != addrA || got.Inputs[0].Value != 10 {
		t.Fatalf("expected resolved input (A, 10), got %+v", got.Inputs)
	}
}

func TestProjectBlockSkipsNonTransactionBearingFragments(t *testing.T) {
	block := genesisBlock(testBlockId("genesis"), chain.DiscriminationTest, chain.ConsensusBFT)
	eb, err := ProjectBlock(block, chain.DiscriminationTest, emptyTransactions(), emptyBlocks())
	if err != nil {
		t.Fatalf("ProjectBlock failed: %v", err)
	}
	if len(eb.Transactions) != 0 {
		t.Fatalf("expected the Initial fragment to be skipped, got %d transactions", len(eb.Transactions))
	}
}

func TestProjectBlockSkipsMultisigAccountInput(t *testing.T) {
	tx := txFragment(
		testFragId("t1"),
		[]chain.RawInput{{Kind: chain.InputAccount, AccountId: testAccountId("alice"), Value: 7}},
		[]chain.Witness{{Kind: chain.WitnessMultisig}},
		nil,
	)
	block := blockWithTx(testBlockId("b1"), testBlockId("genesis"), 1, 0, tx)

	eb, err := ProjectBlock(block, chain.DiscriminationTest, emptyTransactions(), emptyBlocks())
	if err != nil {
		t.Fatalf("ProjectBlock failed: %v", err)
	}
	got := eb.Transactions[testFragId("t1")]
	if len(got.Inputs) != 0 {
		t.Fatalf("expected multisig account input to be skipped, got %+v", got.Inputs)
	}
}

func TestProjectBlockUnresolvableUtxoIsInternalError(t *testing.T) {
	tx := txFragment(
		testFragId("t2"),
		[]chain.RawInput{{Kind: chain.InputUtxo, Utxo: chain.UtxoPointer{TransactionId: testFragId("ghost"), OutputIndex: 0}}},
		[]chain.Witness{{Kind: chain.WitnessUtxo}},
		nil,
	)
	block := blockWithTx(testBlockId("b2"), testBlockId("b1"), 2, 0, tx)

	_, err := ProjectBlock(block, chain.DiscriminationTest, emptyTransactions(), emptyBlocks())
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal for an unresolvable utxo reference, got %v", err)
	}
}
