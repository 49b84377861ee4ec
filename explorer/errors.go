package explorer

import (
	"errors"
	"fmt"

	"github.com/synnergy-chain/explorer/chain"
)

// Error kinds from the taxonomy in §7. Each is a sentinel so callers can
// match with errors.Is; the concrete error returned also carries the
// offending id via fmt.Errorf("%w: ...", Err...).
var (
	// ErrAncestorNotFound: apply-block received a block whose parent
	// snapshot is not in the multiverse. Surfaced to the caller; not
	// retried by the core.
	ErrAncestorNotFound = errors.New("explorer: ancestor not found")

	// ErrTransactionAlreadyExists: a transaction id appears in two blocks
	// on the same branch.
	ErrTransactionAlreadyExists = errors.New("explorer: transaction already exists")

	// ErrBlockAlreadyExists: two attempts to index the same block on the
	// same branch.
	ErrBlockAlreadyExists = errors.New("explorer: block already exists")

	// ErrChainLengthBlockAlreadyExists: two blocks at the same height on
	// the same branch — an upstream invariant violation the multiverse's
	// per-parent partitioning should have already prevented.
	ErrChainLengthBlockAlreadyExists = errors.New("explorer: chain length already has a block on this branch")

	// ErrBootstrap: bootstrap-phase failure (missing tag, missing Initial
	// fragment, storage I/O error). Fatal: the explorer fails to start.
	ErrBootstrap = errors.New("explorer: bootstrap failed")

	// ErrInternal: an invariant violation during input resolution (a utxo
	// reference points at nothing). Unreachable in a correctly validated
	// chain; the core treats it as a loud, unrecoverable bug.
	ErrInternal = errors.New("explorer: internal invariant violation")
)

func ancestorNotFound(id chain.BlockId) error {
	return fmt.Errorf("%w: %s", ErrAncestorNotFound, id)
}

func transactionAlreadyExists(id chain.FragmentId) error {
	return fmt.Errorf("%w: %s", ErrTransactionAlreadyExists, id)
}

func blockAlreadyExists(id chain.BlockId) error {
	return fmt.Errorf("%w: %s", ErrBlockAlreadyExists, id)
}

func chainLengthBlockAlreadyExists(length chain.ChainLength) error {
	return fmt.Errorf("%w: %d", ErrChainLengthBlockAlreadyExists, length)
}

func bootstrapError(message string) error {
	return fmt.Errorf("%w: %s", ErrBootstrap, message)
}

func internalError(message string) error {
	return fmt.Errorf("%w: %s", ErrInternal, message)
}
