package explorer

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/synnergy-chain/explorer/chain"
)

// BlockchainConfig is extracted once from the genesis block's Initial
// fragment (§6.4) and never changes afterward.
type BlockchainConfig struct {
	Discrimination   chain.Discrimination
	ConsensusVersion chain.ConsensusVersion
}

// TipHeader identifies the current longest-chain tip.
type TipHeader struct {
	Id          chain.BlockId
	ChainLength chain.ChainLength
}

// Message is the single inbound message kind the indexer consumes (§6.1).
type Message interface{ isMessage() }

// NewBlockMsg enqueues a validated block for indexing.
type NewBlockMsg struct{ Block chain.RawBlock }

func (NewBlockMsg) isMessage() {}

// ShutdownMsg stops the indexer's consume loop.
type ShutdownMsg struct{}

func (ShutdownMsg) isMessage() {}

// Indexer orchestrates snapshot derivation on new-block events and tracks
// the longest-chain tip. It is the only writer of the multiverse; queries
// (C7) only read it.
type Indexer struct {
	multiverse *Multiverse
	config     BlockchainConfig
	logger     *log.Logger

	tipMu   sync.Mutex
	tip     TipHeader
	tipRoot GCRoot
}

// NewIndexer constructs an Indexer around multiverse, which may be empty.
// Callers must publish the genesis snapshot (via IndexGenesis) before the
// first ApplyBlock call.
func NewIndexer(multiverse *Multiverse, config BlockchainConfig, logger *log.Logger) *Indexer {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Indexer{multiverse: multiverse, config: config, logger: logger}
}

// IndexGenesis projects and publishes the genesis block's snapshot and sets
// it as the initial tip. It must be called exactly once, before any
// ApplyBlock call.
func (ix *Indexer) IndexGenesis(block0 chain.RawBlock) error {
	eb, err := ProjectBlock(block0, ix.config.Discrimination, emptyTransactions(), emptyBlocks())
	if err != nil {
		return err
	}
	next, err := DeriveSnapshot(EmptySnapshot(), eb)
	if err != nil {
		return err
	}
	root := ix.multiverse.Insert(block0.ChainLength, block0.Id, next)

	ix.tipMu.Lock()
	ix.tip = TipHeader{Id: block0.Id, ChainLength: block0.ChainLength}
	ix.tipRoot = root
	ix.tipMu.Unlock()

	return nil
}

// Tip returns the current longest-chain tip header.
func (ix *Indexer) Tip() TipHeader {
	ix.tipMu.Lock()
	defer ix.tipMu.Unlock()
	return ix.tip
}

// ApplyBlock is the §4.5 apply-block contract: derive a new snapshot from
// block's parent and publish it, then evaluate tip advancement. Derivation
// errors are returned to the caller and leave the multiverse unchanged;
// they do not abort the indexer.
func (ix *Indexer) ApplyBlock(block chain.RawBlock) error {
	if _, dupRoot, ok := ix.multiverse.Get(block.Id); ok {
		dupRoot.Release()
		return blockAlreadyExists(block.Id)
	}

	parent, parentRoot, ok := ix.multiverse.Get(block.Parent)
	if !ok {
		return ancestorNotFound(block.Id)
	}
	defer parentRoot.Release()

	eb, err := ProjectBlock(block, ix.config.Discrimination, parent.Transactions, parent.Blocks)
	if err != nil {
		return err
	}

	next, err := DeriveSnapshot(parent, eb)
	if err != nil {
		return err
	}

	root := ix.multiverse.Insert(block.ChainLength, block.Id, next)
	ix.advanceTip(block, root)
	return nil
}

// advanceTip implements the §4.5 step-5 tie-breaking rule: a strictly
// longer chain replaces the tip, an equal-length one never does. The new
// snapshot is already published (root was returned by a completed
// Multiverse.Insert) before this runs, so publish-before-advance holds
// trivially rather than needing an explicit barrier.
func (ix *Indexer) advanceTip(block chain.RawBlock, root GCRoot) {
	ix.tipMu.Lock()
	defer ix.tipMu.Unlock()

	if block.ChainLength <= ix.tip.ChainLength {
		root.Release()
		return
	}

	oldRoot := ix.tipRoot
	ix.tip = TipHeader{Id: block.Id, ChainLength: block.ChainLength}
	ix.tipRoot = root
	oldRoot.Release()

	ix.logger.WithFields(log.Fields{
		"block":        block.Id.String(),
		"chain_length": uint32(block.ChainLength),
	}).Info("explorer: tip advanced")
}

// Run consumes messages until a ShutdownMsg arrives or ctx is cancelled,
// applying each NewBlockMsg in arrival order (the single-consumer channel
// feeding this loop is what gives apply-block its serialization guarantee
// — see §5). Derivation errors are logged and the loop continues; an
// internal invariant violation is logged at a higher severity and the loop
// terminates, matching §7's propagation policy.
func (ix *Indexer) Run(ctx context.Context, messages <-chan Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, open := <-messages:
			if !open {
				return nil
			}
			switch m := msg.(type) {
			case ShutdownMsg:
				return nil
			case NewBlockMsg:
				if err := ix.ApplyBlock(m.Block); err != nil {
					if errors.Is(err, ErrInternal) {
						ix.logger.WithError(err).Error("explorer: internal invariant violation, stopping indexer")
						return err
					}
					ix.logger.WithFields(log.Fields{
						"block": m.Block.Id.String(),
					}).WithError(err).Warn("explorer: failed to apply block")
				}
			}
		}
	}
}
