package explorer

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/synnergy-chain/explorer/chain"
)

// BlockStorage is the external collaborator bootstrap streams blocks from.
// The node's own block storage and networking stacks implement it; this
// package only depends on the interface (§6.2).
type BlockStorage interface {
	// GetTag resolves a named tag (e.g. "HEAD") to a block id.
	GetTag(ctx context.Context, name string) (chain.BlockId, bool, error)
	// StreamFromTo streams blocks from (exclusive) to (inclusive), in
	// parent-to-child order. The error channel carries at most one error
	// and is closed alongside the block channel.
	StreamFromTo(ctx context.Context, from, to chain.BlockId) (<-chan chain.RawBlock, <-chan error)
}

// DefaultRetentionDepth bounds how many zero-reference snapshots the
// bootstrapped multiverse keeps before reclaiming them (§4.4).
const DefaultRetentionDepth = 64

// Bootstrap initializes a fresh Indexer and Multiverse by indexing the
// genesis block and then streaming every block from genesis to the
// named head tag (§4.6). It runs synchronously; the explorer is considered
// unavailable until it returns. A single failure anywhere aborts the whole
// bootstrap.
func Bootstrap(ctx context.Context, block0 chain.RawBlock, storage BlockStorage, headTag string, logger *log.Logger) (*Indexer, *Multiverse, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}

	config, err := extractBlockchainConfig(block0)
	if err != nil {
		return nil, nil, err
	}

	multiverse, err := NewMultiverse(DefaultRetentionDepth, logger)
	if err != nil {
		return nil, nil, bootstrapError(err.Error())
	}

	indexer := NewIndexer(multiverse, config, logger)
	if err := indexer.IndexGenesis(block0); err != nil {
		return nil, nil, bootstrapError(err.Error())
	}
	logger.WithField("block", block0.Id.String()).Info("explorer: indexed genesis")

	head, ok, err := storage.GetTag(ctx, headTag)
	if err != nil {
		return nil, nil, bootstrapError(err.Error())
	}
	if !ok {
		return nil, nil, bootstrapError("couldn't read the " + headTag + " tag from storage")
	}
	if head == block0.Id {
		return indexer, multiverse, nil
	}

	blocks, errs := storage.StreamFromTo(ctx, block0.Id, head)
	for block := range blocks {
		if err := indexer.ApplyBlock(block); err != nil {
			return nil, nil, bootstrapError(err.Error())
		}
		logger.WithFields(log.Fields{
			"block":        block.Id.String(),
			"chain_length": uint32(block.ChainLength),
		}).Debug("explorer: bootstrap applied block")
	}
	if err := <-errs; err != nil {
		return nil, nil, bootstrapError(err.Error())
	}

	return indexer, multiverse, nil
}

func extractBlockchainConfig(block0 chain.RawBlock) (BlockchainConfig, error) {
	for _, fragment := range block0.Contents {
		if fragment.Kind != chain.FragmentInitial || fragment.Initial == nil {
			continue
		}
		var config BlockchainConfig
		var hasDiscrimination, hasConsensusVersion bool
		for _, param := range fragment.Initial.Params {
			switch param.Kind {
			case chain.ConfigDiscrimination:
				config.Discrimination = param.Discrimination
				hasDiscrimination = true
			case chain.ConfigConsensusVersion:
				config.ConsensusVersion = param.ConsensusVersion
				hasConsensusVersion = true
			}
		}
		if !hasDiscrimination || !hasConsensusVersion {
			return BlockchainConfig{}, bootstrapError("Initial fragment missing discrimination or consensus_version")
		}
		return config, nil
	}
	return BlockchainConfig{}, bootstrapError("missing Initial fragment in genesis block")
}
