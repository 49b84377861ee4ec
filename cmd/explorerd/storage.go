package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/synnergy-chain/explorer/chain"
)

// fileBlockStorage is a minimal explorer.BlockStorage backed by a
// newline-delimited JSON file of chain.RawBlock values, in parent-to-child
// order. It stands in for the node's real block storage and networking
// stack, which sit outside this module's boundary (§6.2).
type fileBlockStorage struct {
	blocks []chain.RawBlock
	byId   map[chain.BlockId]int
	tags   map[string]chain.BlockId
}

func loadFileBlockStorage(path, headTag string) (*fileBlockStorage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open block stream %s: %w", path, err)
	}
	defer f.Close()

	storage := &fileBlockStorage{
		byId: make(map[chain.BlockId]int),
		tags: make(map[string]chain.BlockId),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var block chain.RawBlock
		if err := json.Unmarshal(line, &block); err != nil {
			return nil, fmt.Errorf("decode block stream %s: %w", path, err)
		}
		storage.byId[block.Id] = len(storage.blocks)
		storage.blocks = append(storage.blocks, block)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read block stream %s: %w", path, err)
	}
	if len(storage.blocks) == 0 {
		return nil, fmt.Errorf("block stream %s is empty", path)
	}

	storage.tags[headTag] = storage.blocks[len(storage.blocks)-1].Id
	return storage, nil
}

func (s *fileBlockStorage) genesis() chain.RawBlock {
	return s.blocks[0]
}

func (s *fileBlockStorage) GetTag(_ context.Context, name string) (chain.BlockId, bool, error) {
	id, ok := s.tags[name]
	return id, ok, nil
}

func (s *fileBlockStorage) StreamFromTo(ctx context.Context, from, to chain.BlockId) (<-chan chain.RawBlock, <-chan error) {
	out := make(chan chain.RawBlock)
	errs := make(chan error, 1)

	startIdx, ok := s.byId[from]
	if !ok {
		errs <- fmt.Errorf("unknown 'from' block %s", from)
		close(out)
		close(errs)
		return out, errs
	}

	go func() {
		defer close(out)
		defer close(errs)
		for i := startIdx + 1; i < len(s.blocks); i++ {
			block := s.blocks[i]
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case out <- block:
			}
			if block.Id == to {
				return
			}
		}
	}()

	return out, errs
}
