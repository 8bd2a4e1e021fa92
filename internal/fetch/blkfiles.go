package fetch

import (
	"context"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/heavycoinlabs/heavyindex-backend/internal/chain"
	"github.com/heavycoinlabs/heavyindex-backend/internal/heavyhash"
	"github.com/heavycoinlabs/heavyindex-backend/pkg/pipe"
	"go.uber.org/zap"
)

// startBlockFiles streams blocks out of the node's raw block-store files
// through a reader -> parser -> matcher pipeline. Each hop is a capacity-1
// stage, so file reads and parsing never run ahead of the consumer by more
// than one batch.
func startBlockFiles(ctx context.Context, node NodeClient, entries []chain.HeaderEntry, logger *zap.Logger) (*Fetcher, error) {
	magic := node.NetworkMagic()
	paths, err := node.ListBlockFiles()
	if err != nil {
		return nil, fmt.Errorf("list block-store files: %w", err)
	}

	// The pending set is owned and mutated by the matcher stage alone.
	pending := make(map[chainhash.Hash]chain.HeaderEntry, len(entries))
	for _, entry := range entries {
		pending[entry.Hash] = entry
	}

	blobs := readBlockFiles(paths, logger)
	parsed := parseBlockFiles(ctx, blobs, uint32(magic), logger)

	stage := pipe.Go(1, func(emit func([]BlockEntry)) error {
		drainErr := parsed.Drain(func(blocks []sizedBlock) error {
			out := make([]BlockEntry, 0, len(blocks))
			for _, sb := range blocks {
				hash, err := heavyhash.Identity(&sb.block.Header)
				if err != nil {
					return err
				}
				entry, ok := pending[hash]
				if !ok {
					// On disk but not requested, e.g. a stale chain segment.
					logger.Debug("skipping unsolicited block", zap.Stringer("hash", hash))
					continue
				}
				delete(pending, hash)
				out = append(out, BlockEntry{Block: sb.block, Entry: entry, Size: sb.size})
			}
			logger.Debug("matched blocks", zap.Int("count", len(out)))
			emit(out)
			return nil
		})
		if drainErr != nil {
			return drainErr
		}
		if len(pending) != 0 {
			return fmt.Errorf("%d requested blocks not found in block-store files", len(pending))
		}
		return nil
	})

	return &Fetcher{stage: stage}, nil
}

// readBlockFiles publishes each file's full contents as one blob, oldest
// file first. A read failure aborts the worker immediately.
func readBlockFiles(paths []string, logger *zap.Logger) *pipe.Stage[[]byte] {
	return pipe.Go(1, func(emit func([]byte)) error {
		for _, path := range paths {
			logger.Debug("reading block-store file", zap.String("path", path))
			blob, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			emit(blob)
		}
		return nil
	})
}

// parseBlockFiles scans each blob for framed block records and publishes the
// decoded batch per blob.
func parseBlockFiles(ctx context.Context, blobs *pipe.Stage[[]byte], magic uint32, logger *zap.Logger) *pipe.Stage[[]sizedBlock] {
	return pipe.Go(1, func(emit func([]sizedBlock)) error {
		return blobs.Drain(func(blob []byte) error {
			logger.Debug("parsing blob", zap.Int("bytes", len(blob)))
			blocks, err := parseBlocks(ctx, blob, magic)
			if err != nil {
				return err
			}
			emit(blocks)
			return nil
		})
	})
}
