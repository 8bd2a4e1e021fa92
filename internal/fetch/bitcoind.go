package fetch

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/heavycoinlabs/heavyindex-backend/internal/chain"
	"github.com/heavycoinlabs/heavyindex-backend/internal/heavyhash"
	"github.com/heavycoinlabs/heavyindex-backend/pkg/pipe"
	"github.com/heavycoinlabs/heavyindex-backend/pkg/safe"
	"go.uber.org/zap"
)

// rpcBatchSize is the number of header entries requested per node round trip.
const rpcBatchSize = 100

// startBitcoind streams blocks from the node by identity hash, one batch of
// up to rpcBatchSize entries at a time. The capacity-1 stage keeps batch
// requests strictly sequential and paced by the consumer.
func startBitcoind(node NodeClient, entries []chain.HeaderEntry, logger *zap.Logger) *Fetcher {
	if len(entries) > 0 {
		tip := entries[len(entries)-1]
		logger.Debug("fetching blocks from node",
			zap.Uint64("tip_height", tip.Height),
			zap.Int("remaining", len(entries)))
	}

	stage := pipe.Go(1, func(emit func([]BlockEntry)) error {
		for start := 0; start < len(entries); start += rpcBatchSize {
			batch := entries[start:min(start+rpcBatchSize, len(entries))]

			hashes := make([]chainhash.Hash, 0, len(batch))
			for i := range batch {
				hash, err := heavyhash.Identity(&batch[i].Header)
				if err != nil {
					return fmt.Errorf("identity for height %d: %w", batch[i].Height, err)
				}
				hashes = append(hashes, hash)
			}

			blocks, err := node.GetBlocksByIdentity(hashes)
			if err != nil {
				return fmt.Errorf("get blocks from node: %w", err)
			}
			if len(blocks) != len(batch) {
				return fmt.Errorf("node returned %d blocks for %d requested", len(blocks), len(batch))
			}

			out := make([]BlockEntry, 0, len(batch))
			for i, block := range blocks {
				size, err := safe.Uint32(block.SerializeSize())
				if err != nil {
					return fmt.Errorf("block size at height %d: %w", batch[i].Height, err)
				}
				out = append(out, BlockEntry{Block: block, Entry: batch[i], Size: size})
			}
			emit(out)
		}
		return nil
	})

	return &Fetcher{stage: stage}
}
