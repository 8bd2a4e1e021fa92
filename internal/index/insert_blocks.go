package index

import (
	"context"
	"fmt"
	"time"
)

// InsertBlocks stores block rows in ClickHouse.
func (r *ClickhouseRepository) InsertBlocks(ctx context.Context, blocks []BlockRow) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_blocks", err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	const query = `
INSERT INTO blocks (
	network,
	height,
	hash,
	timestamp,
	version,
	merkleroot,
	bits,
	nonce,
	size,
	tx_count
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, block := range blocks {
		if err = batch.Append(
			block.Network,
			block.Height,
			block.Hash,
			block.Timestamp,
			block.Version,
			block.MerkleRoot,
			block.Bits,
			block.Nonce,
			block.Size,
			block.TxCount,
		); err != nil {
			return fmt.Errorf("append block: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}
