package index

import (
	"context"
	"fmt"
	"time"
)

// MaxBlockHeight returns the maximum height stored for a network. ok is
// false when no blocks are stored yet.
func (r *ClickhouseRepository) MaxBlockHeight(ctx context.Context, network string) (height uint64, ok bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_block_height", err, start)
	}()

	const query = `
SELECT coalesce(max(height), toUInt64(0)) AS max_height, count() AS row_count
FROM blocks
WHERE network = ?`

	rows, err := r.conn.Query(ctx, query, network)
	if err != nil {
		return 0, false, fmt.Errorf("query max block height: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, false, fmt.Errorf("max block height not found")
	}

	var count uint64
	if err = rows.Scan(&height, &count); err != nil {
		return 0, false, fmt.Errorf("scan max block height: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate max block height: %w", err)
	}

	return height, count > 0, nil
}
