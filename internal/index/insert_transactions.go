package index

import (
	"context"
	"fmt"
	"time"
)

// InsertTransactions stores transaction rows in ClickHouse.
func (r *ClickhouseRepository) InsertTransactions(ctx context.Context, txs []TransactionRow) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transactions", err, start)
	}()

	if len(txs) == 0 {
		return nil
	}

	const query = `
INSERT INTO transactions (
	network,
	txid,
	block_height,
	block_time,
	tx_index,
	size,
	version,
	locktime,
	input_count,
	output_count
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare transactions batch: %w", err)
	}

	for _, tx := range txs {
		if err = batch.Append(
			tx.Network,
			tx.TxID,
			tx.BlockHeight,
			tx.BlockTime,
			tx.Index,
			tx.Size,
			tx.Version,
			tx.LockTime,
			tx.InputCount,
			tx.OutputCount,
		); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}
