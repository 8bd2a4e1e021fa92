package index

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"go.uber.org/zap"

	"github.com/heavycoinlabs/heavyindex-backend/internal/fetch"
	"github.com/heavycoinlabs/heavyindex-backend/pkg/safe"
)

type (
	// Repository stores index rows.
	Repository interface {
		InsertBlocks(ctx context.Context, blocks []BlockRow) error
		InsertTransactions(ctx context.Context, txs []TransactionRow) error
	}
)

// Sink converts fetched blocks into index rows and persists them.
type Sink struct {
	repository Repository
	network    string
	logger     *zap.Logger
}

// NewSink creates a Sink writing rows tagged with the given network name.
func NewSink(repository Repository, network string, logger *zap.Logger) *Sink {
	return &Sink{
		repository: repository,
		network:    network,
		logger:     logger,
	}
}

// Write persists one fetched batch.
func (s *Sink) Write(ctx context.Context, batch []fetch.BlockEntry) error {
	blocks := make([]BlockRow, 0, len(batch))
	var txs []TransactionRow

	for _, entry := range batch {
		header := entry.Block.Header

		txCount, err := safe.Uint32(len(entry.Block.Transactions))
		if err != nil {
			return fmt.Errorf("transaction count for block %d: %w", entry.Entry.Height, err)
		}

		blocks = append(blocks, BlockRow{
			Network:    s.network,
			Height:     entry.Entry.Height,
			Hash:       entry.Entry.Hash.String(),
			Timestamp:  header.Timestamp,
			Version:    header.Version,
			MerkleRoot: header.MerkleRoot.String(),
			Bits:       header.Bits,
			Nonce:      header.Nonce,
			Size:       entry.Size,
			TxCount:    txCount,
		})

		block := btcutil.NewBlock(entry.Block)
		for idx, tx := range block.Transactions() {
			msg := tx.MsgTx()

			txIndex, err := safe.Uint32(idx)
			if err != nil {
				return fmt.Errorf("transaction index in block %d: %w", entry.Entry.Height, err)
			}
			txSize, err := safe.Uint32(msg.SerializeSize())
			if err != nil {
				return fmt.Errorf("transaction size in block %d: %w", entry.Entry.Height, err)
			}
			inputCount, err := safe.Uint32(len(msg.TxIn))
			if err != nil {
				return fmt.Errorf("input count in block %d: %w", entry.Entry.Height, err)
			}
			outputCount, err := safe.Uint32(len(msg.TxOut))
			if err != nil {
				return fmt.Errorf("output count in block %d: %w", entry.Entry.Height, err)
			}

			txs = append(txs, TransactionRow{
				Network:     s.network,
				TxID:        tx.Hash().String(),
				BlockHeight: entry.Entry.Height,
				BlockTime:   header.Timestamp,
				Index:       txIndex,
				Size:        txSize,
				Version:     msg.Version,
				LockTime:    msg.LockTime,
				InputCount:  inputCount,
				OutputCount: outputCount,
			})
		}
	}

	if err := s.repository.InsertBlocks(ctx, blocks); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	if err := s.repository.InsertTransactions(ctx, txs); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}

	s.logger.Debug("persisted batch",
		zap.Int("blocks", len(blocks)),
		zap.Int("transactions", len(txs)),
	)
	return nil
}
