// Package index persists acquired blocks as secondary-index rows in
// ClickHouse and drives the acquisition loop that feeds it.
package index

import "time"

// BlockRow is a block record persisted to ClickHouse.
type BlockRow struct {
	Network    string
	Height     uint64
	Hash       string
	Timestamp  time.Time
	Version    int32
	MerkleRoot string
	Bits       uint32
	Nonce      uint32
	Size       uint32
	TxCount    uint32
}

// TransactionRow is a transaction record persisted to ClickHouse.
type TransactionRow struct {
	Network     string
	TxID        string
	BlockHeight uint64
	BlockTime   time.Time
	Index       uint32
	Size        uint32
	Version     int32
	LockTime    uint32
	InputCount  uint32
	OutputCount uint32
}
