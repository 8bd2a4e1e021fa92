// Package fetch acquires full blocks for pending header entries, either over
// node RPC or from the node's raw block-store files, and matches each block
// to its entry by identity hash. A run either yields exactly one block entry
// per requested header or fails; partial success is not a valid end state.
package fetch

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/heavycoinlabs/heavyindex-backend/internal/chain"
	"github.com/heavycoinlabs/heavyindex-backend/pkg/pipe"
	"go.uber.org/zap"
)

// Source selects the block acquisition path.
type Source int

const (
	// FromBitcoind requests blocks from the node over RPC by identity hash.
	FromBitcoind Source = iota
	// FromBlockFiles parses the node's raw block-store files directly.
	FromBlockFiles
)

// String implements flag/log formatting for Source.
func (s Source) String() string {
	switch s {
	case FromBitcoind:
		return "bitcoind"
	case FromBlockFiles:
		return "blkfiles"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// ParseSource resolves a configured source name.
func ParseSource(name string) (Source, error) {
	switch name {
	case "bitcoind":
		return FromBitcoind, nil
	case "blkfiles":
		return FromBlockFiles, nil
	default:
		return 0, fmt.Errorf("unknown fetch source %q", name)
	}
}

// BlockEntry is the terminal unit handed to the caller: a fully decoded
// block bound to the header entry that requested it.
type BlockEntry struct {
	Block *wire.MsgBlock
	Entry chain.HeaderEntry
	Size  uint32
}

// sizedBlock pairs a decoded block with its on-disk byte length.
type sizedBlock struct {
	block *wire.MsgBlock
	size  uint32
}

// Fetcher streams batches of matched block entries to a consumer.
type Fetcher struct {
	stage *pipe.Stage[[]BlockEntry]
}

// Start launches the acquisition pipeline for the given header entries,
// ordered by ascending height.
func Start(ctx context.Context, from Source, node NodeClient, entries []chain.HeaderEntry, logger *zap.Logger) (*Fetcher, error) {
	switch from {
	case FromBitcoind:
		return startBitcoind(node, entries, logger), nil
	case FromBlockFiles:
		return startBlockFiles(ctx, node, entries, logger)
	default:
		return nil, fmt.Errorf("unknown fetch source %d", from)
	}
}

// Each invokes fn once per batch in arrival order, then joins the pipeline
// workers. A worker failure, including one that occurred after the last
// delivered batch, is returned here; no partial result is valid after an
// error.
func (f *Fetcher) Each(fn func([]BlockEntry) error) error {
	return f.stage.Drain(fn)
}
