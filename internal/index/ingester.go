package index

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/heavycoinlabs/heavyindex-backend/internal/chain"
	"github.com/heavycoinlabs/heavyindex-backend/internal/clock"
	"github.com/heavycoinlabs/heavyindex-backend/internal/fetch"
	"github.com/heavycoinlabs/heavyindex-backend/pkg/safe"
)

// maxHeadersPerRun bounds how far a single fetch run reaches past the stored
// tip, keeping per-run memory and failure blast radius small.
const maxHeadersPerRun = 2000

type (
	// NodeClient is the full node surface the ingester needs: header
	// discovery for planning a run plus the fetch acquisition surface.
	NodeClient interface {
		fetch.NodeClient
		BlockCount() (int64, error)
		BlockIdentity(height int64) (*chainhash.Hash, error)
		BlockHeader(hash *chainhash.Hash) (*wire.BlockHeader, error)
	}

	// HeightReader reads the stored index tip.
	HeightReader interface {
		MaxBlockHeight(ctx context.Context, network string) (uint64, bool, error)
	}

	// BlockWriter persists one fetched batch.
	BlockWriter interface {
		Write(ctx context.Context, batch []fetch.BlockEntry) error
	}

	// IngesterMetrics records metrics for fetch runs.
	IngesterMetrics interface {
		ObserveFetchRun(err error, started time.Time)
		AddBlocksIndexed(count int)
	}
)

// Ingester repeatedly advances the index toward the node tip: each run plans
// the next contiguous height range, fetches those blocks, and persists them.
type Ingester struct {
	node         NodeClient
	heights      HeightReader
	sink         BlockWriter
	source       fetch.Source
	network      string
	pollInterval time.Duration
	metrics      IngesterMetrics
	logger       *zap.Logger
}

// NewIngester constructs an ingester for the given network and fetch source.
func NewIngester(
	node NodeClient,
	heights HeightReader,
	sink BlockWriter,
	source fetch.Source,
	network string,
	pollInterval time.Duration,
	metrics IngesterMetrics,
	logger *zap.Logger,
) *Ingester {
	return &Ingester{
		node:         node,
		heights:      heights,
		sink:         sink,
		source:       source,
		network:      network,
		pollInterval: pollInterval,
		metrics:      metrics,
		logger:       logger.Named("ingester"),
	}
}

// Run loops until the context is canceled. A failed run is logged and
// retried on the next poll; the loop itself only exits on cancellation.
func (s *Ingester) Run(ctx context.Context) error {
	s.logger.Info("starting ingester",
		zap.String("network", s.network),
		zap.Stringer("source", s.source),
		zap.Duration("poll_interval", s.pollInterval),
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runOnce(ctx); err != nil {
			s.logger.Error("fetch run failed", zap.Error(err))
		}
		if err := clock.Sleep(ctx, s.pollInterval); err != nil {
			return err
		}
	}
}

func (s *Ingester) runOnce(ctx context.Context) error {
	started := time.Now()
	err := s.run(ctx)
	s.metrics.ObserveFetchRun(err, started)
	return err
}

func (s *Ingester) run(ctx context.Context) error {
	tipSigned, err := s.node.BlockCount()
	if err != nil {
		return fmt.Errorf("get node tip: %w", err)
	}
	tip, err := safe.Uint64(tipSigned)
	if err != nil {
		return fmt.Errorf("node tip: %w", err)
	}

	next, err := s.nextHeight(ctx)
	if err != nil {
		return err
	}
	if next > tip {
		s.logger.Debug("index is at node tip", zap.Uint64("height", tip))
		return nil
	}

	end := min(tip, next+maxHeadersPerRun-1)
	entries, err := s.collectEntries(next, end)
	if err != nil {
		return err
	}

	s.logger.Info("fetching block range",
		zap.Uint64("from", next),
		zap.Uint64("to", end),
		zap.Uint64("node_tip", tip),
	)

	fetcher, err := fetch.Start(ctx, s.source, s.node, entries, s.logger)
	if err != nil {
		return fmt.Errorf("start fetch: %w", err)
	}
	return fetcher.Each(func(batch []fetch.BlockEntry) error {
		if err := s.sink.Write(ctx, batch); err != nil {
			return err
		}
		s.metrics.AddBlocksIndexed(len(batch))
		return nil
	})
}

// nextHeight returns the first height not yet stored.
func (s *Ingester) nextHeight(ctx context.Context) (uint64, error) {
	stored, ok, err := s.heights.MaxBlockHeight(ctx, s.network)
	if err != nil {
		return 0, fmt.Errorf("read stored tip: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return stored + 1, nil
}

// collectEntries resolves identity hash and header for every height in
// [from, to] via node RPC, ordered by ascending height.
func (s *Ingester) collectEntries(from, to uint64) ([]chain.HeaderEntry, error) {
	entries := make([]chain.HeaderEntry, 0, to-from+1)
	for height := from; height <= to; height++ {
		hash, err := s.node.BlockIdentity(int64(height))
		if err != nil {
			return nil, fmt.Errorf("get block identity at height %d: %w", height, err)
		}
		header, err := s.node.BlockHeader(hash)
		if err != nil {
			return nil, fmt.Errorf("get block header %s: %w", hash, err)
		}
		entries = append(entries, chain.HeaderEntry{
			Height: height,
			Hash:   *hash,
			Header: *header,
		})
	}
	return entries, nil
}
