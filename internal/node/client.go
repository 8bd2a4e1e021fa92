// Package node implements the chain-node collaborator: JSON-RPC access plus
// discovery of the node's local block-store files.
package node

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/heavycoinlabs/heavyindex-backend/internal/chain"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

type (
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Client talks to the chain node. RPC calls are rate limited and observed.
type Client struct {
	rpc       *rpcclient.Client
	params    chain.Params
	blocksDir string
	limiter   ratelimit.Limiter
	metrics   RPCMetrics
	logger    *zap.Logger
}

// New constructs a node client. blocksDir is the node's raw block-store
// directory; rps caps RPC round trips per second.
func New(rpc *rpcclient.Client, params chain.Params, blocksDir string, rps int, metrics RPCMetrics, logger *zap.Logger) *Client {
	return &Client{
		rpc:       rpc,
		params:    params,
		blocksDir: blocksDir,
		limiter:   ratelimit.New(rps),
		metrics:   metrics,
		logger:    logger.Named("node"),
	}
}

// GetBlocksByIdentity fetches the full block for every identity hash in one
// concurrent round trip, preserving request order in the result.
func (c *Client) GetBlocksByIdentity(hashes []chainhash.Hash) (blocks []*wire.MsgBlock, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_blocks_by_identity", err, started)
	}()

	c.limiter.Take()
	futures := make([]rpcclient.FutureGetBlockResult, 0, len(hashes))
	for i := range hashes {
		futures = append(futures, c.rpc.GetBlockAsync(&hashes[i]))
	}

	blocks = make([]*wire.MsgBlock, 0, len(hashes))
	for i, future := range futures {
		block, recvErr := future.Receive()
		if recvErr != nil {
			err = fmt.Errorf("get block %s: %w", hashes[i], recvErr)
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// ListBlockFiles globs the node's block-store directory, oldest file first.
// The node names files blk00000.dat, blk00001.dat, ... in write order, so
// lexical order is chronological order.
func (c *Client) ListBlockFiles() ([]string, error) {
	pattern := filepath.Join(c.blocksDir, "blk*.dat")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(paths)
	c.logger.Debug("listed block-store files", zap.Int("count", len(paths)))
	return paths, nil
}

// NetworkMagic returns the 4-byte constant framing stored blocks.
func (c *Client) NetworkMagic() wire.BitcoinNet {
	return c.params.Net
}

// BlockCount returns the node's current tip height.
func (c *Client) BlockCount() (count int64, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_block_count", err, started)
	}()
	c.limiter.Take()
	return c.rpc.GetBlockCount()
}

// BlockIdentity returns the identity hash of the block at the given height.
func (c *Client) BlockIdentity(height int64) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_block_hash", err, started)
	}()
	c.limiter.Take()
	return c.rpc.GetBlockHash(height)
}

// BlockHeader returns the header of the block with the given identity hash.
func (c *Client) BlockHeader(hash *chainhash.Hash) (header *wire.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_block_header", err, started)
	}()
	c.limiter.Take()
	return c.rpc.GetBlockHeader(hash)
}
