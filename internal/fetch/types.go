package fetch

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// NodeClient is the chain-node collaborator the acquisition paths
	// depend on.
	NodeClient interface {
		// GetBlocksByIdentity returns the full blocks for the given identity
		// hashes, index-for-index with the request.
		GetBlocksByIdentity(hashes []chainhash.Hash) ([]*wire.MsgBlock, error)
		// ListBlockFiles returns the node's raw block-store files, oldest
		// first.
		ListBlockFiles() ([]string, error)
		// NetworkMagic returns the 4-byte constant framing stored blocks.
		NetworkMagic() wire.BitcoinNet
	}
)
