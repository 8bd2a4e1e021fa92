package chain

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// HeaderEntry describes a block the indexer still needs, keyed by its
// identity hash and chain height. Entries are immutable once built.
type HeaderEntry struct {
	Height uint64
	Hash   chainhash.Hash
	Header wire.BlockHeader
}

// NewHeaderEntry decodes a caller-supplied serialized header into an entry.
func NewHeaderEntry(height uint64, hash chainhash.Hash, headerBytes []byte) (HeaderEntry, error) {
	var header wire.BlockHeader
	if err := header.Deserialize(bytes.NewReader(headerBytes)); err != nil {
		return HeaderEntry{}, fmt.Errorf("deserialize header at height %d: %w", height, err)
	}
	return HeaderEntry{Height: height, Hash: hash, Header: header}, nil
}
