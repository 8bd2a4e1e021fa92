// Package heavyhash computes the chain's matrix-based block identity hash,
// which replaces the conventional double-SHA256 block identifier.
package heavyhash

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/heavycoinlabs/heavyindex-backend/pkg/safe"
	"golang.org/x/crypto/sha3"
)

// Identity computes the 32-byte identity hash of a block header. Identity
// values are persisted and compared across runs, so the output is bit-exact
// for identical header bytes: the diffusion matrix is derived from a PRNG
// seeded by the previous block's identity, the full consensus encoding of
// the header is hashed and diffused through the matrix, and the folded
// result is hashed again.
func Identity(header *wire.BlockHeader) (chainhash.Hash, error) {
	seed := sha3.Sum256(header.PrevBlock[:])
	m := generateMatrix(newXoshiro256pp(seed))

	var buf bytes.Buffer
	if err := header.Serialize(&buf); err != nil {
		return chainhash.Hash{}, fmt.Errorf("serialize header: %w", err)
	}
	hash1 := sha3.Sum256(buf.Bytes())

	// Expand the digest into 64 nibbles, high nibble before low.
	var x [matrixDim]int32
	for i, b := range hash1 {
		x[2*i] = int32(b >> 4)
		x[2*i+1] = int32(b & 0x0F)
	}

	y := m.mulVec(&x)

	var folded [32]byte
	for i := range folded {
		hi := y[2*i] >> 10
		lo := y[2*i+1] >> 10
		b, err := safe.Uint8((hi<<4 | lo) ^ int32(hash1[i]))
		if err != nil {
			return chainhash.Hash{}, fmt.Errorf("identity fold at byte %d: %w", i, err)
		}
		folded[i] = b
	}

	return chainhash.Hash(sha3.Sum256(folded[:])), nil
}
