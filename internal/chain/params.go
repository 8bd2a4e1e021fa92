// Package chain holds network parameters and the caller-facing descriptors
// of blocks the indexer still needs.
package chain

import (
	"fmt"

	"github.com/btcsuite/btcd/wire"
)

// Params describes one network of the chain. Built once at startup and
// passed explicitly to every collaborator that needs it; there are no
// package-level singletons.
type Params struct {
	// Name is the network name used in logs, metrics labels and index rows.
	Name string
	// Net is the 4-byte magic constant prefixing every framed record in the
	// node's block-store files.
	Net wire.BitcoinNet
}

// MainNetParams returns the production network parameters.
func MainNetParams() Params {
	return Params{Name: "mainnet", Net: 0xd9c4beaf}
}

// TestNetParams returns the test network parameters.
func TestNetParams() Params {
	return Params{Name: "testnet", Net: 0x0b1109f7}
}

// ParamsForNetwork resolves a configured network name.
func ParamsForNetwork(network string) (Params, error) {
	switch network {
	case "mainnet":
		return MainNetParams(), nil
	case "testnet":
		return TestNetParams(), nil
	default:
		return Params{}, fmt.Errorf("unknown network %q", network)
	}
}
