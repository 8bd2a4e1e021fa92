package heavyhash

import "encoding/binary"

// xoshiro256pp is the xoshiro256++ generator driving matrix derivation. The
// 32-byte seed is consumed as four little-endian 64-bit words, which must
// stay bit-exact with the generator the chain's node seeds from SHA3 output.
type xoshiro256pp struct {
	s [4]uint64
}

func newXoshiro256pp(seed [32]byte) *xoshiro256pp {
	var g xoshiro256pp
	for i := range g.s {
		g.s[i] = binary.LittleEndian.Uint64(seed[i*8:])
	}
	return &g
}

func rotl64(x uint64, k uint) uint64 {
	return x<<k | x>>(64-k)
}

func (g *xoshiro256pp) next() uint64 {
	result := rotl64(g.s[0]+g.s[3], 23) + g.s[0]

	t := g.s[1] << 17
	g.s[2] ^= g.s[0]
	g.s[3] ^= g.s[1]
	g.s[1] ^= g.s[2]
	g.s[0] ^= g.s[3]
	g.s[2] ^= t
	g.s[3] = rotl64(g.s[3], 45)

	return result
}
