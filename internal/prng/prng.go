// Package prng provides the seeded pseudo-random stream every overlay derives
// its randomness from. Identical seeds produce identical sequences on every
// platform, which is what makes a full show render bit-reproducible.
package prng

import "hash/fnv"

// Generator is a small non-cryptographic PRNG. The zero value is usable but
// callers should construct one via New so derived seeds stay disciplined.
type Generator struct {
	state uint32
}

// New returns a generator for the given seed. Any seed value is valid; there
// is no failure mode.
func New(seed uint32) *Generator {
	return &Generator{state: seed}
}

// Next returns the next value in [0, 1). The core is a 32-bit mix-and-avalanche
// step (xorshift followed by two multiply-xor rounds), so consecutive seeds do
// not produce correlated streams.
func (g *Generator) Next() float64 {
	g.state += 0x9e3779b9
	x := g.state
	x ^= x >> 16
	x *= 0x85ebca6b
	x ^= x >> 13
	x *= 0xc2b2ae35
	x ^= x >> 16
	return float64(x) / 4294967296.0
}

// NextRange returns a value in [min, max).
func (g *Generator) NextRange(min, max float64) float64 {
	return min + g.Next()*(max-min)
}

// Intn returns a value in [0, n). n must be positive.
func (g *Generator) Intn(n int) int {
	return int(g.Next() * float64(n))
}

// Combine folds two seeds into one. All derived seeds in the engine come
// through here: an overlay's catalog seed combined with the show seed, a layer
// id combined with a window index, and so on. The combination is a pure
// integer mix so re-renders never depend on evaluation order or wall time.
func Combine(a, b uint32) uint32 {
	x := a ^ (b + 0x9e3779b9 + (a << 6) + (a >> 2))
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Combine3 folds three seeds, left to right.
func Combine3(a, b, c uint32) uint32 {
	return Combine(Combine(a, b), c)
}

// SeedString hashes an arbitrary string into a 32-bit seed (FNV-1a). Used to
// derive a show seed from venue and date when no explicit override is set.
func SeedString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
