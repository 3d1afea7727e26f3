// Package rng implements the MRG32k3a combined multiple-recursive
// generator (L'Ecuyer) used as the per-stream engine of this library.
//
// Each Engine owns a fixed-size state: two three-term recurrences modulo
// m1 and m2. Advancing is a pure function of the state, so engines can be
// checkpointed to the device array between kernel launches and resumed
// without any hidden global state.
package rng

import "math/bits"

// MRG32k3a moduli and recurrence coefficients.
const (
	M1 uint32 = 4294967087 // 2^32 - 209
	M2 uint32 = 4294944443 // 2^32 - 22853

	a12  int64 = 1403580
	a13n int64 = 810728
	a21  int64 = 527612
	a23n int64 = 1370589
)

// DefaultSeed replaces a zero seed. The all-zero state is degenerate for
// this generator family, so zero is not a valid seed.
const DefaultSeed uint64 = 12345

// Normalization constants shared with the distribution transforms.
const (
	// NormDouble is 1/M1; maps a raw draw in [1, M1] into (0, 1].
	NormDouble = 2.3283065498378288e-10
	// UintNorm is 2^32/M1; rescales a raw draw to the full 32-bit range.
	UintNorm = 1.000000048661606966
)

// Engine is the per-stream generator state: three correlated terms for
// each of the two component recurrences.
type Engine struct {
	G1 [3]uint32
	G2 [3]uint32
}

// Seed deterministically derives the engine state for one logical stream.
// The global seed is mixed into both component states, then the state is
// advanced by streamID subsequences (2^76 steps each) and a further
// offset single steps. A zero seed is remapped to DefaultSeed.
func (e *Engine) Seed(seed uint64, streamID uint64, offset uint64) {
	if seed == 0 {
		seed = DefaultSeed
	}
	x := uint32(seed) ^ 0x55555555
	y := uint32(seed>>32) ^ 0xAAAAAAAA
	e.G1[0] = modMul(x, seed, M1)
	e.G1[1] = modMul(y, seed, M1)
	e.G1[2] = modMul(x, seed, M1)
	e.G2[0] = modMul(y, seed, M2)
	e.G2[1] = modMul(x, seed, M2)
	e.G2[2] = modMul(y, seed, M2)
	e.DiscardSubsequences(streamID)
	e.Discard(offset)
}

// Next advances the engine one step and returns the next raw 32-bit
// output, the combined value p1 - p2 folded into [1, M1].
func (e *Engine) Next() uint32 {
	p1 := (a12*int64(e.G1[1]) - a13n*int64(e.G1[0])) % int64(M1)
	if p1 < 0 {
		p1 += int64(M1)
	}
	e.G1[0] = e.G1[1]
	e.G1[1] = e.G1[2]
	e.G1[2] = uint32(p1)

	p2 := (a21*int64(e.G2[2]) - a23n*int64(e.G2[0])) % int64(M2)
	if p2 < 0 {
		p2 += int64(M2)
	}
	e.G2[0] = e.G2[1]
	e.G2[1] = e.G2[2]
	e.G2[2] = uint32(p2)

	if p1 <= p2 {
		return uint32(p1 - p2 + int64(M1))
	}
	return uint32(p1 - p2)
}

// Discard advances the engine by n steps without materializing outputs,
// in O(log n) via matrix powers of the one-step transition matrices.
func (e *Engine) Discard(n uint64) {
	if n == 0 {
		return
	}
	e.apply(matPow(a1Step, n, M1), matPow(a2Step, n, M2))
}

// DiscardSubsequences advances the engine by n subsequences of 2^76
// steps each, carving disjoint per-stream subsequences from one seed.
func (e *Engine) DiscardSubsequences(n uint64) {
	if n == 0 {
		return
	}
	e.apply(matPow(a1p76, n, M1), matPow(a2p76, n, M2))
}

func (e *Engine) apply(m1 matrix, m2 matrix) {
	e.G1 = matVec(m1, e.G1, M1)
	e.G2 = matVec(m2, e.G2, M2)
}

// modMul computes (a * b) mod m for a 32-bit a and 64-bit b; the 128-bit
// intermediate keeps the seed mixing exact.
func modMul(a uint32, b uint64, m uint32) uint32 {
	// Reducing a first keeps the high word below m, as bits.Rem64 requires.
	hi, lo := bits.Mul64(uint64(a%m), b)
	return uint32(bits.Rem64(hi, lo, uint64(m)))
}
