// Package dist contains the distribution transforms that map raw engine
// draws onto typed output values.
//
// Transforms are a closed set: uniform, normal, log-normal and Poisson,
// each declaring how many raw 32-bit draws it consumes (input width) and
// how many typed values it produces (output width). The generation kernel
// is monomorphized over the element type, so dispatch happens once per
// launch rather than per element.
package dist

import (
	"math"

	"github.com/saadrahim/rocRAND/internal/rng"
)

// Distribution maps input-width raw draws to output-width typed values.
// Transform must be a pure function of raw and the distribution's scalar
// parameters; reproducibility of the whole pipeline depends on it.
type Distribution[T any] interface {
	InputWidth() int
	OutputWidth() int
	Transform(raw []uint32, out []T)
}

// scaleDraw rescales a raw draw in [1, rng.M1] to the full 32-bit range.
// The maximum draw lands exactly on 2^32 in double arithmetic and is
// clamped to MaxUint32 so the conversion stays defined.
func scaleDraw(v uint32) uint32 {
	s := uint64(float64(v) * rng.UintNorm)
	if s > math.MaxUint32 {
		s = math.MaxUint32
	}
	return uint32(s)
}
