package dist

import (
	"math"

	"github.com/saadrahim/rocRAND/internal/rng"
)

// boxMuller turns two uniform draws into two standard normal deviates.
// Lane order is fixed (sin first, cos second) because it is part of the
// bit-reproducibility contract. u is in (0, 1], so log(u) stays finite.
func boxMuller(u, v float64) (float64, float64) {
	r := math.Sqrt(-2 * math.Log(u))
	phi := 2 * math.Pi * v
	s, c := math.Sincos(phi)
	return r * s, r * c
}

// NormalFloat32 consumes two raw draws and produces two normal deviates
// mapped by mean + z*stddev.
type NormalFloat32 struct {
	Mean   float32
	StdDev float32
}

func (NormalFloat32) InputWidth() int  { return 2 }
func (NormalFloat32) OutputWidth() int { return 2 }

func (d NormalFloat32) Transform(raw []uint32, out []float32) {
	z0, z1 := boxMuller(float64(raw[0])*rng.NormDouble, float64(raw[1])*rng.NormDouble)
	out[0] = d.Mean + float32(z0)*d.StdDev
	out[1] = d.Mean + float32(z1)*d.StdDev
}

// NormalFloat64 is the double-precision variant of NormalFloat32.
type NormalFloat64 struct {
	Mean   float64
	StdDev float64
}

func (NormalFloat64) InputWidth() int  { return 2 }
func (NormalFloat64) OutputWidth() int { return 2 }

func (d NormalFloat64) Transform(raw []uint32, out []float64) {
	z0, z1 := boxMuller(float64(raw[0])*rng.NormDouble, float64(raw[1])*rng.NormDouble)
	out[0] = d.Mean + z0*d.StdDev
	out[1] = d.Mean + z1*d.StdDev
}

// NormalFloat16 consumes a single draw: its two 16-bit lanes become the
// two uniforms fed to Box-Muller, yielding two half deviates.
type NormalFloat16 struct {
	Mean   float32
	StdDev float32
}

func (NormalFloat16) InputWidth() int  { return 1 }
func (NormalFloat16) OutputWidth() int { return 2 }

func (d NormalFloat16) Transform(raw []uint32, out []Float16) {
	v := scaleDraw(raw[0])
	z0, z1 := boxMuller(halfUniform(uint16(v)), halfUniform(uint16(v>>16)))
	out[0] = Float16FromFloat32(d.Mean + float32(z0)*d.StdDev)
	out[1] = Float16FromFloat32(d.Mean + float32(z1)*d.StdDev)
}
