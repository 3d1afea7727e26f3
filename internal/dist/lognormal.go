package dist

import (
	"math"

	"github.com/saadrahim/rocRAND/internal/rng"
)

// LogNormalFloat32 is NormalFloat32 with the affine-mapped deviate
// exponentiated.
type LogNormalFloat32 struct {
	Mean   float32
	StdDev float32
}

func (LogNormalFloat32) InputWidth() int  { return 2 }
func (LogNormalFloat32) OutputWidth() int { return 2 }

func (d LogNormalFloat32) Transform(raw []uint32, out []float32) {
	z0, z1 := boxMuller(float64(raw[0])*rng.NormDouble, float64(raw[1])*rng.NormDouble)
	out[0] = float32(math.Exp(float64(d.Mean) + z0*float64(d.StdDev)))
	out[1] = float32(math.Exp(float64(d.Mean) + z1*float64(d.StdDev)))
}

// LogNormalFloat64 is the double-precision variant.
type LogNormalFloat64 struct {
	Mean   float64
	StdDev float64
}

func (LogNormalFloat64) InputWidth() int  { return 2 }
func (LogNormalFloat64) OutputWidth() int { return 2 }

func (d LogNormalFloat64) Transform(raw []uint32, out []float64) {
	z0, z1 := boxMuller(float64(raw[0])*rng.NormDouble, float64(raw[1])*rng.NormDouble)
	out[0] = math.Exp(d.Mean + z0*d.StdDev)
	out[1] = math.Exp(d.Mean + z1*d.StdDev)
}

// LogNormalFloat16 mirrors NormalFloat16 with exponentiation.
type LogNormalFloat16 struct {
	Mean   float32
	StdDev float32
}

func (LogNormalFloat16) InputWidth() int  { return 1 }
func (LogNormalFloat16) OutputWidth() int { return 2 }

func (d LogNormalFloat16) Transform(raw []uint32, out []Float16) {
	v := scaleDraw(raw[0])
	z0, z1 := boxMuller(halfUniform(uint16(v)), halfUniform(uint16(v>>16)))
	out[0] = Float16FromFloat32(float32(math.Exp(float64(d.Mean) + z0*float64(d.StdDev))))
	out[1] = Float16FromFloat32(float32(math.Exp(float64(d.Mean) + z1*float64(d.StdDev))))
}
