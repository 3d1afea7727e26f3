package dist

import "github.com/saadrahim/rocRAND/internal/rng"

// Uniform transforms scale one raw draw into the output type's natural
// range. Narrow integer and half outputs slice a single rescaled 32-bit
// draw into lanes (low lane = low bits) instead of drawing once per lane;
// lanes of one draw are therefore not statistically independent of each
// other. This is a deliberate throughput trade-off carried over from the
// original generator family and part of the reproducibility contract.

// UniformUint32 produces one full-range uint32 per draw.
type UniformUint32 struct{}

func (UniformUint32) InputWidth() int  { return 1 }
func (UniformUint32) OutputWidth() int { return 1 }

func (UniformUint32) Transform(raw []uint32, out []uint32) {
	out[0] = scaleDraw(raw[0])
}

// UniformUint16 slices one rescaled draw into two 16-bit lanes.
type UniformUint16 struct{}

func (UniformUint16) InputWidth() int  { return 1 }
func (UniformUint16) OutputWidth() int { return 2 }

func (UniformUint16) Transform(raw []uint32, out []uint16) {
	v := scaleDraw(raw[0])
	out[0] = uint16(v)
	out[1] = uint16(v >> 16)
}

// UniformUint8 slices one rescaled draw into four byte lanes.
type UniformUint8 struct{}

func (UniformUint8) InputWidth() int  { return 1 }
func (UniformUint8) OutputWidth() int { return 4 }

func (UniformUint8) Transform(raw []uint32, out []uint8) {
	v := scaleDraw(raw[0])
	out[0] = uint8(v)
	out[1] = uint8(v >> 8)
	out[2] = uint8(v >> 16)
	out[3] = uint8(v >> 24)
}

// UniformFloat32 produces one float32 in (0, 1] per draw.
type UniformFloat32 struct{}

func (UniformFloat32) InputWidth() int  { return 1 }
func (UniformFloat32) OutputWidth() int { return 1 }

func (UniformFloat32) Transform(raw []uint32, out []float32) {
	out[0] = float32(float64(raw[0]) * rng.NormDouble)
}

// UniformFloat64 produces one float64 in (0, 1] per draw.
type UniformFloat64 struct{}

func (UniformFloat64) InputWidth() int  { return 1 }
func (UniformFloat64) OutputWidth() int { return 1 }

func (UniformFloat64) Transform(raw []uint32, out []float64) {
	out[0] = float64(raw[0]) * rng.NormDouble
}

// UniformFloat16 slices one rescaled draw into two 16-bit lanes and maps
// each to a half in (0, 1).
type UniformFloat16 struct{}

func (UniformFloat16) InputWidth() int  { return 1 }
func (UniformFloat16) OutputWidth() int { return 2 }

func (UniformFloat16) Transform(raw []uint32, out []Float16) {
	v := scaleDraw(raw[0])
	out[0] = Float16FromFloat32(float32(halfUniform(uint16(v))))
	out[1] = Float16FromFloat32(float32(halfUniform(uint16(v >> 16))))
}
