// Package kernel contains the two parallel routines of the generation
// pipeline: engine-array initialization and distribution generation.
//
// Both kernels are launched over a grid of logical threads, one engine
// slot per thread. Correctness relies on disjoint slot and output-region
// ownership rather than synchronization: no locks are taken inside a
// kernel body.
package kernel

import (
	"fmt"
	"unsafe"

	"github.com/saadrahim/rocRAND/internal/device"
	"github.com/saadrahim/rocRAND/internal/dist"
	"github.com/saadrahim/rocRAND/internal/rng"
)

// InitEngines seeds one engine per grid slot. Every slot writes only its
// own array entry, so the kernel is embarrassingly parallel.
func InitEngines(engines []rng.Engine, seed, offset uint64, grid device.Grid, stream *device.Stream) error {
	if len(engines) != grid.Slots() {
		return fmt.Errorf("%w: engine array holds %d slots, grid wants %d",
			device.ErrLaunchFailed, len(engines), grid.Slots())
	}
	return device.Launch(grid, stream, func(slot int) {
		engines[slot].Seed(seed, uint64(slot), offset)
	})
}

// Generate produces len(out) typed values into out, advancing every
// engine and storing its state back afterwards (the checkpoint that lets
// repeated calls continue the streams).
//
// Each slot writes width-sized groups into the aligned middle region of
// the buffer in a grid-stride pattern. The head (elements before the
// first aligned group boundary) and tail (the remainder after the last
// full group) are produced by the one slot whose next group index lands
// exactly past the aligned region, each from one further advance and
// transform with only the in-range lanes stored.
func Generate[T any](engines []rng.Engine, out []T, d dist.Distribution[T], grid device.Grid, stream *device.Stream) error {
	if len(engines) != grid.Slots() {
		return fmt.Errorf("%w: engine array holds %d slots, grid wants %d",
			device.ErrLaunchFailed, len(engines), grid.Slots())
	}
	n := len(out)
	if n == 0 {
		// Nothing to write and, observably, no state to change.
		return nil
	}

	iw := d.InputWidth()
	w := d.OutputWidth()

	head, tail, vecN := 0, 0, n
	if w > 1 {
		mis := misalignment(out, w)
		head = mis
		if head > n {
			head = n
		}
		tail = (n - head) % w
		vecN = (n - head) / w
	}

	stride := grid.Slots()
	return device.Launch(grid, stream, func(slot int) {
		engine := engines[slot]
		raw := make([]uint32, iw)
		buf := make([]T, w)

		index := slot
		for ; index < vecN; index += stride {
			for i := range raw {
				raw[i] = engine.Next()
			}
			d.Transform(raw, buf)
			copy(out[head+index*w:head+(index+1)*w], buf)
		}

		if w > 1 && index == vecN {
			if head > 0 {
				for i := range raw {
					raw[i] = engine.Next()
				}
				d.Transform(raw, buf)
				copy(out[:head], buf[:head])
			}
			if tail > 0 {
				for i := range raw {
					raw[i] = engine.Next()
				}
				d.Transform(raw, buf)
				copy(out[n-tail:], buf[:tail])
			}
		}

		engines[slot] = engine
	})
}

// misalignment reports how many leading elements precede the first
// output position whose native address is a multiple of the group width,
// computed exactly as (W - addr/elemSize mod W) mod W.
func misalignment[T any](out []T, w int) int {
	elemSize := unsafe.Sizeof(out[0])
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(out)))
	return (w - int(addr/elemSize)%w) % w
}
