package kernel

import (
	"errors"
	"testing"

	"github.com/saadrahim/rocRAND/internal/device"
	"github.com/saadrahim/rocRAND/internal/dist"
	"github.com/saadrahim/rocRAND/internal/rng"
)

func seededEngines(t *testing.T, grid device.Grid, seed uint64) []rng.Engine {
	t.Helper()
	stream := device.NewStream()
	defer stream.Close()

	engines := make([]rng.Engine, grid.Slots())
	if err := InitEngines(engines, seed, 0, grid, stream); err != nil {
		t.Fatalf("InitEngines: %v", err)
	}
	stream.Synchronize()
	if err := stream.PeekError(); err != nil {
		t.Fatalf("init kernel error: %v", err)
	}
	return engines
}

// refGenerate is a sequential, unvectorized rendition of the generation
// contract: the same draw attribution (grid-stride groups per slot, then
// head and tail from the designated slot), written one element at a time.
func refGenerate[T any](engines []rng.Engine, out []T, d dist.Distribution[T], stride, head int) {
	n := len(out)
	if n == 0 {
		return
	}
	iw, w := d.InputWidth(), d.OutputWidth()
	tail := (n - head) % w
	vecN := (n - head) / w
	if w == 1 {
		head, tail, vecN = 0, 0, n
	}

	draw := func(e *rng.Engine) []T {
		raw := make([]uint32, iw)
		for i := range raw {
			raw[i] = e.Next()
		}
		buf := make([]T, w)
		d.Transform(raw, buf)
		return buf
	}

	for slot := 0; slot < stride; slot++ {
		e := engines[slot]
		index := slot
		for ; index < vecN; index += stride {
			buf := draw(&e)
			for o := 0; o < w; o++ {
				out[head+index*w+o] = buf[o]
			}
		}
		if w > 1 && index == vecN {
			if head > 0 {
				buf := draw(&e)
				for o := 0; o < head; o++ {
					out[o] = buf[o]
				}
			}
			if tail > 0 {
				buf := draw(&e)
				for o := 0; o < tail; o++ {
					out[n-tail+o] = buf[o]
				}
			}
		}
		engines[slot] = e
	}
}

func TestInitEnginesSeedsEverySlot(t *testing.T) {
	grid := device.Grid{Blocks: 2, ThreadsPerBlock: 16}
	engines := seededEngines(t, grid, 42)

	for slot := range engines {
		var want rng.Engine
		want.Seed(42, uint64(slot), 0)
		if engines[slot] != want {
			t.Errorf("slot %d state does not match direct seeding", slot)
		}
	}
}

func TestGenerateMatchesSequentialReference(t *testing.T) {
	grid := device.Grid{Blocks: 2, ThreadsPerBlock: 8}
	stream := device.NewStream()
	defer stream.Close()

	for _, n := range []int{1, 2, 7, 64, 1000, 1001, 1023} {
		engines := seededEngines(t, grid, 7)
		refEngines := append([]rng.Engine(nil), engines...)

		out := make([]float32, n)
		if err := Generate(engines, out, dist.UniformFloat32{}, grid, stream); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		stream.Synchronize()
		if err := stream.PeekError(); err != nil {
			t.Fatalf("n=%d: kernel error: %v", n, err)
		}

		ref := make([]float32, n)
		refGenerate(refEngines, ref, dist.UniformFloat32{}, grid.Slots(), 0)

		for i := range out {
			if out[i] != ref[i] {
				t.Fatalf("n=%d: element %d = %g, reference %g", n, i, out[i], ref[i])
			}
		}
		for slot := range engines {
			if engines[slot] != refEngines[slot] {
				t.Fatalf("n=%d: slot %d checkpoint differs from reference", n, slot)
			}
		}
	}
}

func TestGenerateAlignmentWidth2(t *testing.T) {
	testGenerateAlignment[uint16](t, dist.UniformUint16{}, 2)
}

func TestGenerateAlignmentWidth4(t *testing.T) {
	testGenerateAlignment[uint8](t, dist.UniformUint8{}, 4)
}

func testGenerateAlignment[T comparable](t *testing.T, d dist.Distribution[T], w int) {
	grid := device.Grid{Blocks: 2, ThreadsPerBlock: 4}
	stream := device.NewStream()
	defer stream.Close()

	const n = 513
	for shift := 0; shift < w; shift++ {
		backing := make([]T, n+w)
		out := backing[shift : shift+n]
		head := misalignment(out, w)
		if head >= w {
			t.Fatalf("shift %d: misalignment %d out of range", shift, head)
		}

		var sentinel T
		engines := seededEngines(t, grid, 99)
		refEngines := append([]rng.Engine(nil), engines...)

		if err := Generate(engines, out, d, grid, stream); err != nil {
			t.Fatalf("shift %d: %v", shift, err)
		}
		stream.Synchronize()
		if err := stream.PeekError(); err != nil {
			t.Fatalf("shift %d: kernel error: %v", shift, err)
		}

		ref := make([]T, n)
		refGenerate(refEngines, ref, d, grid.Slots(), head)

		for i := range out {
			if out[i] != ref[i] {
				t.Fatalf("shift %d: element %d = %v, reference %v", shift, i, out[i], ref[i])
			}
		}
		// Elements outside the requested range must stay untouched.
		for i := 0; i < shift; i++ {
			if backing[i] != sentinel {
				t.Errorf("shift %d: wrote before the buffer at %d", shift, i)
			}
		}
		for i := shift + n; i < len(backing); i++ {
			if backing[i] != sentinel {
				t.Errorf("shift %d: wrote past the buffer at %d", shift, i)
			}
		}
	}
}

func TestGenerateZeroLengthLeavesStateUntouched(t *testing.T) {
	grid := device.Grid{Blocks: 1, ThreadsPerBlock: 8}
	stream := device.NewStream()
	defer stream.Close()

	engines := seededEngines(t, grid, 5)
	before := append([]rng.Engine(nil), engines...)

	if err := Generate(engines, []float32{}, dist.UniformFloat32{}, grid, stream); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	stream.Synchronize()

	for slot := range engines {
		if engines[slot] != before[slot] {
			t.Errorf("slot %d state changed on zero-length request", slot)
		}
	}
}

func TestGenerateContinuesAcrossCalls(t *testing.T) {
	grid := device.Grid{Blocks: 1, ThreadsPerBlock: 4}
	stream := device.NewStream()
	defer stream.Close()

	run := func() ([]float32, []float32) {
		engines := seededEngines(t, grid, 31337)
		first := make([]float32, 100)
		second := make([]float32, 100)
		if err := Generate(engines, first, dist.UniformFloat32{}, grid, stream); err != nil {
			t.Fatalf("first Generate: %v", err)
		}
		if err := Generate(engines, second, dist.UniformFloat32{}, grid, stream); err != nil {
			t.Fatalf("second Generate: %v", err)
		}
		stream.Synchronize()
		return first, second
	}

	a1, a2 := run()
	b1, b2 := run()
	for i := range a1 {
		if a1[i] != b1[i] || a2[i] != b2[i] {
			t.Fatalf("repeated call sequence diverged at %d", i)
		}
	}
	// The second batch must continue the streams, not restart them.
	same := true
	for i := range a1 {
		if a1[i] != a2[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("second call repeated the first batch; engine state was not checkpointed")
	}
}

func TestGenerateRejectsMismatchedEngineArray(t *testing.T) {
	grid := device.Grid{Blocks: 2, ThreadsPerBlock: 4}
	stream := device.NewStream()
	defer stream.Close()

	engines := make([]rng.Engine, 3)
	err := Generate(engines, make([]float32, 10), dist.UniformFloat32{}, grid, stream)
	if !errors.Is(err, device.ErrLaunchFailed) {
		t.Errorf("want ErrLaunchFailed, got %v", err)
	}
	if err := InitEngines(engines, 1, 0, grid, stream); !errors.Is(err, device.ErrLaunchFailed) {
		t.Errorf("init: want ErrLaunchFailed, got %v", err)
	}
}
