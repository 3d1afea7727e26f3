// Package rocrand is the host-side facade over the generation pipeline.
// A Generator owns an engine array sized to its launch grid, seeds it
// lazily on first use, and runs distribution kernels against it on a
// private stream. All generation entry points are asynchronous with
// respect to the caller: read the output buffer only after Synchronize.
package rocrand

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/saadrahim/rocRAND/internal/device"
	"github.com/saadrahim/rocRAND/internal/dist"
	"github.com/saadrahim/rocRAND/internal/kernel"
	"github.com/saadrahim/rocRAND/internal/rng"
)

// DefaultGrid is the launch geometry used when no option overrides it.
var DefaultGrid = device.Grid{Blocks: 512, ThreadsPerBlock: 256}

// Generator is the user-facing handle. It is safe for concurrent use;
// configuration changes drain in-flight work before taking effect.
type Generator struct {
	mu sync.Mutex

	seed   uint64
	offset uint64
	grid   device.Grid

	stream  *device.Stream
	pool    *device.Pool
	engines []rng.Engine
	poisson dist.PoissonCache

	initialized bool
	closed      bool
}

// Option configures a Generator at construction time.
type Option func(*Generator)

// WithSeed sets the initial seed. Zero selects the default seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = remapSeed(seed) }
}

// WithOffset sets the initial per-stream offset.
func WithOffset(offset uint64) Option {
	return func(g *Generator) { g.offset = offset }
}

// WithGrid overrides the launch geometry.
func WithGrid(grid device.Grid) Option {
	return func(g *Generator) { g.grid = grid }
}

// WithPool charges the engine array against the given memory pool.
func WithPool(pool *device.Pool) Option {
	return func(g *Generator) { g.pool = pool }
}

// New constructs a Generator. No engines are seeded yet; that happens
// on the first generation call, so constructing a generator and then
// adjusting seed or offset costs nothing.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		seed: rng.DefaultSeed,
		grid: DefaultGrid,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.grid.Validate(); err != nil {
		return nil, err
	}
	g.stream = device.NewStream()
	return g, nil
}

func remapSeed(seed uint64) uint64 {
	if seed == 0 {
		return rng.DefaultSeed
	}
	return seed
}

// SetSeed changes the seed and discards the seeded state; the next
// generation call re-initializes every engine. A zero seed selects the
// default seed.
func (g *Generator) SetSeed(seed uint64) {
	g.stream.Synchronize()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seed = remapSeed(seed)
	g.initialized = false
}

// SetOffset changes the per-stream starting offset, discarding the
// seeded state like SetSeed.
func (g *Generator) SetOffset(offset uint64) {
	g.stream.Synchronize()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.offset = offset
	g.initialized = false
}

// Seed returns the effective seed.
func (g *Generator) Seed() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seed
}

// Offset returns the configured offset.
func (g *Generator) Offset() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.offset
}

// Reset discards the seeded state without changing seed or offset. A
// reset generator reproduces its output from the beginning, exactly as
// a freshly constructed one with the same configuration would.
func (g *Generator) Reset() {
	g.stream.Synchronize()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initialized = false
}

// Synchronize blocks until every submitted generation has finished.
func (g *Generator) Synchronize() {
	g.stream.Synchronize()
}

// PeekError reports the most recent kernel execution error, if any,
// without clearing it.
func (g *Generator) PeekError() error {
	return g.stream.PeekError()
}

// Close drains the stream, releases the engine allocation, and makes
// further generation calls fail. Close is idempotent.
func (g *Generator) Close() error {
	g.stream.Synchronize()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	g.initialized = false
	g.freeEngines()
	g.stream.Close()
	return nil
}

func (g *Generator) engineBytes() int64 {
	return int64(g.grid.Slots()) * int64(unsafe.Sizeof(rng.Engine{}))
}

func (g *Generator) freeEngines() {
	if g.engines != nil && g.pool != nil {
		g.pool.Free(g.engineBytes())
	}
	g.engines = nil
}

// ensureInit allocates (once) and seeds the engine array. Called with
// g.mu held. Seeding runs synchronously so that a seeding failure is
// reported here rather than from a later generation.
func (g *Generator) ensureInit() error {
	if g.closed {
		return fmt.Errorf("%w: generator is closed", device.ErrLaunchFailed)
	}
	if g.initialized {
		return nil
	}
	if g.engines == nil {
		if g.pool != nil {
			if err := g.pool.Alloc(g.engineBytes()); err != nil {
				return err
			}
		}
		g.engines = make([]rng.Engine, g.grid.Slots())
	}
	if err := kernel.InitEngines(g.engines, g.seed, g.offset, g.grid, g.stream); err != nil {
		return err
	}
	g.stream.Synchronize()
	if err := g.stream.PeekError(); err != nil {
		return err
	}
	g.initialized = true
	return nil
}

// Generate fills out from the given distribution, initializing the
// generator first if needed. The kernel is submitted asynchronously;
// callers must Synchronize before reading out.
func Generate[T any](g *Generator, out []T, d dist.Distribution[T]) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensureInit(); err != nil {
		return err
	}
	return kernel.Generate(g.engines, out, d, g.grid, g.stream)
}

// GenerateUniformUint8 fills out with uniformly distributed bytes.
func (g *Generator) GenerateUniformUint8(out []uint8) error {
	return Generate(g, out, dist.UniformUint8{})
}

// GenerateUniformUint16 fills out with uniformly distributed uint16s.
func (g *Generator) GenerateUniformUint16(out []uint16) error {
	return Generate(g, out, dist.UniformUint16{})
}

// GenerateUniformUint32 fills out with uniformly distributed uint32s.
func (g *Generator) GenerateUniformUint32(out []uint32) error {
	return Generate(g, out, dist.UniformUint32{})
}

// GenerateUniformFloat16 fills out with uniform halves in (0, 1).
func (g *Generator) GenerateUniformFloat16(out []dist.Float16) error {
	return Generate(g, out, dist.UniformFloat16{})
}

// GenerateUniformFloat32 fills out with uniform floats in (0, 1].
func (g *Generator) GenerateUniformFloat32(out []float32) error {
	return Generate(g, out, dist.UniformFloat32{})
}

// GenerateUniformFloat64 fills out with uniform doubles in (0, 1].
func (g *Generator) GenerateUniformFloat64(out []float64) error {
	return Generate(g, out, dist.UniformFloat64{})
}

// GenerateNormalFloat16 fills out with normal halves.
func (g *Generator) GenerateNormalFloat16(out []dist.Float16, mean, stddev float32) error {
	return Generate(g, out, dist.NormalFloat16{Mean: mean, StdDev: stddev})
}

// GenerateNormalFloat32 fills out with normal floats.
func (g *Generator) GenerateNormalFloat32(out []float32, mean, stddev float32) error {
	return Generate(g, out, dist.NormalFloat32{Mean: mean, StdDev: stddev})
}

// GenerateNormalFloat64 fills out with normal doubles.
func (g *Generator) GenerateNormalFloat64(out []float64, mean, stddev float64) error {
	return Generate(g, out, dist.NormalFloat64{Mean: mean, StdDev: stddev})
}

// GenerateLogNormalFloat16 fills out with log-normal halves.
func (g *Generator) GenerateLogNormalFloat16(out []dist.Float16, mean, stddev float32) error {
	return Generate(g, out, dist.LogNormalFloat16{Mean: mean, StdDev: stddev})
}

// GenerateLogNormalFloat32 fills out with log-normal floats.
func (g *Generator) GenerateLogNormalFloat32(out []float32, mean, stddev float32) error {
	return Generate(g, out, dist.LogNormalFloat32{Mean: mean, StdDev: stddev})
}

// GenerateLogNormalFloat64 fills out with log-normal doubles.
func (g *Generator) GenerateLogNormalFloat64(out []float64, mean, stddev float64) error {
	return Generate(g, out, dist.LogNormalFloat64{Mean: mean, StdDev: stddev})
}

// GeneratePoisson fills out with Poisson counts for the given rate. An
// invalid lambda fails before any engine advances, leaving generator
// state untouched.
func (g *Generator) GeneratePoisson(out []uint32, lambda float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.poisson.SetLambda(lambda); err != nil {
		return err
	}
	if err := g.ensureInit(); err != nil {
		return err
	}
	return kernel.Generate(g.engines, out, g.poisson.Distribution(), g.grid, g.stream)
}
