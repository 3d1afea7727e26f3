package randd

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/saadrahim/rocRAND/internal/device"
	"github.com/saadrahim/rocRAND/internal/dist"
	"github.com/saadrahim/rocRAND/internal/metrics"
	"github.com/saadrahim/rocRAND/pkg/logger"
	"github.com/saadrahim/rocRAND/pkg/models"
	"github.com/saadrahim/rocRAND/pkg/rocrand"
)

// ExecutorConfig carries the generation defaults applied when a job
// omits them.
type ExecutorConfig struct {
	Grid          device.Grid
	DefaultSeed   uint64
	DefaultOffset uint64
}

// Executor runs jobs from the store one at a time on a worker
// goroutine. One worker keeps the device pool accounting simple and
// matches the single-stream generator underneath.
type Executor struct {
	store     *JobStore
	collector *metrics.Collector
	pool      *device.Pool
	cfg       ExecutorConfig

	queue  chan string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExecutor creates an executor over the given store and pool.
func NewExecutor(store *JobStore, collector *metrics.Collector, pool *device.Pool, cfg ExecutorConfig) *Executor {
	return &Executor{
		store:     store,
		collector: collector,
		pool:      pool,
		cfg:       cfg,
		queue:     make(chan string, 64),
	}
}

// Start launches the worker. Jobs submitted before Start sit in the
// queue until the worker picks them up.
func (e *Executor) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case id := <-e.queue:
				e.run(id)
			}
		}
	}()
}

// Stop halts the worker and cancels jobs still waiting in the queue.
func (e *Executor) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	for {
		select {
		case id := <-e.queue:
			if err := e.store.Cancel(id); err == nil {
				logger.Info("job cancelled on shutdown", "job_id", id)
			}
		default:
			return
		}
	}
}

// Submit enqueues a job for execution.
func (e *Executor) Submit(id string) error {
	select {
	case e.queue <- id:
		return nil
	default:
		return fmt.Errorf("job queue is full")
	}
}

func (e *Executor) run(id string) {
	job, ok := e.store.Get(id)
	if !ok || job.Status != models.JobStatusPending {
		return
	}
	if err := e.store.SetRunning(id); err != nil {
		return
	}
	logger.Info("job started", "job_id", id,
		"distribution", job.Request.Distribution, "type", job.Request.Type, "count", job.Request.Count)

	start := time.Now()
	data, sample, err := e.generate(job.Request)
	duration := time.Since(start)

	if err != nil {
		logger.Error("job failed", "job_id", id, "error", err)
		_ = e.store.SetFailed(id, err.Error())
		return
	}

	jobMetrics := metrics.BuildJobMetrics(int64(job.Request.Count), duration, sample)
	e.collector.RecordBatch(int64(job.Request.Count), duration)
	_ = e.store.SetCompleted(id, data, jobMetrics)
	logger.Info("job completed", "job_id", id,
		"duration_ms", jobMetrics.DurationMs, "elements_per_sec", jobMetrics.ElementsPerSec)
}

// generate builds a generator for the request and produces the output
// buffer in little-endian layout plus a float view for the sample
// statistics.
func (e *Executor) generate(req models.JobRequest) ([]byte, []float64, error) {
	grid := e.cfg.Grid
	if req.Blocks > 0 {
		grid = device.Grid{Blocks: req.Blocks, ThreadsPerBlock: req.Threads}
	}
	seed := req.Seed
	if seed == 0 {
		seed = e.cfg.DefaultSeed
	}
	offset := req.Offset
	if offset == 0 {
		offset = e.cfg.DefaultOffset
	}

	g, err := rocrand.New(
		rocrand.WithGrid(grid),
		rocrand.WithSeed(seed),
		rocrand.WithOffset(offset),
		rocrand.WithPool(e.pool),
	)
	if err != nil {
		return nil, nil, err
	}
	defer g.Close()

	switch req.Distribution {
	case models.DistUniform:
		switch req.Type {
		case models.TypeUint8:
			return runTyped(g, req.Count, g.GenerateUniformUint8,
				func(v uint8) float64 { return float64(v) })
		case models.TypeUint16:
			return runTyped(g, req.Count, g.GenerateUniformUint16,
				func(v uint16) float64 { return float64(v) })
		case models.TypeUint32:
			return runTyped(g, req.Count, g.GenerateUniformUint32,
				func(v uint32) float64 { return float64(v) })
		case models.TypeFloat16:
			return runTyped(g, req.Count, g.GenerateUniformFloat16,
				func(v dist.Float16) float64 { return float64(v.Float32()) })
		case models.TypeFloat32:
			return runTyped(g, req.Count, g.GenerateUniformFloat32,
				func(v float32) float64 { return float64(v) })
		case models.TypeFloat64:
			return runTyped(g, req.Count, g.GenerateUniformFloat64,
				func(v float64) float64 { return v })
		}
	case models.DistNormal:
		switch req.Type {
		case models.TypeFloat16:
			return runTyped(g, req.Count, normalGen16(g, req),
				func(v dist.Float16) float64 { return float64(v.Float32()) })
		case models.TypeFloat32:
			return runTyped(g, req.Count, func(out []float32) error {
				return g.GenerateNormalFloat32(out, float32(req.Mean), float32(req.StdDev))
			}, func(v float32) float64 { return float64(v) })
		case models.TypeFloat64:
			return runTyped(g, req.Count, func(out []float64) error {
				return g.GenerateNormalFloat64(out, req.Mean, req.StdDev)
			}, func(v float64) float64 { return v })
		}
	case models.DistLogNormal:
		switch req.Type {
		case models.TypeFloat16:
			return runTyped(g, req.Count, logNormalGen16(g, req),
				func(v dist.Float16) float64 { return float64(v.Float32()) })
		case models.TypeFloat32:
			return runTyped(g, req.Count, func(out []float32) error {
				return g.GenerateLogNormalFloat32(out, float32(req.Mean), float32(req.StdDev))
			}, func(v float32) float64 { return float64(v) })
		case models.TypeFloat64:
			return runTyped(g, req.Count, func(out []float64) error {
				return g.GenerateLogNormalFloat64(out, req.Mean, req.StdDev)
			}, func(v float64) float64 { return v })
		}
	case models.DistPoisson:
		return runTyped(g, req.Count, func(out []uint32) error {
			return g.GeneratePoisson(out, req.Lambda)
		}, func(v uint32) float64 { return float64(v) })
	}
	return nil, nil, fmt.Errorf("unsupported request: %s %s", req.Distribution, req.Type)
}

func normalGen16(g *rocrand.Generator, req models.JobRequest) func([]dist.Float16) error {
	return func(out []dist.Float16) error {
		return g.GenerateNormalFloat16(out, float32(req.Mean), float32(req.StdDev))
	}
}

func logNormalGen16(g *rocrand.Generator, req models.JobRequest) func([]dist.Float16) error {
	return func(out []dist.Float16) error {
		return g.GenerateLogNormalFloat16(out, float32(req.Mean), float32(req.StdDev))
	}
}

// runTyped executes one generation call, waits for it, and serializes
// the buffer little-endian.
func runTyped[T any](g *rocrand.Generator, count int, gen func([]T) error, toFloat func(T) float64) ([]byte, []float64, error) {
	out := make([]T, count)
	if err := gen(out); err != nil {
		return nil, nil, err
	}
	g.Synchronize()
	if err := g.PeekError(); err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, out); err != nil {
		return nil, nil, fmt.Errorf("encode output: %w", err)
	}

	sample := make([]float64, len(out))
	for i, v := range out {
		sample[i] = toFloat(v)
	}
	return buf.Bytes(), sample, nil
}
