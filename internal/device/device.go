// Package device provides the execution collaborators the generation
// kernels run against: a byte-accounted memory pool, an ordered
// execution stream, and a grid/block kernel launcher.
//
// There is no real accelerator behind this package; the point is to keep
// the same contracts the kernels would face on one — asynchronous
// submission ordered per stream, peek-style error reporting after
// launch, and allocation that can fail.
package device

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrAllocationFailed reports pool exhaustion.
	ErrAllocationFailed = errors.New("device allocation failed")
	// ErrLaunchFailed reports a kernel that could not be submitted or run.
	ErrLaunchFailed = errors.New("kernel launch failed")
)

// Grid describes the launch geometry: Blocks x ThreadsPerBlock logical
// threads, each owning exactly one engine slot.
type Grid struct {
	Blocks          int
	ThreadsPerBlock int
}

// Slots returns the total logical thread count.
func (g Grid) Slots() int {
	return g.Blocks * g.ThreadsPerBlock
}

// Validate rejects degenerate geometries before anything is launched.
func (g Grid) Validate() error {
	if g.Blocks <= 0 || g.ThreadsPerBlock <= 0 {
		return fmt.Errorf("%w: invalid grid %dx%d", ErrLaunchFailed, g.Blocks, g.ThreadsPerBlock)
	}
	return nil
}

// Stream is a single logical execution queue. Work submitted to one
// stream runs in submission order on a dedicated worker goroutine;
// submission itself never blocks on execution. Streams give no ordering
// guarantee relative to each other.
type Stream struct {
	tasks   chan func() error
	lastErr atomic.Value // error
	wg      sync.WaitGroup
	closed  sync.Once
}

// NewStream starts the stream's worker.
func NewStream() *Stream {
	s := &Stream{tasks: make(chan func() error, 64)}
	go s.worker()
	return s
}

func (s *Stream) worker() {
	for task := range s.tasks {
		if err := task(); err != nil {
			s.lastErr.Store(err)
		}
		s.wg.Done()
	}
}

// Submit enqueues work on the stream.
func (s *Stream) Submit(task func() error) {
	s.wg.Add(1)
	s.tasks <- task
}

// PeekError returns the most recent execution error without blocking and
// without clearing it, mirroring a peek-at-last-error check after a
// launch. It reports nothing about work still in flight.
func (s *Stream) PeekError() error {
	if err, ok := s.lastErr.Load().(error); ok {
		return err
	}
	return nil
}

// Synchronize blocks until all submitted work has finished.
func (s *Stream) Synchronize() {
	s.wg.Wait()
}

// Close drains the stream and stops its worker.
func (s *Stream) Close() {
	s.closed.Do(func() {
		s.wg.Wait()
		close(s.tasks)
	})
}

// Launch submits body over every slot of the grid. The body runs once
// per slot; slots are partitioned across a bounded set of workers, so a
// body must only touch state its own slot owns. Launch returns only
// submission-time failures — execution failures surface through
// PeekError, after the fact.
func Launch(grid Grid, stream *Stream, body func(slot int)) error {
	if err := grid.Validate(); err != nil {
		return err
	}
	if stream == nil {
		return fmt.Errorf("%w: nil stream", ErrLaunchFailed)
	}

	slots := grid.Slots()
	stream.Submit(func() error {
		workers := runtime.GOMAXPROCS(0)
		if workers > slots {
			workers = slots
		}
		g := new(errgroup.Group)
		for w := 0; w < workers; w++ {
			lo := w * slots / workers
			hi := (w + 1) * slots / workers
			g.Go(func() error {
				for slot := lo; slot < hi; slot++ {
					body(slot)
				}
				return nil
			})
		}
		return g.Wait()
	})
	return nil
}
