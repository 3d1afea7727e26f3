package device

import (
	"fmt"
	"sync"
)

// Pool tracks device memory with malloc/free accounting against a fixed
// capacity. Callers own the backing storage; the pool only decides
// whether an allocation is admitted.
type Pool struct {
	mu    sync.Mutex
	limit int64
	used  int64
}

// NewPool creates a pool with the given capacity in bytes.
func NewPool(limit int64) *Pool {
	return &Pool{limit: limit}
}

// Alloc reserves bytes, failing when the reservation would exceed the
// pool's capacity.
func (p *Pool) Alloc(bytes int64) error {
	if bytes < 0 {
		return fmt.Errorf("%w: negative size %d", ErrAllocationFailed, bytes)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.used+bytes > p.limit {
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrAllocationFailed, bytes, p.used, p.limit)
	}
	p.used += bytes
	return nil
}

// Free releases a prior reservation.
func (p *Pool) Free(bytes int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.used -= bytes
	if p.used < 0 {
		p.used = 0
	}
}

// Used reports the bytes currently reserved.
func (p *Pool) Used() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.used
}
