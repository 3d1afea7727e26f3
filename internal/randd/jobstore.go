// Package randd implements the generation daemon: a job store, an
// asynchronous executor that drives the generator facade, and the HTTP
// surface that exposes them.
package randd

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saadrahim/rocRAND/pkg/models"
)

var (
	// ErrJobNotFound reports a lookup for an unknown job ID.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobNotCancellable reports a cancel on a job already past pending.
	ErrJobNotCancellable = errors.New("job is not pending")
)

// JobStore keeps jobs and their output buffers in memory. All accessors
// return copies; the store owns the canonical records.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
	data map[string][]byte
}

// NewJobStore creates an empty store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*models.Job),
		data: make(map[string][]byte),
	}
}

// Create registers a new pending job for the given request.
func (s *JobStore) Create(req models.JobRequest) models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &models.Job{
		ID:        uuid.NewString(),
		Status:    models.JobStatusPending,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}
	s.jobs[job.ID] = job
	return *job
}

// Get returns a copy of the job.
func (s *JobStore) Get(id string) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, false
	}
	return *job, true
}

// List returns up to limit jobs, newest first.
func (s *JobStore) List(limit int) []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]models.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SetRunning transitions a job to running and stamps its start time.
func (s *JobStore) SetRunning(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = models.JobStatusRunning
	job.StartedAt = time.Now().UTC()
	return nil
}

// SetCompleted stores the output buffer and metrics and finalizes the job.
func (s *JobStore) SetCompleted(id string, data []byte, metrics *models.JobMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = models.JobStatusCompleted
	job.Metrics = metrics
	s.finalize(job)
	s.data[id] = data
	return nil
}

// SetFailed finalizes the job with an error message.
func (s *JobStore) SetFailed(id string, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = models.JobStatusFailed
	job.Error = errMsg
	s.finalize(job)
	return nil
}

// Cancel marks a pending job cancelled. Running or finished jobs are
// left alone.
func (s *JobStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status != models.JobStatusPending {
		return ErrJobNotCancellable
	}
	job.Status = models.JobStatusCancelled
	s.finalize(job)
	return nil
}

// Data returns the raw output bytes of a completed job.
func (s *JobStore) Data(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[id]
	return data, ok
}

// finalize stamps completion time and duration. Caller holds the lock.
func (s *JobStore) finalize(job *models.Job) {
	job.CompletedAt = time.Now().UTC()
	if !job.StartedAt.IsZero() {
		job.Duration = job.CompletedAt.Sub(job.StartedAt)
	}
}
