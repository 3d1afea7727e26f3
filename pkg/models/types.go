package models

import (
	"fmt"
	"time"
)

// JobStatus represents the status of a generation job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Distribution identifies the requested output distribution
type Distribution string

const (
	DistUniform   Distribution = "uniform"
	DistNormal    Distribution = "normal"
	DistLogNormal Distribution = "log_normal"
	DistPoisson   Distribution = "poisson"
)

// OutputType identifies the element type of the output buffer
type OutputType string

const (
	TypeUint8   OutputType = "uint8"
	TypeUint16  OutputType = "uint16"
	TypeUint32  OutputType = "uint32"
	TypeFloat16 OutputType = "float16"
	TypeFloat32 OutputType = "float32"
	TypeFloat64 OutputType = "float64"
)

// JobRequest describes one generation job
type JobRequest struct {
	Seed         uint64       `json:"seed,omitempty"`
	Offset       uint64       `json:"offset,omitempty"`
	Count        int          `json:"count"`
	Type         OutputType   `json:"type"`
	Distribution Distribution `json:"distribution"`
	Mean         float64      `json:"mean,omitempty"`
	StdDev       float64      `json:"stddev,omitempty"`
	Lambda       float64      `json:"lambda,omitempty"`
	Blocks       int          `json:"blocks,omitempty"`
	Threads      int          `json:"threads,omitempty"`
}

// distributionTypes lists the output types each distribution accepts.
var distributionTypes = map[Distribution]map[OutputType]bool{
	DistUniform: {
		TypeUint8: true, TypeUint16: true, TypeUint32: true,
		TypeFloat16: true, TypeFloat32: true, TypeFloat64: true,
	},
	DistNormal: {
		TypeFloat16: true, TypeFloat32: true, TypeFloat64: true,
	},
	DistLogNormal: {
		TypeFloat16: true, TypeFloat32: true, TypeFloat64: true,
	},
	DistPoisson: {
		TypeUint32: true,
	},
}

// Validate checks the request for structural problems. Distribution
// parameter ranges (for example the Poisson rate bound) are enforced by
// the generator itself.
func (r *JobRequest) Validate() error {
	if r.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", r.Count)
	}
	types, ok := distributionTypes[r.Distribution]
	if !ok {
		return fmt.Errorf("unknown distribution: %s", r.Distribution)
	}
	if !types[r.Type] {
		return fmt.Errorf("distribution %s does not support type %s", r.Distribution, r.Type)
	}
	if r.Distribution == DistPoisson && r.Lambda == 0 {
		return fmt.Errorf("poisson distribution requires lambda")
	}
	if (r.Blocks < 0) || (r.Threads < 0) {
		return fmt.Errorf("grid dimensions cannot be negative")
	}
	if (r.Blocks == 0) != (r.Threads == 0) {
		return fmt.Errorf("blocks and threads must be set together")
	}
	return nil
}

// Job represents a generation job and its lifecycle
type Job struct {
	ID          string        `json:"id"`
	Status      JobStatus     `json:"status"`
	Request     JobRequest    `json:"request"`
	CreatedAt   time.Time     `json:"created_at"`
	StartedAt   time.Time     `json:"started_at,omitempty"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Metrics     *JobMetrics   `json:"metrics,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// JobMetrics contains throughput and sample statistics for a completed job
type JobMetrics struct {
	Elements       int64   `json:"elements"`
	DurationMs     float64 `json:"duration_ms"`
	ElementsPerSec float64 `json:"elements_per_sec"`
	SampleMean     float64 `json:"sample_mean"`
	SampleStdDev   float64 `json:"sample_stddev"`
}

// ElemSize returns the byte width of one element of the given type.
func (t OutputType) ElemSize() int {
	switch t {
	case TypeUint8:
		return 1
	case TypeUint16, TypeFloat16:
		return 2
	case TypeUint32, TypeFloat32:
		return 4
	case TypeFloat64:
		return 8
	}
	return 0
}
