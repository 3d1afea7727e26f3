package metrics

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Collector accumulates per-batch generation metrics for the lifetime
// of the service
type Collector struct {
	mu sync.Mutex

	startTime time.Time

	elements    []float64 // per-batch element counts
	durationsMs []float64 // per-batch wall time

	totalElements int64
}

// Summary is a point-in-time aggregation of everything recorded so far
type Summary struct {
	Batches        int64   `json:"batches"`
	TotalElements  int64   `json:"total_elements"`
	DurationMeanMs float64 `json:"duration_mean_ms"`
	DurationP50Ms  float64 `json:"duration_p50_ms"`
	DurationP95Ms  float64 `json:"duration_p95_ms"`
	DurationP99Ms  float64 `json:"duration_p99_ms"`
	ElementsPerSec float64 `json:"elements_per_sec"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// RecordBatch records one completed generation batch
func (c *Collector) RecordBatch(elements int64, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.elements = append(c.elements, float64(elements))
	c.durationsMs = append(c.durationsMs, float64(duration.Microseconds())/1000.0)
	c.totalElements += elements
}

// GetSummary aggregates all recorded batches
func (c *Collector) GetSummary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary := Summary{
		Batches:       int64(len(c.durationsMs)),
		TotalElements: c.totalElements,
		UptimeSeconds: time.Since(c.startTime).Seconds(),
	}
	if len(c.durationsMs) == 0 {
		return summary
	}

	summary.DurationMeanMs = stat.Mean(c.durationsMs, nil)

	// Percentiles over a copy; stats.Percentile sorts its input.
	durations := append([]float64(nil), c.durationsMs...)
	summary.DurationP50Ms, _ = stats.Percentile(durations, 50)
	summary.DurationP95Ms, _ = stats.Percentile(durations, 95)
	summary.DurationP99Ms, _ = stats.Percentile(durations, 99)

	totalMs := 0.0
	for _, d := range c.durationsMs {
		totalMs += d
	}
	if totalMs > 0 {
		summary.ElementsPerSec = float64(c.totalElements) / (totalMs / 1000.0)
	}
	return summary
}

// Clear drops all recorded batches
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.elements = nil
	c.durationsMs = nil
	c.totalElements = 0
	c.startTime = time.Now()
}
