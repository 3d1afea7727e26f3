package metrics

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/saadrahim/rocRAND/pkg/models"
)

// SampleMoments returns the mean and standard deviation of a sample.
func SampleMoments(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	return mean, std
}

// BuildJobMetrics assembles the per-job metrics payload from a batch's
// size, wall time, and (optionally) a float view of its output.
func BuildJobMetrics(elements int64, duration time.Duration, sample []float64) *models.JobMetrics {
	m := &models.JobMetrics{
		Elements:   elements,
		DurationMs: float64(duration.Microseconds()) / 1000.0,
	}
	if duration > 0 {
		m.ElementsPerSec = float64(elements) / duration.Seconds()
	}
	m.SampleMean, m.SampleStdDev = SampleMoments(sample)
	return m
}
