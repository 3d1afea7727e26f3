package metrics

import (
	"math"
	"testing"
	"time"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	if c == nil {
		t.Fatalf("expected non-nil collector")
	}

	summary := c.GetSummary()
	if summary.Batches != 0 || summary.TotalElements != 0 {
		t.Fatalf("fresh collector should be empty, got %+v", summary)
	}
}

func TestCollectorRecordBatch(t *testing.T) {
	c := NewCollector()
	c.RecordBatch(1000, 10*time.Millisecond)
	c.RecordBatch(2000, 20*time.Millisecond)
	c.RecordBatch(3000, 30*time.Millisecond)

	summary := c.GetSummary()
	if summary.Batches != 3 {
		t.Errorf("expected 3 batches, got %d", summary.Batches)
	}
	if summary.TotalElements != 6000 {
		t.Errorf("expected 6000 total elements, got %d", summary.TotalElements)
	}
	if math.Abs(summary.DurationMeanMs-20.0) > 1e-9 {
		t.Errorf("expected mean duration 20ms, got %f", summary.DurationMeanMs)
	}
	// 6000 elements over 60ms of work.
	if math.Abs(summary.ElementsPerSec-100_000) > 1 {
		t.Errorf("expected 100000 elements/sec, got %f", summary.ElementsPerSec)
	}
}

func TestCollectorPercentiles(t *testing.T) {
	c := NewCollector()
	for ms := 1; ms <= 100; ms++ {
		c.RecordBatch(1, time.Duration(ms)*time.Millisecond)
	}

	summary := c.GetSummary()
	if summary.DurationP50Ms < 49 || summary.DurationP50Ms > 51 {
		t.Errorf("p50 out of range: %f", summary.DurationP50Ms)
	}
	if summary.DurationP95Ms < 94 || summary.DurationP95Ms > 96 {
		t.Errorf("p95 out of range: %f", summary.DurationP95Ms)
	}
	if summary.DurationP99Ms < 98 || summary.DurationP99Ms > 100 {
		t.Errorf("p99 out of range: %f", summary.DurationP99Ms)
	}
	if summary.DurationP50Ms > summary.DurationP95Ms || summary.DurationP95Ms > summary.DurationP99Ms {
		t.Errorf("percentiles not monotonic: %+v", summary)
	}
}

func TestCollectorClear(t *testing.T) {
	c := NewCollector()
	c.RecordBatch(500, 5*time.Millisecond)
	c.Clear()

	summary := c.GetSummary()
	if summary.Batches != 0 || summary.TotalElements != 0 {
		t.Errorf("expected empty summary after Clear, got %+v", summary)
	}
}

func TestSampleMoments(t *testing.T) {
	mean, stddev := SampleMoments([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(mean-5.0) > 1e-9 {
		t.Errorf("expected mean 5.0, got %f", mean)
	}
	// Sample (n-1) standard deviation of this classic set.
	if math.Abs(stddev-2.138089935) > 1e-6 {
		t.Errorf("unexpected stddev: %f", stddev)
	}

	mean, stddev = SampleMoments(nil)
	if mean != 0 || stddev != 0 {
		t.Errorf("empty sample should give zeros, got %f, %f", mean, stddev)
	}

	_, stddev = SampleMoments([]float64{3})
	if stddev != 0 {
		t.Errorf("single-value sample should give zero stddev, got %f", stddev)
	}
}

func TestBuildJobMetrics(t *testing.T) {
	m := BuildJobMetrics(10_000, 100*time.Millisecond, []float64{1, 2, 3})
	if m.Elements != 10_000 {
		t.Errorf("expected 10000 elements, got %d", m.Elements)
	}
	if math.Abs(m.DurationMs-100) > 1e-9 {
		t.Errorf("expected 100ms, got %f", m.DurationMs)
	}
	if math.Abs(m.ElementsPerSec-100_000) > 1 {
		t.Errorf("expected 100000 elements/sec, got %f", m.ElementsPerSec)
	}
	if math.Abs(m.SampleMean-2.0) > 1e-9 {
		t.Errorf("expected sample mean 2.0, got %f", m.SampleMean)
	}
}
