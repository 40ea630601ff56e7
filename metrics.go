package sweepgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordSample is called after each sample resolution.
	// hit is true when the sample was served from the cache.
	RecordSample(duration time.Duration, hit bool, err error)

	// RecordSweep is called after each sweep run. samples is the grid size,
	// hits the number of cache-served samples.
	RecordSweep(samples, hits int, duration time.Duration, err error)

	// RecordCommit is called after each result-cache commit attempt.
	RecordCommit(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSample(time.Duration, bool, error)    {}
func (NoopMetricsCollector) RecordSweep(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCommit(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SampleCount      atomic.Int64
	SampleHits       atomic.Int64
	SampleErrors     atomic.Int64
	SampleTotalNanos atomic.Int64
	SweepCount       atomic.Int64
	SweepErrors      atomic.Int64
	SweepTotalNanos  atomic.Int64
	CommitCount      atomic.Int64
	CommitErrors     atomic.Int64
}

// RecordSample implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSample(duration time.Duration, hit bool, err error) {
	b.SampleCount.Add(1)
	b.SampleTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.SampleHits.Add(1)
	}
	if err != nil {
		b.SampleErrors.Add(1)
	}
}

// RecordSweep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSweep(samples, hits int, duration time.Duration, err error) {
	b.SweepCount.Add(1)
	b.SweepTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SweepErrors.Add(1)
	}
}

// RecordCommit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommit(duration time.Duration, err error) {
	b.CommitCount.Add(1)
	if err != nil {
		b.CommitErrors.Add(1)
	}
}
