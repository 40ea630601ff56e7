package sweepgo

import (
	"github.com/hupe1980/sweepgo/codec"
	"github.com/hupe1980/sweepgo/executor"
	"github.com/hupe1980/sweepgo/store"
)

// Traversal selects the submission order of a sweep's work items. It affects
// scheduling only; the assembled dataset is identical for every traversal.
type Traversal uint8

const (
	// TraversalInorder submits samples in canonical grid order.
	TraversalInorder Traversal = iota
	// TraversalReversed submits samples in reverse grid order.
	TraversalReversed
)

type options struct {
	store     store.Store
	codec     codec.Codec
	executor  executor.Executor
	logger    *Logger
	metrics   MetricsCollector
	traversal Traversal

	cacheSamples         bool
	cacheResults         bool
	clearCache           bool
	clearSampleCache     bool
	overwriteSampleCache bool
	onlyPlot             bool
}

func defaultOptions() options {
	return options{
		store:        store.NewMemoryStore(),
		codec:        codec.Default,
		executor:     executor.Serial{},
		logger:       NewLogger(nil),
		metrics:      NoopMetricsCollector{},
		cacheSamples: true,
		cacheResults: true,
	}
}

// Option configures Sweeper constructor behavior.
type Option func(*options)

// WithStore sets the cache storage backend. Defaults to an in-memory store,
// which caches within the process only.
func WithStore(s store.Store) Option {
	return func(o *options) {
		if s != nil {
			o.store = s
		}
	}
}

// WithCodec sets the codec used for cache entries and datasets.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithExecutor sets the concurrency backend. Defaults to serial execution.
func WithExecutor(e executor.Executor) Option {
	return func(o *options) {
		if e != nil {
			o.executor = e
		}
	}
}

// WithExecutorKind selects a backend from run configuration strings
// ("serial", "thread", "process"). workers bounds pool concurrency.
func WithExecutorKind(kind executor.Kind, workers int) Option {
	return func(o *options) {
		o.executor = executor.FromKind(kind, workers)
	}
}

// WithLogger sets the logger. Defaults to a text logger on stderr.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithTraversal sets the work-item submission order.
func WithTraversal(t Traversal) Option {
	return func(o *options) { o.traversal = t }
}

// WithSampleCaching enables or disables the sample-level cache. When
// disabled every sample is recomputed and nothing is written.
func WithSampleCaching(enabled bool) Option {
	return func(o *options) { o.cacheSamples = enabled }
}

// WithResultCaching enables or disables the benchmark-level result cache.
func WithResultCaching(enabled bool) Option {
	return func(o *options) { o.cacheResults = enabled }
}

// WithClearCache forces recomputation: the cached result dataset for the
// sweep's fingerprint is removed before the run and overwritten after it.
func WithClearCache() Option {
	return func(o *options) { o.clearCache = true }
}

// WithClearSampleCache removes every sample-cache entry in the sweep's
// scope before the run.
func WithClearSampleCache() Option {
	return func(o *options) { o.clearSampleCache = true }
}

// WithOverwriteSampleCache bypasses sample-cache lookups but still writes
// computed samples.
func WithOverwriteSampleCache() Option {
	return func(o *options) { o.overwriteSampleCache = true }
}

// WithOnlyPlot makes any sample-cache miss a hard ErrCacheMiss failure. Use
// for read-only runs that must be served entirely from cache.
func WithOnlyPlot() Option {
	return func(o *options) { o.onlyPlot = true }
}
