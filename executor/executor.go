// Package executor runs many worker invocations through a pluggable
// concurrency backend.
//
// Every result is tagged with the flat index of its coordinate in the
// canonical grid, so callers never need submission or completion order to
// interpret a result. Completion order across concurrent workers is
// unspecified and must not be relied upon.
package executor

import (
	"context"

	"github.com/hupe1980/sweepgo/worker"
)

// Kind selects a backend from run configuration.
type Kind string

const (
	// KindSerial runs items one at a time on the calling goroutine.
	KindSerial Kind = "serial"
	// KindThread runs items on a bounded goroutine pool.
	KindThread Kind = "thread"
	// KindProcess is accepted for configuration compatibility and maps to
	// the goroutine pool: worker functions are in-process Go closures, so a
	// separate OS-process pool cannot execute them.
	KindProcess Kind = "process"
)

// Item is one unit of work: a coordinate of the sample grid.
type Item struct {
	// Index is the flat position of this sample in the canonical grid.
	Index int
	// Inputs is the coordinate's input tuple.
	Inputs worker.Inputs
	// Repeat is the repeat index of this sample.
	Repeat int
}

// Result is one completed (or failed) work item.
type Result struct {
	Index  int
	Values worker.Results
	Err    error
}

// InvokeFunc computes one item.
type InvokeFunc func(ctx context.Context, item Item) (worker.Results, error)

// Executor runs work items and streams tagged results.
//
// The returned channel is closed once no further results will arrive. After
// the first error the backend stops issuing new items; items already in
// flight still deliver their results.
type Executor interface {
	Run(ctx context.Context, invoke InvokeFunc, items []Item) <-chan Result
}

// FromKind constructs the backend for a configuration value. workers bounds
// pool concurrency; it is ignored for the serial backend.
func FromKind(kind Kind, workers int) Executor {
	switch kind {
	case KindThread, KindProcess:
		return NewPool(workers)
	default:
		return Serial{}
	}
}
