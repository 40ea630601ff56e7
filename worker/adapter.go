package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/sweepgo/variable"
)

// Func is the map-taking worker shape.
type Func func(ctx context.Context, in Inputs) (Results, error)

// TupleFunc is the positional worker shape. Arguments arrive in the declared
// input-variable order, which the Adapter must be told via WithOrder.
type TupleFunc func(ctx context.Context, args []variable.Value) (Results, error)

// Bench is the stateful worker shape: inputs are applied to the object,
// Invoke runs the benchmark, and Results reads the outputs back.
// Invocations on a single Bench are serialized by the Adapter.
type Bench interface {
	SetInput(name string, v variable.Value) error
	Invoke(ctx context.Context) error
	Results() Results
}

// Reserved input names the engine manages itself. They are stripped from the
// inputs handed to the user function unless explicitly requested.
const (
	MetaRepeat    = "repeat"
	MetaTimeEvent = "time_event"
	MetaOverTime  = "over_time"
)

// Error wraps a failure raised by user code during one sample.
//
// A failed sample aborts the enclosing sweep: a partially filled dense
// array has no well-defined shape semantics, so holes are never recorded.
type Error struct {
	Inputs Inputs
	Repeat int
	cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Inputs))
	for _, name := range e.Inputs.Names() {
		parts = append(parts, fmt.Sprintf("%s=%s", name, e.Inputs[name]))
	}
	return fmt.Sprintf("worker failed at (%s) repeat %d: %v", strings.Join(parts, ", "), e.Repeat, e.cause)
}

// Unwrap returns the user code's original error.
func (e *Error) Unwrap() error { return e.cause }

type adapterKind uint8

const (
	kindFunc adapterKind = iota + 1
	kindTuple
	kindBench
)

// Adapter normalizes a worker into the engine's invocation contract.
type Adapter struct {
	kind  adapterKind
	fn    Func
	tuple TupleFunc
	bench Bench

	order      []string
	passRepeat bool

	// A Bench carries mutable state between SetInput and Results; its
	// invocations must not interleave.
	benchMu sync.Mutex
}

// AdapterOption customizes an Adapter.
type AdapterOption func(*Adapter)

// WithOrder declares the positional argument order for TupleFunc workers.
func WithOrder(names ...string) AdapterOption {
	return func(a *Adapter) { a.order = names }
}

// WithPassRepeat forwards the repeat index to the worker under the
// "repeat" input name.
func WithPassRepeat() AdapterOption {
	return func(a *Adapter) { a.passRepeat = true }
}

// NewAdapter wraps one of the supported worker shapes.
//
// Accepted: Func, TupleFunc, Bench, or plain functions with the matching
// signatures. TupleFunc workers additionally require WithOrder.
func NewAdapter(w any, opts ...AdapterOption) (*Adapter, error) {
	a := &Adapter{}
	switch v := w.(type) {
	case Func:
		a.kind, a.fn = kindFunc, v
	case func(ctx context.Context, in Inputs) (Results, error):
		a.kind, a.fn = kindFunc, v
	case TupleFunc:
		a.kind, a.tuple = kindTuple, v
	case func(ctx context.Context, args []variable.Value) (Results, error):
		a.kind, a.tuple = kindTuple, v
	case Bench:
		a.kind, a.bench = kindBench, v
	default:
		return nil, fmt.Errorf("worker: unsupported worker shape %T", w)
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.kind == kindTuple && len(a.order) == 0 {
		return nil, fmt.Errorf("worker: tuple workers require WithOrder")
	}
	return a, nil
}

// ForwardRepeat enables repeat-index forwarding after construction. The
// engine calls this when a sweep configuration requests it; it cannot be
// turned off again.
func (a *Adapter) ForwardRepeat() { a.passRepeat = true }

// Invoke runs the worker for one coordinate. Any error from user code is
// wrapped as *Error.
func (a *Adapter) Invoke(ctx context.Context, in Inputs, repeat int) (Results, error) {
	call := a.prepare(in, repeat)

	res, err := a.dispatch(ctx, call)
	if err != nil {
		return nil, &Error{Inputs: call, Repeat: repeat, cause: err}
	}
	return res, nil
}

// prepare strips reserved meta inputs and optionally forwards the repeat
// index.
func (a *Adapter) prepare(in Inputs, repeat int) Inputs {
	call := make(Inputs, len(in)+1)
	for name, v := range in {
		switch name {
		case MetaRepeat, MetaTimeEvent, MetaOverTime:
			continue
		}
		call[name] = v
	}
	if a.passRepeat {
		call[MetaRepeat] = variable.IntValue(int64(repeat))
	}
	return call
}

func (a *Adapter) dispatch(ctx context.Context, call Inputs) (Results, error) {
	switch a.kind {
	case kindFunc:
		return a.fn(ctx, call)
	case kindTuple:
		args := make([]variable.Value, 0, len(a.order))
		for _, name := range a.order {
			v, ok := call[name]
			if !ok && name != MetaRepeat {
				return nil, fmt.Errorf("missing input %q", name)
			}
			args = append(args, v)
		}
		return a.tuple(ctx, args)
	case kindBench:
		a.benchMu.Lock()
		defer a.benchMu.Unlock()
		for _, name := range call.Names() {
			if err := a.bench.SetInput(name, call[name]); err != nil {
				return nil, fmt.Errorf("set input %q: %w", name, err)
			}
		}
		if err := a.bench.Invoke(ctx); err != nil {
			return nil, err
		}
		return a.bench.Results().Clone(), nil
	default:
		return nil, fmt.Errorf("adapter not initialized")
	}
}
