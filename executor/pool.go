package executor

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Pool runs items on a bounded goroutine pool. Results arrive out of order;
// each carries its coordinate index.
type Pool struct {
	workers     int
	limiter     *rate.Limiter
	itemTimeout time.Duration
}

// PoolOption customizes a Pool.
type PoolOption func(*Pool)

// WithRateLimit throttles dispatch to r items per second with the given
// burst. Useful when workers hit shared external services.
func WithRateLimit(r rate.Limit, burst int) PoolOption {
	return func(p *Pool) { p.limiter = rate.NewLimiter(r, burst) }
}

// WithItemTimeout bounds each item's execution. A timed-out item fails with
// context.DeadlineExceeded, which aborts the sweep like any worker error.
func WithItemTimeout(d time.Duration) PoolOption {
	return func(p *Pool) { p.itemTimeout = d }
}

// NewPool creates a pool with the given concurrency. workers <= 0 selects
// GOMAXPROCS.
func NewPool(workers int, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{workers: workers}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run implements Executor. The first failing item cancels dispatch of all
// not-yet-started items; in-flight items run to completion and deliver
// their results before the channel closes.
func (p *Pool) Run(ctx context.Context, invoke InvokeFunc, items []Item) <-chan Result {
	out := make(chan Result, len(items))

	go func() {
		defer close(out)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)

		for _, item := range items {
			if gctx.Err() != nil {
				break
			}
			if p.limiter != nil {
				if err := p.limiter.Wait(gctx); err != nil {
					break
				}
			}
			g.Go(func() error {
				ictx := gctx
				if p.itemTimeout > 0 {
					var cancel context.CancelFunc
					ictx, cancel = context.WithTimeout(gctx, p.itemTimeout)
					defer cancel()
				}
				values, err := invoke(ictx, item)
				out <- Result{Index: item.Index, Values: values, Err: err}
				return err
			})
		}

		_ = g.Wait() // per-item errors already travel on the channel
	}()

	return out
}
