package sweepgo

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/sweepgo/cache"
	"github.com/hupe1980/sweepgo/dataset"
	"github.com/hupe1980/sweepgo/executor"
	"github.com/hupe1980/sweepgo/internal/grid"
	"github.com/hupe1980/sweepgo/variable"
	"github.com/hupe1980/sweepgo/worker"
)

// Sweeper executes sweep configurations: it builds the coordinate grid,
// resolves each sample through the two-tier cache, dispatches misses to the
// configured executor and assembles the results into a dense dataset.
type Sweeper struct {
	opts    options
	samples *cache.SampleCache
	results *cache.ResultCache
}

// New creates a Sweeper.
func New(optFns ...Option) *Sweeper {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	modes := cache.Modes{
		Enabled:   o.cacheSamples,
		Overwrite: o.overwriteSampleCache,
		ReadOnly:  o.onlyPlot,
	}
	return &Sweeper{
		opts: o,
		samples: cache.NewSampleCache(o.store, modes,
			cache.WithSampleCodec(o.codec),
			cache.WithSampleLogger(o.logger.Logger),
		),
		results: cache.NewResultCache(o.store,
			cache.WithResultCodec(o.codec),
			cache.WithResultLogger(o.logger.Logger),
		),
	}
}

// runReport carries per-run accounting for the scheduler.
type runReport struct {
	cached    bool
	samples   int
	hits      int
	committed bool
}

// Run executes one sweep at the given level and returns the assembled
// dataset.
//
// The dataset's contents are a pure function of the configuration and the
// worker: execution order and executor concurrency never change a single
// cell. On a worker failure the whole run aborts; nothing is committed to
// the result cache and only successfully computed samples reach the sample
// cache.
func (s *Sweeper) Run(ctx context.Context, cfg *Config, w *worker.Adapter, level int) (*dataset.Dataset, error) {
	ds, _, err := s.run(ctx, cfg, w, level)
	return ds, err
}

func (s *Sweeper) run(ctx context.Context, cfg *Config, w *worker.Adapter, level int) (*dataset.Dataset, runReport, error) {
	start := time.Now()

	if err := cfg.validate(); err != nil {
		return nil, runReport{}, err
	}
	runFP, err := cfg.RunFingerprint(level)
	if err != nil {
		return nil, runReport{}, err
	}
	scope, err := cfg.ScopeFingerprint()
	if err != nil {
		return nil, runReport{}, err
	}

	logger := s.opts.logger.WithSweep(cfg.Name)

	if s.opts.clearSampleCache {
		removed, err := s.samples.Clear(ctx, scope)
		if err != nil {
			logger.Warn("sample cache clear failed", "error", err)
		} else {
			logger.LogCacheClear(ctx, cfg.Name, removed)
		}
	}
	if s.opts.clearCache {
		if err := s.results.Delete(ctx, runFP); err != nil {
			logger.Warn("result cache clear failed", "error", err)
		}
	}

	if s.opts.cacheResults && !s.opts.clearCache {
		if ds, ok := s.results.Get(ctx, runFP); ok {
			logger.LogSweepCached(ctx, cfg.Name, runFP.String())
			s.opts.metrics.RecordSweep(0, 0, time.Since(start), nil)
			return ds, runReport{cached: true}, nil
		}
	}

	dims, err := cfg.dims(level)
	if err != nil {
		return nil, runReport{}, err
	}

	items, g, err := buildItems(cfg, dims)
	if err != nil {
		return nil, runReport{}, err
	}
	if s.opts.traversal == TraversalReversed {
		reverse(items)
	}

	asm, err := dataset.NewAssembler(dims, cfg.ResultVars)
	if err != nil {
		return nil, runReport{}, err
	}

	if cfg.PassRepeat {
		w.ForwardRepeat()
	}

	var hits atomic.Int64
	invoke := func(ctx context.Context, item executor.Item) (worker.Results, error) {
		sampleStart := time.Now()

		tuple := make([]variable.Value, len(cfg.InputVars))
		for i, v := range cfg.InputVars {
			tuple[i] = item.Inputs[v.Name()]
		}
		key := cache.NewSampleKey(scope, tuple, item.Repeat)

		res, outcome, err := s.samples.GetOrCompute(ctx, key, func(ctx context.Context) (worker.Results, error) {
			return w.Invoke(ctx, item.Inputs, item.Repeat)
		})
		hit := outcome == cache.OutcomeHit
		if hit {
			hits.Add(1)
		}
		s.opts.metrics.RecordSample(time.Since(sampleStart), hit, err)
		return res, err
	}

	logger.LogSweepStart(ctx, cfg.Name, level, cfg.repeats(), g.Size())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var firstErr error
	for res := range s.opts.executor.Run(runCtx, invoke, items) {
		if res.Err != nil {
			if firstErr == nil {
				firstErr = res.Err
				cancel() // stop dispatch, drain in-flight items
			}
			continue
		}
		if firstErr != nil {
			continue
		}
		if err := asm.Add(res.Index, res.Values); err != nil {
			firstErr = err
			cancel()
		}
	}
	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}

	report := runReport{samples: g.Size(), hits: int(hits.Load())}
	if firstErr != nil {
		s.opts.metrics.RecordSweep(g.Size(), report.hits, time.Since(start), firstErr)
		logger.LogSweepDone(ctx, cfg.Name, g.Size(), report.hits, time.Since(start), firstErr)
		return nil, report, translateError(firstErr)
	}

	ds, err := asm.Finalize()
	if err != nil {
		return nil, report, err
	}

	if s.opts.cacheResults {
		commitStart := time.Now()
		err := s.results.Put(ctx, runFP, ds)
		s.opts.metrics.RecordCommit(time.Since(commitStart), err)
		logger.LogCommit(ctx, cfg.Name, runFP.String(), err)
		report.committed = err == nil
	}

	s.opts.metrics.RecordSweep(g.Size(), report.hits, time.Since(start), nil)
	logger.LogSweepDone(ctx, cfg.Name, g.Size(), report.hits, time.Since(start), nil)
	return ds, report, nil
}

// buildItems enumerates the sample grid in canonical order: input variables
// in declared order, repeat index fastest.
func buildItems(cfg *Config, dims []dataset.Dim) ([]executor.Item, *grid.Grid, error) {
	sampleDims := dims
	if cfg.OverTime {
		sampleDims = dims[:len(dims)-1]
	}

	shape := make([]int, len(sampleDims))
	for i, d := range sampleDims {
		shape[i] = len(d.Coords)
	}
	g, err := grid.New(shape)
	if err != nil {
		return nil, nil, err
	}

	items := make([]executor.Item, g.Size())
	for flat := 0; flat < g.Size(); flat++ {
		idx, err := g.Coords(flat)
		if err != nil {
			return nil, nil, err
		}

		inputs := make(worker.Inputs, len(cfg.InputVars)+len(cfg.ConstVars))
		for i, v := range cfg.InputVars {
			inputs[v.Name()] = sampleDims[i].Coords[idx[i]]
		}
		for _, cv := range cfg.ConstVars {
			inputs[cv.Var.Name()] = cv.Value
		}

		items[flat] = executor.Item{
			Index:  flat,
			Inputs: inputs,
			Repeat: idx[len(idx)-1],
		}
	}
	return items, g, nil
}

func reverse(items []executor.Item) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
