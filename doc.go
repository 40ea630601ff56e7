// Package sweepgo sweeps a declared multi-dimensional parameter space
// through a user-supplied worker function and assembles the results into a
// dense labeled N-dimensional dataset.
//
// Sweepgo provides:
//
//   - Declarative sweep variables: float/int ranges, enums, bools and
//     externally loaded sets, sampled at a density controlled by a level knob
//   - Deterministic, process-independent fingerprints of sweep declarations
//   - Two-tier memoization: a sample cache for individual worker invocations
//     and a result cache for whole assembled datasets
//   - Pluggable cache storage: in-memory, local directory, SQLite,
//     S3-compatible object storage, with optional zstd/lz4 compression
//   - Pluggable execution: serial or bounded goroutine pool, with per-key
//     computation dedup under concurrency
//   - Order-invariant assembly: the dataset is bit-identical for any
//     execution order or degree of parallelism
//   - A progressive scheduler driving (level × repeats × benchmark)
//     combinations in a selectable traversal order
//
// # Quick Start
//
// Declare a sweep and run it:
//
//	cfg, err := sweepgo.NewSweep("decay").
//	    Tag("experiments-v1").
//	    Inputs(variable.Float("rate", 0, 1)).
//	    Results(variable.Result("half_life")).
//	    Repeats(2).
//	    Build()
//	if err != nil {
//	    panic(err)
//	}
//
//	w, _ := worker.NewAdapter(func(ctx context.Context, in worker.Inputs) (worker.Results, error) {
//	    rate, _ := in["rate"].Float()
//	    res := worker.Results{}
//	    res.Set("half_life", math.Ln2/rate)
//	    return res, nil
//	})
//
//	s := sweepgo.New(
//	    sweepgo.WithStore(localStore),
//	    sweepgo.WithExecutor(executor.NewPool(8)),
//	)
//	ds, err := s.Run(ctx, cfg, w, 3)
//
// The returned dataset has one dimension per input variable, in declaration
// order, plus a trailing repeat dimension. Hand it to your reporting layer
// read-only; reduce over repeats with ds.ReduceOverRepeat().
//
// # Caching
//
// Every sample is memoized under a fingerprint of the sweep's declaration,
// the input tuple and the repeat index, so re-running a sweep (or a denser
// sweep whose grid is a superset) recomputes only what is new. Completed
// sweeps are additionally cached whole and short-circuit the entire
// pipeline on the next run. Sharing a Tag between sweeps (with OnlyHashTag)
// lets different configurations share sample results.
//
// # Progressive runs
//
// The Scheduler walks a range of levels and repeat counts across registered
// benchmarks, so cheap low-fidelity results arrive early and later runs
// refine them while reusing the sample cache:
//
//	sch := sweepgo.NewScheduler(s,
//	    sweepgo.WithLevels(1, 4),
//	    sweepgo.WithRepeatRange(1, 3),
//	    sweepgo.WithOrder(sweepgo.OrderRepeatsFirst),
//	)
//	sch.Register("decay", cfg, w)
//	results, err := sch.Run(ctx)
package sweepgo
