package sweepgo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sweepgo/dataset"
	"github.com/hupe1980/sweepgo/executor"
	"github.com/hupe1980/sweepgo/store"
	"github.com/hupe1980/sweepgo/variable"
	"github.com/hupe1980/sweepgo/worker"
)

func mustAdapter(t *testing.T, w any, opts ...worker.AdapterOption) *worker.Adapter {
	t.Helper()
	a, err := worker.NewAdapter(w, opts...)
	require.NoError(t, err)
	return a
}

// doubler computes y = 2x and counts invocations.
func doubler(calls *atomic.Int64) worker.Func {
	return func(_ context.Context, in worker.Inputs) (worker.Results, error) {
		if calls != nil {
			calls.Add(1)
		}
		x, _ := in["x"].Float()
		res := worker.Results{}
		res.Set("y", 2*x)
		return res, nil
	}
}

func lineSweep(t *testing.T) *Config {
	t.Helper()
	cfg, err := NewSweep("line").
		Inputs(variable.Float("x", 0, 1)).
		Results(variable.Result("y")).
		Repeats(2).
		Build()
	require.NoError(t, err)
	return cfg
}

func TestSweeperRun(t *testing.T) {
	ctx := context.Background()

	t.Run("ShapeAndValues", func(t *testing.T) {
		cfg := lineSweep(t)
		s := New(WithLogger(NoopLogger()))

		ds, err := s.Run(ctx, cfg, mustAdapter(t, doubler(nil)), 2)
		require.NoError(t, err)

		require.Len(t, ds.Dims, 2)
		assert.Equal(t, "x", ds.Dims[0].Name)
		assert.Equal(t, dataset.RepeatDim, ds.Dims[1].Name)
		assert.Equal(t, []int{3, 2}, ds.Shape())

		for i, want := range []float64{0, 0.5, 1} {
			coord, _ := ds.Dims[0].Coords[i].Float()
			assert.InDelta(t, want, coord, 1e-12)
			for r := 0; r < 2; r++ {
				got, err := ds.At("y", i, r)
				require.NoError(t, err)
				assert.InDelta(t, 2*want, got, 1e-12)
			}
		}
	})

	t.Run("TraversalInvariance", func(t *testing.T) {
		cfg := lineSweep(t)
		w := mustAdapter(t, doubler(nil))

		base, err := New(WithLogger(NoopLogger())).Run(ctx, cfg, w, 3)
		require.NoError(t, err)

		variants := []Option{
			WithTraversal(TraversalReversed),
			WithExecutor(executor.NewPool(4)),
		}
		for _, opt := range variants {
			ds, err := New(WithLogger(NoopLogger()), opt).Run(ctx, cfg, w, 3)
			require.NoError(t, err)
			assert.True(t, base.Equal(ds))
		}

		ds, err := New(
			WithLogger(NoopLogger()),
			WithTraversal(TraversalReversed),
			WithExecutor(executor.NewPool(4)),
		).Run(ctx, cfg, w, 3)
		require.NoError(t, err)
		assert.True(t, base.Equal(ds))
	})

	t.Run("ResultCacheShortCircuit", func(t *testing.T) {
		cfg := lineSweep(t)
		var calls atomic.Int64
		s := New(WithLogger(NoopLogger()))
		w := mustAdapter(t, doubler(&calls))

		first, err := s.Run(ctx, cfg, w, 2)
		require.NoError(t, err)
		require.EqualValues(t, 6, calls.Load())

		second, err := s.Run(ctx, cfg, w, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 6, calls.Load(), "second run must be served from the result cache")
		assert.True(t, first.Equal(second))
	})

	t.Run("LevelsDoNotCollideInResultCache", func(t *testing.T) {
		cfg := lineSweep(t)
		s := New(WithLogger(NoopLogger()))
		w := mustAdapter(t, doubler(nil))

		coarse, err := s.Run(ctx, cfg, w, 1)
		require.NoError(t, err)
		fine, err := s.Run(ctx, cfg, w, 2)
		require.NoError(t, err)

		assert.Equal(t, []int{2, 2}, coarse.Shape())
		assert.Equal(t, []int{3, 2}, fine.Shape())
	})

	t.Run("SampleCacheSharedByTag", func(t *testing.T) {
		st := store.NewMemoryStore()
		var calls atomic.Int64
		w := mustAdapter(t, doubler(&calls))

		build := func(name string) *Config {
			cfg, err := NewSweep(name).
				Tag("shared-experiments").
				OnlyHashTag().
				Inputs(variable.Float("x", 0, 1)).
				Results(variable.Result("y")).
				Build()
			require.NoError(t, err)
			return cfg
		}

		_, err := New(WithStore(st), WithLogger(NoopLogger())).Run(ctx, build("first"), w, 2)
		require.NoError(t, err)
		require.EqualValues(t, 3, calls.Load())

		// A differently named sweep with the same tag reuses every sample.
		_, err = New(WithStore(st), WithLogger(NoopLogger())).Run(ctx, build("second"), w, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("OnlyPlot", func(t *testing.T) {
		cfg := lineSweep(t)
		st := store.NewMemoryStore()

		_, err := New(WithStore(st), WithLogger(NoopLogger()), WithOnlyPlot()).
			Run(ctx, cfg, mustAdapter(t, doubler(nil)), 2)
		require.ErrorIs(t, err, ErrCacheMiss)

		// Populate, then replay without touching the worker.
		want, err := New(WithStore(st), WithLogger(NoopLogger())).
			Run(ctx, cfg, mustAdapter(t, doubler(nil)), 2)
		require.NoError(t, err)

		poison := mustAdapter(t, worker.Func(func(context.Context, worker.Inputs) (worker.Results, error) {
			return nil, errors.New("worker must not run in only-plot mode")
		}))
		got, err := New(WithStore(st), WithLogger(NoopLogger()), WithOnlyPlot()).
			Run(ctx, cfg, poison, 2)
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	})

	t.Run("WorkerErrorAborts", func(t *testing.T) {
		cfg := lineSweep(t)
		st := store.NewMemoryStore()
		boom := errors.New("boom")

		failing := worker.Func(func(_ context.Context, in worker.Inputs) (worker.Results, error) {
			if x, _ := in["x"].Float(); x > 0.4 {
				return nil, boom
			}
			res := worker.Results{}
			res.Set("y", 0)
			return res, nil
		})

		_, err := New(WithStore(st), WithLogger(NoopLogger())).
			Run(ctx, cfg, mustAdapter(t, failing), 2)
		require.Error(t, err)
		require.ErrorIs(t, err, boom)

		var werr *WorkerError
		require.ErrorAs(t, err, &werr)
		failedAt, _ := werr.Inputs["x"].Float()
		assert.InDelta(t, 0.5, failedAt, 1e-12)

		// Nothing committed to the result cache.
		keys, lerr := st.List(ctx, "results/")
		require.NoError(t, lerr)
		assert.Empty(t, keys)
	})

	t.Run("ConstVars", func(t *testing.T) {
		cfg, err := NewSweep("offset").
			Inputs(variable.Float("x", 0, 1)).
			Results(variable.Result("y")).
			Const(variable.Float("c", 0, 10), variable.FloatValue(4)).
			Build()
		require.NoError(t, err)

		adder := worker.Func(func(_ context.Context, in worker.Inputs) (worker.Results, error) {
			x, _ := in["x"].Float()
			c, _ := in["c"].Float()
			res := worker.Results{}
			res.Set("y", x+c)
			return res, nil
		})

		ds, err := New(WithLogger(NoopLogger())).Run(ctx, cfg, mustAdapter(t, adder), 2)
		require.NoError(t, err)

		for i, x := range []float64{0, 0.5, 1} {
			got, err := ds.At("y", i, 0)
			require.NoError(t, err)
			assert.InDelta(t, x+4, got, 1e-12)
		}
	})

	t.Run("PassRepeat", func(t *testing.T) {
		cfg, err := NewSweep("seeded").
			Inputs(variable.Float("x", 0, 1)).
			Results(variable.Result("y")).
			Repeats(3).
			PassRepeat().
			Build()
		require.NoError(t, err)

		echo := worker.Func(func(_ context.Context, in worker.Inputs) (worker.Results, error) {
			r, ok := in[worker.MetaRepeat].Int()
			if !ok {
				return nil, errors.New("repeat index not forwarded")
			}
			res := worker.Results{}
			res.Set("y", float64(r))
			return res, nil
		})

		ds, err := New(WithLogger(NoopLogger())).Run(ctx, cfg, mustAdapter(t, echo), 1)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			for r := 0; r < 3; r++ {
				got, err := ds.At("y", i, r)
				require.NoError(t, err)
				assert.EqualValues(t, r, got)
			}
		}
	})

	t.Run("OverTime", func(t *testing.T) {
		times := []float64{0, 1, 2, 3}
		cfg, err := NewSweep("trajectory").
			Inputs(variable.Float("x", 0, 1)).
			Results(variable.Result("y")).
			OverTime(times...).
			Build()
		require.NoError(t, err)

		tracer := worker.Func(func(_ context.Context, in worker.Inputs) (worker.Results, error) {
			x, _ := in["x"].Float()
			vs := make([]float64, len(times))
			for i, tm := range times {
				vs[i] = x + tm
			}
			res := worker.Results{}
			res.SetVector("y", vs...)
			return res, nil
		})

		ds, err := New(WithLogger(NoopLogger())).Run(ctx, cfg, mustAdapter(t, tracer), 2)
		require.NoError(t, err)

		require.Len(t, ds.Dims, 3)
		assert.Equal(t, dataset.TimeDim, ds.Dims[2].Name)
		for i, x := range []float64{0, 0.5, 1} {
			for k, tm := range times {
				got, err := ds.At("y", i, 0, k)
				require.NoError(t, err)
				assert.InDelta(t, x+tm, got, 1e-12)
			}
		}
	})

	t.Run("ClearSampleCache", func(t *testing.T) {
		cfg := lineSweep(t)
		st := store.NewMemoryStore()
		var calls atomic.Int64
		w := mustAdapter(t, doubler(&calls))

		_, err := New(WithStore(st), WithLogger(NoopLogger())).Run(ctx, cfg, w, 2)
		require.NoError(t, err)
		require.EqualValues(t, 6, calls.Load())

		_, err = New(
			WithStore(st),
			WithLogger(NoopLogger()),
			WithClearCache(),
			WithClearSampleCache(),
		).Run(ctx, cfg, w, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 12, calls.Load())
	})

	t.Run("OverwriteSampleCache", func(t *testing.T) {
		cfg := lineSweep(t)
		st := store.NewMemoryStore()
		var calls atomic.Int64
		w := mustAdapter(t, doubler(&calls))

		_, err := New(WithStore(st), WithLogger(NoopLogger())).Run(ctx, cfg, w, 2)
		require.NoError(t, err)
		require.EqualValues(t, 6, calls.Load())

		_, err = New(
			WithStore(st),
			WithLogger(NoopLogger()),
			WithClearCache(),
			WithOverwriteSampleCache(),
		).Run(ctx, cfg, w, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 12, calls.Load())
	})

	t.Run("CachingDisabled", func(t *testing.T) {
		cfg := lineSweep(t)
		var calls atomic.Int64
		s := New(
			WithLogger(NoopLogger()),
			WithSampleCaching(false),
			WithResultCaching(false),
		)
		w := mustAdapter(t, doubler(&calls))

		_, err := s.Run(ctx, cfg, w, 2)
		require.NoError(t, err)
		_, err = s.Run(ctx, cfg, w, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 12, calls.Load())
	})

	t.Run("Metrics", func(t *testing.T) {
		cfg := lineSweep(t)
		var metrics BasicMetricsCollector
		s := New(WithLogger(NoopLogger()), WithMetricsCollector(&metrics))

		_, err := s.Run(ctx, cfg, mustAdapter(t, doubler(nil)), 2)
		require.NoError(t, err)

		assert.EqualValues(t, 6, metrics.SampleCount.Load())
		assert.EqualValues(t, 0, metrics.SampleErrors.Load())
		assert.EqualValues(t, 1, metrics.SweepCount.Load())
		assert.EqualValues(t, 1, metrics.CommitCount.Load())
	})
}

func TestConfigFingerprint(t *testing.T) {
	base := func() *Config {
		cfg, err := NewSweep("fp").
			Inputs(variable.Float("x", 0, 1)).
			Results(variable.Result("y")).
			Repeats(1).
			Build()
		require.NoError(t, err)
		return cfg
	}

	t.Run("Stable", func(t *testing.T) {
		a, err := base().Fingerprint(true)
		require.NoError(t, err)
		b, err := base().Fingerprint(true)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("RepeatsSensitivity", func(t *testing.T) {
		one, two := base(), base().withRepeats(2)

		a, err := one.Fingerprint(false)
		require.NoError(t, err)
		b, err := two.Fingerprint(false)
		require.NoError(t, err)
		assert.Equal(t, a, b)

		a, err = one.Fingerprint(true)
		require.NoError(t, err)
		b, err = two.Fingerprint(true)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("LevelSensitivity", func(t *testing.T) {
		a, err := base().RunFingerprint(1)
		require.NoError(t, err)
		b, err := base().RunFingerprint(2)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("VariableSensitivity", func(t *testing.T) {
		other, err := NewSweep("fp").
			Inputs(variable.Float("x", 0, 2)).
			Results(variable.Result("y")).
			Repeats(1).
			Build()
		require.NoError(t, err)

		a, err := base().Fingerprint(true)
		require.NoError(t, err)
		b, err := other.Fingerprint(true)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestBuilderValidation(t *testing.T) {
	x := variable.Float("x", 0, 1)
	y := variable.Result("y")

	tests := []struct {
		name    string
		builder Builder
		field   string
	}{
		{
			name:    "MissingName",
			builder: NewSweep("").Inputs(x).Results(y),
			field:   "Name",
		},
		{
			name:    "NoInputs",
			builder: NewSweep("s").Results(y),
			field:   "InputVars",
		},
		{
			name:    "NoResults",
			builder: NewSweep("s").Inputs(x),
			field:   "ResultVars",
		},
		{
			name:    "NonResultOutput",
			builder: NewSweep("s").Inputs(x).Results(variable.Float("bad", 0, 1)),
			field:   "ResultVars",
		},
		{
			name:    "OnlyHashTagWithoutTag",
			builder: NewSweep("s").Inputs(x).Results(y).OnlyHashTag(),
			field:   "Tag",
		},
		{
			name:    "OverTimeWithoutCoords",
			builder: NewSweep("s").Inputs(x).Results(y).OverTime(),
			field:   "TimeCoords",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}
