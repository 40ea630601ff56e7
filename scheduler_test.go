package sweepgo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sweepgo/store"
	"github.com/hupe1980/sweepgo/worker"
)

func TestSchedulerCombos(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  []combo
	}{
		{
			name:  "RepeatsFirst",
			order: OrderRepeatsFirst,
			want: []combo{
				{1, 1}, {1, 2},
				{2, 1}, {2, 2},
				{3, 1}, {3, 2},
			},
		},
		{
			name:  "LevelFirst",
			order: OrderLevelFirst,
			want: []combo{
				{1, 1}, {2, 1}, {3, 1},
				{1, 2}, {2, 2}, {3, 2},
			},
		},
		{
			name:  "Alternating",
			order: OrderAlternating,
			want: []combo{
				{1, 1},
				{1, 2}, {2, 1},
				{2, 2}, {3, 1},
				{3, 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(New(WithLogger(NoopLogger())),
				WithLevels(1, 3),
				WithRepeatRange(1, 2),
				WithOrder(tt.order),
			)
			assert.Equal(t, tt.want, s.combos())
		})
	}
}

func TestSchedulerRun(t *testing.T) {
	ctx := context.Background()

	t.Run("ProgressiveReuse", func(t *testing.T) {
		var calls atomic.Int64
		cfg := lineSweep(t)
		sweeper := New(WithStore(store.NewMemoryStore()), WithLogger(NoopLogger()))

		s := NewScheduler(sweeper, WithLevels(1, 3), WithRepeatRange(1, 2))
		s.Register("line", cfg, mustAdapter(t, doubler(&calls)))

		results, err := s.Run(ctx)
		require.NoError(t, err)
		require.Len(t, results, 6)

		// Each level's float grid is a superset of the previous one, so the
		// whole schedule computes each distinct (x, repeat) pair exactly once:
		// 5 points at the finest level times 2 repeats.
		assert.EqualValues(t, 10, calls.Load())

		for _, res := range results {
			assert.Equal(t, StateCommitted, res.State, res.State.String())
			require.NotNil(t, res.Dataset)
			assert.NoError(t, res.Err)
		}
		assert.Equal(t, []int{2, 1}, results[0].Dataset.Shape())
		assert.Equal(t, []int{5, 2}, results[5].Dataset.Shape())
	})

	t.Run("RerunServedFromCache", func(t *testing.T) {
		cfg := lineSweep(t)
		sweeper := New(WithStore(store.NewMemoryStore()), WithLogger(NoopLogger()))
		w := mustAdapter(t, doubler(nil))

		s := NewScheduler(sweeper, WithLevels(1, 2))
		s.Register("line", cfg, w)

		_, err := s.Run(ctx)
		require.NoError(t, err)

		results, err := s.Run(ctx)
		require.NoError(t, err)
		for _, res := range results {
			assert.Equal(t, StateCached, res.State)
		}
	})

	t.Run("MultipleBenchmarks", func(t *testing.T) {
		sweeper := New(WithLogger(NoopLogger()))
		w := mustAdapter(t, doubler(nil))

		s := NewScheduler(sweeper)
		s.Register("a", lineSweep(t), w)
		s.Register("b", lineSweep(t), w)

		results, err := s.Run(ctx)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a", results[0].Benchmark)
		assert.Equal(t, "b", results[1].Benchmark)
	})

	t.Run("AbortReturnsPartialResults", func(t *testing.T) {
		boom := errors.New("boom")
		failing := worker.Func(func(_ context.Context, in worker.Inputs) (worker.Results, error) {
			// Only the finest grid contains x=0.25.
			if x, _ := in["x"].Float(); x == 0.25 {
				return nil, boom
			}
			res := worker.Results{}
			res.Set("y", 1)
			return res, nil
		})

		sweeper := New(WithStore(store.NewMemoryStore()), WithLogger(NoopLogger()))
		s := NewScheduler(sweeper, WithLevels(1, 3))
		s.Register("line", lineSweep(t), mustAdapter(t, failing))

		results, err := s.Run(ctx)
		require.ErrorIs(t, err, boom)
		require.Len(t, results, 3)

		assert.Equal(t, StateCommitted, results[0].State)
		assert.Equal(t, StateCommitted, results[1].State)
		assert.Equal(t, StateAborted, results[2].State)
		assert.Error(t, results[2].Err)
		assert.Nil(t, results[2].Dataset)
	})

	t.Run("Validation", func(t *testing.T) {
		var cerr *ConfigError

		_, err := NewScheduler(New(WithLogger(NoopLogger()))).Run(ctx)
		require.ErrorAs(t, err, &cerr)

		s := NewScheduler(New(WithLogger(NoopLogger())), WithLevels(3, 1))
		s.Register("line", lineSweep(t), mustAdapter(t, doubler(nil)))
		_, err = s.Run(ctx)
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Levels", cerr.Field)
	})
}
