package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sweepgo/variable"
)

func TestAdapterFunc(t *testing.T) {
	ctx := context.Background()

	t.Run("PassesInputs", func(t *testing.T) {
		a, err := NewAdapter(func(_ context.Context, in Inputs) (Results, error) {
			x, _ := in["x"].Float()
			res := Results{}
			res.Set("y", x*2)
			return res, nil
		})
		require.NoError(t, err)

		res, err := a.Invoke(ctx, Inputs{"x": variable.FloatValue(3)}, 0)
		require.NoError(t, err)
		y, ok := res.Scalar("y")
		require.True(t, ok)
		assert.Equal(t, 6.0, y)
	})

	t.Run("StripsMetaInputs", func(t *testing.T) {
		var seen Inputs
		a, err := NewAdapter(func(_ context.Context, in Inputs) (Results, error) {
			seen = in.Clone()
			return Results{}, nil
		})
		require.NoError(t, err)

		in := Inputs{
			"x":           variable.FloatValue(1),
			MetaRepeat:    variable.IntValue(4),
			MetaTimeEvent: variable.StringValue("tick"),
			MetaOverTime:  variable.BoolValue(true),
		}
		_, err = a.Invoke(ctx, in, 4)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, seen.Names())
	})

	t.Run("PassRepeat", func(t *testing.T) {
		var seen Inputs
		a, err := NewAdapter(func(_ context.Context, in Inputs) (Results, error) {
			seen = in.Clone()
			return Results{}, nil
		}, WithPassRepeat())
		require.NoError(t, err)

		_, err = a.Invoke(ctx, Inputs{"x": variable.FloatValue(1)}, 7)
		require.NoError(t, err)
		r, ok := seen[MetaRepeat].Int()
		require.True(t, ok)
		assert.Equal(t, int64(7), r)
	})

	t.Run("WrapsErrors", func(t *testing.T) {
		boom := errors.New("boom")
		a, err := NewAdapter(func(context.Context, Inputs) (Results, error) {
			return nil, boom
		})
		require.NoError(t, err)

		_, err = a.Invoke(ctx, Inputs{"x": variable.FloatValue(1)}, 2)
		var werr *Error
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, 2, werr.Repeat)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, werr.Error(), "x=1")
	})
}

func TestAdapterTuple(t *testing.T) {
	ctx := context.Background()

	t.Run("DeclaredOrder", func(t *testing.T) {
		a, err := NewAdapter(func(_ context.Context, args []variable.Value) (Results, error) {
			require.Len(t, args, 2)
			first, _ := args[0].Str()
			second, _ := args[1].Float()
			res := Results{}
			res.Set("len", float64(len(first))+second)
			return res, nil
		}, WithOrder("name", "x"))
		require.NoError(t, err)

		res, err := a.Invoke(ctx, Inputs{
			"x":    variable.FloatValue(1),
			"name": variable.StringValue("abc"),
		}, 0)
		require.NoError(t, err)
		v, _ := res.Scalar("len")
		assert.Equal(t, 4.0, v)
	})

	t.Run("RequiresOrder", func(t *testing.T) {
		_, err := NewAdapter(func(context.Context, []variable.Value) (Results, error) {
			return Results{}, nil
		})
		require.Error(t, err)
	})

	t.Run("MissingInput", func(t *testing.T) {
		a, err := NewAdapter(func(context.Context, []variable.Value) (Results, error) {
			return Results{}, nil
		}, WithOrder("x", "y"))
		require.NoError(t, err)

		_, err = a.Invoke(ctx, Inputs{"x": variable.FloatValue(1)}, 0)
		require.Error(t, err)
	})
}

type countingBench struct {
	x       float64
	invokes int
}

func (b *countingBench) SetInput(name string, v variable.Value) error {
	if name != "x" {
		return errors.New("unknown input")
	}
	f, _ := v.Float()
	b.x = f
	return nil
}

func (b *countingBench) Invoke(context.Context) error {
	b.invokes++
	return nil
}

func (b *countingBench) Results() Results {
	res := Results{}
	res.Set("x2", b.x*b.x)
	return res
}

func TestAdapterBench(t *testing.T) {
	ctx := context.Background()
	bench := &countingBench{}

	a, err := NewAdapter(Bench(bench))
	require.NoError(t, err)

	res, err := a.Invoke(ctx, Inputs{"x": variable.FloatValue(3)}, 0)
	require.NoError(t, err)
	v, _ := res.Scalar("x2")
	assert.Equal(t, 9.0, v)
	assert.Equal(t, 1, bench.invokes)

	// Results are copied out; mutating the returned map cannot corrupt the
	// bench's next invocation.
	res.Set("x2", -1)
	res2, err := a.Invoke(ctx, Inputs{"x": variable.FloatValue(2)}, 1)
	require.NoError(t, err)
	v2, _ := res2.Scalar("x2")
	assert.Equal(t, 4.0, v2)
}

func TestAdapterRejectsUnknownShape(t *testing.T) {
	_, err := NewAdapter(42)
	require.Error(t, err)
}
