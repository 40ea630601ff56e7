package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sweepgo/store"
)

func TestStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(ctx, "samples/a/r0", []byte("one")))
	require.NoError(t, s.Put(ctx, "samples/a/r1", []byte("two")))
	require.NoError(t, s.Put(ctx, "results/b", []byte("three")))

	got, err := s.Get(ctx, "samples/a/r0")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	t.Run("Upsert", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "samples/a/r0", []byte("ONE")))
		got, err := s.Get(ctx, "samples/a/r0")
		require.NoError(t, err)
		assert.Equal(t, []byte("ONE"), got)
	})

	t.Run("List", func(t *testing.T) {
		keys, err := s.List(ctx, "samples/a/")
		require.NoError(t, err)
		assert.Equal(t, []string{"samples/a/r0", "samples/a/r1"}, keys)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "samples/a/r0"))
		_, err := s.Get(ctx, "samples/a/r0")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, s.Delete(ctx, "samples/a/r0"))
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "persist.db")
		first, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, first.Put(ctx, "k", []byte("v")))
		require.NoError(t, first.Close())

		second, err := Open(path)
		require.NoError(t, err)
		defer second.Close()
		got, err := second.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})
}
