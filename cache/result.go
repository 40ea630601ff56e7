package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/sweepgo/codec"
	"github.com/hupe1980/sweepgo/dataset"
	"github.com/hupe1980/sweepgo/fingerprint"
	"github.com/hupe1980/sweepgo/store"
)

type resultEntry struct {
	Dataset   *dataset.Dataset `json:"dataset"`
	WrittenAt time.Time        `json:"written_at"`
}

// ResultCache memoizes whole assembled sweep datasets, keyed by the sweep's
// repeat-sensitive fingerprint.
//
// Entries are written exactly once, after a sweep fully completes; the
// underlying store's atomic Put guarantees readers never see a partial
// dataset.
type ResultCache struct {
	store  store.Store
	codec  codec.Codec
	logger *slog.Logger
}

// ResultOption customizes a ResultCache.
type ResultOption func(*ResultCache)

// WithResultCodec sets the dataset codec. Defaults to codec.Default.
func WithResultCodec(c codec.Codec) ResultOption {
	return func(r *ResultCache) {
		if c != nil {
			r.codec = c
		}
	}
}

// WithResultLogger sets the logger for storage degradation warnings.
func WithResultLogger(l *slog.Logger) ResultOption {
	return func(r *ResultCache) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResultCache creates a result cache over the given store.
func NewResultCache(st store.Store, opts ...ResultOption) *ResultCache {
	c := &ResultCache{store: st, codec: codec.Default, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a cached dataset. Storage and decode failures are logged and
// reported as a miss.
func (c *ResultCache) Get(ctx context.Context, dg fingerprint.Digest) (*dataset.Dataset, bool) {
	data, err := c.store.Get(ctx, resultKey(dg))
	if errors.Is(err, store.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("result cache read failed", "fingerprint", dg.String(), "error", err)
		return nil, false
	}

	var entry resultEntry
	if err := c.codec.Unmarshal(data, &entry); err != nil || entry.Dataset == nil {
		c.logger.Warn("result cache entry corrupt", "fingerprint", dg.String(), "error", err)
		return nil, false
	}
	return entry.Dataset, true
}

// Put commits a completed dataset.
func (c *ResultCache) Put(ctx context.Context, dg fingerprint.Digest, ds *dataset.Dataset) error {
	data, err := c.codec.Marshal(resultEntry{Dataset: ds, WrittenAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("cache: encode result %s: %w", dg, err)
	}
	if err := c.store.Put(ctx, resultKey(dg), data); err != nil {
		return fmt.Errorf("cache: write result %s: %w", dg, err)
	}
	return nil
}

// Delete removes a cached dataset.
func (c *ResultCache) Delete(ctx context.Context, dg fingerprint.Digest) error {
	if err := c.store.Delete(ctx, resultKey(dg)); err != nil {
		return fmt.Errorf("cache: delete result %s: %w", dg, err)
	}
	return nil
}
