package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/sweepgo/codec"
	"github.com/hupe1980/sweepgo/fingerprint"
	"github.com/hupe1980/sweepgo/store"
	"github.com/hupe1980/sweepgo/worker"
)

// ErrMiss is returned by read-only lookups when a sample is not cached.
var ErrMiss = errors.New("cache: sample not cached")

// Outcome reports how a sample was resolved.
type Outcome uint8

const (
	// OutcomeUncached means caching was disabled and the sample was computed.
	OutcomeUncached Outcome = iota
	// OutcomeHit means the sample was served from the cache.
	OutcomeHit
	// OutcomeComputed means the sample was computed and written back.
	OutcomeComputed
)

// Modes are the per-run cache controls.
type Modes struct {
	// Enabled turns sample caching on. When false every sample is
	// recomputed and nothing is written.
	Enabled bool
	// Overwrite bypasses lookups but still writes computed samples.
	Overwrite bool
	// ReadOnly turns a miss into an ErrMiss failure instead of computing.
	// Used when a run must be served entirely from cache.
	ReadOnly bool
}

type sampleEntry struct {
	Values    worker.Results `json:"values"`
	WrittenAt time.Time      `json:"written_at"`
}

// SampleCache memoizes individual worker invocations.
type SampleCache struct {
	store  store.Store
	codec  codec.Codec
	logger *slog.Logger
	modes  Modes
	group  singleflight.Group
}

// SampleOption customizes a SampleCache.
type SampleOption func(*SampleCache)

// WithSampleCodec sets the value codec. Defaults to codec.Default.
func WithSampleCodec(c codec.Codec) SampleOption {
	return func(s *SampleCache) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithSampleLogger sets the logger for storage degradation warnings.
func WithSampleLogger(l *slog.Logger) SampleOption {
	return func(s *SampleCache) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSampleCache creates a sample cache over the given store.
func NewSampleCache(st store.Store, modes Modes, opts ...SampleOption) *SampleCache {
	c := &SampleCache{
		store:  st,
		codec:  codec.Default,
		logger: slog.Default(),
		modes:  modes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type flightResult struct {
	values  worker.Results
	outcome Outcome
}

// GetOrCompute resolves one sample, consulting the cache per the configured
// modes. Concurrent calls for the same key within this process serialize on
// that key and share one computation; unrelated keys proceed in parallel.
func (c *SampleCache) GetOrCompute(ctx context.Context, key SampleKey, compute func(context.Context) (worker.Results, error)) (worker.Results, Outcome, error) {
	if !c.modes.Enabled {
		values, err := compute(ctx)
		return values, OutcomeUncached, err
	}

	v, err, _ := c.group.Do(key.flightKey(), func() (any, error) {
		return c.resolve(ctx, key, compute)
	})
	if err != nil {
		return nil, OutcomeUncached, err
	}
	fr := v.(flightResult)
	return fr.values.Clone(), fr.outcome, nil
}

func (c *SampleCache) resolve(ctx context.Context, key SampleKey, compute func(context.Context) (worker.Results, error)) (flightResult, error) {
	if !c.modes.Overwrite {
		if values, ok := c.lookup(ctx, key); ok {
			return flightResult{values: values, outcome: OutcomeHit}, nil
		}
	}

	if c.modes.ReadOnly {
		return flightResult{}, fmt.Errorf("%w: %s", ErrMiss, key)
	}

	values, err := compute(ctx)
	if err != nil {
		return flightResult{}, err
	}
	c.write(ctx, key, values)
	return flightResult{values: values, outcome: OutcomeComputed}, nil
}

// lookup returns a cached sample. Storage and decode failures are logged and
// reported as a miss so the sweep proceeds without the cache.
func (c *SampleCache) lookup(ctx context.Context, key SampleKey) (worker.Results, bool) {
	data, err := c.store.Get(ctx, key.storeKey())
	if errors.Is(err, store.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("sample cache read failed", "key", key.String(), "error", err)
		return nil, false
	}

	var entry sampleEntry
	if err := c.codec.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("sample cache entry corrupt", "key", key.String(), "error", err)
		return nil, false
	}
	return entry.Values, true
}

// write persists a computed sample. Last writer wins; values are pure
// functions of the key, so overwrites are harmless. Failures are logged and
// swallowed.
func (c *SampleCache) write(ctx context.Context, key SampleKey, values worker.Results) {
	data, err := c.codec.Marshal(sampleEntry{Values: values, WrittenAt: time.Now().UTC()})
	if err != nil {
		c.logger.Warn("sample cache encode failed", "key", key.String(), "error", err)
		return
	}
	if err := c.store.Put(ctx, key.storeKey(), data); err != nil {
		c.logger.Warn("sample cache write failed", "key", key.String(), "error", err)
	}
}

// Clear removes every entry whose scope fingerprint matches. Returns the
// number of removed entries.
func (c *SampleCache) Clear(ctx context.Context, scope fingerprint.Digest) (int, error) {
	keys, err := c.store.List(ctx, samplePrefix(scope))
	if err != nil {
		return 0, fmt.Errorf("cache: clear scope %s: %w", scope, err)
	}
	removed := 0
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			return removed, fmt.Errorf("cache: clear scope %s: %w", scope, err)
		}
		removed++
	}
	return removed, nil
}
