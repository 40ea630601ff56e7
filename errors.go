package sweepgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sweepgo/cache"
	"github.com/hupe1980/sweepgo/worker"
)

var (
	// ErrCacheMiss is returned in only-plot mode when the sweep is not fully
	// cached.
	ErrCacheMiss = errors.New("sweep is not fully cached")
)

// ConfigError indicates a malformed sweep declaration. It is surfaced before
// any sample executes.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid sweep config: %s: %s", e.Field, e.Reason)
}

// WorkerError wraps a failure raised by user code during one sample. Use
// errors.As to recover the failing input tuple and repeat index.
type WorkerError = worker.Error

// translateError maps internal sentinels onto the public error contract.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, cache.ErrMiss) {
		return fmt.Errorf("%w: %w", ErrCacheMiss, err)
	}
	return err
}
