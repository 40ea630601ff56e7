package sweepgo

import (
	"github.com/hupe1980/sweepgo/dataset"
	"github.com/hupe1980/sweepgo/fingerprint"
	"github.com/hupe1980/sweepgo/variable"
)

// ConstVar pins a variable to a fixed value for the duration of a sweep.
// Const variables are excluded from the grid but participate in the
// fingerprint and are forwarded to every worker invocation.
type ConstVar struct {
	Var   *variable.Variable
	Value variable.Value
}

// Config declares one sweep: which variables span the grid, which results
// the worker produces, and how caching is scoped.
//
// A Config and its variables are built once per sweep invocation and must
// not be mutated after the sweep starts.
type Config struct {
	// Name identifies the sweep.
	Name string
	// Title is an optional display title; it participates in the
	// fingerprint because reports derived from the dataset embed it.
	Title string
	// Tag scopes cache sharing across otherwise-distinct sweeps.
	Tag string

	// InputVars declare the grid dimensions, in canonical order.
	InputVars []*variable.Variable
	// ResultVars declare the worker's output slots.
	ResultVars []*variable.Variable
	// ConstVars are pinned inputs outside the grid.
	ConstVars []ConstVar

	// Repeats is the number of independent re-executions per input tuple.
	// Values below 1 are treated as 1.
	Repeats int

	// OverTime adds a trailing time dimension; workers must return one
	// value per declared time coordinate for each result.
	OverTime bool
	// TimeCoords are the time dimension's coordinates when OverTime is set.
	TimeCoords []float64

	// PassRepeat forwards the repeat index to the worker under the
	// "repeat" input name.
	PassRepeat bool
	// OnlyHashTag scopes the sample cache by Tag alone, letting different
	// configurations share sample results.
	OnlyHashTag bool
}

func (c *Config) validate() error {
	if c.Name == "" {
		return &ConfigError{Field: "Name", Reason: "must not be empty"}
	}
	if len(c.InputVars) == 0 {
		return &ConfigError{Field: "InputVars", Reason: "at least one input variable is required"}
	}
	if len(c.ResultVars) == 0 {
		return &ConfigError{Field: "ResultVars", Reason: "at least one result variable is required"}
	}
	for _, v := range c.ResultVars {
		if v.Kind() != variable.KindResult {
			return &ConfigError{Field: "ResultVars", Reason: "variable " + v.Name() + " is not a result variable"}
		}
	}
	if c.OverTime && len(c.TimeCoords) == 0 {
		return &ConfigError{Field: "TimeCoords", Reason: "over-time sweeps require time coordinates"}
	}
	if c.OnlyHashTag && c.Tag == "" {
		return &ConfigError{Field: "Tag", Reason: "OnlyHashTag requires a tag"}
	}
	return nil
}

func (c *Config) repeats() int {
	if c.Repeats < 1 {
		return 1
	}
	return c.Repeats
}

// Fingerprint digests the sweep's declarative structure. With includeRepeats
// the digest distinguishes result-array shapes; without it the digest is
// invariant to the repeat count, for cross-run comparisons.
func (c *Config) Fingerprint(includeRepeats bool) (fingerprint.Digest, error) {
	if err := c.validate(); err != nil {
		return fingerprint.Zero, err
	}

	repeats := 0
	if includeRepeats {
		repeats = c.repeats()
	}
	acc := fingerprint.Of(c.Name, c.Title, c.OverTime, repeats, c.Tag, c.PassRepeat)
	if c.OverTime {
		for _, t := range c.TimeCoords {
			acc = fingerprint.Fold(acc, fingerprint.Of(t))
		}
	}
	for _, v := range c.InputVars {
		acc = fingerprint.Fold(acc, v.HashPersistent())
	}
	for _, v := range c.ResultVars {
		acc = fingerprint.Fold(acc, v.HashPersistent())
	}
	for _, cv := range c.ConstVars {
		acc = fingerprint.Fold(acc, fingerprint.Fold(cv.Var.HashPersistent(), cv.Value.Hash()))
	}
	return acc, nil
}

// RunFingerprint digests the configuration together with the grid it
// materializes at the given level. This is the benchmark-level cache key:
// unlike Fingerprint it distinguishes runs of the same configuration at
// different sampling levels.
func (c *Config) RunFingerprint(level int) (fingerprint.Digest, error) {
	acc, err := c.Fingerprint(true)
	if err != nil {
		return fingerprint.Zero, err
	}
	acc = fingerprint.Fold(acc, fingerprint.Of("grid"))
	for _, v := range c.InputVars {
		values, err := v.Values(level)
		if err != nil {
			return fingerprint.Zero, &ConfigError{Field: "InputVars", Reason: err.Error()}
		}
		for _, val := range values {
			acc = fingerprint.Fold(acc, val.Hash())
		}
	}
	return acc, nil
}

// ScopeFingerprint is the sample-cache scope: the full repeat-insensitive
// fingerprint, or the tag alone when OnlyHashTag is set.
func (c *Config) ScopeFingerprint() (fingerprint.Digest, error) {
	if c.OnlyHashTag {
		if c.Tag == "" {
			return fingerprint.Zero, &ConfigError{Field: "Tag", Reason: "OnlyHashTag requires a tag"}
		}
		return fingerprint.Of("tag", c.Tag), nil
	}
	return c.Fingerprint(false)
}

// withRepeats returns a shallow copy with a different repeat count. Used by
// the scheduler's repeat progression.
func (c *Config) withRepeats(n int) *Config {
	cp := *c
	cp.Repeats = n
	return &cp
}

// dims materializes the dataset dimensions at the given level: input
// variables in declared order, then repeat, then time for over-time sweeps.
func (c *Config) dims(level int) ([]dataset.Dim, error) {
	dims := make([]dataset.Dim, 0, len(c.InputVars)+2)
	for _, v := range c.InputVars {
		coords, err := v.Values(level)
		if err != nil {
			return nil, &ConfigError{Field: "InputVars", Reason: err.Error()}
		}
		dims = append(dims, dataset.Dim{Name: v.Name(), Coords: coords})
	}

	repeatCoords := make([]variable.Value, c.repeats())
	for i := range repeatCoords {
		repeatCoords[i] = variable.IntValue(int64(i))
	}
	dims = append(dims, dataset.Dim{Name: dataset.RepeatDim, Coords: repeatCoords})

	if c.OverTime {
		timeCoords := make([]variable.Value, len(c.TimeCoords))
		for i, t := range c.TimeCoords {
			timeCoords[i] = variable.FloatValue(t)
		}
		dims = append(dims, dataset.Dim{Name: dataset.TimeDim, Coords: timeCoords})
	}
	return dims, nil
}
