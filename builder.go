package sweepgo

import (
	"slices"

	"github.com/hupe1980/sweepgo/variable"
)

// NewSweep creates a fluent builder for a sweep configuration.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	cfg, err := sweepgo.NewSweep("decay").
//	    Tag("experiments-v1").
//	    Inputs(variable.Float("rate", 0, 1)).
//	    Results(variable.Result("half_life")).
//	    Repeats(2).
//	    Build()
func NewSweep(name string) Builder {
	return Builder{cfg: Config{Name: name}}
}

// Builder is an immutable fluent builder for sweep configurations.
type Builder struct {
	cfg Config
}

// Title sets the sweep's display title.
func (b Builder) Title(title string) Builder {
	b.cfg.Title = title
	return b
}

// Tag sets the cache-sharing tag.
func (b Builder) Tag(tag string) Builder {
	b.cfg.Tag = tag
	return b
}

// Inputs appends grid input variables, in canonical order.
func (b Builder) Inputs(vars ...*variable.Variable) Builder {
	b.cfg.InputVars = append(slices.Clone(b.cfg.InputVars), vars...)
	return b
}

// Results appends result variable declarations.
func (b Builder) Results(vars ...*variable.Variable) Builder {
	b.cfg.ResultVars = append(slices.Clone(b.cfg.ResultVars), vars...)
	return b
}

// Const pins a variable to a fixed value outside the grid.
func (b Builder) Const(v *variable.Variable, value variable.Value) Builder {
	b.cfg.ConstVars = append(slices.Clone(b.cfg.ConstVars), ConstVar{Var: v, Value: value})
	return b
}

// Repeats sets the number of independent re-executions per input tuple.
func (b Builder) Repeats(n int) Builder {
	b.cfg.Repeats = n
	return b
}

// OverTime adds a trailing time dimension with the given coordinates.
func (b Builder) OverTime(times ...float64) Builder {
	b.cfg.OverTime = true
	b.cfg.TimeCoords = slices.Clone(times)
	return b
}

// PassRepeat forwards the repeat index to the worker.
func (b Builder) PassRepeat() Builder {
	b.cfg.PassRepeat = true
	return b
}

// OnlyHashTag scopes the sample cache by tag alone.
func (b Builder) OnlyHashTag() Builder {
	b.cfg.OnlyHashTag = true
	return b
}

// Build validates and returns the configuration.
func (b Builder) Build() (*Config, error) {
	cfg := b.cfg
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
