package variable

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/sweepgo/fingerprint"
)

// Kind identifies the variant of a Variable.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFloat
	KindInt
	KindEnum
	KindBool
	KindExternal
	KindResult
)

// String returns the kind's stable name.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	case KindBool:
		return "bool"
	case KindExternal:
		return "external"
	case KindResult:
		return "result"
	default:
		return "invalid"
	}
}

// DefaultSamples is the continuous-variable sample count used at level 0
// when the variable does not declare its own.
const DefaultSamples = 10

// Variable describes one dimension of a parameter space.
//
// Continuous kinds (float, int) sample their range at a density controlled by
// the sweep level; discrete kinds (enum, bool, external) always materialize
// their full domain. Result variables declare output slots and have no value
// list.
//
// A Variable must not be mutated after the sweep that owns it has started.
type Variable struct {
	name           string
	kind           Kind
	min, max       float64
	imin, imax     int64
	defaultSamples int
	domain         *Domain
	units          string
	doc            string
	axes           []string
}

// Option customizes a Variable at construction time.
type Option func(*Variable)

// WithDefaultSamples sets the sample count used at level 0 for continuous
// variables. Counts below 2 are raised to 2.
func WithDefaultSamples(n int) Option {
	return func(v *Variable) {
		if n < 2 {
			n = 2
		}
		v.defaultSamples = n
	}
}

// WithUnits attaches a display unit to the variable.
func WithUnits(units string) Option {
	return func(v *Variable) { v.units = units }
}

// WithDoc attaches a human-readable description.
func WithDoc(doc string) Option {
	return func(v *Variable) { v.doc = doc }
}

// WithAxes names the components of a vector-valued result variable, e.g.
// "x", "y", "z". Only meaningful for Result variables.
func WithAxes(axes ...string) Option {
	return func(v *Variable) { v.axes = axes }
}

// Float declares a continuous float dimension over [min, max].
func Float(name string, min, max float64, opts ...Option) *Variable {
	v := &Variable{name: name, kind: KindFloat, min: min, max: max, defaultSamples: DefaultSamples}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Int declares a continuous integer dimension over [min, max].
func Int(name string, min, max int64, opts ...Option) *Variable {
	v := &Variable{name: name, kind: KindInt, imin: min, imax: max, defaultSamples: DefaultSamples}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Enum declares a categorical dimension over an ordered value set. The first
// value is the domain default.
func Enum(name string, values []string, opts ...Option) (*Variable, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("variable %q: %w", name, ErrEmptyDomain)
	}
	d, err := NewDomain(values, values[0])
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	v := &Variable{name: name, kind: KindEnum, domain: d}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Bool declares a boolean dimension.
func Bool(name string, opts ...Option) *Variable {
	v := &Variable{name: name, kind: KindBool}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// External declares a categorical dimension whose values are loaded later.
// The domain must be populated via Domain().Update before the sweep starts.
func External(name string, opts ...Option) *Variable {
	v := &Variable{name: name, kind: KindExternal, domain: &Domain{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Result declares an output slot of the worker function.
func Result(name string, opts ...Option) *Variable {
	v := &Variable{name: name, kind: KindResult}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Kind returns the variable's kind.
func (v *Variable) Kind() Kind { return v.kind }

// Units returns the variable's display unit, if any.
func (v *Variable) Units() string { return v.units }

// Doc returns the variable's description, if any.
func (v *Variable) Doc() string { return v.doc }

// Axes returns the declared component names of a vector result.
func (v *Variable) Axes() []string { return v.axes }

// Domain returns the categorical domain for enum and external variables,
// nil otherwise.
func (v *Variable) Domain() *Domain {
	if v.kind == KindEnum || v.kind == KindExternal {
		return v.domain
	}
	return nil
}

// SampleCount returns the number of samples this variable contributes at the
// given level. For discrete kinds the level is ignored.
//
// For continuous kinds the curve is count(level) = 2^(level-1)+1 for
// level >= 1 (2, 3, 5, 9, ...); level <= 0 falls back to the variable's
// default sample count. Each level's float sample points are a subset of the
// next level's, so raising the level reuses previously cached samples.
func (v *Variable) SampleCount(level int) int {
	switch v.kind {
	case KindBool:
		return 2
	case KindEnum, KindExternal:
		return len(v.domain.Values())
	case KindFloat:
		return continuousCount(level, v.defaultSamples)
	case KindInt:
		n := continuousCount(level, v.defaultSamples)
		if span := v.imax - v.imin + 1; int64(n) > span {
			n = int(span)
		}
		return n
	default:
		return 0
	}
}

func continuousCount(level, def int) int {
	if level <= 0 {
		if def < 2 {
			def = DefaultSamples
		}
		return def
	}
	if level > 30 {
		level = 30
	}
	return 1<<(level-1) + 1
}

// Values materializes the ordered value list for this variable at the given
// level. Two calls with the same level return identical lists.
func (v *Variable) Values(level int) ([]Value, error) {
	switch v.kind {
	case KindBool:
		return []Value{BoolValue(false), BoolValue(true)}, nil
	case KindEnum, KindExternal:
		vals := v.domain.Values()
		if len(vals) == 0 {
			return nil, fmt.Errorf("variable %q: %w", v.name, ErrEmptyDomain)
		}
		out := make([]Value, len(vals))
		for i, s := range vals {
			out[i] = StringValue(s)
		}
		return out, nil
	case KindFloat:
		n := v.SampleCount(level)
		if n == 1 || v.min == v.max {
			return []Value{FloatValue(v.min)}, nil
		}
		pts := floats.Span(make([]float64, n), v.min, v.max)
		out := make([]Value, n)
		for i, p := range pts {
			out[i] = FloatValue(p)
		}
		return out, nil
	case KindInt:
		return v.intValues(level), nil
	default:
		return nil, fmt.Errorf("variable %q: kind %s has no value list", v.name, v.kind)
	}
}

func (v *Variable) intValues(level int) []Value {
	n := v.SampleCount(level)
	if n <= 1 || v.imin == v.imax {
		return []Value{IntValue(v.imin)}
	}
	pts := floats.Span(make([]float64, n), float64(v.imin), float64(v.imax))
	out := make([]Value, 0, n)
	var last int64
	for i, p := range pts {
		iv := int64(math.Round(p))
		if i > 0 && iv == last {
			continue // rounding collision at high density
		}
		out = append(out, IntValue(iv))
		last = iv
	}
	return out
}

// HashPersistent digests the variable's declaration: name, kind, bounds or
// domain, and the level-0 sample count. Runtime values never participate.
func (v *Variable) HashPersistent() fingerprint.Digest {
	switch v.kind {
	case KindFloat:
		return fingerprint.Of("var", v.name, v.kind.String(), v.min, v.max, v.defaultSamples)
	case KindInt:
		return fingerprint.Of("var", v.name, v.kind.String(), v.imin, v.imax, v.defaultSamples)
	case KindEnum, KindExternal:
		acc := fingerprint.Of("var", v.name, v.kind.String())
		for _, s := range v.domain.Values() {
			acc = fingerprint.Fold(acc, fingerprint.Of(s))
		}
		return acc
	case KindBool:
		return fingerprint.Of("var", v.name, v.kind.String())
	case KindResult:
		acc := fingerprint.Of("var", v.name, v.kind.String())
		for _, a := range v.axes {
			acc = fingerprint.Fold(acc, fingerprint.Of(a))
		}
		return acc
	default:
		return fingerprint.Of("var", v.name, "invalid")
	}
}
