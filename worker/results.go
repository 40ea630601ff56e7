package worker

import (
	"maps"
	"slices"

	"github.com/hupe1980/sweepgo/variable"
)

// Inputs carries one coordinate of the sweep grid, keyed by variable name.
type Inputs map[string]variable.Value

// Clone returns a shallow copy of the inputs.
func (in Inputs) Clone() Inputs {
	return maps.Clone(in)
}

// Names returns the input names in sorted order.
func (in Inputs) Names() []string {
	names := slices.Collect(maps.Keys(in))
	slices.Sort(names)
	return names
}

// Results holds one invocation's outputs, keyed by result-variable name.
// Scalars are stored as single-element slices; vector and per-timestep
// results use longer slices.
type Results map[string][]float64

// Set stores a scalar result.
func (r Results) Set(name string, v float64) {
	r[name] = []float64{v}
}

// SetVector stores a vector result.
func (r Results) SetVector(name string, vs ...float64) {
	r[name] = slices.Clone(vs)
}

// Scalar returns a scalar result. ok is false when the result is missing or
// not scalar.
func (r Results) Scalar(name string) (float64, bool) {
	vs, ok := r[name]
	if !ok || len(vs) != 1 {
		return 0, false
	}
	return vs[0], true
}

// Clone returns a deep copy of the results.
func (r Results) Clone() Results {
	out := make(Results, len(r))
	for k, vs := range r {
		out[k] = slices.Clone(vs)
	}
	return out
}
