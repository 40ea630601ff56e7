package dataset

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sweepgo/internal/grid"
	"github.com/hupe1980/sweepgo/variable"
)

// Assembler folds coordinate-tagged results into a dense dataset.
//
// Arrays are pre-allocated and NaN-filled; each Add writes directly into the
// result's coordinate slot, so arrival order never affects the outcome.
// Filled slots are tracked in a bitmap and Finalize refuses to produce a
// dataset with holes.
type Assembler struct {
	dims       []Dim
	full       *grid.Grid
	sample     *grid.Grid
	timeLen    int
	resultVars []*variable.Variable
	arrays     map[string][]float64
	vecNames   map[string][]string
	filled     *roaring.Bitmap
}

// NewAssembler creates an assembler over the given dimensions. dims must end
// with the repeat dimension, optionally followed by the time dimension for
// over-time sweeps. Samples are indexed over all dims except time.
func NewAssembler(dims []Dim, resultVars []*variable.Variable) (*Assembler, error) {
	if len(resultVars) == 0 {
		return nil, fmt.Errorf("dataset: no result variables declared")
	}

	full, err := grid.New(shapeOf(dims))
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	timeLen := 0
	sampleDims := dims
	if n := len(dims); n > 0 && dims[n-1].Name == TimeDim {
		timeLen = len(dims[n-1].Coords)
		sampleDims = dims[:n-1]
	}
	sample, err := grid.New(shapeOf(sampleDims))
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	a := &Assembler{
		dims:       dims,
		full:       full,
		sample:     sample,
		timeLen:    timeLen,
		resultVars: resultVars,
		arrays:     make(map[string][]float64),
		vecNames:   make(map[string][]string),
		filled:     roaring.New(),
	}
	return a, nil
}

func shapeOf(dims []Dim) []int {
	shape := make([]int, len(dims))
	for i, d := range dims {
		shape[i] = len(d.Coords)
	}
	return shape
}

// SampleCount returns the number of samples the assembler expects.
func (a *Assembler) SampleCount() int { return a.sample.Size() }

// Filled returns how many distinct samples have been added.
func (a *Assembler) Filled() int { return int(a.filled.GetCardinality()) }

func (a *Assembler) array(name string) []float64 {
	arr, ok := a.arrays[name]
	if !ok {
		arr = make([]float64, a.full.Size())
		for i := range arr {
			arr[i] = math.NaN()
		}
		a.arrays[name] = arr
	}
	return arr
}

// Add writes one sample's results at its flat coordinate index. Writing the
// same index twice overwrites; a missing declared result is an error.
func (a *Assembler) Add(sampleIndex int, res map[string][]float64) error {
	if sampleIndex < 0 || sampleIndex >= a.sample.Size() {
		return fmt.Errorf("dataset: sample index %d out of range (grid size %d)", sampleIndex, a.sample.Size())
	}

	for _, rv := range a.resultVars {
		vs, ok := res[rv.Name()]
		if !ok {
			return fmt.Errorf("dataset: worker produced no result %q", rv.Name())
		}
		if err := a.write(rv, sampleIndex, vs); err != nil {
			return err
		}
	}

	a.filled.Add(uint32(sampleIndex))
	return nil
}

func (a *Assembler) write(rv *variable.Variable, sampleIndex int, vs []float64) error {
	name := rv.Name()

	if a.timeLen > 0 {
		if len(vs) != a.timeLen {
			return fmt.Errorf("dataset: result %q has %d timesteps, want %d", name, len(vs), a.timeLen)
		}
		copy(a.array(name)[sampleIndex*a.timeLen:], vs)
		return nil
	}

	if len(vs) == 1 {
		if prev, ok := a.vecNames[name]; ok && prev != nil {
			return fmt.Errorf("dataset: result %q was vector, now scalar", name)
		}
		a.vecNames[name] = nil
		a.array(name)[sampleIndex] = vs[0]
		return nil
	}

	// Vector result: expand into one same-shape array per component,
	// suffixed by axis name.
	names, err := a.componentNames(rv, len(vs))
	if err != nil {
		return err
	}
	for i, comp := range names {
		a.array(comp)[sampleIndex] = vs[i]
	}
	return nil
}

func (a *Assembler) componentNames(rv *variable.Variable, n int) ([]string, error) {
	name := rv.Name()
	if prev, ok := a.vecNames[name]; ok {
		if prev == nil {
			return nil, fmt.Errorf("dataset: result %q was scalar, now vector", name)
		}
		if len(prev) != n {
			return nil, fmt.Errorf("dataset: result %q length changed from %d to %d", name, len(prev), n)
		}
		return prev, nil
	}

	axes := rv.Axes()
	if len(axes) != n {
		if n <= 4 {
			axes = []string{"x", "y", "z", "w"}[:n]
		} else {
			axes = make([]string, n)
			for i := range axes {
				axes[i] = fmt.Sprintf("%d", i)
			}
		}
	}
	names := make([]string, n)
	for i, axis := range axes {
		names[i] = name + "_" + axis
	}
	a.vecNames[name] = names
	return names, nil
}

// Finalize checks completeness and returns the assembled dataset.
func (a *Assembler) Finalize() (*Dataset, error) {
	if missing := a.sample.Size() - a.Filled(); missing > 0 {
		return nil, fmt.Errorf("dataset: %d of %d samples missing", missing, a.sample.Size())
	}
	return &Dataset{Dims: a.dims, Arrays: a.arrays}, nil
}
