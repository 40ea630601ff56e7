package dataset

import (
	"fmt"
	"math"

	"github.com/hupe1980/sweepgo/internal/grid"
	"github.com/hupe1980/sweepgo/variable"
)

// RepeatDim is the name of the repeat dimension.
const RepeatDim = "repeat"

// TimeDim is the name of the trailing time dimension of over-time sweeps.
const TimeDim = "time"

// Dim is one labeled dimension: a name and its ordered coordinate list.
type Dim struct {
	Name   string           `json:"name"`
	Coords []variable.Value `json:"coords"`
}

// Dataset is a dense labeled N-dimensional array: one data array per result
// variable, all sharing the dimension list. Arrays are row-major with the
// first dimension slowest.
//
// Datasets handed to reporting layers are read-only by convention; the
// engine never mutates a dataset after assembly.
type Dataset struct {
	Dims   []Dim                `json:"dims"`
	Arrays map[string][]float64 `json:"arrays"`
}

// Shape returns the per-dimension sizes.
func (d *Dataset) Shape() []int {
	shape := make([]int, len(d.Dims))
	for i, dim := range d.Dims {
		shape[i] = len(dim.Coords)
	}
	return shape
}

// Size returns the number of cells per array.
func (d *Dataset) Size() int {
	n := 1
	for _, dim := range d.Dims {
		n *= len(dim.Coords)
	}
	return n
}

// At returns one cell of a named array by multi-index.
func (d *Dataset) At(name string, idx ...int) (float64, error) {
	arr, ok := d.Arrays[name]
	if !ok {
		return 0, fmt.Errorf("dataset: no array %q", name)
	}
	g, err := grid.New(d.Shape())
	if err != nil {
		return 0, err
	}
	flat, err := g.Flatten(idx)
	if err != nil {
		return 0, err
	}
	return arr[flat], nil
}

// Equal reports deep value equality, treating NaN cells as equal.
func (d *Dataset) Equal(o *Dataset) bool {
	if o == nil || len(d.Dims) != len(o.Dims) || len(d.Arrays) != len(o.Arrays) {
		return false
	}
	for i, dim := range d.Dims {
		od := o.Dims[i]
		if dim.Name != od.Name || len(dim.Coords) != len(od.Coords) {
			return false
		}
		for j, c := range dim.Coords {
			if !c.Equal(od.Coords[j]) {
				return false
			}
		}
	}
	for name, arr := range d.Arrays {
		oarr, ok := o.Arrays[name]
		if !ok || len(arr) != len(oarr) {
			return false
		}
		for i, v := range arr {
			ov := oarr[i]
			if v != ov && !(math.IsNaN(v) && math.IsNaN(ov)) {
				return false
			}
		}
	}
	return true
}
