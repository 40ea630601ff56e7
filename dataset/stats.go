package dataset

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/sweepgo/internal/grid"
)

// ReduceOverRepeat collapses the repeat dimension into per-cell mean and
// standard deviation arrays (name_mean, name_std). Reporting layers use the
// reduced view to plot variance bands across repeats.
func (d *Dataset) ReduceOverRepeat() (*Dataset, error) {
	rep := -1
	for i, dim := range d.Dims {
		if dim.Name == RepeatDim {
			rep = i
			break
		}
	}
	if rep < 0 {
		return nil, fmt.Errorf("dataset: no %q dimension to reduce", RepeatDim)
	}

	full, err := grid.New(d.Shape())
	if err != nil {
		return nil, err
	}

	outDims := make([]Dim, 0, len(d.Dims)-1)
	outDims = append(outDims, d.Dims[:rep]...)
	outDims = append(outDims, d.Dims[rep+1:]...)

	outShape := make([]int, 0, len(outDims))
	for _, dim := range outDims {
		outShape = append(outShape, len(dim.Coords))
	}
	reduced, err := grid.New(outShape)
	if err != nil {
		return nil, err
	}

	repeats := len(d.Dims[rep].Coords)
	out := &Dataset{Dims: outDims, Arrays: make(map[string][]float64, 2*len(d.Arrays))}

	for name, arr := range d.Arrays {
		means := make([]float64, reduced.Size())
		stds := make([]float64, reduced.Size())
		samples := make([]float64, repeats)

		for cell := 0; cell < reduced.Size(); cell++ {
			idx, err := reduced.Coords(cell)
			if err != nil {
				return nil, err
			}
			fullIdx := slices.Insert(slices.Clone(idx), rep, 0)
			for r := 0; r < repeats; r++ {
				fullIdx[rep] = r
				flat, err := full.Flatten(fullIdx)
				if err != nil {
					return nil, err
				}
				samples[r] = arr[flat]
			}
			means[cell] = stat.Mean(samples, nil)
			stds[cell] = stat.StdDev(samples, nil)
		}

		out.Arrays[name+"_mean"] = means
		out.Arrays[name+"_std"] = stds
	}

	return out, nil
}
