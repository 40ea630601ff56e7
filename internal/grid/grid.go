// Package grid maps between flat sample indices and multi-dimensional
// coordinates of a dense Cartesian grid.
//
// The grid's dimension order is the canonical declaration order of a sweep;
// flat indices are row-major with the first dimension slowest. All result
// placement downstream is keyed by these indices, never by execution order.
package grid

import "fmt"

// Grid is an immutable Cartesian grid shape.
type Grid struct {
	shape   []int
	strides []int
	size    int
}

// New creates a grid with the given per-dimension sizes. Every size must be
// positive.
func New(shape []int) (*Grid, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("grid: empty shape")
	}
	size := 1
	for i, n := range shape {
		if n <= 0 {
			return nil, fmt.Errorf("grid: dimension %d has size %d", i, n)
		}
		size *= n
	}
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return &Grid{shape: append([]int(nil), shape...), strides: strides, size: size}, nil
}

// Size returns the total number of grid cells.
func (g *Grid) Size() int { return g.size }

// Shape returns a copy of the per-dimension sizes.
func (g *Grid) Shape() []int { return append([]int(nil), g.shape...) }

// Dims returns the number of dimensions.
func (g *Grid) Dims() int { return len(g.shape) }

// Flatten converts a multi-index into its row-major flat index.
func (g *Grid) Flatten(idx []int) (int, error) {
	if len(idx) != len(g.shape) {
		return 0, fmt.Errorf("grid: index rank %d does not match grid rank %d", len(idx), len(g.shape))
	}
	flat := 0
	for i, v := range idx {
		if v < 0 || v >= g.shape[i] {
			return 0, fmt.Errorf("grid: index %d out of range for dimension %d (size %d)", v, i, g.shape[i])
		}
		flat += v * g.strides[i]
	}
	return flat, nil
}

// Coords converts a flat index into its multi-index. The returned slice is
// freshly allocated.
func (g *Grid) Coords(flat int) ([]int, error) {
	if flat < 0 || flat >= g.size {
		return nil, fmt.Errorf("grid: flat index %d out of range (size %d)", flat, g.size)
	}
	idx := make([]int, len(g.shape))
	for i, s := range g.strides {
		idx[i] = flat / s
		flat %= s
	}
	return idx, nil
}
