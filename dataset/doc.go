// Package dataset holds the dense labeled N-dimensional result of a sweep.
//
// Dimensions follow the sweep's declared input-variable order, with the
// repeat dimension appended (and a trailing time dimension for over-time
// sweeps). The Assembler writes results into their coordinate slot directly,
// so the assembled dataset is identical for any execution order over the
// same grid.
package dataset
