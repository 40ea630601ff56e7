// Package worker normalizes user-supplied worker functions into a single
// invocation contract.
//
// Three worker shapes are supported: a map-taking function, a positional
// tuple function, and a stateful benchmark object whose inputs are set
// before each run and whose results are read back afterwards. The Adapter
// unifies them behind Invoke(ctx, inputs, repeat) via an explicit tagged
// variant, not runtime reflection.
package worker
