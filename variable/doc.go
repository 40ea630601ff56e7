// Package variable declares the dimensions of a parameter sweep.
//
// A Variable describes one swept axis: a continuous float or int range, a
// discrete enum or bool domain, or an externally loaded set. Variables know
// how to materialize their value list at a given sampling level and how to
// contribute a stable digest of their declaration to a sweep fingerprint.
//
// Variables are declarative: their digest never depends on a runtime value,
// only on name, kind, bounds and domain.
package variable
