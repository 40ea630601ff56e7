// Package store provides the persistent key→value backends behind the
// sample and result caches.
//
// Keys are fingerprint-derived strings with '/'-separated scope segments;
// values are opaque codec-encoded byte slices. Backends only need Get, Put,
// Delete and prefix List semantics; the cache layer owns key derivation and
// scoping, so backends stay interchangeable.
//
// Concurrent writers from independent processes against the same backing
// storage are not synchronized here; treat a cache directory as
// single-writer unless the backend provides its own cross-process locking.
package store
