// Package cache memoizes sweep work at two tiers.
//
// The sample tier stores individual worker invocations keyed by scope
// fingerprint, input tuple and repeat index; concurrent requests for the
// same key collapse into a single computation while unrelated keys proceed
// in parallel. The result tier stores whole assembled datasets keyed by the
// sweep's full fingerprint and is written only after a sweep completes, so a
// partial sweep can never populate it.
//
// Storage failures degrade the cache to a pass-through: they are logged and
// the sweep proceeds uncached rather than aborting.
package cache
