// Package fingerprint computes deterministic, process-independent digests of
// sweep declarations.
//
// Digests are used as cache keys, so their byte-level layout is a
// compatibility boundary: changing the canonical encoding invalidates every
// previously persisted cache entry. The encoding is therefore fixed and
// versioned rather than delegated to a language-default hash.
package fingerprint
