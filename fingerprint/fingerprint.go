package fingerprint

import (
	"crypto/sha1" //nolint:gosec // not used for security, only for stable cache keys
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"math"
)

// Version is folded into every digest. Bump it when the canonical encoding
// changes so stale cache entries can never alias fresh ones.
const Version = 1

// Digest is a stable fingerprint of a declaration. The zero value means
// "no digest".
type Digest [sha1.Size]byte

// Zero is the empty digest.
var Zero Digest

// String returns the lowercase hex form of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest is unset.
func (d Digest) IsZero() bool {
	return d == Zero
}

// Parse decodes a digest from its hex form.
func Parse(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("fingerprint: parse %q: %w", s, err)
	}
	if len(b) != len(d) {
		return Zero, fmt.Errorf("fingerprint: parse %q: want %d bytes, got %d", s, len(d), len(b))
	}
	copy(d[:], b)
	return d, nil
}

// Of digests the given parts in order using the canonical encoding.
//
// Supported part types: nil, bool, int, int64, uint64, float64, string,
// []byte and Digest. Of panics on any other type; callers digest declarative
// metadata only, so an unsupported type is a programming error, not input.
func Of(parts ...any) Digest {
	h := sha1.New() //nolint:gosec
	writeUint64(h, Version)
	for _, p := range parts {
		writePart(h, p)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Fold combines an accumulator digest with the next digest, left to right.
// Fold(Fold(a, b), c) is order sensitive by construction: reordering the
// inputs yields a different result.
func Fold(acc Digest, next Digest) Digest {
	h := sha1.New() //nolint:gosec
	h.Write(acc[:])
	h.Write(next[:])
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func writePart(h hash.Hash, p any) {
	switch v := p.(type) {
	case nil:
		h.Write([]byte{'n'})
	case bool:
		if v {
			h.Write([]byte{'b', 1})
		} else {
			h.Write([]byte{'b', 0})
		}
	case int:
		h.Write([]byte{'i'})
		writeUint64(h, uint64(int64(v)))
	case int64:
		h.Write([]byte{'i'})
		writeUint64(h, uint64(v))
	case uint64:
		h.Write([]byte{'u'})
		writeUint64(h, v)
	case float64:
		h.Write([]byte{'f'})
		// Normalize so that equal floats hash equally regardless of how
		// they were produced.
		if v == 0 {
			v = 0 // collapse -0 into +0
		}
		if math.IsNaN(v) {
			writeUint64(h, math.Float64bits(math.NaN()))
			return
		}
		writeUint64(h, math.Float64bits(v))
	case string:
		h.Write([]byte{'s'})
		writeUint64(h, uint64(len(v)))
		h.Write([]byte(v))
	case []byte:
		h.Write([]byte{'y'})
		writeUint64(h, uint64(len(v)))
		h.Write(v)
	case Digest:
		h.Write([]byte{'d'})
		h.Write(v[:])
	default:
		panic(fmt.Sprintf("fingerprint: unsupported part type %T", p))
	}
}

func writeUint64(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
