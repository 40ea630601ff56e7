package cache

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/sweepgo/fingerprint"
	"github.com/hupe1980/sweepgo/variable"
)

// SampleKey identifies one worker invocation: which sweep scope it belongs
// to, which input tuple it computes, and which repeat it is.
type SampleKey struct {
	Scope  fingerprint.Digest
	Inputs fingerprint.Digest
	Repeat int
}

// NewSampleKey derives a key from the ordered input tuple. Ordering matters:
// the tuple follows the declared input-variable order.
func NewSampleKey(scope fingerprint.Digest, inputs []variable.Value, repeat int) SampleKey {
	acc := fingerprint.Of("inputs")
	for _, v := range inputs {
		acc = fingerprint.Fold(acc, v.Hash())
	}
	return SampleKey{Scope: scope, Inputs: acc, Repeat: repeat}
}

// String renders the key for logs and error messages.
func (k SampleKey) String() string {
	return k.Scope.String() + "/" + k.Inputs.String() + "/r" + strconv.Itoa(k.Repeat)
}

// storeKey is the backing-store key: scoped under the sample prefix so that
// Clear can remove a whole scope with one prefix listing.
func (k SampleKey) storeKey() string {
	return samplePrefix(k.Scope) + k.Inputs.String() + "/r" + strconv.Itoa(k.Repeat)
}

// flightKey is the in-process dedup key. xxhash keeps the singleflight map's
// keys short; it does not need to be stable across processes.
func (k SampleKey) flightKey() string {
	return strconv.FormatUint(xxhash.Sum64String(k.String()), 16)
}

func samplePrefix(scope fingerprint.Digest) string {
	return fmt.Sprintf("samples/%s/", scope)
}

func resultKey(dg fingerprint.Digest) string {
	return "results/" + dg.String()
}
