package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Cache values and datasets are maps, slices and small tagged structs, for
// which JSON is stable and portable. Implement Codec for anything custom
// (e.g. msgpack) and set it via the engine options.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when none is configured.
var Default Codec = JSON{}
