package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Notes:
// - The most portable, lowest-dependency option.
// - Works for typical structs/maps/slices; funcs, channels, complex numbers
//   are not supported.
//
// If you need custom encoding (e.g. protobuf/msgpack), implement Codec and
// pass it to the snapshot writer.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used for snapshots.
//
// NOTE: This affects newly-written snapshots only. Existing snapshots are
// self-describing and are opened by selecting the appropriate codec by name.
var Default Codec = GoJSON{}
