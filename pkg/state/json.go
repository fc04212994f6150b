package state

import "encoding/json"

// marshal is the single serialization point for persisted subsets.
// Stores persist as UTF-8 JSON keyed records.
func marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes persisted bytes into out, reporting whether the
// data was usable. Restore funcs use this to silently fall back to
// defaults on corrupt records.
func Unmarshal(data []byte, out any) bool {
	return json.Unmarshal(data, out) == nil
}
