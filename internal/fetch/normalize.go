package fetch

import (
	"encoding/json"
	"fmt"
)

// RawOutputKey wraps payloads that could not be interpreted as structured data.
const RawOutputKey = "raw_output"

// NormalizePayload coerces a provider payload into a uniform map. Provider
// outputs arrive as typed objects, JSON strings, or opaque strings; the
// attempts run in that order and the final fallback wraps the value as a
// raw string. Never fails on malformed content.
func NormalizePayload(raw any) map[string]any {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			return parsed
		}
		return map[string]any{RawOutputKey: v}
	case []any:
		// Some providers wrap the record in a single-element list.
		if len(v) > 0 {
			if first, ok := v[0].(map[string]any); ok {
				return first
			}
		}
		return map[string]any{RawOutputKey: fmt.Sprintf("%v", v)}
	default:
		// Typed provider objects: round-trip through JSON.
		data, err := json.Marshal(v)
		if err == nil {
			var parsed map[string]any
			if err := json.Unmarshal(data, &parsed); err == nil {
				return parsed
			}
		}
		return map[string]any{RawOutputKey: fmt.Sprintf("%v", v)}
	}
}
