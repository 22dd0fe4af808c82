package norm

import (
	"encoding/json"
	"fmt"
)

// IsJSONPayload reports whether data is meant to carry JSON: its first
// non-whitespace byte opens an object or an array. Payloads that are not
// JSON-bearing (heartbeats, "[DONE]" style sentinels) are skipped by
// translators rather than treated as malformed.
func IsJSONPayload(data string) bool {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		case '[':
			// "[DONE]" opens like an array but is a sentinel.
			return !isSentinel(data[i:])
		default:
			return false
		}
	}
	return false
}

func isSentinel(s string) bool {
	if len(s) < 2 {
		return false
	}
	c := s[1]
	return c >= 'A' && c <= 'Z'
}

// MalformedPayload wraps a parse failure of a JSON-bearing payload.
func MalformedPayload(vendor, what string, err error) error {
	return fmt.Errorf("%s: %s: %w: %w", vendor, what, ErrMalformedPayload, err)
}

// CheckPayload returns an ErrMalformedPayload error if data is not valid JSON.
func CheckPayload(vendor string, data []byte) error {
	if json.Valid(data) {
		return nil
	}
	var v any
	err := json.Unmarshal(data, &v)
	if err == nil {
		err = fmt.Errorf("invalid JSON")
	}
	return MalformedPayload(vendor, "payload", err)
}
