package kildstore

import (
	"fmt"
	"time"
)

// decodeTimestamp accepts an RFC 3339 string (the canonical form) or a
// legacy Unix-seconds number, writing the result into out. A nil/empty
// value leaves out at its zero value.
func decodeTimestamp(raw interface{}, out *time.Time) error {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", v, err)
		}
		*out = t
		return nil
	case float64:
		*out = time.Unix(int64(v), 0).UTC()
		return nil
	default:
		return fmt.Errorf("unsupported timestamp shape %T", raw)
	}
}
