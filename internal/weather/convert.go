package weather

import (
	"encoding/json"
	"strconv"
	"strings"
)

// safeInt best-effort converts a decoded JSON value to an int. JSON numbers
// are truncated toward zero; strings must parse as a plain integer. Anything
// else yields nil.
func safeInt(v any) *int {
	switch t := v.(type) {
	case float64:
		n := int(t)
		return &n
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n := int(i)
			return &n
		}
		if f, err := t.Float64(); err == nil {
			n := int(f)
			return &n
		}
		return nil
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return &n
		}
		return nil
	default:
		return nil
	}
}

// safeString returns the value if it decoded as a string, nil otherwise.
func safeString(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}
