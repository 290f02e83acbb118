package domain

import (
	"fmt"
	"strconv"
)

// CleanRecord converts a record delivered by a change stream into a Record.
// Stream records may wrap every value in a single-entry type descriptor, for
// example {"firstName": {"S": "Jane"}}; those are unwrapped to their value.
// Plain values pass through unchanged.
func CleanRecord(raw map[string]any) Record {
	out := make(Record, len(raw))
	for k, v := range raw {
		if s := unwrap(v); s != "" {
			out[k] = s
		}
	}
	return out
}

func unwrap(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any:
		if len(t) != 1 {
			return fmt.Sprint(t)
		}
		for _, inner := range t {
			return unwrap(inner)
		}
	}
	return fmt.Sprint(v)
}
