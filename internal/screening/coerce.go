package screening

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The model is asked for strict JSON, but field types in its answers drift:
// scores arrive as strings, lists as single values. These helpers coerce
// whatever came back into the documented field types once, at the stage
// boundary.

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceScore turns the value into an integer score. Non-numeric input is
// treated as 0; out-of-range values are clamped to [0, 100].
func coerceScore(v any) int {
	var score float64
	switch val := v.(type) {
	case float64:
		score = val
	case int:
		score = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		score = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		score = f
	default:
		return 0
	}

	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(math.Round(score))
}

// coerceStringList accepts either a list or a single value and always
// returns a non-nil slice.
func coerceStringList(v any) []string {
	switch val := v.(type) {
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				result = append(result, s)
			}
		}
		return result
	case []string:
		return val
	case nil:
		return []string{}
	default:
		if s := coerceString(val); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

func stringOrDefault(v any, fallback string) string {
	if s := coerceString(v); s != "" {
		return s
	}
	return fallback
}
