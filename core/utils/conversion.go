package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToString renders a field value the way it is compared and logged.
// Floats never use exponent notation and times use RFC3339.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truthy holds the string spellings of a checked checkbox.
var truthy = map[string]bool{"1": true, "t": true, "true": true, "y": true, "yes": true, "on": true}

// ToBool converts checkbox values. Non-zero numbers and the spellings in
// truthy are true; everything else is false.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return truthy[strings.ToLower(strings.TrimSpace(v))]
	case []byte:
		return ToBool(string(v))
	default:
		f, ok := ToFloat(v)
		return ok && f != 0
	}
}

// ToFloat converts numeric values and numeric strings to float64.
func ToFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// IsEmpty reports whether a value renders as blank.
func IsEmpty(val any) bool {
	return strings.TrimSpace(ToString(val)) == ""
}

// NormalizeKey lower-cases and trims a natural key.
func NormalizeKey(val any) string {
	return strings.ToLower(strings.TrimSpace(ToString(val)))
}
