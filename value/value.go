// Package value provides primitives for classifying and coercing
// submitted field values.
//
// Submissions arrive as untyped JSON, so every value passes through here
// before validation: classification into a closed set of kinds, emptiness
// checks, and coercion to the representation a check needs.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the normalized kind of a submitted value.
type Kind int

const (
	Empty Kind = iota
	Text
	Number
	Bool
	List
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Text:
		return "text"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case List:
		return "list"
	default:
		return "unknown"
	}
}

// Of classifies a submitted value. Anything not recognizably numeric,
// boolean, or list-like is treated as text.
func Of(v any) Kind {
	if IsEmpty(v) {
		return Empty
	}
	switch v.(type) {
	case bool:
		return Bool
	case float64, float32, int, int32, int64, json.Number:
		return Number
	case []any, []string:
		return List
	default:
		return Text
	}
}

// IsEmpty reports whether a submitted value counts as absent: nil, an
// empty or whitespace-only string, or an empty list.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	default:
		return false
	}
}

// AsText extracts a string from various representations.
// Handles: string, []byte, json.Number, numeric types, bool, nil
func AsText(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case json.Number:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		if val == float32(int32(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// AsTextSlice normalizes a value to []string.
// Handles: string, []string, []any, nil
func AsTextSlice(v any) []string {
	if v == nil {
		return nil
	}

	var result []string

	switch val := v.(type) {
	case []string:
		result = val
	case []any:
		result = make([]string, 0, len(val))
		for _, item := range val {
			if s := AsText(item); s != "" {
				result = append(result, s)
			}
		}
	case string:
		if val != "" {
			result = []string{val}
		}
	default:
		if s := AsText(v); s != "" {
			result = []string{s}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// AsFloat coerces v to a float64. Non-numeric input yields NaN, so ordered
// comparisons against the result are false in both directions.
func AsFloat(v any) float64 {
	if v == nil {
		return math.NaN()
	}
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// AsNumber reports whether v is numeric, returning the parsed value.
// Unlike AsFloat it distinguishes "not a number" from a parsed NaN.
func AsNumber(v any) (float64, bool) {
	f := AsFloat(v)
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// AsInt coerces v to an int, returning 0 for non-numeric input.
func AsInt(v any) int {
	f, ok := AsNumber(v)
	if !ok {
		return 0
	}
	return int(f)
}
