package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// NaN is returned by the integer parsers when the input holds no base-10
// integer.
const NaN = math.MinInt

// GetString returns the named environment variable, or def when it is unset
// or empty.
func GetString(name, def string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return def
}

// GetBoolean reads the named variable (or the default literal) and parses it
// with ParseBoolean.
func GetBoolean(name, def string) bool {
	// Strings never hit the type error branch.
	value, _ := ParseBoolean(GetString(name, def))
	return value
}

// GetInteger reads the named variable (or the default literal) and parses it
// with ParseInteger.
func GetInteger(name, def string) int {
	return ParseInteger(GetString(name, def))
}

// GetStringList reads the named variable (or the default literal) and splits
// it with ParseList.
func GetStringList(name, def string) []string {
	return ParseList(GetString(name, def))
}

// ParseBoolean accepts strings, numbers and booleans. "true", "yes" and "1"
// are true; "false", "no", "0" and nil are false, case-insensitively and
// ignoring surrounding whitespace. Anything else falls back to the
// truthiness of the original value: a non-empty string, or a non-zero number.
func ParseBoolean(v any) (bool, error) {
	if v == nil {
		return false, nil
	}

	var val string
	switch x := v.(type) {
	case string:
		val = strings.ToLower(strings.TrimSpace(x))
	case bool:
		val = strconv.FormatBool(x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		val = fmt.Sprint(x)
	case float32:
		val = strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		val = strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return false, fmt.Errorf("%w: %T", ErrConfigType, v)
	}

	switch val {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return truthy(v), nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case string:
		return x != ""
	case bool:
		return x
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return fmt.Sprint(x) != "0"
	}
}

// ParseInteger parses the leading base-10 integer of s. Leading whitespace
// and a sign are allowed and trailing characters are ignored, so "3000ms"
// yields 3000. Input without digits, or one that overflows int, yields NaN.
func ParseInteger(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return NaN
	}

	value, err := strconv.Atoi(s[:end])
	if err != nil {
		return NaN
	}
	return value
}

// ParseList splits a comma-separated string, trimming every element and
// dropping the empty ones. An empty or blank input yields an empty list.
func ParseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
