package calorie

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseFloat reads a number from a quiz answer. JSON numbers pass through;
// strings yield their leading numeric prefix ("80 kg" is 80). Anything else
// is NaN.
func ParseFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		m := leadingFloat.FindString(strings.TrimSpace(n))
		if m == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// ParseInt is ParseFloat truncated towards zero, with the same NaN rule.
// Strings only contribute their leading integer digits ("30.9" is 30).
func ParseInt(v any) float64 {
	if s, ok := v.(string); ok {
		m := leadingInt.FindString(strings.TrimSpace(s))
		if m == "" {
			return math.NaN()
		}
		i, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(i)
	}
	f := ParseFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN()
	}
	return math.Trunc(f)
}
