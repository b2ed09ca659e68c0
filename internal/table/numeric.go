package table

import (
	"strconv"
	"strings"
)

// Numeric coerces a cell value to float64. Blank and unparseable
// values become 0; this lenient policy is deliberate and must not be
// turned into an error path.
func Numeric(v interface{}) float64 {
	f, _ := NumericOK(v)
	return f
}

// NumericOK reports whether the value carries a parseable number, and
// its coerced value.
func NumericOK(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}
