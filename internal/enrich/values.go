package enrich

import (
	"strconv"
	"strings"
	"time"
)

// excelEpoch is day zero of Excel's 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate handles the date shapes seen in raw exports: Excel serial
// numbers, ISO dates and DD/MM/YYYY strings.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		days := int(serial)
		return excelEpoch.AddDate(0, 0, days), true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse("02/01/2006", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseCell converts a raw cell string into the value written to the
// output sheet: numbers stay numeric, everything else is trimmed text.
func parseCell(value string) interface{} {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if i, err := strconv.Atoi(trimmed); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return trimmed
}

func safeFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

// cellNumber reports a cell's numeric value when it holds one.
func cellNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// cellIsZero reports whether a cell holds the literal number zero.
func cellIsZero(v interface{}) bool {
	n, ok := cellNumber(v)
	return ok && n == 0
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := cellNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
