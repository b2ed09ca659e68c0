package model

import (
	"encoding/json"
	"strconv"
)

// NullFloat is a nullable numeric value. Percentage variances are
// undefined (not zero) whenever the comparison denominator is zero, so
// the payload needs an explicit null rather than a sentinel.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float builds a valid NullFloat.
func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// NullValue is the undefined NullFloat.
func NullValue() NullFloat { return NullFloat{} }

// MarshalJSON encodes the value, or JSON null when undefined.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number or null.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NullFloat{Value: v, Valid: true}
	return nil
}
