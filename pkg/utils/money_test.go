package utils

import (
	"testing"

	"go-deal-recon/internal/model"
)

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{1.005, 1.01},
		{2.675, 2.68},
		{-1.005, -1.01},
		{11.111111, 11.11},
		{10, 10},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRound2Null(t *testing.T) {
	if got := Round2Null(model.NullValue()); got.Valid {
		t.Errorf("Round2Null(null) = %+v, want null", got)
	}
	got := Round2Null(model.Float(3.14159))
	if !got.Valid || got.Value != 3.14 {
		t.Errorf("Round2Null(3.14159) = %+v", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1234.56, "$1,234.56"},
		{1234567.891, "$1,234,567.89"},
		{-1234.5, "-$1,234.50"},
		{999, "$999.00"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.in); got != c.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	if got := FormatPercentage(model.NullValue()); got != "-" {
		t.Errorf("FormatPercentage(null) = %q", got)
	}
	if got := FormatPercentage(model.Float(11.111)); got != "11.11%" {
		t.Errorf("FormatPercentage(11.111) = %q", got)
	}
}

func TestParseValue(t *testing.T) {
	if got := ParseValue("42"); got != 42 {
		t.Errorf("ParseValue(42) = %v (%T)", got, got)
	}
	if got := ParseValue("3.5"); got != 3.5 {
		t.Errorf("ParseValue(3.5) = %v (%T)", got, got)
	}
	if got := ParseValue("hello"); got != "hello" {
		t.Errorf("ParseValue(hello) = %v", got)
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"  D1  ", "D1"},
		{42, "42"},
		{3.5, "3.5"},
	}
	for _, c := range cases {
		if got := Stringify(c.in); got != c.want {
			t.Errorf("Stringify(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
