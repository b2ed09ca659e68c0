package table

import (
	"fmt"
	"strings"

	"go-deal-recon/internal/model"
)

// ColumnIndex converts a spreadsheet column letter into a zero-based
// index: "A"->0, "Z"->25, "AA"->26, "AB"->27. The conversion is plain
// base-26 positional arithmetic on the uppercased input.
func ColumnIndex(letter string) (int, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return 0, model.NewSchemaError("column letter is empty")
	}
	index := 0
	for _, r := range letter {
		if r < 'A' || r > 'Z' {
			return 0, model.NewSchemaError(fmt.Sprintf("invalid column letter %q", letter))
		}
		index = index*26 + int(r-'A') + 1
	}
	return index - 1, nil
}

// ColumnLetter is the inverse of ColumnIndex: 0->"A", 25->"Z",
// 26->"AA".
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	n := index + 1
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
