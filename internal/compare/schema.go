// Package compare implements the deal reconciliation engine: schema
// resolution, cost registry construction, per-deal aggregation, outer
// merge, status classification, anomaly and pattern detection, heatmap
// assembly and narrative summarization.
package compare

import (
	"fmt"
	"strings"

	"go-deal-recon/internal/model"
	"go-deal-recon/internal/table"
)

// dealColumnPriority is tried first, by exact canonical key, before
// falling back to any column whose key contains "deal".
var dealColumnPriority = []string{
	"deal_id",
	"varo_deal",
	"deal",
	"deal_number",
	"deal_no",
	"dealname",
	"vsa_deal",
}

// quantityHints are substring hints for locating the comparison
// dataset's quantity column, in priority order.
var quantityHints = []string{
	"total_usd",
	"total",
	"usd_total",
	"qty_usd",
	"amount",
	"usd",
}

// ResolveDealColumn identifies the deal-identifier column of a table.
func ResolveDealColumn(t *table.Table) (string, error) {
	for _, name := range dealColumnPriority {
		if t.HasColumn(name) {
			return name, nil
		}
	}
	for _, key := range t.Keys() {
		if strings.Contains(key, "deal") {
			return key, nil
		}
	}
	return "", model.NewSchemaError("unable to identify deal identifier column")
}

// ColumnByLetter resolves a spreadsheet-style column letter against a
// table, failing when the letter addresses a column beyond the table
// width.
func ColumnByLetter(t *table.Table, letter string) (string, error) {
	index, err := table.ColumnIndex(letter)
	if err != nil {
		return "", err
	}
	col, ok := t.ColumnAt(index)
	if !ok {
		return "", model.NewSchemaError(fmt.Sprintf("column %s not found in worksheet", strings.ToUpper(letter)))
	}
	return col.Key, nil
}

// ResolveComparisonQuantityColumn locates the comparison dataset's
// quantity column: explicit override first, then keyword hints, then
// the formatted side's column letter, then the first column with any
// numerically parseable value.
func ResolveComparisonQuantityColumn(t *table.Table, preferred, fallbackLetter string) (string, error) {
	if preferred != "" && t.HasColumn(preferred) {
		return preferred, nil
	}

	for _, hint := range quantityHints {
		for _, key := range t.Keys() {
			if strings.Contains(key, hint) {
				return key, nil
			}
		}
	}

	if key, err := ColumnByLetter(t, fallbackLetter); err == nil {
		return key, nil
	}

	for _, key := range t.Keys() {
		if t.AnyNumeric(key) {
			return key, nil
		}
	}

	return "", model.NewSchemaError("unable to locate quantity column in comparison sheet")
}
