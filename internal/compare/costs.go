package compare

import (
	"sort"
	"strings"

	"go-deal-recon/internal/model"
	"go-deal-recon/internal/table"
)

// costKeywords mark a column as a cost line item when any of them
// appears in its canonical key.
var costKeywords = []string{
	"cost",
	"insurance",
	"inspection",
	"superintendent",
	"charge",
	"fee",
	"logistics",
}

// ExtractCostColumns returns the cost columns of a table in table
// order, excluding the resolved quantity column.
func ExtractCostColumns(t *table.Table, quantityColumn string) []string {
	var costs []string
	for _, key := range t.Keys() {
		if key == quantityColumn {
			continue
		}
		for _, keyword := range costKeywords {
			if strings.Contains(key, keyword) {
				costs = append(costs, key)
				break
			}
		}
	}
	return costs
}

// BuildCostRegistry unions cost columns from both sides into one
// registry keyed by normalized name. The first registration of a key
// sets the label; the opposite side replaces it only when the existing
// label is empty or just the bare key, so a human label always wins
// over a fallback.
func BuildCostRegistry(formattedCosts, comparisonCosts []string, formatted, comparison *table.Table) map[string]*model.CostColumn {
	registry := make(map[string]*model.CostColumn)

	ensure := func(column string, t *table.Table) *model.CostColumn {
		key := table.NormalizeKey(column)
		label := t.Label(column)
		entry, ok := registry[key]
		if !ok {
			entry = &model.CostColumn{Key: key, Label: label}
			registry[key] = entry
		} else if entry.Label == "" || strings.ToLower(entry.Label) == entry.Key {
			entry.Label = label
		}
		return entry
	}

	for _, column := range formattedCosts {
		ensure(column, formatted).FormattedColumn = column
	}
	for _, column := range comparisonCosts {
		ensure(column, comparison).ComparisonColumn = column
	}
	return registry
}

// SortedCosts returns registry entries ordered by case-insensitive
// label; every payload section that lists cost types uses this order.
func SortedCosts(registry map[string]*model.CostColumn) []model.CostColumn {
	costs := make([]model.CostColumn, 0, len(registry))
	for _, entry := range registry {
		costs = append(costs, *entry)
	}
	sort.SliceStable(costs, func(i, j int) bool {
		li, lj := strings.ToLower(costs[i].Label), strings.ToLower(costs[j].Label)
		if li == lj {
			return costs[i].Key < costs[j].Key
		}
		return li < lj
	})
	return costs
}
