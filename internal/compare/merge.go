package compare

import (
	"math"
	"sort"

	"go-deal-recon/internal/model"
)

// Merge performs a full outer join of the two aggregated datasets on
// deal id. A deal missing from one side behaves as having zero
// quantity and zero costs there, not "unknown". The result is sorted
// by absolute quantity difference descending (stable, so ties keep
// join order: formatted rows first, then comparison-only rows) and
// carries dense ranks 1..N in that order.
func Merge(formatted, comparison *Dataset) []model.MergedDeal {
	comparisonIndex := make(map[string]int, len(comparison.Deals))
	for i, deal := range comparison.Deals {
		comparisonIndex[deal.DealID] = i
	}

	merged := make([]model.MergedDeal, 0, len(formatted.Deals))
	seen := make(map[string]bool, len(formatted.Deals))

	for _, f := range formatted.Deals {
		row := model.MergedDeal{
			DealID:            f.DealID,
			FormattedQuantity: f.TotalQuantity,
			FormattedCosts:    f.Costs,
			ComparisonCosts:   map[string]float64{},
		}
		if ci, ok := comparisonIndex[f.DealID]; ok {
			row.ComparisonQuantity = comparison.Deals[ci].TotalQuantity
			row.ComparisonCosts = comparison.Deals[ci].Costs
		}
		merged = append(merged, row)
		seen[f.DealID] = true
	}

	for _, c := range comparison.Deals {
		if seen[c.DealID] {
			continue
		}
		merged = append(merged, model.MergedDeal{
			DealID:             c.DealID,
			ComparisonQuantity: c.TotalQuantity,
			FormattedCosts:     map[string]float64{},
			ComparisonCosts:    c.Costs,
		})
	}

	for i := range merged {
		row := &merged[i]
		row.QuantityDifference = row.FormattedQuantity - row.ComparisonQuantity
		row.AbsDifference = math.Abs(row.QuantityDifference)
		if row.ComparisonQuantity == 0 {
			row.PercentageVariance = model.NullValue()
		} else {
			row.PercentageVariance = model.Float(row.QuantityDifference / row.ComparisonQuantity * 100)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].AbsDifference > merged[j].AbsDifference
	})
	for i := range merged {
		merged[i].Rank = i + 1
	}
	return merged
}
