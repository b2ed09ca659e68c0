package compare

import (
	"math"

	"go-deal-recon/internal/model"
	"go-deal-recon/pkg/utils"
)

// DetectAnomalies flags qualifying deals whose quantity difference
// strictly exceeds mean + 2 * population standard deviation of the
// difference series, and applies the same rule independently to each
// cost category present on at least one side. The threshold test is
// one-sided: large negative differences never flag, and a difference
// exactly at the threshold does not flag.
func DetectAnomalies(qualifying []model.MergedDeal, costs []model.CostColumn) ([]model.QuantityAnomaly, []model.CostAnomaly) {
	anomalies := []model.QuantityAnomaly{}
	costAnomalies := []model.CostAnomaly{}

	if len(qualifying) >= 2 {
		diffs := make([]float64, len(qualifying))
		for i, row := range qualifying {
			diffs[i] = row.QuantityDifference
		}
		if threshold, ok := anomalyThreshold(diffs); ok {
			for _, row := range qualifying {
				if row.QuantityDifference > threshold {
					anomalies = append(anomalies, model.QuantityAnomaly{
						DealID:             row.DealID,
						Difference:         utils.Round2(row.QuantityDifference),
						FormattedQuantity:  utils.Round2(row.FormattedQuantity),
						ComparisonQuantity: utils.Round2(row.ComparisonQuantity),
					})
				}
			}
		}
	}

	for _, cost := range costs {
		if cost.FormattedColumn == "" && cost.ComparisonColumn == "" {
			continue
		}
		diffs := make([]float64, len(qualifying))
		for i, row := range qualifying {
			diffs[i] = row.FormattedCosts[cost.Key] - row.ComparisonCosts[cost.Key]
		}
		if len(diffs) < 2 {
			continue
		}
		threshold, ok := anomalyThreshold(diffs)
		if !ok {
			continue
		}
		for i, row := range qualifying {
			if diffs[i] > threshold {
				costAnomalies = append(costAnomalies, model.CostAnomaly{
					DealID:     row.DealID,
					CostType:   cost.Label,
					Difference: utils.Round2(diffs[i]),
				})
			}
		}
	}

	return anomalies, costAnomalies
}

// anomalyThreshold computes mean + 2 * population standard deviation
// (divisor N, not N-1). A zero deviation yields no threshold.
func anomalyThreshold(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var squares float64
	for _, v := range values {
		d := v - mean
		squares += d * d
	}
	std := math.Sqrt(squares / float64(len(values)))
	if std <= 0 {
		return 0, false
	}
	return mean + 2*std, true
}
