package compare

import (
	"math"

	"go-deal-recon/internal/model"
	"go-deal-recon/pkg/utils"
)

// Heatmap severity codes. The magnitude drives visualization
// intensity; negative numbers render on the "lower / missing" side.
const (
	severityWithin       = 0
	severityHigher       = 1
	severityMuchHigher   = 2
	severityLower        = -1
	severityMuchLower    = -2
	severityUnregistered = -10
)

// BuildHeatmap produces the qualifying-deal x cost-type status and
// severity matrix. A cost type with no column on either side yields a
// sentinel "No data" cell with an undefined severity.
func BuildHeatmap(qualifying []model.MergedDeal, costs []model.CostColumn) model.Heatmap {
	heatmap := model.Heatmap{
		DealIDs:      make([]string, 0, len(qualifying)),
		CostTypes:    make([]string, 0, len(costs)),
		Matrix:       make([][]model.NullFloat, 0, len(qualifying)),
		StatusMatrix: make([][]string, 0, len(qualifying)),
		Hover:        make([][]string, 0, len(qualifying)),
	}
	for _, cost := range costs {
		heatmap.CostTypes = append(heatmap.CostTypes, cost.Label)
	}

	for _, row := range qualifying {
		heatmap.DealIDs = append(heatmap.DealIDs, row.DealID)

		values := make([]model.NullFloat, 0, len(costs))
		statuses := make([]string, 0, len(costs))
		hovers := make([]string, 0, len(costs))

		for _, cost := range costs {
			if cost.FormattedColumn == "" && cost.ComparisonColumn == "" {
				values = append(values, model.NullValue())
				statuses = append(statuses, model.StatusMissing)
				hovers = append(hovers, "No data")
				continue
			}

			formattedValue := 0.0
			if cost.FormattedColumn != "" {
				formattedValue = row.FormattedCosts[cost.Key]
			}
			comparisonValue := 0.0
			if cost.ComparisonColumn != "" {
				comparisonValue = row.ComparisonCosts[cost.Key]
			}
			difference := formattedValue - comparisonValue

			status, severity := heatmapCell(formattedValue, comparisonValue, difference)
			values = append(values, model.Float(float64(severity)))
			statuses = append(statuses, status)
			hovers = append(hovers,
				"Status: "+status+
					"<br>Formatted: "+utils.FormatCurrency(formattedValue)+
					"<br>Comparison: "+utils.FormatCurrency(comparisonValue)+
					"<br>Difference: "+utils.FormatCurrency(difference))
		}

		heatmap.Matrix = append(heatmap.Matrix, values)
		heatmap.StatusMatrix = append(heatmap.StatusMatrix, statuses)
		heatmap.Hover = append(heatmap.Hover, hovers)
	}
	return heatmap
}

func heatmapCell(formattedValue, comparisonValue, difference float64) (string, int) {
	hasFormatted := math.Abs(formattedValue) > epsilon
	hasComparison := math.Abs(comparisonValue) > epsilon

	switch {
	case !hasFormatted && !hasComparison:
		return "Within", severityWithin
	case hasFormatted && !hasComparison:
		return model.StatusUnregistered, severityUnregistered
	case !hasFormatted && hasComparison:
		return model.StatusMissing, severityLower
	}

	percentage := 0.0
	if comparisonValue != 0 {
		percentage = difference / comparisonValue * 100
	}
	switch {
	case percentage >= 20:
		return ">20% Higher", severityMuchHigher
	case percentage >= 5:
		return "5-20% Higher", severityHigher
	case percentage <= -20:
		return ">20% Lower", severityMuchLower
	case percentage <= -5:
		return "5-20% Lower", severityLower
	default:
		return "Within", severityWithin
	}
}
