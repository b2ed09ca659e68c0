package compare

import (
	"math"
	"sort"

	"go-deal-recon/internal/model"
	"go-deal-recon/pkg/utils"
)

// epsilon is the tolerance below which a value counts as zero.
const epsilon = 1e-6

// partialThreshold is the variance percentage at and above which a
// registered-on-both-sides category is classified as Partial.
const partialThreshold = 5.0

// costFlagCount tallies per-cost-type incidence over qualifying deals.
type costFlagCount struct {
	MissingDeals int
	GreaterDeals int
}

// unregisteredTracker accumulates the impact of one unregistered cost
// type across deals.
type unregisteredTracker struct {
	TotalDifference float64
	Deals           map[string]bool
}

// classification is the classifier output consumed by payload
// assembly.
//
// Policy note: a deal qualifies when it has a non-negligible quantity
// difference or any missing/greater/unregistered cost flag.
// Non-qualifying deals are retained only in the status-count "aligned"
// bucket; they contribute nothing to totals, averages, ranks, anomaly
// series, patterns or the heatmap.
type classification struct {
	Deals        []model.Deal       // qualifying deals, rank order
	Qualifying   []model.MergedDeal // matching merged rows, same order
	StatusCounts model.DealStatusCounts
	FlagCounts   map[string]*costFlagCount      // by cost label
	Unregistered map[string]*unregisteredTracker // by cost label

	TotalDifference float64 // sum |quantity difference| over qualifying
	AverageVariance float64 // mean |percentage variance|, skipping undefined
}

// Classify walks every merged deal, classifies each cost category
// against the fixed tolerance, decides deal qualification, and
// assembles the qualifying deal rows.
func Classify(merged []model.MergedDeal, costs []model.CostColumn) *classification {
	out := &classification{
		FlagCounts:   make(map[string]*costFlagCount, len(costs)),
		Unregistered: make(map[string]*unregisteredTracker),
	}
	for _, cost := range costs {
		out.FlagCounts[cost.Label] = &costFlagCount{}
	}

	var varianceSum float64
	var varianceCount int

	for _, row := range merged {
		details := make([]model.CostDetail, 0, len(costs))
		var unregisteredForDeal, partialForDeal, missingForDeal, greaterForDeal []string

		hasDifference := math.Abs(row.QuantityDifference) > epsilon

		for _, cost := range costs {
			formattedValue := 0.0
			if cost.FormattedColumn != "" {
				formattedValue = row.FormattedCosts[cost.Key]
			}
			comparisonValue := 0.0
			if cost.ComparisonColumn != "" {
				comparisonValue = row.ComparisonCosts[cost.Key]
			}

			difference := formattedValue - comparisonValue
			percentage := model.NullValue()
			if math.Abs(comparisonValue) > epsilon {
				percentage = model.Float(difference / comparisonValue * 100)
			}

			hasFormatted := math.Abs(formattedValue) > epsilon
			hasComparison := math.Abs(comparisonValue) > epsilon
			missingFlag := hasComparison && !hasFormatted
			greaterFlag := hasFormatted && difference > epsilon
			unregisteredFlag := hasFormatted && !hasComparison

			status := model.StatusRegistered
			switch {
			case unregisteredFlag:
				status = model.StatusUnregistered
				unregisteredForDeal = append(unregisteredForDeal, cost.Label)
				tracker, ok := out.Unregistered[cost.Label]
				if !ok {
					tracker = &unregisteredTracker{Deals: make(map[string]bool)}
					out.Unregistered[cost.Label] = tracker
				}
				tracker.TotalDifference += difference
				tracker.Deals[row.DealID] = true
			case missingFlag:
				status = model.StatusMissing
				missingForDeal = append(missingForDeal, cost.Label)
			case hasFormatted || hasComparison:
				variance := 0.0
				if math.Abs(comparisonValue) > epsilon {
					variance = math.Abs(difference) / comparisonValue * 100
				}
				if variance >= partialThreshold {
					status = model.StatusPartial
					partialForDeal = append(partialForDeal, cost.Label)
				}
			}

			if greaterFlag {
				greaterForDeal = append(greaterForDeal, cost.Label)
			}

			details = append(details, model.CostDetail{
				CostType:   cost.Label,
				Formatted:  utils.Round2(formattedValue),
				Comparison: utils.Round2(comparisonValue),
				Difference: utils.Round2(difference),
				Percentage: utils.Round2Null(percentage),
				Status:     status,
				Missing:    missingFlag,
				Greater:    greaterFlag,
			})
		}

		missingUnique := sortedUnique(missingForDeal)
		greaterUnique := sortedUnique(greaterForDeal)

		hasMissing := len(missingUnique) > 0
		hasGreater := len(greaterUnique) > 0
		hasUnregistered := len(unregisteredForDeal) > 0

		if !hasDifference && !hasMissing && !hasGreater && !hasUnregistered {
			continue
		}

		for _, label := range missingUnique {
			out.FlagCounts[label].MissingDeals++
		}
		for _, label := range greaterUnique {
			out.FlagCounts[label].GreaterDeals++
		}

		category := "aligned"
		switch {
		case hasMissing && hasGreater:
			category = "both"
			out.StatusCounts.Both++
		case hasGreater:
			category = "greater"
			out.StatusCounts.Greater++
		case hasMissing:
			category = "missing"
			out.StatusCounts.Missing++
		default:
			out.StatusCounts.Aligned++
		}

		overallStatus := model.StatusRegistered
		switch {
		case hasUnregistered:
			overallStatus = model.StatusUnregistered
		case hasMissing:
			overallStatus = model.StatusMissing
		case len(partialForDeal) > 0:
			overallStatus = model.StatusPartial
		}

		out.Qualifying = append(out.Qualifying, row)
		out.Deals = append(out.Deals, model.Deal{
			DealID:             row.DealID,
			FormattedQuantity:  utils.Round2(row.FormattedQuantity),
			ComparisonQuantity: utils.Round2(row.ComparisonQuantity),
			Difference:         utils.Round2(row.QuantityDifference),
			PercentageVariance: utils.Round2Null(row.PercentageVariance),
			Rank:               len(out.Deals) + 1,
			CostRegistryStatus: overallStatus,
			Costs:              details,
			MissingCosts:       missingUnique,
			GreaterCosts:       greaterUnique,
			MissingCostCount:   len(missingUnique),
			GreaterCostCount:   len(greaterUnique),
			VarianceCategory:   category,
		})

		out.TotalDifference += row.AbsDifference
		if row.PercentageVariance.Valid {
			varianceSum += math.Abs(row.PercentageVariance.Value)
			varianceCount++
		}
	}

	// Everything that did not qualify is aligned by definition.
	out.StatusCounts.Aligned += len(merged) - len(out.Qualifying)

	if varianceCount > 0 {
		out.AverageVariance = varianceSum / float64(varianceCount)
	}
	return out
}

// BuildCostBreakdown totals each cost category over the qualifying
// deals and classifies the aggregate.
func BuildCostBreakdown(c *classification, costs []model.CostColumn) []model.CostBreakdown {
	breakdown := make([]model.CostBreakdown, 0, len(costs))
	for _, cost := range costs {
		var formattedTotal, comparisonTotal float64
		for _, row := range c.Qualifying {
			if cost.FormattedColumn != "" {
				formattedTotal += row.FormattedCosts[cost.Key]
			}
			if cost.ComparisonColumn != "" {
				comparisonTotal += row.ComparisonCosts[cost.Key]
			}
		}
		difference := formattedTotal - comparisonTotal

		percentage := model.NullValue()
		if comparisonTotal != 0 {
			percentage = model.Float(difference / comparisonTotal * 100)
		} else if formattedTotal != 0 {
			percentage = model.Float(100)
		}

		status := model.StatusRegistered
		if formattedTotal != 0 && comparisonTotal == 0 {
			status = model.StatusUnregistered
		} else if math.Abs(difference) > 0 && comparisonTotal != 0 {
			if math.Abs(difference)/comparisonTotal*100 >= partialThreshold {
				status = model.StatusPartial
			}
		}

		counts := c.FlagCounts[cost.Label]
		breakdown = append(breakdown, model.CostBreakdown{
			CostType:        cost.Label,
			FormattedTotal:  utils.Round2(formattedTotal),
			ComparisonTotal: utils.Round2(comparisonTotal),
			Difference:      utils.Round2(difference),
			Percentage:      utils.Round2Null(percentage),
			Status:          status,
			MissingDeals:    counts.MissingDeals,
			GreaterDeals:    counts.GreaterDeals,
		})
	}
	return breakdown
}

// BuildUnregisteredCosts lists unregistered cost types with their
// total impact, in registry (label) order.
func BuildUnregisteredCosts(c *classification, costs []model.CostColumn) []model.UnregisteredCost {
	var out []model.UnregisteredCost
	for _, cost := range costs {
		tracker, ok := c.Unregistered[cost.Label]
		if !ok {
			continue
		}
		deals := make([]string, 0, len(tracker.Deals))
		for deal := range tracker.Deals {
			deals = append(deals, deal)
		}
		sort.Strings(deals)
		out = append(out, model.UnregisteredCost{
			CostType:  cost.Label,
			Impact:    utils.Round2(tracker.TotalDifference),
			DealCount: len(deals),
			Deals:     deals,
		})
	}
	return out
}

// BuildCostHighlights lists cost types with any missing or greater
// incidence, in registry order.
func BuildCostHighlights(c *classification, costs []model.CostColumn) []model.CostHighlight {
	var out []model.CostHighlight
	for _, cost := range costs {
		counts := c.FlagCounts[cost.Label]
		if counts.MissingDeals == 0 && counts.GreaterDeals == 0 {
			continue
		}
		out = append(out, model.CostHighlight{
			CostType:     cost.Label,
			MissingDeals: counts.MissingDeals,
			GreaterDeals: counts.GreaterDeals,
		})
	}
	return out
}

func sortedUnique(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
