package compare

import (
	"fmt"
	"sort"
	"strings"

	"go-deal-recon/internal/model"
	"go-deal-recon/pkg/utils"
)

// BuildSummary synthesizes the narrative report purely from payload
// aggregates. It never fails: every section degrades to a fixed
// fallback sentence when its data is absent.
func BuildSummary(
	deals []model.Deal,
	totalDifference float64,
	unregisteredCosts []model.UnregisteredCost,
	patterns model.Patterns,
	costHighlights []model.CostHighlight,
	statusCounts model.DealStatusCounts,
) model.SummaryReport {
	greaterTotal := statusCounts.Greater + statusCounts.Both
	missingTotal := statusCounts.Missing + statusCounts.Both

	headline := "No qualifying deals were found."
	if len(deals) > 0 {
		var attention []string
		if greaterTotal > 0 {
			attention = append(attention, fmt.Sprintf("%d with higher costs", greaterTotal))
		}
		if missingTotal > 0 {
			attention = append(attention, fmt.Sprintf("%d missing baseline costs", missingTotal))
		}
		if len(attention) > 0 {
			headline = fmt.Sprintf("%d deals require attention (%s), totaling %s variance.",
				len(deals), strings.Join(attention, ", "), utils.FormatCurrency(totalDifference))
		} else {
			headline = fmt.Sprintf("%d deals show higher quantities in processed sheet, totaling %s difference.",
				len(deals), utils.FormatCurrency(totalDifference))
		}
	}

	topThree := topBySignedDifference(deals, 3)
	topContributors := "No significant deal variances detected."
	if len(topThree) > 0 {
		parts := make([]string, len(topThree))
		for i, deal := range topThree {
			parts[i] = fmt.Sprintf("%s: %s", deal.DealID, utils.FormatCurrency(deal.Difference))
		}
		topContributors = "Top 3 deals contributing to variance: " + strings.Join(parts, ", ")
	}

	topGreater := topHighlight(costHighlights, func(h model.CostHighlight) int { return h.GreaterDeals })
	topMissing := topHighlight(costHighlights, func(h model.CostHighlight) int { return h.MissingDeals })

	greaterSummary := "No deals exceed reference cost totals."
	if greaterTotal > 0 {
		greaterSummary = fmt.Sprintf("%d deals show higher costs than the comparison workbook.", greaterTotal)
		if topGreater != nil {
			greaterSummary += fmt.Sprintf(" %s is impacted in %d deals.", topGreater.CostType, topGreater.GreaterDeals)
		}
	}

	missingSummary := "No reference cost lines are missing from the processed workbook."
	if missingTotal > 0 {
		missingSummary = fmt.Sprintf("%d deals are missing cost lines recorded in the reference workbook.", missingTotal)
		if topMissing != nil {
			missingSummary += fmt.Sprintf(" %s is missing for %d deals.", topMissing.CostType, topMissing.MissingDeals)
		}
	}

	unregisteredSummary := "No unregistered cost types detected."
	if len(unregisteredCosts) > 0 {
		top := unregisteredCosts[0]
		for _, item := range unregisteredCosts[1:] {
			if item.Impact > top.Impact {
				top = item
			}
		}
		impact := utils.FormatCurrency(top.Impact)
		if top.DealCount > 0 {
			unregisteredSummary = fmt.Sprintf("Unregistered costs remain for %s across %d deals totaling %s.",
				top.CostType, top.DealCount, impact)
		} else {
			unregisteredSummary = fmt.Sprintf("Unregistered costs remain for %s totaling %s.", top.CostType, impact)
		}
	}

	var recommendations []string
	if len(topThree) > 0 {
		recommendations = append(recommendations,
			"Review the top contributing deals for manual confirmation of quantities.")
	}
	if topGreater != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Validate %s postings on deals with higher costs.", topGreater.CostType))
	}
	if topMissing != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Recover missing %s charges from the baseline workbook.", topMissing.CostType))
	}
	if len(unregisteredCosts) > 0 {
		byImpact := append([]model.UnregisteredCost(nil), unregisteredCosts...)
		sort.SliceStable(byImpact, func(i, j int) bool { return byImpact[i].Impact > byImpact[j].Impact })
		if len(byImpact) > 2 {
			byImpact = byImpact[:2]
		}
		names := make([]string, len(byImpact))
		for i, item := range byImpact {
			names[i] = item.CostType
		}
		recommendations = append(recommendations,
			fmt.Sprintf("Ensure cost registration for high impact types: %s.", strings.Join(names, ", ")))
	}
	if len(patterns.RepeatingPatterns) > 0 {
		seen := make(map[string]bool)
		var names []string
		for _, pattern := range patterns.RepeatingPatterns {
			for _, costType := range pattern.CostTypes {
				if !seen[costType] {
					seen[costType] = true
					names = append(names, costType)
				}
			}
		}
		sort.Strings(names)
		recommendations = append(recommendations,
			fmt.Sprintf("Investigate systematic issues causing repeated gaps in %s.", strings.Join(names, ", ")))
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "No immediate actions detected; continue monitoring.")
	}

	return model.SummaryReport{
		Headline:           headline,
		TopContributors:    topContributors,
		GreaterCosts:       greaterSummary,
		MissingCosts:       missingSummary,
		UnregisteredCosts:  unregisteredSummary,
		RecommendedActions: recommendations,
	}
}

// topBySignedDifference returns up to n deals with the largest signed
// difference, descending.
func topBySignedDifference(deals []model.Deal, n int) []model.Deal {
	sorted := append([]model.Deal(nil), deals...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Difference > sorted[j].Difference })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func topHighlight(highlights []model.CostHighlight, count func(model.CostHighlight) int) *model.CostHighlight {
	var top *model.CostHighlight
	for i := range highlights {
		if count(highlights[i]) <= 0 {
			continue
		}
		if top == nil || count(highlights[i]) > count(*top) {
			top = &highlights[i]
		}
	}
	return top
}
