package compare

import (
	"sort"
	"strings"

	"go-deal-recon/internal/model"
)

// DetectPatterns tallies overall status counts and groups qualifying
// deals by the exact sorted set of their unregistered cost types. A
// set shared by two or more deals is a repeating pattern.
func DetectPatterns(deals []model.Deal) model.Patterns {
	statusCounts := map[string]int{
		model.StatusRegistered:   0,
		model.StatusPartial:      0,
		model.StatusUnregistered: 0,
		model.StatusMissing:      0,
	}
	patternDeals := make(map[string][]string)
	var patternOrder []string

	for _, deal := range deals {
		statusCounts[deal.CostRegistryStatus]++

		var unregistered []string
		for _, cost := range deal.Costs {
			if cost.Status == model.StatusUnregistered {
				unregistered = append(unregistered, cost.CostType)
			}
		}
		if len(unregistered) == 0 {
			continue
		}
		sort.Strings(unregistered)
		key := strings.Join(unregistered, "\x00")
		if _, ok := patternDeals[key]; !ok {
			patternOrder = append(patternOrder, key)
		}
		patternDeals[key] = append(patternDeals[key], deal.DealID)
	}

	repeating := []model.RepeatingPattern{}
	for _, key := range patternOrder {
		members := patternDeals[key]
		if len(members) < 2 {
			continue
		}
		repeating = append(repeating, model.RepeatingPattern{
			CostTypes: strings.Split(key, "\x00"),
			Deals:     members,
		})
	}

	return model.Patterns{
		StatusCounts:      statusCounts,
		RepeatingPatterns: repeating,
	}
}
