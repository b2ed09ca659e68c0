package compare

import (
	"go-deal-recon/internal/table"
	"go-deal-recon/pkg/utils"
)

// AggregatedDeal is one deal's numeric totals within a single dataset.
// Costs are keyed by the registry key (the normalized cost column
// name).
type AggregatedDeal struct {
	DealID        string
	TotalQuantity float64
	Costs         map[string]float64
}

// Dataset is one side of the reconciliation after aggregation: one row
// per distinct deal id, in group-discovery order.
type Dataset struct {
	Deals []AggregatedDeal
}

// Aggregate coerces the quantity and cost columns to numbers (blank or
// unparseable cells count as zero), groups rows by deal id, and sums
// per group. A blank deal id forms its own group.
func Aggregate(t *table.Table, dealColumn, quantityColumn string, costColumns []string) *Dataset {
	index := make(map[string]int)
	ds := &Dataset{}

	for row := 0; row < t.Len(); row++ {
		dealID := utils.Stringify(t.Value(row, dealColumn))

		pos, ok := index[dealID]
		if !ok {
			pos = len(ds.Deals)
			index[dealID] = pos
			ds.Deals = append(ds.Deals, AggregatedDeal{
				DealID: dealID,
				Costs:  make(map[string]float64, len(costColumns)),
			})
		}

		deal := &ds.Deals[pos]
		deal.TotalQuantity += table.Numeric(t.Value(row, quantityColumn))
		for _, column := range costColumns {
			key := table.NormalizeKey(column)
			deal.Costs[key] += table.Numeric(t.Value(row, column))
		}
	}
	return ds
}
