package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rotisserie/eris"

	"go-deal-recon/internal/cache"
)

// CSV renders the flagged deals table as comma-separated values.
func CSV(entry *cache.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"rank", "deal_id", "status", "formatted_quantity", "comparison_quantity",
		"quantity_difference", "percentage_variance", "missing_costs", "greater_costs",
	}
	if err := w.Write(header); err != nil {
		return nil, eris.Wrap(err, "write CSV header")
	}

	for _, d := range entry.Payload.Deals {
		variance := ""
		if d.PercentageVariance.Valid {
			variance = strconv.FormatFloat(d.PercentageVariance.Value, 'f', -1, 64)
		}
		row := []string{
			strconv.Itoa(d.Rank),
			d.DealID,
			d.CostRegistryStatus,
			strconv.FormatFloat(d.FormattedQuantity, 'f', -1, 64),
			strconv.FormatFloat(d.ComparisonQuantity, 'f', -1, 64),
			strconv.FormatFloat(d.Difference, 'f', -1, 64),
			variance,
			joinLabels(d.MissingCosts),
			joinLabels(d.GreaterCosts),
		}
		if err := w.Write(row); err != nil {
			return nil, eris.Wrap(err, "write CSV row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "flush CSV")
	}
	return buf.Bytes(), nil
}
