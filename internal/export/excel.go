// Package export renders a cached analysis into downloadable
// Excel, CSV and PDF documents.
package export

import (
	"bytes"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"go-deal-recon/internal/cache"
	"go-deal-recon/internal/model"
)

// Excel builds a multi-sheet workbook from a cached analysis.
func Excel(entry *cache.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverviewSheet(f, entry); err != nil {
		return nil, err
	}
	if err := writeDealsSheet(f, entry.Payload.Deals); err != nil {
		return nil, err
	}
	if err := writeCostBreakdownSheet(f, entry.Payload.CostBreakdown); err != nil {
		return nil, err
	}
	if err := writeUnregisteredSheet(f, entry.Payload.UnregisteredCosts); err != nil {
		return nil, err
	}
	if err := writeHeatmapSheet(f, entry.Payload.Heatmap); err != nil {
		return nil, err
	}
	if err := writeRawDataSheet(f, entry); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	idx, err := f.GetSheetIndex("Overview")
	if err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func writeOverviewSheet(f *excelize.File, entry *cache.Entry) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return eris.Wrap(err, "create overview sheet")
	}
	ov := entry.Payload.Overview
	statusCounts := entry.Payload.Patterns.StatusCounts
	rows := [][]interface{}{
		{"Analysis Token", entry.Token},
		{"Generated At", entry.CreatedAt.Format("2006-01-02 15:04:05")},
		{nil, nil},
		{"Total Deals", ov.TotalDeals},
		{"Flagged Deals", ov.FlaggedDeals},
		{"Registered", statusCounts[model.StatusRegistered]},
		{"Partial", statusCounts[model.StatusPartial]},
		{"Missing", statusCounts[model.StatusMissing]},
		{"Unregistered", statusCounts[model.StatusUnregistered]},
		{"Total Difference", ov.TotalDifference},
		{"Average Variance %", ov.AverageVariance},
	}
	for i, row := range rows {
		addr, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return eris.Wrap(err, "write overview row")
		}
	}
	return nil
}

func writeDealsSheet(f *excelize.File, deals []model.Deal) error {
	const sheet = "Deal Differences"
	if _, err := f.NewSheet(sheet); err != nil {
		return eris.Wrap(err, "create deals sheet")
	}
	header := []interface{}{
		"Rank", "Deal ID", "Status", "Formatted Qty", "Comparison Qty",
		"Difference", "Variance %", "Missing Costs", "Greater Costs",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return eris.Wrap(err, "write deals header")
	}
	for i, d := range deals {
		var variance interface{}
		if d.PercentageVariance.Valid {
			variance = d.PercentageVariance.Value
		}
		row := []interface{}{
			d.Rank, d.DealID, d.CostRegistryStatus, d.FormattedQuantity, d.ComparisonQuantity,
			d.Difference, variance,
			joinLabels(d.MissingCosts), joinLabels(d.GreaterCosts),
		}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return eris.Wrap(err, "write deal row")
		}
	}
	return nil
}

func writeCostBreakdownSheet(f *excelize.File, breakdown []model.CostBreakdown) error {
	const sheet = "Cost Breakdown"
	if _, err := f.NewSheet(sheet); err != nil {
		return eris.Wrap(err, "create breakdown sheet")
	}
	header := []interface{}{
		"Cost Type", "Formatted Total", "Comparison Total",
		"Difference", "Variance %", "Status",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return eris.Wrap(err, "write breakdown header")
	}
	for i, b := range breakdown {
		var variance interface{}
		if b.Percentage.Valid {
			variance = b.Percentage.Value
		}
		row := []interface{}{
			b.CostType, b.FormattedTotal, b.ComparisonTotal,
			b.Difference, variance, b.Status,
		}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return eris.Wrap(err, "write breakdown row")
		}
	}
	return nil
}

func writeUnregisteredSheet(f *excelize.File, costs []model.UnregisteredCost) error {
	const sheet = "Unregistered Costs"
	if _, err := f.NewSheet(sheet); err != nil {
		return eris.Wrap(err, "create unregistered sheet")
	}
	header := []interface{}{"Cost Type", "Occurrences", "Total Impact", "Deals"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return eris.Wrap(err, "write unregistered header")
	}
	for i, c := range costs {
		row := []interface{}{c.CostType, c.DealCount, c.Impact, joinLabels(c.Deals)}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return eris.Wrap(err, "write unregistered row")
		}
	}
	return nil
}

func writeHeatmapSheet(f *excelize.File, hm model.Heatmap) error {
	const sheet = "Heatmap"
	if _, err := f.NewSheet(sheet); err != nil {
		return eris.Wrap(err, "create heatmap sheet")
	}
	header := make([]interface{}, 0, len(hm.CostTypes)+1)
	header = append(header, "Deal ID")
	for _, ct := range hm.CostTypes {
		header = append(header, ct)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return eris.Wrap(err, "write heatmap header")
	}
	for i, dealID := range hm.DealIDs {
		row := make([]interface{}, 0, len(hm.CostTypes)+1)
		row = append(row, dealID)
		for j := range hm.CostTypes {
			row = append(row, hm.StatusMatrix[i][j])
		}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return eris.Wrap(err, "write heatmap row")
		}
	}
	return nil
}

func writeRawDataSheet(f *excelize.File, entry *cache.Entry) error {
	const sheet = "Raw Data"
	if _, err := f.NewSheet(sheet); err != nil {
		return eris.Wrap(err, "create raw data sheet")
	}
	header := []interface{}{
		"Deal ID", "Formatted Qty", "Comparison Qty", "Difference", "Variance %",
	}
	for _, c := range entry.Costs {
		header = append(header, c.Label+" (Formatted)", c.Label+" (Comparison)")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return eris.Wrap(err, "write raw header")
	}
	for i, m := range entry.Merged {
		var variance interface{}
		if m.PercentageVariance.Valid {
			variance = m.PercentageVariance.Value
		}
		row := []interface{}{
			m.DealID, m.FormattedQuantity, m.ComparisonQuantity,
			m.QuantityDifference, variance,
		}
		for _, c := range entry.Costs {
			row = append(row, m.FormattedCosts[c.Key], m.ComparisonCosts[c.Key])
		}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return eris.Wrap(err, "write raw row")
		}
	}
	return nil
}

func joinLabels(labels []string) string {
	return strings.Join(labels, ", ")
}
