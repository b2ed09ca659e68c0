package enrich

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Raw-sheet column positions (0-based) used by the lookup tables and
// the business rules.
const (
	sheet1DealCol = 5  // F
	sheet1IncoCol = 27 // AB
	sheet1WHBCol  = 77 // BZ

	sheet2DealCol   = 13 // N
	sheet2TypeCol   = 42 // AQ
	sheet2AmountCol = 47 // AV

	sheet3HedgeCol = 12 // M
	sheet3BRCol    = 69 // BR
	sheet3CNCol    = 91 // CN
)

type lookupTables struct {
	// Deals delivered CIF via WHB; their cargo/insurance columns are
	// zeroed.
	whbCIFDeals map[string]bool
	// deal + "," + cost type -> summed amount.
	costs map[string]float64
	// hedge reference -> VSA comment / additional info.
	hedgeToBR map[string]string
	hedgeToCN map[string]string
}

func buildLookupTables(src *excelize.File, sheets rawSheets) (*lookupTables, error) {
	lk := &lookupTables{
		whbCIFDeals: map[string]bool{},
		costs:       map[string]float64{},
		hedgeToBR:   map[string]string{},
		hedgeToCN:   map[string]string{},
	}

	rows1, err := src.GetRows(sheets.raw1, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %q", sheets.raw1)
	}
	for _, row := range skipHeader(rows1) {
		if cellAt(row, sheet1IncoCol) == "CIF" && cellAt(row, sheet1WHBCol) == "WHB" {
			if deal := normalize(cellAt(row, sheet1DealCol)); deal != "" {
				lk.whbCIFDeals[deal] = true
			}
		}
	}

	rows2, err := src.GetRows(sheets.raw2, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %q", sheets.raw2)
	}
	for _, row := range skipHeader(rows2) {
		deal := normalize(cellAt(row, sheet2DealCol))
		costType := normalize(cellAt(row, sheet2TypeCol))
		if deal == "" || costType == "" {
			continue
		}
		lk.costs[deal+","+costType] += safeFloat(cellAt(row, sheet2AmountCol))
	}

	rows3, err := src.GetRows(sheets.raw3, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %q", sheets.raw3)
	}
	for _, row := range skipHeader(rows3) {
		hedge := normalize(cellAt(row, sheet3HedgeCol))
		if hedge == "" {
			continue
		}
		if br := strings.TrimSpace(cellAt(row, sheet3BRCol)); br != "" {
			if _, seen := lk.hedgeToBR[hedge]; !seen {
				lk.hedgeToBR[hedge] = br
			}
		}
		if cn := strings.TrimSpace(cellAt(row, sheet3CNCol)); cn != "" {
			if _, seen := lk.hedgeToCN[hedge]; !seen {
				lk.hedgeToCN[hedge] = cn
			}
		}
	}

	return lk, nil
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
