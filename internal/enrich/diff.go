package enrich

import (
	"bytes"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

type missingDeal struct {
	deal    interface{}
	product interface{}
	qty     interface{}
}

type diffResult struct {
	// red marks changed cells, keyed by report row index then column.
	red     map[int]map[int]bool
	missing []missingDeal
}

// highlightDifferences compares the freshly built report against a
// previously formatted workbook. Changed or newly appeared cells are
// flagged red; deals present only in the old workbook are collected
// for the discrepancy sheet. An unreadable old workbook skips the
// comparison.
func highlightDifferences(rep *report, existing []byte, outputSheet string) *diffResult {
	old, err := excelize.OpenReader(bytes.NewReader(existing))
	if err != nil {
		return nil
	}
	defer old.Close()

	sheet := outputSheet
	found := false
	for _, name := range old.GetSheetList() {
		if name == sheet {
			found = true
			break
		}
	}
	if !found {
		sheet = old.GetSheetName(0)
	}

	existingRows := extractExistingRows(old, sheet)
	result := &diffResult{red: map[int]map[int]bool{}}
	seen := map[string]bool{}

	for i := range rep.rows {
		row := &rep.rows[i]
		if row.blank || row.monthHeader {
			continue
		}
		dealKey := normalize(cellString(row.cells[idxVSADeal]))
		if dealKey == "" || dealKey == "VSA DEAL" {
			continue
		}

		oldCells, ok := existingRows[dealKey]
		if !ok {
			// New deal: every populated cell is a change.
			for col := 0; col < reportColumns; col++ {
				if !isBlankCell(row.cells[col]) {
					markRed(result, i, col)
				}
			}
			continue
		}
		seen[dealKey] = true
		for col := 0; col < reportColumns; col++ {
			if valuesDiffer(row.cells[col], oldCells[col]) {
				markRed(result, i, col)
			}
		}
	}

	var missingKeys []string
	for key := range existingRows {
		if !seen[key] {
			missingKeys = append(missingKeys, key)
		}
	}
	sort.Strings(missingKeys)
	for _, key := range missingKeys {
		cells := existingRows[key]
		result.missing = append(result.missing, missingDeal{
			deal:    cells[idxVSADeal],
			product: cells[idxProduct],
			qty:     cells[15],
		})
	}

	return result
}

func markRed(result *diffResult, row, col int) {
	if result.red[row] == nil {
		result.red[row] = map[int]bool{}
	}
	result.red[row][col] = true
}

// extractExistingRows reads the old formatted sheet keyed by the
// normalized VSA deal in column B.
func extractExistingRows(f *excelize.File, sheet string) map[string][reportColumns]interface{} {
	out := map[string][reportColumns]interface{}{}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return out
	}
	for _, raw := range skipHeader(rows) {
		dealKey := normalize(cellAt(raw, idxVSADeal))
		if dealKey == "" || dealKey == "VSA DEAL" {
			continue
		}
		var cells [reportColumns]interface{}
		for col := 0; col < reportColumns; col++ {
			cells[col] = parseCell(cellAt(raw, col))
		}
		out[dealKey] = cells
	}
	return out
}

func isBlankCell(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// valuesDiffer compares a new cell against its old counterpart.
// Blank equals blank, numbers compare with a small tolerance, and a
// date serial on one side matches its DD/MM/YYYY rendering on the
// other.
func valuesDiffer(newVal, oldVal interface{}) bool {
	newBlank, oldBlank := isBlankCell(newVal), isBlankCell(oldVal)
	if newBlank && oldBlank {
		return false
	}
	if newBlank != oldBlank {
		return true
	}

	newNum, newOK := cellNumber(newVal)
	oldNum, oldOK := cellNumber(oldVal)
	if newOK && oldOK {
		return math.Abs(newNum-oldNum) > 1e-4
	}
	if newOK != oldOK {
		if newOK && serialMatchesDate(newNum, cellString(oldVal)) {
			return false
		}
		if oldOK && serialMatchesDate(oldNum, cellString(newVal)) {
			return false
		}
		return true
	}

	return strings.TrimSpace(cellString(newVal)) != strings.TrimSpace(cellString(oldVal))
}

func serialMatchesDate(serial float64, rendered string) bool {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(rendered))
	if err != nil {
		return false
	}
	return excelEpoch.AddDate(0, 0, int(serial)).Equal(t)
}
