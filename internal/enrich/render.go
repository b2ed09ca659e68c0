package enrich

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

var reportColumnWidths = []float64{
	18, 20, 22, 12, 14, 16, 22, 18, 16, 16, 20,
	16, 30, 18, 14, 14, 14, 24, 12, 14, 30, 30,
}

type reportStyles struct {
	header      int
	headerTotal int
	month       int
	center      int
	left        int
	total       int
	redCenter   int
	redLeft     int
	redTotal    int
}

func buildStyles(f *excelize.File) (reportStyles, error) {
	var s reportStyles
	var err error

	centerAlign := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	wrapCenter := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	wrapLeft := &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}
	totalBorder := []excelize.Border{
		{Type: "left", Style: 2, Color: "000000"},
		{Type: "right", Style: 2, Color: "000000"},
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Family: "Arial"},
		Alignment: wrapCenter,
	}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}
	if s.headerTotal, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Family: "Arial"},
		Alignment: wrapCenter,
		Border:    totalBorder,
	}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}
	if s.month, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Family: "Arial"},
		Alignment: centerAlign,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}},
	}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}
	if s.center, err = f.NewStyle(&excelize.Style{Alignment: centerAlign}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}
	if s.left, err = f.NewStyle(&excelize.Style{Alignment: wrapLeft}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Alignment: centerAlign,
		Border:    totalBorder,
	}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}

	redFont := &excelize.Font{Color: "FF0000", Family: "Arial"}
	if s.redCenter, err = f.NewStyle(&excelize.Style{Font: redFont, Alignment: centerAlign}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}
	if s.redLeft, err = f.NewStyle(&excelize.Style{Font: redFont, Alignment: wrapLeft}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}
	if s.redTotal, err = f.NewStyle(&excelize.Style{
		Font:      redFont,
		Alignment: centerAlign,
		Border:    totalBorder,
	}); err != nil {
		return s, eris.Wrap(err, "build styles")
	}
	return s, nil
}

// renderWorkbook writes the report model into a styled workbook and,
// when a diff ran, adds red marks and the discrepancy sheet.
func renderWorkbook(rep *report, sheet string, diff *diffResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, eris.Wrap(err, "name output sheet")
	}
	styles, err := buildStyles(f)
	if err != nil {
		return nil, err
	}

	for col, header := range reportHeaders {
		addr, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, addr, header); err != nil {
			return nil, eris.Wrap(err, "write header")
		}
		style := styles.header
		if col == idxTotalUSD {
			style = styles.headerTotal
		}
		if err := f.SetCellStyle(sheet, addr, addr, style); err != nil {
			return nil, eris.Wrap(err, "style header")
		}
	}

	for col, width := range reportColumnWidths {
		letter, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet, letter, letter, width); err != nil {
			return nil, eris.Wrap(err, "set column width")
		}
	}
	if err := f.SetRowHeight(sheet, 1, 85); err != nil {
		return nil, eris.Wrap(err, "set header height")
	}

	// Row 2 stays blank; data starts on sheet row 3.
	for i := range rep.rows {
		row := &rep.rows[i]
		sheetRow := i + 3
		if err := f.SetRowHeight(sheet, sheetRow, 15); err != nil {
			return nil, eris.Wrap(err, "set row height")
		}
		if row.blank {
			continue
		}

		if row.monthHeader {
			addr, _ := excelize.CoordinatesToCellName(1, sheetRow)
			if err := f.SetCellValue(sheet, addr, row.cells[idxMonth]); err != nil {
				return nil, eris.Wrap(err, "write month header")
			}
			if err := f.SetCellStyle(sheet, addr, addr, styles.month); err != nil {
				return nil, eris.Wrap(err, "style month header")
			}
			continue
		}

		for col := 0; col < reportColumns; col++ {
			addr, _ := excelize.CoordinatesToCellName(col+1, sheetRow)
			if row.cells[col] != nil {
				if err := f.SetCellValue(sheet, addr, row.cells[col]); err != nil {
					return nil, eris.Wrap(err, "write data cell")
				}
			}
			style := dataStyle(&styles, col, diff != nil && diff.red[i][col])
			if err := f.SetCellStyle(sheet, addr, addr, style); err != nil {
				return nil, eris.Wrap(err, "style data cell")
			}
		}
	}

	if diff != nil && len(diff.missing) > 0 {
		if err := writeDiscrepancySheet(f, diff.missing, styles); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func dataStyle(styles *reportStyles, col int, red bool) int {
	switch {
	case col == idxTotalUSD && red:
		return styles.redTotal
	case col == idxTotalUSD:
		return styles.total
	case (col == idxVSAComment || col == idxAdditional) && red:
		return styles.redLeft
	case col == idxVSAComment || col == idxAdditional:
		return styles.left
	case red:
		return styles.redCenter
	default:
		return styles.center
	}
}

func writeDiscrepancySheet(f *excelize.File, missing []missingDeal, styles reportStyles) error {
	const sheet = "Missing from Raw"
	if _, err := f.NewSheet(sheet); err != nil {
		return eris.Wrap(err, "create discrepancy sheet")
	}

	header := []interface{}{"VSA deal", "Product", "Qty BBL", "Notes"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return eris.Wrap(err, "write discrepancy header")
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Family: "Arial"},
	})
	if err != nil {
		return eris.Wrap(err, "build discrepancy style")
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return eris.Wrap(err, "style discrepancy header")
	}

	for i, m := range missing {
		row := []interface{}{m.deal, m.product, m.qty, "Not present in latest raw data"}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return eris.Wrap(err, "write discrepancy row")
		}
		for col := 0; col < 3; col++ {
			if isBlankCell(row[col]) {
				continue
			}
			cellAddr, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellStyle(sheet, cellAddr, cellAddr, styles.redCenter); err != nil {
				return eris.Wrap(err, "style discrepancy cell")
			}
		}
	}

	widths := []float64{18, 18, 14, 40}
	for col, width := range widths {
		letter, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet, letter, letter, width); err != nil {
			return eris.Wrap(err, "set discrepancy width")
		}
	}
	return nil
}
