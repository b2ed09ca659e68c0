package ingest

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"go-deal-recon/internal/model"
	"go-deal-recon/internal/table"
	"go-deal-recon/pkg/utils"
)

// ReadExcel parses workbook bytes into a table. When sheet is empty the
// first sheet in the workbook is used.
func ReadExcel(data []byte, sheet string) (*table.Table, error) {
	if len(data) == 0 {
		return nil, model.NewInputError("uploaded file is empty")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, model.NewInputError("worksheet has no rows")
	}

	headers := make([]interface{}, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = h
	}
	records := make([][]interface{}, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make([]interface{}, len(raw))
		for i, cell := range raw {
			row[i] = utils.ParseValue(cell)
		}
		records = append(records, row)
	}

	return table.New(headers, records), nil
}

// Read dispatches on the uploaded filename extension; anything that is
// not .csv is treated as a workbook.
func Read(filename string, data []byte) (*table.Table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return ReadCSV(data)
	}
	return ReadExcel(data, "")
}
