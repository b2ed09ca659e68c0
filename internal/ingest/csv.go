// Package ingest loads caller-supplied spreadsheet and CSV bytes into
// the engine's in-memory table.
package ingest

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"go-deal-recon/internal/model"
	"go-deal-recon/internal/table"
	"go-deal-recon/pkg/utils"
)

// ReadCSV parses CSV bytes into a table. The first row supplies the
// headers; cell values are parsed into int/float/string.
func ReadCSV(data []byte) (*table.Table, error) {
	if len(data) == 0 {
		return nil, model.NewInputError("uploaded file is empty")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rawHeaders, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read CSV header")
	}
	headers := make([]interface{}, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = h
	}

	var records [][]interface{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read CSV row")
		}
		row := make([]interface{}, len(record))
		for i, cell := range record {
			row[i] = utils.ParseValue(cell)
		}
		records = append(records, row)
	}

	return table.New(headers, records), nil
}
