// Package enrich builds the formatted rebilling workbook from the raw
// three-sheet export: positional column remapping, month grouping,
// business-rule enrichment, styling and an optional diff highlight
// against a previously formatted workbook.
package enrich

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"go-deal-recon/internal/model"
)

// DefaultOutputSheetName is used when the caller does not name the
// output sheet.
const DefaultOutputSheetName = "Q1-Q2-Q3-Q4-2024"

// Settings selects input sheets and the output sheet name. Empty raw
// sheet names fall back to positional defaults (first, second, third
// sheet of the uploaded workbook).
type Settings struct {
	OutputSheetName string
	RawSheet1Name   string
	RawSheet2Name   string
	RawSheet3Name   string
}

// Processor runs the full formatting pipeline over an uploaded raw
// workbook.
type Processor struct {
	logger *zap.Logger
}

func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{logger: logger.Named("enrich")}
}

// Process builds the formatted workbook. When existing holds a prior
// formatted workbook, cells that changed are marked in red and deals
// no longer present in the raw data land on a "Missing from Raw" sheet.
func (p *Processor) Process(data []byte, existing []byte, settings Settings) ([]byte, error) {
	if len(data) == 0 {
		return nil, model.NewInputError("uploaded file is empty")
	}
	if settings.OutputSheetName == "" {
		settings.OutputSheetName = DefaultOutputSheetName
	}

	src, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "open raw workbook")
	}
	defer src.Close()

	sheets, err := resolveSheets(src, settings)
	if err != nil {
		return nil, err
	}

	lookups, err := buildLookupTables(src, sheets)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("lookup tables built",
		zap.Int("whb_cif_deals", len(lookups.whbCIFDeals)),
		zap.Int("cost_entries", len(lookups.costs)),
		zap.Int("hedge_entries", len(lookups.hedgeToBR)))

	report, err := buildReport(src, sheets.raw1)
	if err != nil {
		return nil, err
	}
	applyBusinessRules(report, lookups)

	var diff *diffResult
	if len(existing) > 0 {
		diff = highlightDifferences(report, existing, settings.OutputSheetName)
	}

	out, err := renderWorkbook(report, settings.OutputSheetName, diff)
	if err != nil {
		return nil, err
	}
	p.logger.Info("formatted workbook built",
		zap.Int("rows", len(report.rows)),
		zap.Bool("diffed", diff != nil))
	return out, nil
}

type rawSheets struct {
	raw1 string
	raw2 string
	raw3 string
}

// resolveSheets validates the three raw sheets exist and sheet 1 has
// at least one data row.
func resolveSheets(src *excelize.File, settings Settings) (rawSheets, error) {
	names := src.GetSheetList()

	pick := func(want string, pos int) (string, error) {
		if want == "" {
			if pos >= len(names) {
				return "", model.NewInputError("workbook must contain three raw sheets")
			}
			return names[pos], nil
		}
		for _, n := range names {
			if n == want {
				return n, nil
			}
		}
		return "", model.NewInputError("raw sheet " + want + " not found")
	}

	var sheets rawSheets
	var err error
	if sheets.raw1, err = pick(settings.RawSheet1Name, 0); err != nil {
		return sheets, err
	}
	if sheets.raw2, err = pick(settings.RawSheet2Name, 1); err != nil {
		return sheets, err
	}
	if sheets.raw3, err = pick(settings.RawSheet3Name, 2); err != nil {
		return sheets, err
	}

	rows, err := src.GetRows(sheets.raw1, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheets, eris.Wrapf(err, "read sheet %q", sheets.raw1)
	}
	if len(rows) < 2 {
		return sheets, model.NewInputError("raw sheet 1 must have at least one data row")
	}
	return sheets, nil
}
