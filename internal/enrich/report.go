package enrich

import (
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// reportColumns is the width of the formatted layout (columns A-V).
const reportColumns = 22

// Output layout positions (0-based).
const (
	idxMonth      = 0  // A, month group headers
	idxVSADeal    = 1  // B
	idxVessel     = 2  // C
	idxLCCosts    = 4  // E
	idxLoadInsp   = 5  // F
	idxFirstCost  = 4  // E
	idxLastCost   = 10 // K
	idxCIN        = 8  // I
	idxCLI        = 9  // J
	idxTotalUSD   = 11 // L
	idxProduct    = 13 // N
	idxHedge      = 14 // O
	idxDate       = 19 // T
	idxVSAComment = 20 // U
	idxAdditional = 21 // V
)

var reportHeaders = []string{
	"Varo deal", "VSA deal", "VESSEL", "VMAG %", "L/C costs",
	"Load insp", "Discharge inspection", "Superintendent", "CIN insurance",
	"CLI insurance", "Provisional charge", "TOTAL USD", "VARO comments",
	"Product", "Hedge", "Qty BBL", "Inco", "Contractual Location",
	"Risk", "Date", "VSA comments", "Additional information",
}

// reportRow is one line of the formatted sheet. Sheet row 3 is index 0
// of report.rows; blank spacer rows are zero-value entries.
type reportRow struct {
	cells       [reportColumns]interface{}
	monthHeader bool
	blank       bool
}

type report struct {
	rows []reportRow
}

// buildReport performs the positional remap of raw sheet 1 into the
// A-V layout, sorts rows by deal date, and inserts month group headers
// with three blank spacer rows between months.
func buildReport(src *excelize.File, sheet string) (*report, error) {
	raw, err := src.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %q", sheet)
	}

	type mappedRow struct {
		cells [reportColumns]interface{}
		date  time.Time
		dated bool
	}

	var mapped []mappedRow
	for _, row := range skipHeader(raw) {
		if rowIsEmpty(row) {
			continue
		}
		var m mappedRow
		// B<-F, C<-AA, N<-M, O<-L, P<-Q, Q<-AB, R<-AD, S<-AL, T<-AM
		m.cells[idxVSADeal] = parseCell(cellAt(row, 5))
		m.cells[idxVessel] = parseCell(cellAt(row, 26))
		m.cells[idxProduct] = parseCell(cellAt(row, 12))
		m.cells[idxHedge] = parseCell(cellAt(row, 11))
		m.cells[15] = parseCell(cellAt(row, 16)) // P: Qty BBL
		m.cells[16] = parseCell(cellAt(row, 27)) // Q: Inco
		m.cells[17] = parseCell(cellAt(row, 29)) // R: Contractual Location
		m.cells[18] = parseCell(cellAt(row, 37)) // S: Risk
		if t, ok := ParseDate(cellAt(row, 38)); ok {
			m.date, m.dated = t, true
			m.cells[idxDate] = t.Format("02/01/2006")
		}
		mapped = append(mapped, m)
	}

	sort.SliceStable(mapped, func(i, j int) bool {
		switch {
		case mapped[i].dated && mapped[j].dated:
			return mapped[i].date.Before(mapped[j].date)
		case mapped[i].dated:
			return true
		default:
			return false
		}
	})

	rep := &report{}
	haveMonth := false
	var curYear int
	var curMonth time.Month
	for _, m := range mapped {
		if m.dated && (!haveMonth || m.date.Month() != curMonth || m.date.Year() != curYear) {
			if haveMonth {
				for i := 0; i < 3; i++ {
					rep.rows = append(rep.rows, reportRow{blank: true})
				}
			}
			header := reportRow{monthHeader: true}
			header.cells[idxMonth] = monthHeaderText(m.date)
			rep.rows = append(rep.rows, header)
			curMonth, curYear, haveMonth = m.date.Month(), m.date.Year(), true
		}
		rep.rows = append(rep.rows, reportRow{cells: m.cells})
	}

	return rep, nil
}

// monthHeaderText renders a month group header, e.g. JAN-24.
func monthHeaderText(t time.Time) string {
	return strings.ToUpper(t.Format("Jan")) + "-" + t.Format("06")
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
