package export

import (
	"bytes"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"

	"go-deal-recon/internal/cache"
	"go-deal-recon/pkg/utils"
)

// PDF renders the narrative summary report as a single-document PDF.
func PDF(entry *cache.Entry) ([]byte, error) {
	summary := entry.Payload.SummaryReport

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Deal Reconciliation Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Analysis "+entry.Token, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+entry.CreatedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Headline", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, summary.Headline, "", "L", false)
	pdf.Ln(3)

	findings := make([]string, 0, 4)
	for _, s := range []string{
		summary.TopContributors, summary.GreaterCosts,
		summary.MissingCosts, summary.UnregisteredCosts,
	} {
		if s != "" {
			findings = append(findings, s)
		}
	}
	writeSection(pdf, "Key Findings", findings)

	ov := entry.Payload.Overview
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Totals", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Deals analyzed: "+strconv.Itoa(ov.TotalDeals), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Flagged deals: "+strconv.Itoa(ov.FlaggedDeals), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Total difference: "+utils.FormatCurrency(ov.TotalDifference), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	writeSection(pdf, "Recommended Actions", summary.RecommendedActions)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, eris.Wrap(err, "render PDF")
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, title string, lines []string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if len(lines) == 0 {
		pdf.CellFormat(0, 5, "None.", "", 1, "L", false, 0, "")
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, "- "+line, "", "L", false)
	}
	pdf.Ln(3)
}
