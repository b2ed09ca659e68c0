package export

import (
	"strings"
	"testing"
	"time"

	"go-deal-recon/internal/cache"
	"go-deal-recon/internal/model"
)

func sampleEntry() *cache.Entry {
	return &cache.Entry{
		Token:     "tok123",
		CreatedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		Costs: []model.CostColumn{
			{Key: "handling_fee", Label: "Handling Fee", FormattedColumn: "handling_fee"},
		},
		Merged: []model.MergedDeal{{
			DealID:             "D1",
			FormattedQuantity:  100,
			ComparisonQuantity: 90,
			QuantityDifference: 10,
			PercentageVariance: model.Float(11.11),
			Rank:               1,
			FormattedCosts:     map[string]float64{"handling_fee": 10},
			ComparisonCosts:    map[string]float64{},
		}},
		Payload: &model.AnalysisPayload{
			Token: "tok123",
			Overview: model.Overview{
				TotalDeals:      1,
				TotalDifference: 10,
				FlaggedDeals:    1,
			},
			Deals: []model.Deal{{
				DealID:             "D1",
				FormattedQuantity:  100,
				ComparisonQuantity: 90,
				Difference:         10,
				PercentageVariance: model.Float(11.11),
				Rank:               1,
				CostRegistryStatus: model.StatusUnregistered,
				MissingCosts:       []string{},
				GreaterCosts:       []string{"Handling Fee"},
			}},
			UnregisteredCosts: []model.UnregisteredCost{{
				CostType: "Handling Fee", Impact: 10, DealCount: 1, Deals: []string{"D1"},
			}},
			Patterns: model.Patterns{StatusCounts: map[string]int{model.StatusUnregistered: 1}},
			SummaryReport: model.SummaryReport{
				Headline:           "1 deals require attention.",
				RecommendedActions: []string{"Review the top contributing deals for manual confirmation of quantities."},
			},
		},
	}
}

func TestCSVExport(t *testing.T) {
	data, err := CSV(sampleEntry())
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 row:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "rank,deal_id,status") {
		t.Errorf("header = %q", lines[0])
	}
	row := lines[1]
	for _, want := range []string{"D1", "Unregistered", "11.11", "Handling Fee"} {
		if !strings.Contains(row, want) {
			t.Errorf("row %q missing %q", row, want)
		}
	}
}

func TestExcelExport(t *testing.T) {
	data, err := Excel(sampleEntry())
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook bytes")
	}
	// XLSX files are zip archives.
	if data[0] != 'P' || data[1] != 'K' {
		t.Errorf("workbook does not look like a zip: % x", data[:4])
	}
}

func TestPDFExport(t *testing.T) {
	data, err := PDF(sampleEntry())
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		t.Errorf("output does not look like a PDF")
	}
}
