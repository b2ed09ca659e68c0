package compare

import (
	"errors"
	"testing"

	"go-deal-recon/internal/model"
	"go-deal-recon/internal/table"
)

func newTable(t *testing.T, headers []string, rows ...[]interface{}) *table.Table {
	t.Helper()
	hs := make([]interface{}, len(headers))
	for i, h := range headers {
		hs[i] = h
	}
	return table.New(hs, rows)
}

func TestResolveDealColumn(t *testing.T) {
	tbl := newTable(t, []string{"Vessel", "Deal ID", "Total USD"})
	got, err := ResolveDealColumn(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if got != "deal_id" {
		t.Errorf("ResolveDealColumn = %q, want deal_id", got)
	}
}

func TestResolveDealColumnSubstringFallback(t *testing.T) {
	tbl := newTable(t, []string{"Vessel", "My Deal Ref", "Total USD"})
	got, err := ResolveDealColumn(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if got != "my_deal_ref" {
		t.Errorf("ResolveDealColumn = %q, want my_deal_ref", got)
	}
}

func TestResolveDealColumnMissing(t *testing.T) {
	tbl := newTable(t, []string{"Vessel", "Total USD"})
	_, err := ResolveDealColumn(tbl)
	var schemaErr *model.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestResolveComparisonQuantityColumn(t *testing.T) {
	tbl := newTable(t, []string{"Deal", "Grand Total", "Insurance Cost"},
		[]interface{}{"D1", 10, 1})

	// Explicit override wins.
	got, err := ResolveComparisonQuantityColumn(tbl, "insurance_cost", "L")
	if err != nil {
		t.Fatal(err)
	}
	if got != "insurance_cost" {
		t.Errorf("preferred column = %q", got)
	}

	// Keyword hint otherwise.
	got, err = ResolveComparisonQuantityColumn(tbl, "", "L")
	if err != nil {
		t.Fatal(err)
	}
	if got != "grand_total" {
		t.Errorf("hinted column = %q, want grand_total", got)
	}
}

func TestResolveComparisonQuantityColumnLetterFallback(t *testing.T) {
	tbl := newTable(t, []string{"Deal", "Qty", "Note"},
		[]interface{}{"D1", 5, "x"})
	got, err := ResolveComparisonQuantityColumn(tbl, "", "B")
	if err != nil {
		t.Fatal(err)
	}
	if got != "qty" {
		t.Errorf("letter fallback = %q, want qty", got)
	}
}

func TestResolveComparisonQuantityColumnNumericFallback(t *testing.T) {
	tbl := newTable(t, []string{"Deal", "Note", "Val"},
		[]interface{}{"D1", "text", "12.5"})
	// Letter Z is out of range, val is the only numeric column.
	got, err := ResolveComparisonQuantityColumn(tbl, "", "Z")
	if err != nil {
		t.Fatal(err)
	}
	if got != "val" {
		t.Errorf("numeric fallback = %q, want val", got)
	}
}

func TestExtractCostColumns(t *testing.T) {
	tbl := newTable(t, []string{"Deal ID", "Total USD", "Insurance Cost", "Handling Fee", "Note"})
	got := ExtractCostColumns(tbl, "total_usd")
	want := []string{"insurance_cost", "handling_fee"}
	if len(got) != len(want) {
		t.Fatalf("ExtractCostColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cost[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildCostRegistrySharedKey(t *testing.T) {
	formatted := newTable(t, []string{"Deal ID", "Insurance Cost", "Handling Fee"})
	comparison := newTable(t, []string{"Deal", "Insurance Cost"})

	registry := BuildCostRegistry(
		[]string{"insurance_cost", "handling_fee"},
		[]string{"insurance_cost"},
		formatted, comparison)

	if len(registry) != 2 {
		t.Fatalf("registry size = %d, want 2", len(registry))
	}
	ins := registry["insurance_cost"]
	if ins.FormattedColumn != "insurance_cost" || ins.ComparisonColumn != "insurance_cost" {
		t.Errorf("insurance entry = %+v", ins)
	}
	fee := registry["handling_fee"]
	if fee.FormattedColumn != "handling_fee" || fee.ComparisonColumn != "" {
		t.Errorf("fee entry = %+v", fee)
	}

	costs := SortedCosts(registry)
	if costs[0].Label != "Handling Fee" || costs[1].Label != "Insurance Cost" {
		t.Errorf("sorted labels = %q, %q", costs[0].Label, costs[1].Label)
	}
}

func TestAggregateGroupsAndSums(t *testing.T) {
	tbl := newTable(t, []string{"Deal ID", "Total USD", "Insurance Cost"},
		[]interface{}{"D1", "100", 5},
		[]interface{}{"D2", 50, nil},
		[]interface{}{"D1", 25.5, "2.5"},
		[]interface{}{"D1", "n/a", ""},
	)
	ds := Aggregate(tbl, "deal_id", "total_usd", []string{"insurance_cost"})
	if len(ds.Deals) != 2 {
		t.Fatalf("groups = %d, want 2", len(ds.Deals))
	}
	if ds.Deals[0].DealID != "D1" || ds.Deals[1].DealID != "D2" {
		t.Errorf("group order = %q, %q", ds.Deals[0].DealID, ds.Deals[1].DealID)
	}
	if ds.Deals[0].TotalQuantity != 125.5 {
		t.Errorf("D1 quantity = %v, want 125.5", ds.Deals[0].TotalQuantity)
	}
	if ds.Deals[0].Costs["insurance_cost"] != 7.5 {
		t.Errorf("D1 insurance = %v, want 7.5", ds.Deals[0].Costs["insurance_cost"])
	}
}

func TestMergeOuterJoin(t *testing.T) {
	formatted := &Dataset{Deals: []AggregatedDeal{
		{DealID: "D1", TotalQuantity: 100, Costs: map[string]float64{}},
		{DealID: "D2", TotalQuantity: 50, Costs: map[string]float64{}},
	}}
	comparison := &Dataset{Deals: []AggregatedDeal{
		{DealID: "D2", TotalQuantity: 50, Costs: map[string]float64{}},
		{DealID: "D3", TotalQuantity: 30, Costs: map[string]float64{}},
	}}

	merged := Merge(formatted, comparison)
	if len(merged) != 3 {
		t.Fatalf("merged rows = %d, want 3", len(merged))
	}

	byID := map[string]model.MergedDeal{}
	for _, row := range merged {
		byID[row.DealID] = row
		if row.QuantityDifference != row.FormattedQuantity-row.ComparisonQuantity {
			t.Errorf("%s: difference invariant broken", row.DealID)
		}
	}

	if d1 := byID["D1"]; d1.ComparisonQuantity != 0 || d1.PercentageVariance.Valid {
		t.Errorf("D1 = %+v, want zero comparison and null variance", d1)
	}
	if d3 := byID["D3"]; d3.FormattedQuantity != 0 || d3.QuantityDifference != -30 {
		t.Errorf("D3 = %+v", d3)
	}
	if d2 := byID["D2"]; !d2.PercentageVariance.Valid || d2.PercentageVariance.Value != 0 {
		t.Errorf("D2 variance = %+v, want defined 0", d2.PercentageVariance)
	}

	// Ranks are dense 1..N ordered by abs difference descending.
	if merged[0].DealID != "D1" || merged[0].Rank != 1 {
		t.Errorf("rank 1 = %s/%d, want D1/1", merged[0].DealID, merged[0].Rank)
	}
	if merged[1].DealID != "D3" || merged[1].Rank != 2 {
		t.Errorf("rank 2 = %s/%d, want D3/2", merged[1].DealID, merged[1].Rank)
	}
	if merged[2].Rank != 3 {
		t.Errorf("rank 3 = %d", merged[2].Rank)
	}
}

func costColumn(key, label string, formatted, comparison bool) model.CostColumn {
	c := model.CostColumn{Key: key, Label: label}
	if formatted {
		c.FormattedColumn = key
	}
	if comparison {
		c.ComparisonColumn = key
	}
	return c
}

func TestClassifyPartialBoundary(t *testing.T) {
	costs := []model.CostColumn{costColumn("fee", "Fee", true, true)}

	partialRow := model.MergedDeal{
		DealID:          "P1",
		FormattedCosts:  map[string]float64{"fee": 105},
		ComparisonCosts: map[string]float64{"fee": 100},
	}
	registeredRow := model.MergedDeal{
		DealID:          "R1",
		FormattedCosts:  map[string]float64{"fee": 104.9},
		ComparisonCosts: map[string]float64{"fee": 100},
	}

	c := Classify([]model.MergedDeal{partialRow, registeredRow}, costs)
	if len(c.Deals) != 2 {
		t.Fatalf("qualifying deals = %d, want 2", len(c.Deals))
	}
	if got := c.Deals[0].Costs[0].Status; got != model.StatusPartial {
		t.Errorf("105/100 status = %q, want Partial", got)
	}
	if got := c.Deals[1].Costs[0].Status; got != model.StatusRegistered {
		t.Errorf("104.9/100 status = %q, want Registered", got)
	}
}

func TestClassifyUnregisteredAndMissing(t *testing.T) {
	costs := []model.CostColumn{
		costColumn("fee", "Fee", true, false),
		costColumn("insurance", "Insurance", true, true),
	}
	row := model.MergedDeal{
		DealID:          "D1",
		FormattedCosts:  map[string]float64{"fee": 10},
		ComparisonCosts: map[string]float64{"insurance": 25},
	}

	c := Classify([]model.MergedDeal{row}, costs)
	if len(c.Deals) != 1 {
		t.Fatalf("qualifying deals = %d, want 1", len(c.Deals))
	}
	deal := c.Deals[0]
	if deal.CostRegistryStatus != model.StatusUnregistered {
		t.Errorf("overall status = %q, want Unregistered", deal.CostRegistryStatus)
	}
	if deal.VarianceCategory != "both" {
		t.Errorf("variance category = %q, want both", deal.VarianceCategory)
	}
	if len(deal.MissingCosts) != 1 || deal.MissingCosts[0] != "Insurance" {
		t.Errorf("missing costs = %v", deal.MissingCosts)
	}
	if len(deal.GreaterCosts) != 1 || deal.GreaterCosts[0] != "Fee" {
		t.Errorf("greater costs = %v", deal.GreaterCosts)
	}

	tracker := c.Unregistered["Fee"]
	if tracker == nil || tracker.TotalDifference != 10 {
		t.Fatalf("unregistered tracker = %+v", tracker)
	}

	unregistered := BuildUnregisteredCosts(c, costs)
	if len(unregistered) != 1 || unregistered[0].Impact != 10 || unregistered[0].DealCount != 1 {
		t.Errorf("unregistered list = %+v", unregistered)
	}
}

func TestClassifyAlignedBucketCoversAllDeals(t *testing.T) {
	costs := []model.CostColumn{costColumn("fee", "Fee", true, true)}
	rows := []model.MergedDeal{
		{DealID: "Q1", QuantityDifference: 10, AbsDifference: 10,
			FormattedCosts: map[string]float64{}, ComparisonCosts: map[string]float64{}},
		{DealID: "A1",
			FormattedCosts: map[string]float64{"fee": 5}, ComparisonCosts: map[string]float64{"fee": 5}},
	}

	c := Classify(rows, costs)
	if len(c.Deals) != 1 {
		t.Fatalf("qualifying deals = %d, want 1", len(c.Deals))
	}
	sc := c.StatusCounts
	total := sc.Greater + sc.Missing + sc.Aligned + sc.Both
	if total != len(rows) {
		t.Errorf("status buckets sum to %d, want %d", total, len(rows))
	}
	if sc.Aligned != 2 {
		// Q1 qualifies on quantity alone with no cost flags, A1 does
		// not qualify at all; both land in the aligned bucket.
		t.Errorf("aligned = %d, want 2", sc.Aligned)
	}
}

func TestDetectAnomaliesBoundary(t *testing.T) {
	// Differences 0,0,0,0,5: mean 1, population std 2, threshold 5.
	// The comparison is strict, so 5 must not flag.
	rows := make([]model.MergedDeal, 5)
	for i := range rows {
		rows[i] = model.MergedDeal{DealID: "D", FormattedCosts: map[string]float64{}, ComparisonCosts: map[string]float64{}}
	}
	rows[4].QuantityDifference = 5

	anomalies, _ := DetectAnomalies(rows, nil)
	if len(anomalies) != 0 {
		t.Errorf("boundary value flagged: %+v", anomalies)
	}
}

func TestDetectAnomaliesFlagsOutlier(t *testing.T) {
	diffs := []float64{1, 1, 1, 1, 1, 100}
	rows := make([]model.MergedDeal, len(diffs))
	for i, d := range diffs {
		rows[i] = model.MergedDeal{
			DealID:             "D" + string(rune('1'+i)),
			QuantityDifference: d,
			FormattedCosts:     map[string]float64{},
			ComparisonCosts:    map[string]float64{},
		}
	}

	anomalies, _ := DetectAnomalies(rows, nil)
	if len(anomalies) != 1 || anomalies[0].DealID != "D6" {
		t.Fatalf("anomalies = %+v, want single D6", anomalies)
	}
}

func TestDetectAnomaliesSkipsConstantSeries(t *testing.T) {
	rows := []model.MergedDeal{
		{DealID: "D1", QuantityDifference: 3, FormattedCosts: map[string]float64{}, ComparisonCosts: map[string]float64{}},
		{DealID: "D2", QuantityDifference: 3, FormattedCosts: map[string]float64{}, ComparisonCosts: map[string]float64{}},
	}
	anomalies, _ := DetectAnomalies(rows, nil)
	if len(anomalies) != 0 {
		t.Errorf("constant series flagged: %+v", anomalies)
	}
}

func TestDetectAnomaliesCostSeries(t *testing.T) {
	costs := []model.CostColumn{costColumn("fee", "Fee", true, true)}
	feeDiffs := []float64{1, 1, 1, 1, 1, 100}
	rows := make([]model.MergedDeal, len(feeDiffs))
	for i, d := range feeDiffs {
		rows[i] = model.MergedDeal{
			DealID:          "D" + string(rune('1'+i)),
			FormattedCosts:  map[string]float64{"fee": d},
			ComparisonCosts: map[string]float64{},
		}
	}

	_, costAnomalies := DetectAnomalies(rows, costs)
	if len(costAnomalies) != 1 || costAnomalies[0].DealID != "D6" || costAnomalies[0].CostType != "Fee" {
		t.Fatalf("cost anomalies = %+v", costAnomalies)
	}
}

func dealWithUnregistered(id string, costTypes ...string) model.Deal {
	details := make([]model.CostDetail, 0, len(costTypes))
	for _, ct := range costTypes {
		details = append(details, model.CostDetail{CostType: ct, Status: model.StatusUnregistered})
	}
	return model.Deal{
		DealID:             id,
		CostRegistryStatus: model.StatusUnregistered,
		Costs:              details,
	}
}

func TestDetectPatterns(t *testing.T) {
	deals := []model.Deal{
		dealWithUnregistered("D1", "Fee"),
		dealWithUnregistered("D2", "Fee"),
		dealWithUnregistered("D3", "Charge", "Fee"),
	}

	patterns := DetectPatterns(deals)
	if patterns.StatusCounts[model.StatusUnregistered] != 3 {
		t.Errorf("unregistered count = %d", patterns.StatusCounts[model.StatusUnregistered])
	}
	if len(patterns.RepeatingPatterns) != 1 {
		t.Fatalf("repeating patterns = %+v, want exactly one", patterns.RepeatingPatterns)
	}
	p := patterns.RepeatingPatterns[0]
	if len(p.CostTypes) != 1 || p.CostTypes[0] != "Fee" {
		t.Errorf("pattern cost types = %v", p.CostTypes)
	}
	if len(p.Deals) != 2 || p.Deals[0] != "D1" || p.Deals[1] != "D2" {
		t.Errorf("pattern deals = %v", p.Deals)
	}
}

func TestBuildHeatmapCells(t *testing.T) {
	costs := []model.CostColumn{
		costColumn("fee", "Fee", true, true),
		costColumn("ghost", "Ghost", false, false),
	}
	rows := []model.MergedDeal{{
		DealID:          "D1",
		FormattedCosts:  map[string]float64{"fee": 130},
		ComparisonCosts: map[string]float64{"fee": 100},
	}}

	hm := BuildHeatmap(rows, costs)
	if len(hm.Matrix) != 1 || len(hm.Matrix[0]) != 2 {
		t.Fatalf("matrix shape = %dx%d", len(hm.Matrix), len(hm.Matrix[0]))
	}
	if hm.StatusMatrix[0][0] != ">20% Higher" || hm.Matrix[0][0].Value != 2 {
		t.Errorf("fee cell = %q / %+v", hm.StatusMatrix[0][0], hm.Matrix[0][0])
	}
	if hm.Matrix[0][1].Valid {
		t.Errorf("no-data cell should be null, got %+v", hm.Matrix[0][1])
	}
	if hm.Hover[0][1] != "No data" {
		t.Errorf("no-data hover = %q", hm.Hover[0][1])
	}
}

func TestBuildSummaryFallbacks(t *testing.T) {
	summary := BuildSummary(nil, 0, nil, model.Patterns{}, nil, model.DealStatusCounts{})
	if summary.Headline != "No qualifying deals were found." {
		t.Errorf("headline = %q", summary.Headline)
	}
	if summary.TopContributors != "No significant deal variances detected." {
		t.Errorf("top contributors = %q", summary.TopContributors)
	}
	if summary.UnregisteredCosts != "No unregistered cost types detected." {
		t.Errorf("unregistered = %q", summary.UnregisteredCosts)
	}
	if len(summary.RecommendedActions) != 1 ||
		summary.RecommendedActions[0] != "No immediate actions detected; continue monitoring." {
		t.Errorf("recommendations = %v", summary.RecommendedActions)
	}
}

func TestAnalyzerEndToEnd(t *testing.T) {
	formatted := newTable(t,
		[]string{"Deal ID", "Total USD", "Insurance Cost", "Handling Fee"},
		[]interface{}{"D1", 100, 50, 10},
		[]interface{}{"D2", 200, 20, nil},
	)
	comparison := newTable(t,
		[]string{"Deal", "Grand Total", "Insurance Cost"},
		[]interface{}{"D1", 90, 50},
		[]interface{}{"D2", 200, 20},
	)

	analyzer := NewAnalyzer(nil, nil)
	payload, err := analyzer.Analyze(formatted, comparison, model.Options{
		FormattedQuantityLetter: "B",
	})
	if err != nil {
		t.Fatal(err)
	}

	if payload.Token == "" {
		t.Error("payload token is empty")
	}
	if payload.Overview.TotalDeals != 2 {
		t.Errorf("total deals = %d, want 2", payload.Overview.TotalDeals)
	}
	if payload.Overview.TotalDifference != 10 {
		t.Errorf("total difference = %v, want 10", payload.Overview.TotalDifference)
	}
	if payload.Overview.AverageVariance != 11.11 {
		t.Errorf("average variance = %v, want 11.11", payload.Overview.AverageVariance)
	}
	if len(payload.Deals) != 1 || payload.Deals[0].DealID != "D1" {
		t.Fatalf("qualifying deals = %+v", payload.Deals)
	}
	deal := payload.Deals[0]
	if deal.Rank != 1 || deal.Difference != 10 {
		t.Errorf("deal = %+v", deal)
	}
	if deal.CostRegistryStatus != model.StatusUnregistered {
		t.Errorf("deal status = %q, want Unregistered", deal.CostRegistryStatus)
	}

	if len(payload.UnregisteredCosts) != 1 {
		t.Fatalf("unregistered costs = %+v", payload.UnregisteredCosts)
	}
	uc := payload.UnregisteredCosts[0]
	if uc.CostType != "Handling Fee" || uc.Impact != 10 || uc.DealCount != 1 {
		t.Errorf("unregistered cost = %+v", uc)
	}

	if payload.Overview.DealStatusCounts.Aligned != 1 {
		t.Errorf("aligned = %d, want 1", payload.Overview.DealStatusCounts.Aligned)
	}
	if len(payload.Heatmap.DealIDs) != 1 {
		t.Errorf("heatmap rows = %d, want 1", len(payload.Heatmap.DealIDs))
	}
	if len(payload.Anomalies) != 0 {
		t.Errorf("anomalies = %+v, want none for a single qualifying deal", payload.Anomalies)
	}
}

func TestAnalyzerRejectsEmptyInput(t *testing.T) {
	tbl := newTable(t, []string{"Deal ID", "Total USD"},
		[]interface{}{"D1", 10})

	analyzer := NewAnalyzer(nil, nil)
	_, err := analyzer.Analyze(nil, tbl, model.Options{})
	var inputErr *model.InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("nil formatted table: got %v, want InputError", err)
	}

	empty := newTable(t, []string{"Deal ID", "Total USD"})
	_, err = analyzer.Analyze(tbl, empty, model.Options{})
	if !errors.As(err, &inputErr) {
		t.Errorf("empty comparison table: got %v, want InputError", err)
	}
}
