package model

// Options control how the two source tables are interpreted.
type Options struct {
	// FormattedQuantityLetter addresses the formatted dataset's
	// quantity column by spreadsheet letter (default "L").
	FormattedQuantityLetter string `json:"formattedQuantityLetter"`
	// ComparisonQuantityColumn optionally names the comparison
	// dataset's quantity column by canonical key.
	ComparisonQuantityColumn string `json:"comparisonQuantityColumn"`
}

// Cost registry status labels shared by deals and cost categories.
const (
	StatusRegistered   = "Registered"
	StatusPartial      = "Partial"
	StatusMissing      = "Missing"
	StatusUnregistered = "Unregistered"
)

// CostColumn is one entry of the cost registry: a cost category seen
// in either dataset, keyed by normalized name. An empty column
// reference means that side never supplied the column.
type CostColumn struct {
	Key              string `json:"key"`
	Label            string `json:"label"`
	FormattedColumn  string `json:"formatted_column,omitempty"`
	ComparisonColumn string `json:"comparison_column,omitempty"`
}

// MergedDeal is one row of the full outer join between the two
// aggregated datasets. Cost maps are keyed by registry key; a missing
// entry reads as zero.
type MergedDeal struct {
	DealID             string             `json:"deal_id"`
	FormattedQuantity  float64            `json:"total_quantity_formatted"`
	ComparisonQuantity float64            `json:"total_quantity_comparison"`
	QuantityDifference float64            `json:"quantity_difference"`
	PercentageVariance NullFloat          `json:"percentage_variance"`
	AbsDifference      float64            `json:"abs_difference"`
	Rank               int                `json:"rank"`
	FormattedCosts     map[string]float64 `json:"cost_values_formatted"`
	ComparisonCosts    map[string]float64 `json:"cost_values_comparison"`
}

// CostDetail is the per-deal, per-cost-category classification row.
type CostDetail struct {
	CostType   string    `json:"cost_type"`
	Formatted  float64   `json:"formatted"`
	Comparison float64   `json:"comparison"`
	Difference float64   `json:"difference"`
	Percentage NullFloat `json:"percentage"`
	Status     string    `json:"status"`
	Missing    bool      `json:"missing"`
	Greater    bool      `json:"greater"`
}

// Deal is one qualifying deal in the analysis output.
type Deal struct {
	DealID             string       `json:"deal_id"`
	FormattedQuantity  float64      `json:"formatted_quantity"`
	ComparisonQuantity float64      `json:"comparison_quantity"`
	Difference         float64      `json:"difference"`
	PercentageVariance NullFloat    `json:"percentage_variance"`
	Rank               int          `json:"rank"`
	CostRegistryStatus string       `json:"cost_registry_status"`
	Costs              []CostDetail `json:"costs"`
	MissingCosts       []string     `json:"missing_costs"`
	GreaterCosts       []string     `json:"greater_costs"`
	MissingCostCount   int          `json:"missing_cost_count"`
	GreaterCostCount   int          `json:"greater_cost_count"`
	VarianceCategory   string       `json:"variance_category"`
}

// CostBreakdown aggregates one cost category across qualifying deals.
type CostBreakdown struct {
	CostType        string    `json:"cost_type"`
	FormattedTotal  float64   `json:"formatted_total"`
	ComparisonTotal float64   `json:"comparison_total"`
	Difference      float64   `json:"difference"`
	Percentage      NullFloat `json:"percentage"`
	Status          string    `json:"status"`
	MissingDeals    int       `json:"missing_deals"`
	GreaterDeals    int       `json:"greater_deals"`
}

// UnregisteredCost is the impact of one cost type that appears in the
// formatted dataset but never in the comparison dataset.
type UnregisteredCost struct {
	CostType  string   `json:"cost_type"`
	Impact    float64  `json:"impact"`
	DealCount int      `json:"deal_count"`
	Deals     []string `json:"deals"`
}

// CostHighlight lists a cost type with missing or greater incidence.
type CostHighlight struct {
	CostType     string `json:"cost_type"`
	MissingDeals int    `json:"missing_deals"`
	GreaterDeals int    `json:"greater_deals"`
}

// Heatmap is the qualifying-deal x cost-type status matrix. Matrix
// carries the signed severity codes; a null cell means no data exists
// for that pair on either side.
type Heatmap struct {
	DealIDs      []string      `json:"deal_ids"`
	CostTypes    []string      `json:"cost_types"`
	Matrix       [][]NullFloat `json:"matrix"`
	StatusMatrix [][]string    `json:"status_matrix"`
	Hover        [][]string    `json:"hover"`
}

// QuantityAnomaly flags a deal whose quantity difference exceeds the
// statistical threshold.
type QuantityAnomaly struct {
	DealID             string  `json:"deal_id"`
	Difference         float64 `json:"difference"`
	FormattedQuantity  float64 `json:"formatted_quantity"`
	ComparisonQuantity float64 `json:"comparison_quantity"`
}

// CostAnomaly flags a single deal/cost-type difference exceeding that
// category's statistical threshold.
type CostAnomaly struct {
	DealID     string  `json:"deal_id"`
	CostType   string  `json:"cost_type"`
	Difference float64 `json:"difference"`
}

// RepeatingPattern groups deals sharing the exact same set of
// unregistered cost types.
type RepeatingPattern struct {
	CostTypes []string `json:"cost_types"`
	Deals     []string `json:"deals"`
}

// Patterns summarizes status counts and repeating unregistered-cost
// patterns over qualifying deals.
type Patterns struct {
	StatusCounts      map[string]int     `json:"status_counts"`
	RepeatingPatterns []RepeatingPattern `json:"repeating_patterns"`
}

// SummaryReport is the deterministic narrative built from the payload
// aggregates.
type SummaryReport struct {
	Headline           string   `json:"headline"`
	TopContributors    string   `json:"top_contributors"`
	GreaterCosts       string   `json:"greater_costs"`
	MissingCosts       string   `json:"missing_costs"`
	UnregisteredCosts  string   `json:"unregistered_costs"`
	RecommendedActions []string `json:"recommended_actions"`
}

// DealStatusCounts buckets qualifying deals by variance category; the
// aligned bucket additionally counts the non-qualifying deals so the
// four buckets together cover every merged deal.
type DealStatusCounts struct {
	Greater int `json:"greater"`
	Missing int `json:"missing"`
	Aligned int `json:"aligned"`
	Both    int `json:"both"`
}

// Overview carries the headline counters of one analysis.
type Overview struct {
	TotalDeals            int              `json:"total_deals"`
	TotalDifference       float64          `json:"total_difference"`
	AverageVariance       float64          `json:"average_variance"`
	UnregisteredCostTypes int              `json:"unregistered_cost_types"`
	DealStatusCounts      DealStatusCounts `json:"deal_status_counts"`
	FlaggedDeals          int              `json:"flagged_deals"`
	DealsWithGreaterCosts int              `json:"deals_with_greater_costs"`
	DealsWithMissingCosts int              `json:"deals_with_missing_costs"`
	AnomalyCount          int              `json:"anomaly_count"`
}

// AnalysisPayload is the complete analysis output.
type AnalysisPayload struct {
	Token             string             `json:"token"`
	Overview          Overview           `json:"overview"`
	Deals             []Deal             `json:"deals"`
	TopDeals          []Deal             `json:"top_deals"`
	CostBreakdown     []CostBreakdown    `json:"cost_breakdown"`
	UnregisteredCosts []UnregisteredCost `json:"unregistered_costs"`
	CostHighlights    []CostHighlight    `json:"cost_highlights"`
	Heatmap           Heatmap            `json:"heatmap"`
	Anomalies         []QuantityAnomaly  `json:"anomalies"`
	CostAnomalies     []CostAnomaly      `json:"cost_anomalies"`
	Patterns          Patterns           `json:"patterns"`
	SummaryReport     SummaryReport      `json:"summary_report"`
}
