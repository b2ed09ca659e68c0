package compare

import (
	"go.uber.org/zap"

	"go-deal-recon/internal/cache"
	"go-deal-recon/internal/model"
	"go-deal-recon/internal/table"
	"go-deal-recon/pkg/utils"
)

// DefaultFormattedQuantityLetter addresses the TOTAL USD column of the
// formatted workbook layout.
const DefaultFormattedQuantityLetter = "L"

// Analyzer runs the complete reconciliation workflow. It is stateless
// apart from the injected cache; one Analyzer serves concurrent
// requests.
type Analyzer struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// NewAnalyzer builds an analyzer around an injected cache.
func NewAnalyzer(c *cache.Cache, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{cache: c, logger: logger.Named("compare")}
}

// Analyze reconciles the formatted dataset against the comparison
// dataset and returns the full analysis payload. The completed bundle
// is cached under the payload token for later export.
func (a *Analyzer) Analyze(formatted, comparison *table.Table, opts model.Options) (*model.AnalysisPayload, error) {
	if formatted == nil || formatted.Len() == 0 {
		return nil, model.NewInputError("formatted table is empty")
	}
	if comparison == nil || comparison.Len() == 0 {
		return nil, model.NewInputError("comparison table is empty")
	}

	letter := opts.FormattedQuantityLetter
	if letter == "" {
		letter = DefaultFormattedQuantityLetter
	}

	formattedDealColumn, err := ResolveDealColumn(formatted)
	if err != nil {
		return nil, err
	}
	comparisonDealColumn, err := ResolveDealColumn(comparison)
	if err != nil {
		return nil, err
	}

	formattedQuantityColumn, err := ColumnByLetter(formatted, letter)
	if err != nil {
		return nil, err
	}
	comparisonQuantityColumn, err := ResolveComparisonQuantityColumn(
		comparison, opts.ComparisonQuantityColumn, letter)
	if err != nil {
		return nil, err
	}

	formattedCosts := ExtractCostColumns(formatted, formattedQuantityColumn)
	comparisonCosts := ExtractCostColumns(comparison, comparisonQuantityColumn)
	registry := BuildCostRegistry(formattedCosts, comparisonCosts, formatted, comparison)
	costs := SortedCosts(registry)

	a.logger.Debug("schema resolved",
		zap.String("formatted_deal_column", formattedDealColumn),
		zap.String("comparison_deal_column", comparisonDealColumn),
		zap.String("formatted_quantity_column", formattedQuantityColumn),
		zap.String("comparison_quantity_column", comparisonQuantityColumn),
		zap.Int("cost_types", len(costs)))

	formattedDataset := Aggregate(formatted, formattedDealColumn, formattedQuantityColumn, formattedCosts)
	comparisonDataset := Aggregate(comparison, comparisonDealColumn, comparisonQuantityColumn, comparisonCosts)
	merged := Merge(formattedDataset, comparisonDataset)

	payload := buildPayload(merged, costs)
	payload.Token = cache.NewToken()

	if a.cache != nil {
		a.cache.Put(&cache.Entry{
			Token:   payload.Token,
			Merged:  merged,
			Costs:   costs,
			Payload: payload,
		})
	}

	a.logger.Info("analysis complete",
		zap.String("token", payload.Token),
		zap.Int("total_deals", payload.Overview.TotalDeals),
		zap.Int("qualifying_deals", len(payload.Deals)),
		zap.Float64("total_difference", payload.Overview.TotalDifference))

	return payload, nil
}

// buildPayload assembles the analysis payload from the merged table
// and the cost registry. Pure and deterministic.
func buildPayload(merged []model.MergedDeal, costs []model.CostColumn) *model.AnalysisPayload {
	c := Classify(merged, costs)

	breakdown := BuildCostBreakdown(c, costs)
	unregistered := BuildUnregisteredCosts(c, costs)
	highlights := BuildCostHighlights(c, costs)
	heatmap := BuildHeatmap(c.Qualifying, costs)
	anomalies, costAnomalies := DetectAnomalies(c.Qualifying, costs)
	patterns := DetectPatterns(c.Deals)
	summary := BuildSummary(c.Deals, c.TotalDifference, unregistered, patterns, highlights, c.StatusCounts)

	if unregistered == nil {
		unregistered = []model.UnregisteredCost{}
	}
	if highlights == nil {
		highlights = []model.CostHighlight{}
	}

	return &model.AnalysisPayload{
		Overview: model.Overview{
			TotalDeals:            len(merged),
			TotalDifference:       utils.Round2(c.TotalDifference),
			AverageVariance:       utils.Round2(c.AverageVariance),
			UnregisteredCostTypes: len(unregistered),
			DealStatusCounts:      c.StatusCounts,
			FlaggedDeals:          c.StatusCounts.Greater + c.StatusCounts.Missing + c.StatusCounts.Both,
			DealsWithGreaterCosts: c.StatusCounts.Greater + c.StatusCounts.Both,
			DealsWithMissingCosts: c.StatusCounts.Missing + c.StatusCounts.Both,
			AnomalyCount:          len(anomalies),
		},
		Deals:             emptyIfNil(c.Deals),
		TopDeals:          topByAbsDifference(c.Deals, 20),
		CostBreakdown:     breakdown,
		UnregisteredCosts: unregistered,
		CostHighlights:    highlights,
		Heatmap:           heatmap,
		Anomalies:         anomalies,
		CostAnomalies:     costAnomalies,
		Patterns:          patterns,
		SummaryReport:     summary,
	}
}

// topByAbsDifference returns up to n qualifying deals ordered by
// absolute difference descending. Qualifying deals already arrive in
// that order, so this is a bounded copy.
func topByAbsDifference(deals []model.Deal, n int) []model.Deal {
	if len(deals) > n {
		deals = deals[:n]
	}
	return emptyIfNil(deals)
}

func emptyIfNil(deals []model.Deal) []model.Deal {
	if deals == nil {
		return []model.Deal{}
	}
	return deals
}
