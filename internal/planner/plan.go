package planner

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/marketpo/internal/domain"
)

// ValidateParams checks the planning knobs before a run. The sales and
// purchase windows must cover at least one day; lead time and safety stock
// may be zero.
func ValidateParams(params domain.PlanningParams) error {
	if params.SalesWindowDays < 1 {
		return domain.NewFatalInputError("planning_params", "sales_window_days must be >= 1, got %d", params.SalesWindowDays)
	}
	if params.PurchaseWindowDays < 1 {
		return domain.NewFatalInputError("planning_params", "purchase_window_days must be >= 1, got %d", params.PurchaseWindowDays)
	}
	if params.LeadTimeDays < 0 {
		return domain.NewFatalInputError("planning_params", "lead_time_days must be >= 0, got %d", params.LeadTimeDays)
	}
	if params.SafetyStockDays < 0 {
		return domain.NewFatalInputError("planning_params", "safety_stock_days must be >= 0, got %d", params.SafetyStockDays)
	}
	return nil
}

// BuildPlan applies the reorder formula to aggregated demand:
//
//	ads              = total_base_units / sales_window_days
//	cycle_stock      = ads * purchase_window_days
//	safety_stock     = ads * safety_stock_days
//	lead_time_demand = ads * lead_time_days
//	recommended_qty  = round(cycle + safety + lead)
//
// recommended_qty rounds half up. A negative total passes through the
// formula untouched; a negative recommendation means no purchase is needed
// and possible overstock. Rows come out sorted by recommended_qty
// descending with internal_sku ascending as the stable tie-break.
func BuildPlan(rows []domain.DemandRow, params domain.PlanningParams) ([]domain.PlanRow, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	salesDays := decimal.NewFromInt(int64(params.SalesWindowDays))
	purchaseDays := decimal.NewFromInt(int64(params.PurchaseWindowDays))
	leadDays := decimal.NewFromInt(int64(params.LeadTimeDays))
	safetyDays := decimal.NewFromInt(int64(params.SafetyStockDays))

	plan := make([]domain.PlanRow, 0, len(rows))
	for _, row := range rows {
		ads := decimal.NewFromFloat(row.TotalBaseUnits).Div(salesDays)
		cycle := ads.Mul(purchaseDays)
		safety := ads.Mul(safetyDays)
		lead := ads.Mul(leadDays)
		recommended := cycle.Add(safety).Add(lead).Round(0).IntPart()

		plan = append(plan, domain.PlanRow{
			InternalSKU:    row.InternalSKU,
			Supplier:       row.Supplier,
			Category:       row.Category,
			TotalSoldUnits: row.TotalBaseUnits,
			ListingCount:   row.ListingCount,
			AvgDailySales:  ads.Round(2).InexactFloat64(),
			LeadTimeDemand: lead.Round(2).InexactFloat64(),
			SafetyStock:    safety.Round(2).InexactFloat64(),
			CycleStock:     cycle.Round(2).InexactFloat64(),
			RecommendedQty: int(recommended),
		})
	}

	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].RecommendedQty != plan[j].RecommendedQty {
			return plan[i].RecommendedQty > plan[j].RecommendedQty
		}
		return plan[i].InternalSKU < plan[j].InternalSKU
	})

	return plan, nil
}
