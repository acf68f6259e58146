package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/marketpo/internal/domain"
)

func defaultParams() domain.PlanningParams {
	return domain.PlanningParams{
		SalesWindowDays:    30,
		PurchaseWindowDays: 15,
		LeadTimeDays:       10,
		SafetyStockDays:    7,
	}
}

func TestBuildPlanFormula(t *testing.T) {
	rows := []domain.DemandRow{
		{InternalSKU: "WH-TEA", Supplier: "Acme", Category: "Beverages", TotalBaseUnits: 300, ListingCount: 2},
	}

	plan, err := BuildPlan(rows, defaultParams())
	require.NoError(t, err)
	require.Len(t, plan, 1)

	row := plan[0]
	assert.Equal(t, 10.0, row.AvgDailySales)
	assert.Equal(t, 150.0, row.CycleStock)
	assert.Equal(t, 70.0, row.SafetyStock)
	assert.Equal(t, 100.0, row.LeadTimeDemand)
	assert.Equal(t, 320, row.RecommendedQty)
	assert.Equal(t, 300.0, row.TotalSoldUnits)
	assert.Equal(t, 2, row.ListingCount)
}

func TestBuildPlanRoundsHalfUp(t *testing.T) {
	params := domain.PlanningParams{SalesWindowDays: 10, PurchaseWindowDays: 1}

	// total 5 over 10 days -> ads 0.5 -> cycle 0.5 -> rounds up to 1.
	plan, err := BuildPlan([]domain.DemandRow{{InternalSKU: "A", TotalBaseUnits: 5}}, params)
	require.NoError(t, err)
	assert.Equal(t, 1, plan[0].RecommendedQty)

	// 0.4 rounds down.
	plan, err = BuildPlan([]domain.DemandRow{{InternalSKU: "A", TotalBaseUnits: 4}}, params)
	require.NoError(t, err)
	assert.Equal(t, 0, plan[0].RecommendedQty)
}

func TestBuildPlanNegativeTotalsPassThrough(t *testing.T) {
	params := domain.PlanningParams{SalesWindowDays: 30, PurchaseWindowDays: 15}

	// Net returns exceed sales; the negative demand must survive the formula
	// so the report shows the overstock instead of hiding it.
	plan, err := BuildPlan([]domain.DemandRow{{InternalSKU: "WH-X", TotalBaseUnits: -30}}, params)
	require.NoError(t, err)
	assert.Equal(t, -1.0, plan[0].AvgDailySales)
	assert.Equal(t, -15.0, plan[0].CycleStock)
	assert.Equal(t, -15, plan[0].RecommendedQty)
}

func TestBuildPlanSortOrder(t *testing.T) {
	rows := []domain.DemandRow{
		{InternalSKU: "WH-C", TotalBaseUnits: 30},
		{InternalSKU: "WH-A", TotalBaseUnits: 30},
		{InternalSKU: "WH-B", TotalBaseUnits: 600},
	}

	plan, err := BuildPlan(rows, defaultParams())
	require.NoError(t, err)
	require.Len(t, plan, 3)

	// Highest recommendation first; equal recommendations fall back to the
	// warehouse SKU so the ordering is stable between runs.
	assert.Equal(t, "WH-B", plan[0].InternalSKU)
	assert.Equal(t, "WH-A", plan[1].InternalSKU)
	assert.Equal(t, "WH-C", plan[2].InternalSKU)
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		params  domain.PlanningParams
		wantErr bool
	}{
		{"valid", defaultParams(), false},
		{"zero lead and safety ok", domain.PlanningParams{SalesWindowDays: 1, PurchaseWindowDays: 1}, false},
		{"zero sales window", domain.PlanningParams{SalesWindowDays: 0, PurchaseWindowDays: 15}, true},
		{"zero purchase window", domain.PlanningParams{SalesWindowDays: 30, PurchaseWindowDays: 0}, true},
		{"negative lead time", domain.PlanningParams{SalesWindowDays: 30, PurchaseWindowDays: 15, LeadTimeDays: -1}, true},
		{"negative safety stock", domain.PlanningParams{SalesWindowDays: 30, PurchaseWindowDays: 15, SafetyStockDays: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParams(tt.params)
			if tt.wantErr {
				var fatal *domain.FatalInputError
				require.Error(t, err)
				assert.True(t, errors.As(err, &fatal))
				assert.Equal(t, "planning_params", fatal.Source)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
