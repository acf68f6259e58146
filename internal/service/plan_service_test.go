package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/marketpo/internal/cache"
	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/loader"
	"github.com/andresuchdata/marketpo/internal/planner"
)

// memoryPlanCache is an in-process stand-in for the redis-backed cache.
type memoryPlanCache struct {
	entries map[string]*planner.Result
	gets    int
	hits    int
}

func newMemoryPlanCache() *memoryPlanCache {
	return &memoryPlanCache{entries: make(map[string]*planner.Result)}
}

func (m *memoryPlanCache) Get(ctx context.Context, key string) (*planner.Result, bool, error) {
	m.gets++
	result, ok := m.entries[key]
	if ok {
		m.hits++
	}
	return result, ok, nil
}

func (m *memoryPlanCache) Set(ctx context.Context, key string, result *planner.Result) error {
	m.entries[key] = result
	return nil
}

func (m *memoryPlanCache) InvalidateAll(ctx context.Context) error {
	m.entries = make(map[string]*planner.Result)
	return nil
}

func testMaster(t *testing.T) *catalog.Master {
	t.Helper()
	master, warnings, err := catalog.LoadCSV(strings.NewReader(strings.Join([]string{
		"marketplace_sku,internal_sku,pack_qty,supplier,category",
		"AMZ-TEA-P2,WH-TEA,2,Acme,Beverages",
		"MS-TEA-P3,WH-TEA,3,Acme,Beverages",
	}, "\n")))
	require.NoError(t, err)
	require.Empty(t, warnings)
	return master
}

func testParams() domain.PlanningParams {
	return domain.PlanningParams{
		SalesWindowDays:    30,
		PurchaseWindowDays: 15,
		LeadTimeDays:       10,
		SafetyStockDays:    7,
	}
}

func TestGeneratePlan(t *testing.T) {
	svc := NewPlanService(cache.NewNoopPlanCache())

	uploads := []SalesUpload{
		{
			Platform: "amazon",
			Filename: "amazon.csv",
			Data:     []byte("SKU,Units Ordered\nAMZ-TEA-P2,120\nGHOST,5\n"),
		},
		{
			Platform: "meesho",
			Filename: "meesho.csv",
			Data:     []byte("sku,quantity,order_status\nMS-TEA-P3,20,Delivered\n"),
		},
	}

	result, err := svc.GeneratePlan(context.Background(), uploads, testMaster(t), testParams())
	require.NoError(t, err)

	// 120*2 + 20*3 = 300 base units of WH-TEA plus the degraded GHOST row.
	require.Len(t, result.Plan, 2)
	assert.Equal(t, "WH-TEA", result.Plan[0].InternalSKU)
	assert.Equal(t, 320, result.Plan[0].RecommendedQty)

	require.Len(t, result.Orphans, 1)
	assert.Equal(t, "GHOST", result.Orphans[0].SKU)
	assert.Equal(t, loader.PlatformAmazon, result.Orphans[0].Platform)
}

func TestGeneratePlanCarriesLoaderWarnings(t *testing.T) {
	svc := NewPlanService(cache.NewNoopPlanCache())

	uploads := []SalesUpload{{
		Platform: "amazon",
		Filename: "amazon.csv",
		Data:     []byte("SKU,Units Ordered\nAMZ-TEA-P2,lots\n"),
	}}

	result, err := svc.GeneratePlan(context.Background(), uploads, testMaster(t), testParams())
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "amazon_sales", result.Warnings[0].Source)
}

func TestGeneratePlanUnknownPlatform(t *testing.T) {
	svc := NewPlanService(cache.NewNoopPlanCache())

	uploads := []SalesUpload{{Platform: "ebay", Filename: "x.csv", Data: []byte("SKU,Units Ordered\n")}}
	_, err := svc.GeneratePlan(context.Background(), uploads, testMaster(t), testParams())
	require.Error(t, err)

	var fatal *domain.FatalInputError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, "sales_upload", fatal.Source)
}

func TestGeneratePlanMemoizes(t *testing.T) {
	memCache := newMemoryPlanCache()
	svc := NewPlanService(memCache)

	uploads := []SalesUpload{{
		Platform: "amazon",
		Filename: "amazon.csv",
		Data:     []byte("SKU,Units Ordered\nAMZ-TEA-P2,120\n"),
	}}

	first, err := svc.GeneratePlan(context.Background(), uploads, testMaster(t), testParams())
	require.NoError(t, err)
	second, err := svc.GeneratePlan(context.Background(), uploads, testMaster(t), testParams())
	require.NoError(t, err)

	assert.Equal(t, 2, memCache.gets)
	assert.Equal(t, 1, memCache.hits)
	assert.Equal(t, first, second)

	// Different parameters must miss the cache.
	params := testParams()
	params.LeadTimeDays = 0
	_, err = svc.GeneratePlan(context.Background(), uploads, testMaster(t), params)
	require.NoError(t, err)
	assert.Equal(t, 1, memCache.hits)
}

func TestGenerateLightweightPlan(t *testing.T) {
	svc := NewPlanService(cache.NewNoopPlanCache())

	records := []domain.SalesRecord{
		{SKU: "TEA-P2", Qty: 100},
		{SKU: "TEA", Qty: 100},
	}

	result, err := svc.GenerateLightweightPlan(
		records,
		map[string]string{"TEA-P2": "2"},
		map[string]string{"TEA": "Beverages"},
		testParams(),
	)
	require.NoError(t, err)

	require.Len(t, result.Plan, 1)
	assert.Equal(t, "TEA", result.Plan[0].InternalSKU)
	assert.Equal(t, "Beverages", result.Plan[0].Category)
	assert.Equal(t, 320, result.Plan[0].RecommendedQty)
}

func TestGenerateLightweightPlanSurfacesTableWarnings(t *testing.T) {
	svc := NewPlanService(cache.NewNoopPlanCache())

	result, err := svc.GenerateLightweightPlan(
		[]domain.SalesRecord{{SKU: "A", Qty: 1}},
		map[string]string{"A": "bogus"},
		nil,
		testParams(),
	)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "multiplier", result.Warnings[0].Field)
}
