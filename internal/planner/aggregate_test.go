package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/sku"
)

func testMaster(t *testing.T, records [][]string) *catalog.Master {
	t.Helper()
	master, warnings, err := catalog.Load(
		[]string{"marketplace_sku", "internal_sku", "pack_qty", "supplier", "category"},
		records,
	)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return master
}

func TestAggregateJoinsAndSumsBaseUnits(t *testing.T) {
	master := testMaster(t, [][]string{
		{"AMZ-TEA-P2", "WH-TEA", "2", "Acme", "Beverages"},
		{"FK-TEA-P3", "WH-TEA", "3", "Acme", "Beverages"},
		{"AMZ-SOAP", "WH-SOAP", "1", "Brite", "Personal Care"},
	})

	sets := [][]domain.SalesRecord{
		{
			{SKU: "amz-tea-p2", Qty: 10, Platform: "Amazon"},
			{SKU: "AMZ-SOAP", Qty: 4, Platform: "Amazon"},
		},
		{
			{SKU: " fk-tea-p3 ", Qty: 5, Platform: "Flipkart"},
		},
	}

	rows, orphans := Aggregate(sets, master)
	require.Empty(t, orphans)
	require.Len(t, rows, 2)

	// Sorted by internal SKU ascending.
	assert.Equal(t, "WH-SOAP", rows[0].InternalSKU)
	assert.Equal(t, 4.0, rows[0].TotalBaseUnits)
	assert.Equal(t, 1, rows[0].ListingCount)

	// 10*2 + 5*3 = 35 base units across two distinct listings.
	assert.Equal(t, "WH-TEA", rows[1].InternalSKU)
	assert.Equal(t, 35.0, rows[1].TotalBaseUnits)
	assert.Equal(t, 2, rows[1].ListingCount)
	assert.Equal(t, "Acme", rows[1].Supplier)
	assert.Equal(t, "Beverages", rows[1].Category)
}

func TestAggregateConservation(t *testing.T) {
	master := testMaster(t, [][]string{
		{"A-1", "W-1", "2", "", ""},
		{"A-2", "W-1", "3", "", ""},
		{"A-3", "W-2", "5", "", ""},
	})

	sets := [][]domain.SalesRecord{{
		{SKU: "A-1", Qty: 7},
		{SKU: "A-2", Qty: 11},
		{SKU: "A-3", Qty: 13},
		{SKU: "A-1", Qty: 2},
	}}

	rows, orphans := Aggregate(sets, master)
	require.Empty(t, orphans)

	var got float64
	for _, row := range rows {
		got += row.TotalBaseUnits
	}
	// Every base unit in must come out exactly once: 9*2 + 11*3 + 13*5.
	assert.Equal(t, 116.0, got)
}

func TestAggregateOrphans(t *testing.T) {
	master := testMaster(t, [][]string{
		{"A-1", "W-1", "2", "", ""},
	})

	sets := [][]domain.SalesRecord{
		{
			{SKU: "A-1", Qty: 3, Platform: "Amazon"},
			{SKU: "MYSTERY", Qty: 4, Platform: "Amazon"},
			{SKU: "mystery", Qty: 1, Platform: "Amazon"},
		},
		{
			{SKU: "MYSTERY", Qty: 2, Platform: "Flipkart"},
		},
	}

	rows, orphans := Aggregate(sets, master)

	// Orphans are keyed (sku, platform) and net-summed per key.
	require.Len(t, orphans, 2)
	assert.Equal(t, domain.OrphanRow{SKU: "MYSTERY", Platform: "Amazon", Qty: 5}, orphans[0])
	assert.Equal(t, domain.OrphanRow{SKU: "MYSTERY", Platform: "Flipkart", Qty: 2}, orphans[1])

	// The orphan still participates in planning with pack_qty 1 and itself as
	// the warehouse item, so the demand is degraded rather than dropped.
	require.Len(t, rows, 2)
	assert.Equal(t, "MYSTERY", rows[0].InternalSKU)
	assert.Equal(t, 7.0, rows[0].TotalBaseUnits)
	assert.Equal(t, "Unknown", rows[0].Supplier)
	assert.Equal(t, "Uncategorized", rows[0].Category)
}

func TestAggregateDefaultsBlankSupplierAndCategory(t *testing.T) {
	master := testMaster(t, [][]string{
		{"A-1", "W-1", "2", "", ""},
	})

	rows, _ := Aggregate([][]domain.SalesRecord{{{SKU: "A-1", Qty: 1}}}, master)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0].Supplier)
	assert.Equal(t, "Uncategorized", rows[0].Category)
}

func TestAggregateEmptyInput(t *testing.T) {
	master := testMaster(t, [][]string{{"A-1", "W-1", "1", "", ""}})

	rows, orphans := Aggregate(nil, master)
	assert.Empty(t, rows)
	assert.Empty(t, orphans)

	rows, orphans = Aggregate([][]domain.SalesRecord{{}, nil}, master)
	assert.Empty(t, rows)
	assert.Empty(t, orphans)
}

func TestAggregateLightweightRollsUpPackVariants(t *testing.T) {
	table, warnings := sku.NewMultiplierTable(map[string]string{
		"TEA-P2":      "2",
		"TEA-PACKOF3": "3",
	})
	require.Empty(t, warnings)
	classifier := sku.NewCategoryClassifier(map[string]string{"TEA": "Beverages"})

	sets := [][]domain.SalesRecord{{
		{SKU: "tea-p2", Qty: 3},
		{SKU: "TEA-PACKOF3", Qty: 1},
		{SKU: "TEA", Qty: 4},
	}}

	rows := AggregateLightweight(sets, table, classifier)
	require.Len(t, rows, 1)

	// All three listings collapse onto the stripped base SKU:
	// 3*2 + 1*3 + 4*1 = 13 base units.
	assert.Equal(t, "TEA", rows[0].InternalSKU)
	assert.Equal(t, "Beverages", rows[0].Category)
	assert.Equal(t, 13.0, rows[0].TotalBaseUnits)
	assert.Equal(t, 3, rows[0].ListingCount)
}
