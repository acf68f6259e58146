package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/andresuchdata/marketpo/internal/domain"
)

// WritePlanCSV writes the purchase plan as CSV.
func WritePlanCSV(w io.Writer, rows []domain.PlanRow) error {
	writer := csv.NewWriter(w)

	header := []string{
		"internal_sku", "supplier", "category", "total_sold_units",
		"sku_count", "ads", "lead_time_demand", "safety_stock",
		"cycle_stock", "recommended_qty",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.InternalSKU,
			row.Supplier,
			row.Category,
			strconv.FormatFloat(row.TotalSoldUnits, 'f', -1, 64),
			strconv.Itoa(row.ListingCount),
			strconv.FormatFloat(row.AvgDailySales, 'f', 2, 64),
			strconv.FormatFloat(row.LeadTimeDemand, 'f', 2, 64),
			strconv.FormatFloat(row.SafetyStock, 'f', 2, 64),
			strconv.FormatFloat(row.CycleStock, 'f', 2, 64),
			strconv.Itoa(row.RecommendedQty),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteOrphansCSV writes the catalog-gap table as CSV.
func WriteOrphansCSV(w io.Writer, rows []domain.OrphanRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"sku", "platform", "qty"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.SKU,
			row.Platform,
			strconv.FormatFloat(row.Qty, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
