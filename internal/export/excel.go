// Package export renders a finished planning run to spreadsheet and CSV
// artifacts for the purchasing team.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/marketpo/internal/planner"
)

const (
	planSheet   = "Purchase Plan"
	orphanSheet = "Unknown SKUs"
)

var planHeader = []interface{}{
	"internal_sku", "supplier", "category", "total_sold_units",
	"sku_count", "ads", "lead_time_demand", "safety_stock",
	"cycle_stock", "recommended_qty",
}

var orphanHeader = []interface{}{"sku", "platform", "qty"}

// WriteWorkbook writes the plan to a workbook with a "Purchase Plan" sheet
// and, when catalog gaps exist, an "Unknown SKUs" sheet for curation.
func WriteWorkbook(w io.Writer, result *planner.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), planSheet)
	if err := f.SetSheetRow(planSheet, "A1", &planHeader); err != nil {
		return fmt.Errorf("failed to write plan header: %w", err)
	}
	for i, row := range result.Plan {
		values := []interface{}{
			row.InternalSKU, row.Supplier, row.Category, row.TotalSoldUnits,
			row.ListingCount, row.AvgDailySales, row.LeadTimeDemand,
			row.SafetyStock, row.CycleStock, row.RecommendedQty,
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(planSheet, cellRef, &values); err != nil {
			return fmt.Errorf("failed to write plan row %d: %w", i+1, err)
		}
	}

	if len(result.Orphans) > 0 {
		if _, err := f.NewSheet(orphanSheet); err != nil {
			return fmt.Errorf("failed to create orphan sheet: %w", err)
		}
		if err := f.SetSheetRow(orphanSheet, "A1", &orphanHeader); err != nil {
			return fmt.Errorf("failed to write orphan header: %w", err)
		}
		for i, row := range result.Orphans {
			values := []interface{}{row.SKU, row.Platform, row.Qty}
			cellRef, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(orphanSheet, cellRef, &values); err != nil {
				return fmt.Errorf("failed to write orphan row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
