package loader

import (
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/sku"
)

const flipkartSheet = "Orders"

// Flipkart embeds the listing SKU in a composite cell such as
// `Tax:18% SKU:ABC-123`.
var flipkartSKURe = regexp.MustCompile(`SKU:([^"]+)`)

// Order item states that count toward replenishment demand. Returned and
// cancelled rows are excluded rather than netted, which is the safer read
// for purchase planning.
var flipkartValidStatuses = map[string]struct{}{
	"DELIVERED": {},
	"SHIPPED":   {},
	"APPROVED":  {},
	"PACKED":    {},
}

// LoadFlipkartXLSX parses a Flipkart Orders workbook. The "Orders" sheet
// must carry "sku" and "quantity" columns; "order_item_status" drives the
// fulfilled-only filter when present.
func LoadFlipkartXLSX(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.NewFatalInputError("flipkart_sales", "failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(flipkartSheet)
	if err != nil {
		return nil, domain.NewFatalInputError("flipkart_sales", "missing %q sheet: %v", flipkartSheet, err)
	}
	if len(rows) == 0 {
		return nil, domain.NewFatalInputError("flipkart_sales", "sheet %q is empty", flipkartSheet)
	}

	header := rows[0]
	idxSKU := headerIndex(header, "sku")
	idxQty := headerIndex(header, "quantity", "qty")
	idxStatus := headerIndex(header, "order_item_status", "status")
	if idxSKU < 0 || idxQty < 0 {
		return nil, domain.NewFatalInputError("flipkart_sales", "missing 'sku' or 'quantity' column")
	}

	result := &Result{}
	for _, record := range rows[1:] {
		if idxStatus >= 0 {
			status := strings.ToUpper(cell(record, idxStatus))
			if _, ok := flipkartValidStatuses[status]; !ok {
				continue
			}
		}

		skuValue := sku.Normalize(extractFlipkartSKU(cell(record, idxSKU)))
		result.Records = append(result.Records, domain.SalesRecord{
			SKU:      skuValue,
			Qty:      parseQty("flipkart_sales", skuValue, cell(record, idxQty), &result.Warnings),
			Platform: PlatformFlipkart,
		})
	}

	return result, nil
}

// extractFlipkartSKU pulls the listing SKU out of a composite cell, falling
// back to the raw value when no SKU: marker is present.
func extractFlipkartSKU(raw string) string {
	if m := flipkartSKURe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}
