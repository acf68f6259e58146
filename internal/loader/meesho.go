package loader

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/sku"
)

// Meesho order states. Returns and RTOs are netted as negative demand;
// cancellations never shipped, so they are skipped outright.
var (
	meeshoNegativeStatuses = map[string]struct{}{
		"RETURN":       {},
		"RTO":          {},
		"RTO_COMPLETE": {},
	}
	meeshoSkippedStatuses = map[string]struct{}{
		"CANCELLED": {},
	}
)

// LoadMeeshoCSV parses a Meesho orders export. "sku" and "quantity" columns
// are required; when an "order_status" column is present, returned rows are
// netted against sales as negative quantities.
func LoadMeeshoCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewFatalInputError("meesho_sales", "failed to read header: %v", err)
	}

	idxSKU := headerIndex(header, "sku")
	idxQty := headerIndex(header, "quantity", "qty")
	idxStatus := headerIndex(header, "order_status", "status")
	if idxSKU < 0 || idxQty < 0 {
		return nil, domain.NewFatalInputError("meesho_sales", "missing 'sku' or 'quantity' column")
	}

	result := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewFatalInputError("meesho_sales", "failed to read row: %v", err)
		}

		sign := 1.0
		if idxStatus >= 0 {
			status := strings.ToUpper(cell(record, idxStatus))
			if _, skip := meeshoSkippedStatuses[status]; skip {
				continue
			}
			if _, negative := meeshoNegativeStatuses[status]; negative {
				sign = -1
			}
		}

		skuValue := sku.Normalize(cell(record, idxSKU))
		result.Records = append(result.Records, domain.SalesRecord{
			SKU:      skuValue,
			Qty:      sign * parseQty("meesho_sales", skuValue, cell(record, idxQty), &result.Warnings),
			Platform: PlatformMeesho,
		})
	}

	return result, nil
}
