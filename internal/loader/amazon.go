package loader

import (
	"encoding/csv"
	"io"

	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/sku"
)

// LoadAmazonCSV parses an Amazon Business Report CSV. The report carries a
// "SKU" and a "Units Ordered" column; both are required.
func LoadAmazonCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewFatalInputError("amazon_sales", "failed to read header: %v", err)
	}

	idxSKU := headerIndex(header, "sku")
	idxQty := headerIndex(header, "units ordered", "qty")
	if idxSKU < 0 || idxQty < 0 {
		return nil, domain.NewFatalInputError("amazon_sales", "missing 'SKU' or 'Units Ordered' column")
	}

	result := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewFatalInputError("amazon_sales", "failed to read row: %v", err)
		}

		skuValue := sku.Normalize(cell(record, idxSKU))
		result.Records = append(result.Records, domain.SalesRecord{
			SKU:      skuValue,
			Qty:      parseQty("amazon_sales", skuValue, cell(record, idxQty), &result.Warnings),
			Platform: PlatformAmazon,
		})
	}

	return result, nil
}
