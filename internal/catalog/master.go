// Package catalog loads the master product list relating marketplace
// listings to warehouse items.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/sku"
)

// Required catalog columns. A catalog missing any of these fails the
// whole planning run.
var requiredColumns = []string{"marketplace_sku", "internal_sku", "pack_qty"}

// Master is the loaded marketplace-to-warehouse mapping. It is immutable
// after load and safe to share read-only across concurrent planning runs.
type Master struct {
	entries map[string]domain.MasterEntry
}

// Lookup returns the mapping entry for a normalized marketplace SKU.
func (m *Master) Lookup(marketplaceSKU string) (domain.MasterEntry, bool) {
	e, ok := m.entries[sku.Normalize(marketplaceSKU)]
	return e, ok
}

// Len reports the number of configured listings.
func (m *Master) Len() int {
	return len(m.entries)
}

// Load builds a Master from an already-parsed table. Both SKU columns are
// normalized the same way as sales SKUs so joins stay consistent. A
// malformed pack_qty degrades that row's multiplier to 1 with a warning
// instead of blocking the load; a duplicate marketplace_sku is rejected
// outright since it would silently fan out the demand join.
func Load(header []string, records [][]string) (*Master, []domain.RowWarning, error) {
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, nil, domain.NewFatalInputError("master_catalog", "missing required column %q", col)
		}
	}

	get := func(record []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	m := &Master{entries: make(map[string]domain.MasterEntry, len(records))}
	var warnings []domain.RowWarning

	for _, record := range records {
		marketplaceSKU := sku.Normalize(get(record, "marketplace_sku"))
		internalSKU := sku.Normalize(get(record, "internal_sku"))

		if _, exists := m.entries[marketplaceSKU]; exists {
			return nil, nil, domain.NewFatalInputError("master_catalog",
				"duplicate marketplace_sku %q: duplicate keys would multiply demand during the join", marketplaceSKU)
		}

		packQty, err := strconv.Atoi(get(record, "pack_qty"))
		if err != nil || packQty < 1 {
			warnings = append(warnings, domain.RowWarning{
				Source:  "master_catalog",
				SKU:     marketplaceSKU,
				Field:   "pack_qty",
				Message: fmt.Sprintf("invalid pack_qty %q, defaulting to 1", get(record, "pack_qty")),
			})
			packQty = 1
		}

		m.entries[marketplaceSKU] = domain.MasterEntry{
			MarketplaceSKU: marketplaceSKU,
			InternalSKU:    internalSKU,
			PackQty:        packQty,
			Supplier:       get(record, "supplier"),
			Category:       get(record, "category"),
		}
	}

	return m, warnings, nil
}

// LoadCSV reads a master catalog from CSV.
func LoadCSV(r io.Reader) (*Master, []domain.RowWarning, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, domain.NewFatalInputError("master_catalog", "failed to read header: %v", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, domain.NewFatalInputError("master_catalog", "failed to read row: %v", err)
		}
		records = append(records, record)
	}

	return Load(header, records)
}

// LoadCSVFile reads a master catalog from a CSV file on disk.
func LoadCSVFile(path string) (*Master, []domain.RowWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, domain.NewFatalInputError("master_catalog", "cannot open %s: %v", path, err)
	}
	defer f.Close()
	return LoadCSV(f)
}
