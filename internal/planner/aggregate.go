package planner

import (
	"sort"

	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/sku"
)

const (
	defaultSupplier = "Unknown"
	defaultCategory = "Uncategorized"
)

type demandKey struct {
	internalSKU string
	supplier    string
	category    string
}

type orphanKey struct {
	sku      string
	platform string
}

// Aggregate left-joins every platform's sales records against the master
// mapping on normalized SKU and sums demand per warehouse item in base
// units (qty x pack_qty). Records without a mapping entry are routed to the
// orphan table but still planned with internal_sku := sku and pack_qty := 1,
// so a catalog gap degrades the purchase signal instead of dropping it.
// Absent or empty record sets are skipped. Both outputs are sorted on their
// keys so repeated runs over identical input produce identical tables.
func Aggregate(sets [][]domain.SalesRecord, master *catalog.Master) ([]domain.DemandRow, []domain.OrphanRow) {
	totals := make(map[demandKey]float64)
	listings := make(map[demandKey]map[string]struct{})
	orphans := make(map[orphanKey]float64)

	for _, records := range sets {
		for _, record := range records {
			marketplaceSKU := sku.Normalize(record.SKU)

			entry, ok := master.Lookup(marketplaceSKU)
			if !ok {
				orphans[orphanKey{sku: marketplaceSKU, platform: record.Platform}] += record.Qty
				entry = domain.MasterEntry{
					MarketplaceSKU: marketplaceSKU,
					InternalSKU:    marketplaceSKU,
					PackQty:        1,
				}
			}

			key := demandKey{
				internalSKU: entry.InternalSKU,
				supplier:    entry.Supplier,
				category:    entry.Category,
			}
			if key.supplier == "" {
				key.supplier = defaultSupplier
			}
			if key.category == "" {
				key.category = defaultCategory
			}

			totals[key] += record.Qty * float64(entry.PackQty)
			if listings[key] == nil {
				listings[key] = make(map[string]struct{})
			}
			listings[key][marketplaceSKU] = struct{}{}
		}
	}

	rows := make([]domain.DemandRow, 0, len(totals))
	for key, total := range totals {
		rows = append(rows, domain.DemandRow{
			InternalSKU:    key.internalSKU,
			Supplier:       key.supplier,
			Category:       key.category,
			TotalBaseUnits: total,
			ListingCount:   len(listings[key]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].InternalSKU != rows[j].InternalSKU {
			return rows[i].InternalSKU < rows[j].InternalSKU
		}
		if rows[i].Supplier != rows[j].Supplier {
			return rows[i].Supplier < rows[j].Supplier
		}
		return rows[i].Category < rows[j].Category
	})

	orphanRows := make([]domain.OrphanRow, 0, len(orphans))
	for key, qty := range orphans {
		orphanRows = append(orphanRows, domain.OrphanRow{
			SKU:      key.sku,
			Platform: key.platform,
			Qty:      qty,
		})
	}
	sort.Slice(orphanRows, func(i, j int) bool {
		if orphanRows[i].SKU != orphanRows[j].SKU {
			return orphanRows[i].SKU < orphanRows[j].SKU
		}
		return orphanRows[i].Platform < orphanRows[j].Platform
	})

	return rows, orphanRows
}

// AggregateLightweight builds demand rows without a master catalog: pack
// sizes come from the multiplier table and the warehouse item is recovered
// by stripping the pack-size suffix from each listing's SKU. Categories are
// assigned by longest-prefix classification.
func AggregateLightweight(sets [][]domain.SalesRecord, multipliers *sku.MultiplierTable, classifier *sku.CategoryClassifier) []domain.DemandRow {
	totals := make(map[demandKey]float64)
	listings := make(map[demandKey]map[string]struct{})

	for _, records := range sets {
		for _, record := range records {
			marketplaceSKU := sku.Normalize(record.SKU)
			baseSKU := sku.StripPackSuffix(marketplaceSKU)

			key := demandKey{
				internalSKU: baseSKU,
				category:    classifier.Classify(baseSKU),
			}

			totals[key] += record.Qty * multipliers.Resolve(marketplaceSKU)
			if listings[key] == nil {
				listings[key] = make(map[string]struct{})
			}
			listings[key][marketplaceSKU] = struct{}{}
		}
	}

	rows := make([]domain.DemandRow, 0, len(totals))
	for key, total := range totals {
		rows = append(rows, domain.DemandRow{
			InternalSKU:    key.internalSKU,
			Category:       key.category,
			TotalBaseUnits: total,
			ListingCount:   len(listings[key]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].InternalSKU != rows[j].InternalSKU {
			return rows[i].InternalSKU < rows[j].InternalSKU
		}
		return rows[i].Category < rows[j].Category
	})

	return rows
}
