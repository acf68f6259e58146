// Package loader parses marketplace sales reports into the flat
// (sku, qty, platform) shape the planning engine consumes. Missing required
// columns are fatal; malformed cells degrade to safe defaults and are
// collected as warnings.
package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/marketpo/internal/domain"
)

// Platform tags attached to loaded records.
const (
	PlatformAmazon   = "Amazon"
	PlatformFlipkart = "Flipkart"
	PlatformMeesho   = "Meesho"
)

// Result is one parsed sales report.
type Result struct {
	Records  []domain.SalesRecord
	Warnings []domain.RowWarning
}

// headerIndex finds the first column whose trimmed, lowercased name matches
// any of the given aliases. Returns -1 when none match.
func headerIndex(header []string, names ...string) int {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	for i, h := range header {
		if _, ok := targets[strings.ToLower(strings.TrimSpace(h))]; ok {
			return i
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseQty parses a quantity cell, tolerating thousands separators
// (e.g. "1,000"). Unparseable values degrade to 0 with a warning.
func parseQty(source, skuValue, raw string, warnings *[]domain.RowWarning) float64 {
	v := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if v == "" {
		return 0
	}
	qty, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*warnings = append(*warnings, domain.RowWarning{
			Source:  source,
			SKU:     skuValue,
			Field:   "qty",
			Message: fmt.Sprintf("unparseable quantity %q, defaulting to 0", raw),
		})
		return 0
	}
	return qty
}
