package sku

import (
	"sort"
	"strconv"
	"strings"

	"github.com/andresuchdata/marketpo/internal/domain"
)

// DefaultMultiplier is assumed when a SKU matches no configured key.
const DefaultMultiplier = 1

// MultiplierTable maps SKU keys to unit-count multipliers for the
// catalog-free planning path, where pack sizes are inferred from SKU text
// rather than a master catalog join.
type MultiplierTable struct {
	values map[string]float64
	keys   []string // sorted longest first, then lexicographic
}

// NewMultiplierTable parses raw (key -> multiplier) pairs. Keys are
// normalized like SKUs. Non-numeric or non-positive multiplier values are
// coerced to DefaultMultiplier and reported as row warnings.
func NewMultiplierTable(raw map[string]string) (*MultiplierTable, []domain.RowWarning) {
	t := &MultiplierTable{values: make(map[string]float64, len(raw))}
	var warnings []domain.RowWarning
	for key, value := range raw {
		k := Normalize(key)
		m, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || m <= 0 {
			warnings = append(warnings, domain.RowWarning{
				Source:  "multiplier_table",
				SKU:     k,
				Field:   "multiplier",
				Message: "invalid multiplier " + strconv.Quote(value) + ", defaulting to 1",
			})
			m = DefaultMultiplier
		}
		t.values[k] = m
		t.keys = append(t.keys, k)
	}
	// Longest key first makes substring resolution deterministic when
	// several keys match; ties break lexicographically.
	sort.Slice(t.keys, func(i, j int) bool {
		if len(t.keys[i]) != len(t.keys[j]) {
			return len(t.keys[i]) > len(t.keys[j])
		}
		return t.keys[i] < t.keys[j]
	})
	return t, warnings
}

// Resolve returns the unit multiplier for a SKU. Precedence: exact key
// match, then the longest configured key contained in the SKU, then
// DefaultMultiplier.
func (t *MultiplierTable) Resolve(rawSKU string) float64 {
	s := Normalize(rawSKU)
	if m, ok := t.values[s]; ok {
		return m
	}
	for _, key := range t.keys {
		if strings.Contains(s, key) {
			return t.values[key]
		}
	}
	return DefaultMultiplier
}

// Len reports the number of configured keys.
func (t *MultiplierTable) Len() int {
	return len(t.values)
}
