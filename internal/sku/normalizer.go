package sku

import "strings"

// UnknownSKU is the sentinel returned for missing or empty SKU values so
// that downstream grouping never has to deal with blanks.
const UnknownSKU = "UNKNOWN"

// Normalize canonicalizes a raw marketplace SKU: surrounding whitespace is
// stripped and all characters uppercased. Empty or missing values resolve to
// UnknownSKU. Normalize is idempotent and must be applied before any lookup
// or grouping so that SKUs differing only by case or whitespace join up.
func Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return UnknownSKU
	}
	return s
}
