package sku

import (
	"regexp"
	"sort"
	"strings"
)

// packSuffixRe matches the pack-size suffix families used across listings:
// -P<n>, -PACKOF<n>, -PO<n> and a bare trailing -<n>. The pattern is
// anchored so mid-string occurrences are never altered.
var packSuffixRe = regexp.MustCompile(`-(?:PACKOF|PO|P)?\d+$`)

// StripPackSuffix reduces a normalized marketplace SKU to its base SKU by
// removing a trailing pack-size suffix. The operation is intentionally not
// injective: several pack-size listings of one item collapse to the same
// base SKU, which is how demand rolls up to a single line.
func StripPackSuffix(s string) string {
	return packSuffixRe.ReplaceAllString(s, "")
}

// categorySeparators are the characters that delimit the leading token of a
// SKU when no configured prefix matches.
const categorySeparators = "-_ /"

// CategoryClassifier assigns a category to a base SKU from a configured
// prefix table using longest-prefix-wins semantics.
type CategoryClassifier struct {
	categories map[string]string
	prefixes   []string // sorted longest first for deterministic matching
}

// NewCategoryClassifier builds a classifier from (prefix -> category) pairs.
// Prefixes are normalized the same way as SKUs.
func NewCategoryClassifier(prefixes map[string]string) *CategoryClassifier {
	c := &CategoryClassifier{categories: make(map[string]string, len(prefixes))}
	for prefix, category := range prefixes {
		p := Normalize(prefix)
		c.categories[p] = category
		c.prefixes = append(c.prefixes, p)
	}
	sort.Slice(c.prefixes, func(i, j int) bool {
		if len(c.prefixes[i]) != len(c.prefixes[j]) {
			return len(c.prefixes[i]) > len(c.prefixes[j])
		}
		return c.prefixes[i] < c.prefixes[j]
	})
	return c
}

// Classify returns the category for a base SKU. The longest configured
// prefix wins, so L-CAP beats CAP for "L-CAP-001". When nothing matches,
// the token before the first separator is used as the category.
func (c *CategoryClassifier) Classify(baseSKU string) string {
	s := Normalize(baseSKU)
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(s, prefix) {
			return c.categories[prefix]
		}
	}
	if i := strings.IndexAny(s, categorySeparators); i > 0 {
		return s[:i]
	}
	return s
}
