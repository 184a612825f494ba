package domain

import (
	"fmt"
	"strings"
)

// FilterSpec is the user's selection for one pipeline run.
//
// A nil Statuses or Cities slice selects every value present in the data. A
// non-nil empty slice selects nothing.
type FilterSpec struct {
	Statuses    []string `json:"statuses"`
	Cities      []string `json:"cities"`
	SearchField string   `json:"search_field,omitempty"`
	Keyword     string   `json:"keyword,omitempty"`
}

// FilterResult holds the matching records plus any non-fatal warnings.
type FilterResult struct {
	Records  []OrderRecord
	Warnings []string
}

// ApplyFilter returns the records that satisfy every active predicate of spec:
// status membership, city membership and, when a keyword is given, a
// case-insensitive substring match on the search field. columns is the sheet
// header; a search field that is not part of it is skipped with a warning.
func ApplyFilter(records []OrderRecord, columns []string, spec FilterSpec) FilterResult {
	statuses := selectionSet(spec.Statuses)
	cities := selectionSet(spec.Cities)

	var warnings []string
	keyword := ""
	if spec.Keyword != "" {
		if hasColumn(columns, spec.SearchField) {
			keyword = strings.ToLower(spec.Keyword)
		} else {
			warnings = append(warnings, fmt.Sprintf("%q column not found in the sheet; search skipped", spec.SearchField))
		}
	}

	out := make([]OrderRecord, 0, len(records))
	for _, r := range records {
		if statuses != nil && !statuses[r.OrderStatus] {
			continue
		}
		if cities != nil && !cities[r.City] {
			continue
		}
		if keyword != "" && !containsFold(r.Field(spec.SearchField), keyword) {
			continue
		}
		out = append(out, r)
	}

	return FilterResult{Records: out, Warnings: warnings}
}

// StatusOptions returns the distinct statuses in first-seen order.
func StatusOptions(records []OrderRecord) []string {
	return distinct(records, func(r OrderRecord) string { return r.OrderStatus })
}

// CityOptions returns the distinct cities in first-seen order.
func CityOptions(records []OrderRecord) []string {
	return distinct(records, func(r OrderRecord) string { return r.City })
}

// selectionSet normalizes a selection into a lookup set. nil stays nil (no
// constraint).
func selectionSet(values []string) map[string]bool {
	if values == nil {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[NormalizeLabel(v)] = true
	}
	return set
}

// containsFold reports whether value contains the already lower-cased keyword.
// Empty values never match.
func containsFold(value, lowerKeyword string) bool {
	if value == "" {
		return false
	}
	return strings.Contains(strings.ToLower(value), lowerKeyword)
}

func distinct(records []OrderRecord, key func(OrderRecord) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
