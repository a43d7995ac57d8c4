package lots

import (
	"cmp"
	"slices"
	"strings"
)

// Filter returns the lots that satisfy c, in source order. The result is a new
// slice; src is never modified.
func Filter(src []Lot, c FilterCriteria) []Lot {
	out := make([]Lot, 0, len(src))
	for _, l := range src {
		if c.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// Sort returns a copy of view ordered by key. The sort is stable, so lots with
// equal keys keep their relative order. Strings compare by byte order.
func Sort(view []Lot, key SortKey) []Lot {
	out := slices.Clone(view)
	if out == nil {
		out = []Lot{}
	}
	slices.SortStableFunc(out, comparator(key))
	return out
}

// Apply filters src and sorts the result, in that order.
func Apply(src []Lot, c FilterCriteria) []Lot {
	view := Filter(src, c)
	slices.SortStableFunc(view, comparator(c.SortBy))
	return view
}

func comparator(key SortKey) func(a, b Lot) int {
	switch ParseSortKey(string(key)) {
	case SortAreaAsc:
		return func(a, b Lot) int { return cmp.Compare(a.AreaM2, b.AreaM2) }
	case SortAreaDesc:
		return func(a, b Lot) int { return cmp.Compare(b.AreaM2, a.AreaM2) }
	case SortType:
		return func(a, b Lot) int { return strings.Compare(a.Type, b.Type) }
	default:
		return func(a, b Lot) int { return strings.Compare(a.LotNumber, b.LotNumber) }
	}
}

// FilterOptions holds the distinct values offered by the select controls.
type FilterOptions struct {
	Statuses []string
	Views    []string
	Types    []string
}

// OptionsFor collects the sorted distinct status, view and type values of src.
// Empty values are skipped.
func OptionsFor(src []Lot) FilterOptions {
	return FilterOptions{
		Statuses: distinct(src, func(l Lot) string { return l.Status }),
		Views:    distinct(src, func(l Lot) string { return l.View }),
		Types:    distinct(src, func(l Lot) string { return l.Type }),
	}
}

func distinct(src []Lot, field func(Lot) string) []string {
	seen := make(map[string]struct{}, len(src))
	out := []string{}
	for _, l := range src {
		v := field(l)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
