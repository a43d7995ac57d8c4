package lots

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortLotNumber SortKey = "lot_number"
	SortAreaAsc   SortKey = "area_asc"
	SortAreaDesc  SortKey = "area_desc"
	SortType      SortKey = "type"
)

// SortKeys lists the supported keys in the order the sort control shows them.
var SortKeys = []SortKey{SortLotNumber, SortAreaAsc, SortAreaDesc, SortType}

// ParseSortKey maps a control value to a SortKey. Unknown values fall back to
// SortLotNumber.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortAreaAsc, SortAreaDesc, SortType:
		return k
	default:
		return SortLotNumber
	}
}

// Label returns the text shown for the key in the sort control.
func (k SortKey) Label() string {
	switch k {
	case SortAreaAsc:
		return "Area (smallest first)"
	case SortAreaDesc:
		return "Area (largest first)"
	case SortType:
		return "Type"
	default:
		return "Lot Number"
	}
}

// FilterCriteria is the set of constraints read from the filter controls.
// Empty string fields mean no constraint. A MaxArea of zero, below zero, NaN
// or +Inf means no upper bound, so the zero value matches every lot.
type FilterCriteria struct {
	Status  string
	View    string
	Type    string
	MinArea float64
	MaxArea float64
	SortBy  SortKey
}

// DefaultCriteria matches every lot and sorts by lot number.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		MinArea: 0,
		MaxArea: math.Inf(1),
		SortBy:  SortLotNumber,
	}
}

// Query parameter names shared by the page controls, the table fragment and
// the export link.
const (
	ParamStatus  = "status"
	ParamView    = "view"
	ParamType    = "type"
	ParamMinArea = "min_area"
	ParamMaxArea = "max_area"
	ParamSortBy  = "sort_by"
)

// ParseCriteria builds criteria from raw control values. Malformed numbers
// are not errors: an unparsable minimum becomes 0 and an unparsable (or zero)
// maximum becomes +Inf. Select values are kept byte for byte, since Matches
// compares them exactly against the record; a blank value means no constraint.
func ParseCriteria(values url.Values) FilterCriteria {
	c := DefaultCriteria()
	c.Status = exactValue(values.Get(ParamStatus))
	c.View = exactValue(values.Get(ParamView))
	c.Type = exactValue(values.Get(ParamType))
	if n, ok := parseLeadingInt(values.Get(ParamMinArea)); ok {
		c.MinArea = n
	}
	if n, ok := parseLeadingInt(values.Get(ParamMaxArea)); ok && n != 0 {
		c.MaxArea = n
	}
	c.SortBy = ParseSortKey(values.Get(ParamSortBy))
	return c
}

// Values encodes the criteria back into query parameters. Unconstrained
// fields are omitted, so DefaultCriteria encodes to only the sort key.
func (c FilterCriteria) Values() url.Values {
	v := url.Values{}
	if c.Status != "" {
		v.Set(ParamStatus, c.Status)
	}
	if c.View != "" {
		v.Set(ParamView, c.View)
	}
	if c.Type != "" {
		v.Set(ParamType, c.Type)
	}
	if c.MinArea != 0 {
		v.Set(ParamMinArea, strconv.FormatFloat(c.MinArea, 'f', -1, 64))
	}
	if c.HasMaxArea() {
		v.Set(ParamMaxArea, strconv.FormatFloat(c.MaxArea, 'f', -1, 64))
	}
	v.Set(ParamSortBy, string(ParseSortKey(string(c.SortBy))))
	return v
}

// HasMaxArea reports whether MaxArea bounds the area at all.
func (c FilterCriteria) HasMaxArea() bool {
	return c.MaxArea > 0 && !math.IsInf(c.MaxArea, 1)
}

// Matches reports whether the lot satisfies every active constraint. The area
// bounds are inclusive; a NaN MinArea counts as 0.
func (c FilterCriteria) Matches(l Lot) bool {
	if c.Status != "" && l.Status != c.Status {
		return false
	}
	if c.View != "" && l.View != c.View {
		return false
	}
	if c.Type != "" && l.Type != c.Type {
		return false
	}
	if !math.IsNaN(c.MinArea) && l.AreaM2 < c.MinArea {
		return false
	}
	return !c.HasMaxArea() || l.AreaM2 <= c.MaxArea
}

func exactValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// parseLeadingInt reads an optionally signed run of leading digits, ignoring
// leading whitespace and anything after the digits ("400m" is 400, "12.9" is
// 12). Runs too long for an int64 keep their magnitude ("1" followed by 20
// zeros is 1e20). It reports false when no digits are present.
func parseLeadingInt(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
