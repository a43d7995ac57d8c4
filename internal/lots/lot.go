package lots

import (
	"strings"
	"unicode"
)

// Lot is a single parcel in the development. Records are supplied by a Source
// and treated as immutable once loaded.
type Lot struct {
	LotNumber  string  `json:"lot_number" yaml:"lot_number" db:"lot_number"`
	Type       string  `json:"type" yaml:"type" db:"type"`
	AreaM2     float64 `json:"area_m2" yaml:"area_m2" db:"area_m2"`
	FrontageM  float64 `json:"frontage_m" yaml:"frontage_m" db:"frontage_m"`
	Status     string  `json:"status" yaml:"status" db:"status"`
	View       string  `json:"view" yaml:"view" db:"view"`
	ElevationM float64 `json:"elevation_m" yaml:"elevation_m" db:"elevation_m"`
}

// Known status values. The set is open; any other status still renders with
// a class derived from its name.
const (
	StatusAvailable = "Available"
	StatusReserved  = "Reserved"
	StatusSold      = "Sold"
)

// StatusClass returns the CSS class for the lot's status badge, e.g.
// "status-available". Whitespace inside the status becomes a hyphen so the
// result is always a single class token.
func (l Lot) StatusClass() string {
	return "status-" + normalizeClass(l.Status)
}

func normalizeClass(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, s)
}
