package lots

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:generate templ generate

// ColumnCount is the number of columns in the lots table.
const ColumnCount = 7

// Messages shown in place of records.
const (
	NoMatchesMessage = "No lots match your criteria"
	LoadingMessage   = "Loading lots…"
)

// FormatArea formats an area with the grouping rules of lang, e.g.
// "1,250 m²" for English.
func FormatArea(lang language.Tag, v float64) string {
	p := message.NewPrinter(lang)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(3))) + " m²"
}

// FormatNumber formats v with the fewest digits that represent it exactly:
// 500 is "500", 12.5 is "12.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
