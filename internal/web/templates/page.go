// Package templates holds the templ components for the lots page.
package templates

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/pacificsands/internal/lots"
)

//go:generate templ generate

// Paths the page links to. The .templ sources spell the same values.
const (
	PathLots      = "/lots"
	PathLotsTable = "/lots/table"
	PathExportCSV = "/lots/export.csv"
	PathLotsJSON  = "/data/lots.json"
	PathCSS       = "/static/css/site.css"
	HTMXScriptURL = "https://unpkg.com/htmx.org@1.9.12"
)

// LotsPageData is everything the lots page renders.
type LotsPageData struct {
	Title     string
	IntroHTML string // sanitized by package content
	Criteria  lots.FilterCriteria
	Options   lots.FilterOptions
	Body      templ.Component
	Shown     int
	Total     int
}

// BackToLots returns the lots page URL carrying the given filter values.
func BackToLots(values url.Values) string {
	if len(values) == 0 {
		return PathLots
	}
	return PathLots + "?" + values.Encode()
}

func minAreaValue(c lots.FilterCriteria) string {
	if c.MinArea == 0 {
		return ""
	}
	return lots.FormatNumber(c.MinArea)
}

func maxAreaValue(c lots.FilterCriteria) string {
	if !c.HasMaxArea() {
		return ""
	}
	return lots.FormatNumber(c.MaxArea)
}
