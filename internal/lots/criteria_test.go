package lots

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCriteria_Defaults(t *testing.T) {
	c := ParseCriteria(url.Values{})

	assert.Equal(t, "", c.Status)
	assert.Equal(t, "", c.View)
	assert.Equal(t, "", c.Type)
	assert.Equal(t, 0.0, c.MinArea)
	assert.True(t, math.IsInf(c.MaxArea, 1))
	assert.Equal(t, SortLotNumber, c.SortBy)
}

func TestParseCriteria_NumericInputs(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		max     string
		wantMin float64
		wantMax float64
	}{
		{"plain integers", "400", "900", 400, 900},
		{"non numeric", "abc", "xyz", 0, math.Inf(1)},
		{"trailing units", "400m", "900 m2", 400, 900},
		{"decimals truncate", "12.9", "99.5", 12, 99},
		{"zero max is unbounded", "0", "0", 0, math.Inf(1)},
		{"leading whitespace", "  50", "\t70", 50, 70},
		{"negative minimum", "-5", "", -5, math.Inf(1)},
		{"sign only", "-", "+", 0, math.Inf(1)},
		{"beyond int64", "99999999999999999999", "99999999999999999999", 1e20, 1e20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseCriteria(url.Values{ParamMinArea: {tt.min}, ParamMaxArea: {tt.max}})
			assert.Equal(t, tt.wantMin, c.MinArea)
			assert.Equal(t, tt.wantMax, c.MaxArea)
		})
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortAreaAsc, ParseSortKey("area_asc"))
	assert.Equal(t, SortAreaDesc, ParseSortKey("area_desc"))
	assert.Equal(t, SortType, ParseSortKey(" type "))
	assert.Equal(t, SortLotNumber, ParseSortKey("lot_number"))
	assert.Equal(t, SortLotNumber, ParseSortKey("price"))
	assert.Equal(t, SortLotNumber, ParseSortKey(""))
}

func TestCriteriaValues_RoundTrip(t *testing.T) {
	c := FilterCriteria{Status: "Available", View: "Ocean", MinArea: 400, MaxArea: 1000, SortBy: SortAreaDesc}

	got := ParseCriteria(c.Values())
	assert.Equal(t, c, got)

	def := DefaultCriteria().Values()
	assert.Equal(t, url.Values{ParamSortBy: {"lot_number"}}, def)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "status-available", Lot{Status: "Available"}.StatusClass())
	assert.Equal(t, "status-sold", Lot{Status: "SOLD"}.StatusClass())
	assert.Equal(t, "status-under-contract", Lot{Status: "Under Contract"}.StatusClass())
}

func TestParseCriteria_HugeMinimumExcludesEverything(t *testing.T) {
	c := ParseCriteria(url.Values{ParamMinArea: {"99999999999999999999"}})

	assert.Empty(t, Filter(sampleLots(), c))
}

func TestParseCriteria_SelectValuesKeptExactly(t *testing.T) {
	src := []Lot{
		{LotNumber: "G7", Status: "Sold ", View: "Ocean", Type: "Garden"},
		{LotNumber: "G8", Status: "Sold", View: "Ocean", Type: "Garden"},
	}

	c := ParseCriteria(url.Values{ParamStatus: {"Sold "}})
	assert.Equal(t, "Sold ", c.Status)
	assert.Equal(t, []string{"G7"}, lotNumbers(Filter(src, c)))

	c = ParseCriteria(url.Values{ParamStatus: {"Sold"}})
	assert.Equal(t, []string{"G8"}, lotNumbers(Filter(src, c)))

	c = ParseCriteria(url.Values{ParamStatus: {"  "}, ParamView: {"\t"}})
	assert.Empty(t, c.Status)
	assert.Empty(t, c.View)
	assert.Len(t, Filter(src, c), 2)
}

func TestFilterCriteria_ZeroValueMatchesAll(t *testing.T) {
	var c FilterCriteria
	assert.False(t, c.HasMaxArea())

	for _, l := range sampleLots() {
		assert.True(t, c.Matches(l), l.LotNumber)
	}
}

func TestFilterCriteria_UnboundedMaximum(t *testing.T) {
	l := Lot{LotNumber: "H1", AreaM2: 1500}

	for _, max := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		c := FilterCriteria{MaxArea: max}
		assert.False(t, c.HasMaxArea(), "max %v", max)
		assert.True(t, c.Matches(l), "max %v", max)
	}

	c := FilterCriteria{MaxArea: 1499}
	assert.True(t, c.HasMaxArea())
	assert.False(t, c.Matches(l))

	c = FilterCriteria{MinArea: math.NaN()}
	assert.True(t, c.Matches(l), "NaN minimum is no constraint")
}
