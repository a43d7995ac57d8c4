package web

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/pacificsands/internal/config"
	"github.com/JonMunkholm/pacificsands/internal/lots"
)

func testLots() []lots.Lot {
	return []lots.Lot{
		{LotNumber: "C3", Type: "Oceanfront", AreaM2: 1250, FrontageM: 25, Status: "Available", View: "Ocean", ElevationM: 8},
		{LotNumber: "A1", Type: "Garden", AreaM2: 450, FrontageM: 18, Status: "Sold", View: "Garden", ElevationM: 3},
		{LotNumber: "B2", Type: "Oceanfront", AreaM2: 980, FrontageM: 22, Status: "Reserved", View: "Ocean", ElevationM: 6.5},
		{LotNumber: "D4", Type: "Hillside", AreaM2: 450, FrontageM: 16, Status: "Available", View: "Valley", ElevationM: 21},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Security: config.SecurityConfig{
			EnableCSP: true,
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer returns a server around a controller loaded from src. A nil
// src leaves the controller unloaded.
func newTestServer(t *testing.T, src lots.Source) (*Server, *lots.Controller) {
	t.Helper()

	var ctrl *lots.Controller
	if src == nil {
		ctrl = lots.NewController(lots.StaticSource(testLots()), lots.WithLogger(quietLogger()))
	} else {
		ctrl = lots.NewController(src, lots.WithLogger(quietLogger()))
		_ = ctrl.Load(context.Background())
	}
	s := NewServer(ctrl, testConfig(), "<p>Welcome to <strong>Pacific Sands</strong></p>")
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, ctrl
}

func loadedServer(t *testing.T) *Server {
	s, _ := newTestServer(t, lots.StaticSource(testLots()))
	return s
}

func failedServer(t *testing.T) *Server {
	src := lots.SourceFunc(func(context.Context) ([]lots.Lot, error) {
		return nil, errors.New("404 Not Found")
	})
	s, _ := newTestServer(t, src)
	return s
}

func serve(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, s, httptest.NewRequest(http.MethodGet, target, nil))
}

func htmxGet(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("HX-Request", "true")
	return serve(t, s, req)
}

func parseDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

// parseFragment wraps table rows so the HTML parser keeps them.
func parseFragment(t *testing.T, rows string) *goquery.Document {
	t.Helper()
	return parseDoc(t, "<table><tbody>"+rows+"</tbody></table>")
}

func firstColumn(doc *goquery.Document) []string {
	var out []string
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		out = append(out, row.Find("td").First().Text())
	})
	return out
}

func TestIndexRedirects(t *testing.T) {
	rec := get(t, loadedServer(t), "/")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/lots", rec.Header().Get("Location"))
}

func TestLotsPage_Default(t *testing.T) {
	rec := get(t, loadedServer(t), "/lots")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc := parseDoc(t, rec.Body.String())
	assert.Equal(t, "Pacific Sands Lots", doc.Find("title").Text())
	assert.Equal(t, "Pacific Sands", doc.Find(".lots-intro strong").Text())
	assert.Equal(t, []string{"C3", "A1", "B2", "D4"}, firstColumn(doc), "source order")
	assert.Equal(t, 7, doc.Find(".lots-table thead th").Length())
	assert.Contains(t, doc.Find(".lots-count").Text(), "Showing 4 of 4 lots")

	statuses := doc.Find("#status-filter option").Map(func(_ int, o *goquery.Selection) string {
		v, _ := o.Attr("value")
		return v
	})
	assert.Equal(t, []string{"", "Available", "Reserved", "Sold"}, statuses)

	sel, ok := doc.Find("#sort-by option[selected]").Attr("value")
	require.True(t, ok)
	assert.Equal(t, "lot_number", sel)

	action, ok := doc.Find("#export-csv").Attr("formaction")
	require.True(t, ok)
	assert.Equal(t, "/lots/export.csv", action)
}

func TestLotsPage_AppliesQuery(t *testing.T) {
	rec := get(t, loadedServer(t), "/lots?status=Available&sort_by=area_desc&min_area=400")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseDoc(t, rec.Body.String())
	assert.Equal(t, []string{"C3", "D4"}, firstColumn(doc))
	assert.Contains(t, doc.Find(".lots-count").Text(), "Showing 2 of 4 lots")

	sel, _ := doc.Find("#status-filter option[selected]").Attr("value")
	assert.Equal(t, "Available", sel)
	minArea, _ := doc.Find("#min-area").Attr("value")
	assert.Equal(t, "400", minArea)
	maxArea, _ := doc.Find("#max-area").Attr("value")
	assert.Empty(t, maxArea)
}

func TestLotsPage_LoadFailureShowsErrorRow(t *testing.T) {
	rec := get(t, failedServer(t), "/lots")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseDoc(t, rec.Body.String())
	rows := doc.Find(".lots-table tbody tr")
	require.Equal(t, 1, rows.Length())

	td := rows.Find("td")
	assert.Equal(t, "Unable to load lots data. Please refresh the page.", td.Text())
	colspan, _ := td.Attr("colspan")
	assert.Equal(t, "7", colspan)
	assert.True(t, td.HasClass("table-error"))
}

func TestLotsPage_NotLoadedShowsLoadingRow(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s, "/lots")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseDoc(t, rec.Body.String())
	assert.Equal(t, lots.LoadingMessage, doc.Find(".lots-table tbody td").Text())
}

func TestLotsTable_Fragment(t *testing.T) {
	rec := htmxGet(t, loadedServer(t), "/lots/table?sort_by=area_asc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<html")

	doc := parseFragment(t, rec.Body.String())
	assert.Equal(t, []string{"A1", "D4", "B2", "C3"}, firstColumn(doc), "ties keep source order")
}

func TestLotsTable_NoMatches(t *testing.T) {
	rec := htmxGet(t, loadedServer(t), "/lots/table?type=Penthouse")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseFragment(t, rec.Body.String())
	require.Equal(t, 1, doc.Find("tr").Length())
	assert.Equal(t, lots.NoMatchesMessage, doc.Find("td").Text())
}

func TestLotsTable_ETag(t *testing.T) {
	s := loadedServer(t)

	first := htmxGet(t, s, "/lots/table?view=Ocean")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	// Same criteria in a different order and spelling share the tag.
	again := htmxGet(t, s, "/lots/table?sort_by=lot_number&view=Ocean")
	assert.Equal(t, etag, again.Header().Get("ETag"))

	other := htmxGet(t, s, "/lots/table?view=Garden")
	assert.NotEqual(t, etag, other.Header().Get("ETag"))

	req := httptest.NewRequest(http.MethodGet, "/lots/table?view=Ocean", nil)
	req.Header.Set("If-None-Match", etag)
	rec := serve(t, s, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestLotsTable_LoadFailure(t *testing.T) {
	rec := htmxGet(t, failedServer(t), "/lots/table")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("ETag"))

	doc := parseFragment(t, rec.Body.String())
	td := doc.Find("td")
	assert.True(t, td.HasClass("table-error"))
	assert.Equal(t, "Unable to load lots data. Please refresh the page.", td.Text())
}

func TestExportCSV(t *testing.T) {
	rec := get(t, loadedServer(t), "/lots/export.csv?view=Ocean&sort_by=area_desc")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "pacific-sands-lots.csv", params["filename"])

	want := "Lot Number,Type,Area (m²),Frontage (m),Status,View,Elevation (m)\n" +
		"C3,Oceanfront,1250,25,Available,Ocean,8\n" +
		"B2,Oceanfront,980,22,Reserved,Ocean,6.5"
	assert.Equal(t, want, rec.Body.String())

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestExportCSV_Empty(t *testing.T) {
	s := loadedServer(t)

	rec := get(t, s, "/lots/export.csv?status=Sold&view=Ocean")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	doc := parseDoc(t, rec.Body.String())
	assert.Contains(t, doc.Find(".notice").Text(), "No data to export")
	back, _ := doc.Find("a").Attr("href")
	assert.Contains(t, back, "status=Sold")

	req := httptest.NewRequest(http.MethodGet, "/lots/export.csv?status=Sold&view=Ocean", nil)
	req.Header.Set("Accept", "application/json")
	rec = serve(t, s, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "EXP001", body.Code)
	assert.Equal(t, "No data to export", body.Message)
}

func TestExportCSV_LoadFailure(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/lots/export.csv", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(t, failedServer(t), req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "LOAD001")
}

func TestLotsJSON(t *testing.T) {
	rec := get(t, loadedServer(t), "/data/lots.json?sort_by=area_desc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []lots.Lot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, testLots(), got, "always the full collection in source order")
}

func TestLotsJSON_NotLoaded(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s, "/data/lots.json")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "LOAD002", body.Code)
}

func TestHealthAndReady(t *testing.T) {
	rec := get(t, failedServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, failedServer(t), "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unloaded", body["state"])
	assert.Equal(t, "LOAD001", body["code"])

	rec = get(t, loadedServer(t), "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "loaded", body["state"])
	assert.EqualValues(t, 4, body["lots"])
}

func TestSecurityHeaders(t *testing.T) {
	rec := get(t, loadedServer(t), "/healthz")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://unpkg.com")
}

func TestStaticCSS(t *testing.T) {
	rec := get(t, loadedServer(t), "/static/css/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".status-badge.status-sold")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	ctrl := lots.NewController(lots.StaticSource(testLots()), lots.WithLogger(quietLogger()))
	s := NewServer(ctrl, cfg, "")
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)
	}
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE001")
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := &rateLimiter{visitors: map[string]*visitor{}, rate: 1, window: time.Minute, done: make(chan struct{})}
	now := time.Now()

	assert.True(t, rl.allow("192.0.2.1", now))
	assert.False(t, rl.allow("192.0.2.1", now.Add(time.Second)))
	assert.True(t, rl.allow("192.0.2.2", now.Add(time.Second)), "limits are per IP")
	assert.True(t, rl.allow("192.0.2.1", now.Add(2*time.Minute)))
}

func TestHandlers_LeaveControllerViewAlone(t *testing.T) {
	s, ctrl := newTestServer(t, lots.StaticSource(testLots()))

	for _, target := range []string{
		"/lots?status=Sold",
		"/lots/table?view=Valley",
		"/lots/export.csv?type=Garden",
	} {
		require.Equal(t, http.StatusOK, get(t, s, target).Code, target)
	}

	assert.Equal(t, testLots(), ctrl.View())
	assert.Equal(t, lots.DefaultCriteria(), ctrl.Criteria())
}
