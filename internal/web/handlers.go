package web

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"mime"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/pacificsands/internal/logging"
	"github.com/JonMunkholm/pacificsands/internal/lots"
	"github.com/JonMunkholm/pacificsands/internal/web/templates"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, templates.PathLots, http.StatusFound)
}

// handleLotsPage renders the whole page. The query string carries the
// filter controls, so a bookmarked URL reproduces the same view.
func (s *Server) handleLotsPage(w http.ResponseWriter, r *http.Request) {
	criteria := lots.ParseCriteria(r.URL.Query())

	data := templates.LotsPageData{
		Title:     PageTitle,
		IntroHTML: s.introHTML,
		Criteria:  criteria,
		Options:   s.ctrl.Options(),
		Total:     s.ctrl.Len(),
	}

	view, err := s.ctrl.Query(criteria)
	if err != nil {
		// Not loaded: the controller renders the error or loading row.
		data.Body = templ.ComponentFunc(s.ctrl.Render)
	} else {
		s.logFiltered(r, criteria, view)
		data.Body = lots.TableBody(view, s.ctrl.Language())
		data.Shown = len(view)
	}

	renderHTML(w, r, http.StatusOK, templates.LotsPage(data))
}

// handleLotsTable renders only the table body for HTMX swaps. The body is a
// pure function of the loaded collection and the criteria, which makes it
// cacheable by ETag.
func (s *Server) handleLotsTable(w http.ResponseWriter, r *http.Request) {
	criteria := lots.ParseCriteria(r.URL.Query())

	view, err := s.ctrl.Query(criteria)
	if err != nil {
		w.Header().Set("Cache-Control", "no-store")
		renderHTML(w, r, http.StatusOK, templ.ComponentFunc(s.ctrl.Render))
		return
	}

	etag := tableETag(s.ctrl.Generation(), criteria)
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "HX-Request")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	s.logFiltered(r, criteria, view)
	renderHTML(w, r, http.StatusOK, lots.TableBody(view, s.ctrl.Language()))
}

// handleExportCSV downloads the view selected by the query string.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	criteria := lots.ParseCriteria(r.URL.Query())

	view, err := s.ctrl.Query(criteria)
	if err != nil {
		respondError(w, r, s.unavailable(err), http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := lots.WriteCSV(&buf, view); err != nil {
		if errors.Is(err, lots.ErrEmptyExport) {
			respondError(w, r, err, http.StatusUnprocessableEntity)
			return
		}
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.WithFields(r.Context(), "rows", len(view)).Info("lots exported")

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": lots.ExportFilename}))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleLotsJSON serves the loaded collection in source order.
func (s *Server) handleLotsJSON(w http.ResponseWriter, r *http.Request) {
	if s.ctrl.State() != lots.StateLoaded {
		respondError(w, r, s.unavailable(lots.ErrNotLoaded), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("ETag", `"`+s.ctrl.Generation()+`"`)
	writeJSON(w, r, http.StatusOK, s.ctrl.Lots())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 until the collection has loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"state": s.ctrl.State().String(),
		"lots":  s.ctrl.Len(),
	}
	status := http.StatusOK
	if s.ctrl.State() != lots.StateLoaded {
		status = http.StatusServiceUnavailable
		if err := s.ctrl.LoadErr(); err != nil {
			body["code"] = lots.MapError(err).Code
		}
	}
	writeJSON(w, r, status, body)
}

// unavailable prefers the recorded load failure over ErrNotLoaded so the
// client sees why there is no data.
func (s *Server) unavailable(err error) error {
	if loadErr := s.ctrl.LoadErr(); loadErr != nil {
		return loadErr
	}
	return err
}

func (s *Server) logFiltered(r *http.Request, c lots.FilterCriteria, view []lots.Lot) {
	logging.WithFields(r.Context(), "sort_by", c.SortBy).Debug("lots filtered",
		"query", c.Values().Encode(),
		"count", len(view),
	)
}

// tableETag identifies a rendered table body by collection generation and
// normalized criteria.
func tableETag(generation string, c lots.FilterCriteria) string {
	sum := sha256.Sum256([]byte(generation + "?" + c.Values().Encode()))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
