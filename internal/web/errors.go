package web

// errors.go renders failures for the three kinds of client the site has:
// HTMX swaps get a notice fragment, JSON clients an ErrorResponse and plain
// navigations a full page. The technical error is logged with the request
// ID; clients only see the mapped lots.UserMessage.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/pacificsands/internal/logging"
	"github.com/JonMunkholm/pacificsands/internal/lots"
	"github.com/JonMunkholm/pacificsands/internal/web/templates"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the JSON body of an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := lots.MapError(err)

	logger := logging.WithFields(r.Context(), "path", r.URL.Path, "status", status, "code", msg.Code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Warn("request rejected", "error", err)
	}

	switch {
	case isHTMX(r):
		renderHTML(w, r, status, templates.Notice(msg))
	case wantsJSON(r):
		writeJSON(w, r, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	default:
		back := lots.ParseCriteria(r.URL.Query()).Values()
		renderHTML(w, r, status, templates.NoticePage(PageTitle, msg, templates.BackToLots(back)))
	}
}

func renderHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.URL.Path, "/data/")
}
