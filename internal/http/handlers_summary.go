package http

import (
	"net/http"

	"github.com/coder-dipesh/equilo/internal/core"
)

// handleSummary serves the periodic balance report.
//
// Query parameters: period (weekly|fortnightly), week_start (monday|sunday),
// from (YYYY-MM-DD). Unrecognized period or week_start values fall back to
// the defaults, and a malformed from is treated as absent, so a stale or
// hand-edited link still renders the current week.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	q := r.URL.Query()
	period := core.ParsePeriod(q.Get("period"))
	weekStart := core.ParseWeekStart(q.Get("week_start"))

	var reference core.Date
	if from := q.Get("from"); from != "" {
		if parsed, err := core.ParseDate(from); err == nil {
			reference = parsed
		}
	}

	summary, err := s.svc.Summary(r.Context(), currentUserID(r), placeID, period, weekStart, reference)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
