package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/metricdeck/metricdeck/internal/analytics"
)

// parseDateRange extracts the shared range params from a request:
// range=daily|lastMonth|custom plus optional RFC3339 start/end for
// custom. A custom range missing either bound applies no date
// restriction. Writes a 400 and returns ok=false on invalid input.
func parseDateRange(w http.ResponseWriter, r *http.Request) (analytics.DateRange, bool) {
	q := r.URL.Query()

	var start, end *time.Time
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"start", &start},
		{"end", &end},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest,
				"invalid "+p.name+": use RFC3339 timestamp")
			return analytics.DateRange{}, false
		}
		*p.dst = &t
	}

	if start != nil && end != nil && start.After(*end) {
		writeError(w, http.StatusBadRequest,
			"start must not be after end")
		return analytics.DateRange{}, false
	}

	dr, err := analytics.ParseDateRange(q.Get("range"), start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			"invalid range: must be daily, lastMonth, or custom")
		return analytics.DateRange{}, false
	}
	return dr, true
}

// parseIntParam parses an optional positive integer query param.
// Absent params return (0, true).
func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(w, http.StatusBadRequest,
			name+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}
