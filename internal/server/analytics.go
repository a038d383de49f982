package server

import (
	"net/http"
	"time"
)

// maxRealtimeWindowMinutes caps the realtime window param at one day.
const maxRealtimeWindowMinutes = 1440

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	err := s.dash.RefreshOverview(r.Context())
	if err != nil {
		if handleContextError(w, err) {
			return
		}
		writeFetchError(w, "loading overview", err)
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Overview.Snapshot())
}

func (s *Server) handleEventTypes(w http.ResponseWriter, r *http.Request) {
	dr, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	if err := s.dash.RefreshEventTypes(r.Context(), dr); err != nil {
		if handleContextError(w, err) {
			return
		}
		writeFetchError(w, "loading event type counts", err)
		return
	}
	writeJSON(w, http.StatusOK, s.dash.EventTypes.Snapshot())
}

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	dr, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	if err := s.dash.RefreshCampaigns(r.Context(), dr); err != nil {
		if handleContextError(w, err) {
			return
		}
		writeFetchError(w, "loading campaign performance", err)
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Campaigns.Snapshot())
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	dr, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	if err := s.dash.RefreshPages(r.Context(), dr); err != nil {
		if handleContextError(w, err) {
			return
		}
		writeFetchError(w, "loading page performance", err)
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Pages.Snapshot())
}

func (s *Server) handleJourneys(w http.ResponseWriter, r *http.Request) {
	dr, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	if err := s.dash.RefreshJourneys(r.Context(), dr); err != nil {
		if handleContextError(w, err) {
			return
		}
		writeFetchError(w, "loading user journeys", err)
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Journeys.Snapshot())
}

func (s *Server) handleRealtime(w http.ResponseWriter, r *http.Request) {
	minutes, ok := parseIntParam(w, r, "window")
	if !ok {
		return
	}
	if minutes > maxRealtimeWindowMinutes {
		writeError(w, http.StatusBadRequest,
			"window must be at most 1440 minutes")
		return
	}

	window := time.Duration(minutes) * time.Minute
	if err := s.dash.RefreshRealtime(r.Context(), window); err != nil {
		if handleContextError(w, err) {
			return
		}
		writeFetchError(w, "loading realtime snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Realtime.Snapshot())
}
