package server

import (
	"net/http"

	"github.com/metricdeck/metricdeck/internal/analytics"
	"github.com/metricdeck/metricdeck/internal/dashboard"
	"github.com/metricdeck/metricdeck/internal/store"
)

// dashboardSnapshot is the combined state of every section, one
// loading/error flag per section.
type dashboardSnapshot struct {
	Overview   dashboard.State[analytics.Overview]          `json:"overview"`
	Users      dashboard.State[[]store.User]                `json:"users"`
	EventTypes dashboard.State[[]analytics.EventTypeCount]  `json:"event_types"`
	Campaigns  dashboard.State[[]analytics.CampaignSummary] `json:"campaigns"`
	Pages      dashboard.State[[]analytics.PageSummary]     `json:"pages"`
	Journeys   dashboard.State[[]analytics.UserJourney]     `json:"journeys"`
	Realtime   dashboard.State[analytics.RealtimeStats]     `json:"realtime"`
}

func (s *Server) snapshot() dashboardSnapshot {
	return dashboardSnapshot{
		Overview:   s.dash.Overview.Snapshot(),
		Users:      s.dash.Users.Snapshot(),
		EventTypes: s.dash.EventTypes.Snapshot(),
		Campaigns:  s.dash.Campaigns.Snapshot(),
		Pages:      s.dash.Pages.Snapshot(),
		Journeys:   s.dash.Journeys.Snapshot(),
		Realtime:   s.dash.Realtime.Snapshot(),
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleRefreshDashboard re-runs every section's fetch sequence as
// one fan-out/fan-in barrier and returns the resulting state.
// Per-section errors land in the section snapshots; the response is
// 200 as long as the barrier itself completed.
func (s *Server) handleRefreshDashboard(w http.ResponseWriter, r *http.Request) {
	dr, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	if err := s.dash.LoadAll(r.Context(), dr); err != nil {
		if handleContextError(w, err) {
			return
		}
		// The barrier cleared; failed sections carry their own
		// error flags and can be retried individually.
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}
