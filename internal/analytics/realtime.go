package analytics

import (
	"sort"
	"time"

	"github.com/metricdeck/metricdeck/internal/store"
)

// RealtimeStats is the flat trailing-window snapshot behind the
// realtime card.
type RealtimeStats struct {
	WindowMinutes     int      `json:"window_minutes"`
	TotalEvents       int      `json:"total_events"`
	UniqueActiveUsers int      `json:"unique_active_users"`
	EventTypes        []string `json:"event_types"`
	EventsPerMinute   string   `json:"events_per_minute"`
}

// RealtimeSnapshot summarizes events from a trailing window. The
// caller fetches events already restricted to the window; window sets
// the per-minute denominator. An empty window yields zeroed counters,
// an empty (non-nil) type list, and "0" events per minute.
func RealtimeSnapshot(events []store.AnalyticsEvent, window time.Duration) RealtimeStats {
	users := make(map[string]struct{})
	typeSet := make(map[string]struct{})
	for _, e := range events {
		users[e.UserID] = struct{}{}
		typeSet[e.EventType] = struct{}{}
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)

	minutes := window.Minutes()
	return RealtimeStats{
		WindowMinutes:     int(minutes),
		TotalEvents:       len(events),
		UniqueActiveUsers: len(users),
		EventTypes:        types,
		EventsPerMinute:   ratio(float64(len(events)), minutes),
	}
}
