package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/metricdeck/metricdeck/internal/store"
)

// Overview holds the headline card metrics. Counts are computed in
// the store rather than by paging rows into memory.
type Overview struct {
	TotalUsers     int `json:"total_users"`
	Subscribers    int `json:"subscribers"`
	ActiveSessions int `json:"active_sessions"`
	EventsLast24h  int `json:"events_last_24h"`
}

// OverviewSource is the slice of the store the overview needs.
type OverviewSource interface {
	CountUsers(ctx context.Context, f store.Filter) (int, error)
	CountSessions(ctx context.Context, f store.Filter) (int, error)
	CountEventsSince(ctx context.Context, t time.Time) (int, error)
}

// BuildOverview computes the headline metrics as of now.
func BuildOverview(ctx context.Context, src OverviewSource, now time.Time) (Overview, error) {
	var o Overview
	var err error

	if o.TotalUsers, err = src.CountUsers(ctx, store.Filter{}); err != nil {
		return Overview{}, fmt.Errorf("counting users: %w", err)
	}
	subs := store.Filter{}.Eq("is_subscriber", true)
	if o.Subscribers, err = src.CountUsers(ctx, subs); err != nil {
		return Overview{}, fmt.Errorf("counting subscribers: %w", err)
	}
	active := store.Filter{}.Eq("is_active", true)
	if o.ActiveSessions, err = src.CountSessions(ctx, active); err != nil {
		return Overview{}, fmt.Errorf("counting active sessions: %w", err)
	}
	if o.EventsLast24h, err = src.CountEventsSince(ctx, now.Add(-24*time.Hour)); err != nil {
		return Overview{}, fmt.Errorf("counting recent events: %w", err)
	}
	return o, nil
}
