package store

import (
	"context"
	"fmt"
	"time"

	"github.com/metricdeck/metricdeck/internal/fetch"
)

// eventCols is the column list for event selects. Keep in sync with
// scanEvent.
const eventCols = `id, user_id, session_id, event_type, event_category,
	event_action, page_path, page_section, metadata,
	utm_source, utm_medium, utm_campaign, created_at`

func scanEvent(rs rowScanner) (AnalyticsEvent, error) {
	var e AnalyticsEvent
	var metadata []byte
	err := rs.Scan(
		&e.ID, &e.UserID, &e.SessionID, &e.EventType, &e.EventCategory,
		&e.EventAction, &e.PagePath, &e.PageSection, &metadata,
		&e.UTMSource, &e.UTMMedium, &e.UTMCampaign, &e.CreatedAt,
	)
	if len(metadata) > 0 {
		e.Metadata = metadata
	}
	return e, err
}

// ListEvents returns every event matching the filter, paging through
// the table until exhausted. Default order is created_at ascending,
// which callers reconstructing timelines rely on.
func (s *Store) ListEvents(ctx context.Context, f Filter) ([]AnalyticsEvent, error) {
	return fetch.All(ctx, s.pageSize, func(ctx context.Context, offset, limit int) ([]AnalyticsEvent, error) {
		query, args := f.buildSelect(tableEvents, eventCols, "created_at", offset, limit)
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("listing events: %w", err)
		}
		defer rows.Close()

		var events []AnalyticsEvent
		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				return nil, fmt.Errorf("scanning event: %w", err)
			}
			events = append(events, e)
		}
		return events, rows.Err()
	})
}

// SessionEvents returns all events recorded against the session,
// ordered chronologically ascending.
func (s *Store) SessionEvents(ctx context.Context, sessionID string) ([]AnalyticsEvent, error) {
	f := Filter{}.Eq("session_id", sessionID).Sort("created_at", false)
	return s.ListEvents(ctx, f)
}

// CountEventsSince returns the number of events created at or after t.
func (s *Store) CountEventsSince(ctx context.Context, t time.Time) (int, error) {
	return s.count(ctx, tableEvents, Filter{}.Gte("created_at", t))
}
