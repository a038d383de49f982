package analytics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/metricdeck/metricdeck/internal/store"
)

// ErrSessionNotFound reports that no session exists for the requested
// id. It is a distinct outcome, never conflated with a query failure.
var ErrSessionNotFound = errors.New("session not found")

// DetailSource is the slice of the store the assembler needs.
type DetailSource interface {
	GetSession(ctx context.Context, id string) (*store.Session, error)
	GetUser(ctx context.Context, id string) (*store.User, error)
	SessionEvents(ctx context.Context, sessionID string) ([]store.AnalyticsEvent, error)
	ActiveSubscription(ctx context.Context, userID string) (*store.Subscription, error)
}

// PageVisit summarizes the visits to one page path within a session.
type PageVisit struct {
	PagePath string    `json:"page_path"`
	Visits   int       `json:"visits"`
	LastSeen time.Time `json:"last_seen"`
}

// SessionDetail is the consolidated drill-down view for one session.
type SessionDetail struct {
	Session      store.Session          `json:"session"`
	User         *store.User            `json:"user,omitempty"`
	Subscription *store.Subscription    `json:"subscription,omitempty"`
	Events       []store.AnalyticsEvent `json:"events"`
	PageVisits   []PageVisit            `json:"page_visits"`
	TotalEvents  int                    `json:"total_events"`
	UniquePages  int                    `json:"unique_pages"`
	Duration     string                 `json:"duration,omitempty"`
}

// BuildSessionDetail assembles the session, its owning user, that
// user's active subscription, and the session's chronological event
// list into one detail view.
//
// A missing session returns ErrSessionNotFound. Enrichment failures
// degrade instead of aborting: a failed event lookup yields an empty
// event list, and a failed user or subscription lookup yields a nil
// field, each logged and swallowed.
func BuildSessionDetail(ctx context.Context, src DetailSource, sessionID string) (*SessionDetail, error) {
	session, err := src.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetching session detail: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	detail := &SessionDetail{
		Session: *session,
		Events:  []store.AnalyticsEvent{},
	}

	user, err := src.GetUser(ctx, session.UserID)
	if err != nil {
		log.Printf("session %s: user lookup failed: %v", sessionID, err)
	} else {
		detail.User = user
	}

	sub, err := src.ActiveSubscription(ctx, session.UserID)
	if err != nil {
		log.Printf("session %s: subscription lookup failed: %v", sessionID, err)
	} else {
		detail.Subscription = sub
	}

	events, err := src.SessionEvents(ctx, sessionID)
	if err != nil {
		log.Printf("session %s: event lookup failed: %v", sessionID, err)
	} else if events != nil {
		detail.Events = events
	}

	detail.TotalEvents = len(detail.Events)
	detail.PageVisits = pageVisits(detail.Events)
	detail.UniquePages = len(detail.PageVisits)
	if session.EndedAt != nil {
		detail.Duration = formatDuration(session.EndedAt.Sub(session.StartedAt))
	}
	return detail, nil
}

// pageVisits builds the per-page visit summary: count and most
// recent timestamp per distinct path, sorted descending by count.
func pageVisits(events []store.AnalyticsEvent) []PageVisit {
	type acc struct {
		visits   int
		lastSeen time.Time
	}

	byPath := make(map[string]*acc)
	for _, e := range events {
		path := e.Path()
		if path == "" {
			continue
		}
		a, seen := byPath[path]
		if !seen {
			a = &acc{}
			byPath[path] = a
		}
		a.visits++
		if e.CreatedAt.After(a.lastSeen) {
			a.lastSeen = e.CreatedAt
		}
	}

	visits := make([]PageVisit, 0, len(byPath))
	for path, a := range byPath {
		visits = append(visits, PageVisit{
			PagePath: path,
			Visits:   a.visits,
			LastSeen: a.lastSeen,
		})
	}
	sort.Slice(visits, func(i, j int) bool {
		return visits[i].Visits > visits[j].Visits
	})
	return visits
}

// formatDuration renders an elapsed session duration as minutes and
// seconds, e.g. "4m 05s".
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%dm %02ds", total/60, total%60)
}
