package analytics

import (
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"github.com/metricdeck/metricdeck/internal/store"
)

// JourneyStep is one event in a user's reconstructed path through the
// product.
type JourneyStep struct {
	PagePath  string    `json:"page_path"`
	Action    string    `json:"action"`
	Label     string    `json:"label,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UserJourney is the ordered event trail for one user.
type UserJourney struct {
	UserID      string        `json:"user_id"`
	Steps       []JourneyStep `json:"steps"`
	StepCount   int           `json:"step_count"`
	UniquePages int           `json:"unique_pages"`
}

// eventLabel pulls the optional display label out of the event's
// free-form metadata payload.
func eventLabel(e store.AnalyticsEvent) string {
	if len(e.Metadata) == 0 {
		return ""
	}
	return gjson.GetBytes(e.Metadata, "label").String()
}

// UserJourneys groups events by user into ordered journeys. Steps
// keep the input order, so callers wanting chronological journeys
// fetch ascending by created_at. Journeys are sorted descending by
// step count.
func UserJourneys(events []store.AnalyticsEvent) []UserJourney {
	type acc struct {
		steps []JourneyStep
		pages map[string]struct{}
	}

	byUser := make(map[string]*acc)
	for _, e := range events {
		a, seen := byUser[e.UserID]
		if !seen {
			a = &acc{pages: make(map[string]struct{})}
			byUser[e.UserID] = a
		}
		a.steps = append(a.steps, JourneyStep{
			PagePath:  e.Path(),
			Action:    e.EventAction,
			Label:     eventLabel(e),
			Timestamp: e.CreatedAt,
		})
		if p := e.Path(); p != "" {
			a.pages[p] = struct{}{}
		}
	}

	journeys := make([]UserJourney, 0, len(byUser))
	for userID, a := range byUser {
		journeys = append(journeys, UserJourney{
			UserID:      userID,
			Steps:       a.steps,
			StepCount:   len(a.steps),
			UniquePages: len(a.pages),
		})
	}
	sort.Slice(journeys, func(i, j int) bool {
		return journeys[i].StepCount > journeys[j].StepCount
	})
	return journeys
}
