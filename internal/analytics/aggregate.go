// Package analytics folds flat event, session, and user rows into the
// view-model aggregates the dashboard renders. Every aggregate is
// constructed fresh per request and has no lifecycle beyond it.
package analytics

import (
	"sort"
	"strconv"

	"github.com/metricdeck/metricdeck/internal/store"
	"github.com/metricdeck/metricdeck/internal/timeutil"
)

// ratio formats num/denom to one decimal place. A zero denominator
// or zero numerator yields the literal "0", never NaN or "0.0".
func ratio(num, denom float64) string {
	if denom == 0 || num == 0 {
		return "0"
	}
	return strconv.FormatFloat(num/denom, 'f', 1, 64)
}

// EventTypeCount is the per-type event tally behind the type chart.
type EventTypeCount struct {
	EventType string `json:"event_type"`
	Count     int    `json:"count"`
}

// CountByType groups events by type and sorts the result descending
// by count. Tie order is unspecified.
func CountByType(events []store.AnalyticsEvent) []EventTypeCount {
	byType := make(map[string]int)
	for _, e := range events {
		byType[e.EventType]++
	}

	counts := make([]EventTypeCount, 0, len(byType))
	for t, n := range byType {
		counts = append(counts, EventTypeCount{EventType: t, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// CampaignSummary is the per-campaign performance row.
type CampaignSummary struct {
	Campaign     string `json:"campaign"`
	Source       string `json:"source"`
	Medium       string `json:"medium"`
	TotalEvents  int    `json:"total_events"`
	ActiveDays   int    `json:"active_days"`
	EventsPerDay string `json:"events_per_day"`
}

// CampaignPerformance groups attributed events by campaign, source,
// and medium. Events with no campaign attribution at all are skipped;
// a missing source or medium on an attributed event is kept as "".
// Rows are sorted descending by total events.
func CampaignPerformance(events []store.AnalyticsEvent) []CampaignSummary {
	type acc struct {
		summary CampaignSummary
		days    map[string]struct{}
	}

	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	byKey := make(map[string]*acc)
	for _, e := range events {
		campaign := deref(e.UTMCampaign)
		source := deref(e.UTMSource)
		medium := deref(e.UTMMedium)
		if campaign == "" && source == "" && medium == "" {
			continue
		}

		key := campaign + "\x00" + source + "\x00" + medium
		a, seen := byKey[key]
		if !seen {
			a = &acc{
				summary: CampaignSummary{
					Campaign: campaign,
					Source:   source,
					Medium:   medium,
				},
				days: make(map[string]struct{}),
			}
			byKey[key] = a
		}
		a.summary.TotalEvents++
		a.days[timeutil.DayKey(e.CreatedAt)] = struct{}{}
	}

	summaries := make([]CampaignSummary, 0, len(byKey))
	for _, a := range byKey {
		a.summary.ActiveDays = len(a.days)
		a.summary.EventsPerDay = ratio(
			float64(a.summary.TotalEvents), float64(a.summary.ActiveDays),
		)
		summaries = append(summaries, a.summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TotalEvents > summaries[j].TotalEvents
	})
	return summaries
}

// PageSummary is the per-page performance row.
type PageSummary struct {
	PagePath      string `json:"page_path"`
	TotalVisits   int    `json:"total_visits"`
	UniqueUsers   int    `json:"unique_users"`
	VisitsPerUser string `json:"visits_per_user"`
}

// PagePerformance groups events by page path. Events without a page
// path are skipped. Rows are sorted descending by total visits.
func PagePerformance(events []store.AnalyticsEvent) []PageSummary {
	type acc struct {
		visits int
		users  map[string]struct{}
	}

	byPath := make(map[string]*acc)
	for _, e := range events {
		path := e.Path()
		if path == "" {
			continue
		}
		a, seen := byPath[path]
		if !seen {
			a = &acc{users: make(map[string]struct{})}
			byPath[path] = a
		}
		a.visits++
		a.users[e.UserID] = struct{}{}
	}

	summaries := make([]PageSummary, 0, len(byPath))
	for path, a := range byPath {
		summaries = append(summaries, PageSummary{
			PagePath:      path,
			TotalVisits:   a.visits,
			UniqueUsers:   len(a.users),
			VisitsPerUser: ratio(float64(a.visits), float64(len(a.users))),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TotalVisits > summaries[j].TotalVisits
	})
	return summaries
}
