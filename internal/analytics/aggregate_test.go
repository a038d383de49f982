package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metricdeck/metricdeck/internal/store"
)

func strPtr(s string) *string { return &s }

// event builds a minimal test event; mutate via fn.
func event(userID, eventType string, fn func(*store.AnalyticsEvent)) store.AnalyticsEvent {
	e := store.AnalyticsEvent{
		ID:            "evt-" + userID + "-" + eventType,
		UserID:        userID,
		EventType:     eventType,
		EventCategory: "engagement",
		EventAction:   "view",
		CreatedAt:     time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
	}
	if fn != nil {
		fn(&e)
	}
	return e
}

func TestCountByType(t *testing.T) {
	events := []store.AnalyticsEvent{
		event("u1", "page_view", nil),
		event("u2", "page_view", nil),
		event("u3", "page_view", nil),
		event("u1", "click", nil),
		event("u2", "click", nil),
		event("u1", "signup", nil),
	}

	counts := CountByType(events)
	require.Len(t, counts, 3)

	// Counts sum to the input row count.
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	assert.Equal(t, len(events), total)

	// Sorted descending by count.
	assert.Equal(t, EventTypeCount{EventType: "page_view", Count: 3}, counts[0])
	assert.Equal(t, EventTypeCount{EventType: "click", Count: 2}, counts[1])
	assert.Equal(t, EventTypeCount{EventType: "signup", Count: 1}, counts[2])
}

func TestCountByTypeEmpty(t *testing.T) {
	assert.Empty(t, CountByType(nil))
}

func TestCampaignPerformance(t *testing.T) {
	attributed := func(userID string, day int) store.AnalyticsEvent {
		return event(userID, "page_view", func(e *store.AnalyticsEvent) {
			e.UTMCampaign = strPtr("spring-sale")
			e.UTMSource = strPtr("newsletter")
			e.UTMMedium = strPtr("email")
			e.CreatedAt = time.Date(2024, 6, day, 9, 0, 0, 0, time.UTC)
		})
	}
	events := []store.AnalyticsEvent{
		attributed("u1", 1),
		attributed("u2", 1),
		attributed("u3", 2),
		// Unattributed events are not campaign rows.
		event("u4", "page_view", nil),
		// A different campaign key.
		event("u5", "click", func(e *store.AnalyticsEvent) {
			e.UTMCampaign = strPtr("retargeting")
			e.CreatedAt = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
		}),
	}

	summaries := CampaignPerformance(events)
	require.Len(t, summaries, 2)

	top := summaries[0]
	assert.Equal(t, "spring-sale", top.Campaign)
	assert.Equal(t, "newsletter", top.Source)
	assert.Equal(t, "email", top.Medium)
	assert.Equal(t, 3, top.TotalEvents)
	assert.Equal(t, 2, top.ActiveDays)
	assert.Equal(t, "1.5", top.EventsPerDay)

	second := summaries[1]
	assert.Equal(t, "retargeting", second.Campaign)
	assert.Empty(t, second.Source)
	assert.Equal(t, 1, second.TotalEvents)
	assert.Equal(t, "1.0", second.EventsPerDay)
}

func TestPagePerformance(t *testing.T) {
	visit := func(userID, path string) store.AnalyticsEvent {
		return event(userID, "page_view", func(e *store.AnalyticsEvent) {
			e.PagePath = strPtr(path)
		})
	}
	events := []store.AnalyticsEvent{
		visit("u1", "/pricing"),
		visit("u1", "/pricing"),
		visit("u2", "/pricing"),
		visit("u1", "/docs"),
		// Events without a page path are not page visits.
		event("u3", "signup", nil),
	}

	summaries := PagePerformance(events)
	require.Len(t, summaries, 2)

	assert.Equal(t, "/pricing", summaries[0].PagePath)
	assert.Equal(t, 3, summaries[0].TotalVisits)
	assert.Equal(t, 2, summaries[0].UniqueUsers)
	assert.Equal(t, "1.5", summaries[0].VisitsPerUser)

	assert.Equal(t, "/docs", summaries[1].PagePath)
	assert.Equal(t, "1.0", summaries[1].VisitsPerUser)
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name  string
		num   float64
		denom float64
		want  string
	}{
		{name: "zero denominator", num: 5, denom: 0, want: "0"},
		{name: "zero numerator", num: 0, denom: 30, want: "0"},
		{name: "both zero", num: 0, denom: 0, want: "0"},
		{name: "whole", num: 6, denom: 3, want: "2.0"},
		{name: "rounded", num: 10, denom: 3, want: "3.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ratio(tt.num, tt.denom))
		})
	}
}
