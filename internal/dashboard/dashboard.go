package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/metricdeck/metricdeck/internal/analytics"
	"github.com/metricdeck/metricdeck/internal/store"
)

// Source is the slice of the store the dashboard loads from.
type Source interface {
	analytics.OverviewSource
	ListUsers(ctx context.Context, f store.Filter) ([]store.User, error)
	ListEvents(ctx context.Context, f store.Filter) ([]store.AnalyticsEvent, error)
}

// Dashboard holds one state section per dashboard area. Each section
// has exactly one writer at a time by construction: refreshes for a
// section run as a single fetch sequence, and superseded sequences
// are dropped by the section's ticket check.
type Dashboard struct {
	src    Source
	window time.Duration
	now    func() time.Time

	Overview   Section[analytics.Overview]
	Users      Section[[]store.User]
	EventTypes Section[[]analytics.EventTypeCount]
	Campaigns  Section[[]analytics.CampaignSummary]
	Pages      Section[[]analytics.PageSummary]
	Journeys   Section[[]analytics.UserJourney]
	Realtime   Section[analytics.RealtimeStats]
}

// New creates a Dashboard reading from src. window is the trailing
// realtime window.
func New(src Source, window time.Duration) *Dashboard {
	return &Dashboard{src: src, window: window, now: time.Now}
}

// rangedEvents fetches events within r ordered ascending by creation
// time, which the journey and detail views rely on.
func (d *Dashboard) rangedEvents(ctx context.Context, r analytics.DateRange) ([]store.AnalyticsEvent, error) {
	f := r.Apply(store.Filter{}, "created_at", d.now())
	return d.src.ListEvents(ctx, f.Sort("created_at", false))
}

// RefreshOverview recomputes the headline card metrics.
func (d *Dashboard) RefreshOverview(ctx context.Context) error {
	ticket := d.Overview.Begin()
	o, err := analytics.BuildOverview(ctx, d.src, d.now())
	d.Overview.Complete(ticket, o, err)
	return err
}

// RefreshUsers reloads the user list for the given range and search
// term. The search matches name or email, case-insensitively.
func (d *Dashboard) RefreshUsers(ctx context.Context, r analytics.DateRange, search string) error {
	ticket := d.Users.Begin()
	f := r.Apply(store.Filter{}, "created_at", d.now())
	if search != "" {
		f = f.OrILike([]string{"full_name", "email"}, "%"+search+"%")
	}
	users, err := d.src.ListUsers(ctx, f.Sort("created_at", true))
	d.Users.Complete(ticket, users, err)
	return err
}

// RefreshEventTypes reloads the event-type counts for the range.
func (d *Dashboard) RefreshEventTypes(ctx context.Context, r analytics.DateRange) error {
	ticket := d.EventTypes.Begin()
	events, err := d.rangedEvents(ctx, r)
	if err != nil {
		d.EventTypes.Complete(ticket, nil, err)
		return err
	}
	d.EventTypes.Complete(ticket, analytics.CountByType(events), nil)
	return nil
}

// RefreshCampaigns reloads campaign performance for the range.
func (d *Dashboard) RefreshCampaigns(ctx context.Context, r analytics.DateRange) error {
	ticket := d.Campaigns.Begin()
	events, err := d.rangedEvents(ctx, r)
	if err != nil {
		d.Campaigns.Complete(ticket, nil, err)
		return err
	}
	d.Campaigns.Complete(ticket, analytics.CampaignPerformance(events), nil)
	return nil
}

// RefreshPages reloads page performance for the range.
func (d *Dashboard) RefreshPages(ctx context.Context, r analytics.DateRange) error {
	ticket := d.Pages.Begin()
	events, err := d.rangedEvents(ctx, r)
	if err != nil {
		d.Pages.Complete(ticket, nil, err)
		return err
	}
	d.Pages.Complete(ticket, analytics.PagePerformance(events), nil)
	return nil
}

// RefreshJourneys reloads user journeys for the range.
func (d *Dashboard) RefreshJourneys(ctx context.Context, r analytics.DateRange) error {
	ticket := d.Journeys.Begin()
	events, err := d.rangedEvents(ctx, r)
	if err != nil {
		d.Journeys.Complete(ticket, nil, err)
		return err
	}
	d.Journeys.Complete(ticket, analytics.UserJourneys(events), nil)
	return nil
}

// RefreshRealtime reloads the trailing-window snapshot. A
// non-positive window falls back to the configured default.
func (d *Dashboard) RefreshRealtime(ctx context.Context, window time.Duration) error {
	if window <= 0 {
		window = d.window
	}
	ticket := d.Realtime.Begin()
	now := d.now()
	f := store.Filter{}.Gte("created_at", now.Add(-window)).Sort("created_at", false)
	events, err := d.src.ListEvents(ctx, f)
	if err != nil {
		d.Realtime.Complete(ticket, analytics.RealtimeStats{}, err)
		return err
	}
	d.Realtime.Complete(ticket, analytics.RealtimeSnapshot(events, window), nil)
	return nil
}

// LoadAll refreshes every section concurrently as a fan-out/fan-in
// barrier: it returns once all sections have completed, surfacing the
// first error. Sections that succeed keep their fresh data even when
// a sibling fails.
func (d *Dashboard) LoadAll(ctx context.Context, r analytics.DateRange) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.RefreshOverview(ctx) })
	g.Go(func() error { return d.RefreshUsers(ctx, r, "") })
	g.Go(func() error { return d.RefreshEventTypes(ctx, r) })
	g.Go(func() error { return d.RefreshCampaigns(ctx, r) })
	g.Go(func() error { return d.RefreshPages(ctx, r) })
	g.Go(func() error { return d.RefreshJourneys(ctx, r) })
	g.Go(func() error { return d.RefreshRealtime(ctx, 0) })
	return g.Wait()
}
