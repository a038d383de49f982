package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metricdeck/metricdeck/internal/analytics"
	"github.com/metricdeck/metricdeck/internal/store"
)

// fakeSource serves canned rows and records the filters it saw.
type fakeSource struct {
	mu        sync.Mutex
	users     []store.User
	events    []store.AnalyticsEvent
	eventsErr error
	usersErr  error

	userFilters  []store.Filter
	eventFilters []store.Filter
}

func (f *fakeSource) ListUsers(_ context.Context, filter store.Filter) ([]store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userFilters = append(f.userFilters, filter)
	return f.users, f.usersErr
}

func (f *fakeSource) ListEvents(_ context.Context, filter store.Filter) ([]store.AnalyticsEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eventFilters = append(f.eventFilters, filter)
	return f.events, f.eventsErr
}

func (f *fakeSource) CountUsers(_ context.Context, _ store.Filter) (int, error) {
	return 10, nil
}

func (f *fakeSource) CountSessions(_ context.Context, _ store.Filter) (int, error) {
	return 3, nil
}

func (f *fakeSource) CountEventsSince(_ context.Context, _ time.Time) (int, error) {
	return 99, nil
}

func strPtr(s string) *string { return &s }

func seedEvents() []store.AnalyticsEvent {
	return []store.AnalyticsEvent{
		{
			ID: "e1", UserID: "u1", EventType: "page_view",
			PagePath:  strPtr("/home"),
			CreatedAt: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "e2", UserID: "u1", EventType: "click",
			PagePath:  strPtr("/home"),
			CreatedAt: time.Date(2024, 6, 10, 12, 1, 0, 0, time.UTC),
		},
		{
			ID: "e3", UserID: "u2", EventType: "page_view",
			PagePath:  strPtr("/docs"),
			CreatedAt: time.Date(2024, 6, 10, 12, 2, 0, 0, time.UTC),
		},
	}
}

func newTestDashboard(src Source) *Dashboard {
	d := New(src, 30*time.Minute)
	d.now = func() time.Time {
		return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	}
	return d
}

func TestRefreshEventTypes(t *testing.T) {
	src := &fakeSource{events: seedEvents()}
	d := newTestDashboard(src)

	err := d.RefreshEventTypes(context.Background(), analytics.DateRange{Mode: analytics.RangeDaily})
	require.NoError(t, err)

	snap := d.EventTypes.Snapshot()
	require.Len(t, snap.Data, 2)
	assert.Equal(t, "page_view", snap.Data[0].EventType)
	assert.Equal(t, 2, snap.Data[0].Count)

	// The range became created_at bounds on the event fetch.
	require.Len(t, src.eventFilters, 1)
	assert.Len(t, src.eventFilters[0].Conditions, 2)
	assert.Equal(t, "created_at", src.eventFilters[0].OrderBy)
	assert.False(t, src.eventFilters[0].Descending)
}

func TestRefreshEventTypesError(t *testing.T) {
	src := &fakeSource{eventsErr: errors.New("store down")}
	d := newTestDashboard(src)

	err := d.RefreshEventTypes(context.Background(), analytics.DateRange{Mode: analytics.RangeDaily})
	require.Error(t, err)

	snap := d.EventTypes.Snapshot()
	assert.False(t, snap.Loading)
	assert.Contains(t, snap.Error, "store down")
}

func TestRefreshUsersSearch(t *testing.T) {
	src := &fakeSource{users: []store.User{{ID: "u1", FullName: "Ada"}}}
	d := newTestDashboard(src)

	err := d.RefreshUsers(context.Background(), analytics.DateRange{Mode: analytics.RangeLastMonth}, "ada")
	require.NoError(t, err)

	require.Len(t, src.userFilters, 1)
	conds := src.userFilters[0].Conditions
	// Two range bounds plus the name/email search disjunction.
	require.Len(t, conds, 3)
	assert.Equal(t, []string{"full_name", "email"}, conds[2].Columns)
	assert.Equal(t, "%ada%", conds[2].Value)

	assert.Len(t, d.Users.Snapshot().Data, 1)
}

func TestRefreshRealtimeWindow(t *testing.T) {
	src := &fakeSource{events: seedEvents()}
	d := newTestDashboard(src)

	err := d.RefreshRealtime(context.Background(), 10*time.Minute)
	require.NoError(t, err)

	snap := d.Realtime.Snapshot()
	assert.Equal(t, 10, snap.Data.WindowMinutes)
	assert.Equal(t, 3, snap.Data.TotalEvents)
	assert.Equal(t, 2, snap.Data.UniqueActiveUsers)

	// The trailing window became a single lower bound.
	require.Len(t, src.eventFilters, 1)
	require.Len(t, src.eventFilters[0].Conditions, 1)
	wantFrom := d.now().Add(-10 * time.Minute)
	assert.Equal(t, wantFrom, src.eventFilters[0].Conditions[0].Value)
}

func TestRefreshRealtimeDefaultWindow(t *testing.T) {
	src := &fakeSource{}
	d := newTestDashboard(src)

	require.NoError(t, d.RefreshRealtime(context.Background(), 0))
	assert.Equal(t, 30, d.Realtime.Snapshot().Data.WindowMinutes)
}

func TestLoadAllBarrier(t *testing.T) {
	src := &fakeSource{
		users:  []store.User{{ID: "u1"}},
		events: seedEvents(),
	}
	d := newTestDashboard(src)

	err := d.LoadAll(context.Background(), analytics.DateRange{Mode: analytics.RangeDaily})
	require.NoError(t, err)

	// Every section completed; none is left loading.
	assert.False(t, d.Overview.Snapshot().Loading)
	assert.False(t, d.Users.Snapshot().Loading)
	assert.False(t, d.EventTypes.Snapshot().Loading)
	assert.False(t, d.Campaigns.Snapshot().Loading)
	assert.False(t, d.Pages.Snapshot().Loading)
	assert.False(t, d.Journeys.Snapshot().Loading)
	assert.False(t, d.Realtime.Snapshot().Loading)

	assert.Equal(t, 10, d.Overview.Snapshot().Data.TotalUsers)
	assert.NotEmpty(t, d.EventTypes.Snapshot().Data)
}

func TestLoadAllSurfacesFirstError(t *testing.T) {
	src := &fakeSource{eventsErr: errors.New("query rejected")}
	d := newTestDashboard(src)

	err := d.LoadAll(context.Background(), analytics.DateRange{Mode: analytics.RangeDaily})
	require.Error(t, err)

	// The failing sections carry the error; the barrier still cleared.
	assert.Contains(t, d.EventTypes.Snapshot().Error, "query rejected")
	assert.False(t, d.EventTypes.Snapshot().Loading)
}

func TestConcurrentRefreshLastWriteWins(t *testing.T) {
	src := &fakeSource{events: seedEvents()}
	d := newTestDashboard(src)

	// A stale sequence begins, then a fresh one begins and completes.
	stale := d.EventTypes.Begin()
	require.NoError(t, d.RefreshEventTypes(
		context.Background(), analytics.DateRange{Mode: analytics.RangeDaily},
	))

	// The stale sequence resolving later must not clobber the data.
	applied := d.EventTypes.Complete(stale, nil, nil)
	assert.False(t, applied)
	assert.NotEmpty(t, d.EventTypes.Snapshot().Data)
}
