package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterWhereEmpty(t *testing.T) {
	where, args := Filter{}.where()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestFilterWhereConditionsInOrder(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)

	f := Filter{}.
		Eq("event_category", "engagement").
		Gte("created_at", from).
		Lte("created_at", to).
		ILike("page_path", "/pricing%")

	where, args := f.where()
	assert.Equal(t,
		"event_category = $1 AND created_at >= $2 AND "+
			"created_at <= $3 AND page_path ILIKE $4",
		where,
	)
	require.Len(t, args, 4)
	assert.Equal(t, "engagement", args[0])
	assert.Equal(t, from, args[1])
	assert.Equal(t, to, args[2])
	assert.Equal(t, "/pricing%", args[3])
}

func TestFilterOrILike(t *testing.T) {
	f := Filter{}.
		Eq("user_type", "premium").
		OrILike([]string{"full_name", "email"}, "%ada%")

	where, args := f.where()
	assert.Equal(t,
		"user_type = $1 AND (full_name ILIKE $2 OR email ILIKE $3)",
		where,
	)
	require.Len(t, args, 3)
	assert.Equal(t, "%ada%", args[1])
	assert.Equal(t, "%ada%", args[2])
}

func TestFilterOrder(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want string
	}{
		{name: "fallback ascending", f: Filter{}, want: "created_at ASC"},
		{
			name: "explicit descending",
			f:    Filter{}.Sort("started_at", true),
			want: "started_at DESC",
		},
		{
			name: "explicit ascending",
			f:    Filter{}.Sort("email", false),
			want: "email ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.order("created_at"))
		})
	}
}

func TestFilterBuildSelect(t *testing.T) {
	f := Filter{}.Eq("session_id", "abc").Sort("created_at", false)
	query, args := f.buildSelect(
		"analytics_events", "id, event_type", "created_at", 2000, 1000,
	)
	assert.Equal(t,
		"SELECT id, event_type FROM analytics_events "+
			"WHERE session_id = $1 "+
			"ORDER BY created_at ASC OFFSET $2 LIMIT $3",
		query,
	)
	assert.Equal(t, []any{"abc", 2000, 1000}, args)
}

func TestFilterBuildSelectNoConditions(t *testing.T) {
	query, args := Filter{}.buildSelect("users", "id", "created_at", 0, 500)
	assert.Equal(t,
		"SELECT id FROM users ORDER BY created_at ASC OFFSET $1 LIMIT $2",
		query,
	)
	assert.Equal(t, []any{0, 500}, args)
}

func TestFilterValueSemantics(t *testing.T) {
	base := Filter{}.Eq("a", 1)
	withB := base.Eq("b", 2)
	withC := base.Eq("c", 3)

	// Deriving two filters from the same base must not alias.
	whereB, _ := withB.where()
	whereC, _ := withC.where()
	assert.Equal(t, "a = $1 AND b = $2", whereB)
	assert.Equal(t, "a = $1 AND c = $2", whereC)
}
