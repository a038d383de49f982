package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "utc timestamp",
			in:   time.Date(2024, 6, 15, 12, 30, 45, 0, time.UTC),
			want: "2024-06-15",
		},
		{
			name: "converts to UTC before bucketing",
			in: time.Date(2024, 6, 15, 22, 0, 0, 0,
				time.FixedZone("EST", -5*60*60)),
			want: "2024-06-16",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayKey(tt.in))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	assert.Equal(t,
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		StartOfDay(in),
	)
}
