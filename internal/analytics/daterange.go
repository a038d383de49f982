package analytics

import (
	"fmt"
	"time"

	"github.com/metricdeck/metricdeck/internal/store"
	"github.com/metricdeck/metricdeck/internal/timeutil"
)

// Range modes shared by all aggregations and the user list.
const (
	RangeDaily     = "daily"
	RangeLastMonth = "lastMonth"
	RangeCustom    = "custom"
)

// DateRange selects the rows an aggregation considers. The zero
// value applies no date restriction.
type DateRange struct {
	Mode  string
	Start *time.Time // custom lower bound, inclusive
	End   *time.Time // custom upper bound, inclusive
}

// ParseDateRange validates a range mode plus optional custom bounds.
// An empty mode defaults to daily.
func ParseDateRange(mode string, start, end *time.Time) (DateRange, error) {
	if mode == "" {
		mode = RangeDaily
	}
	switch mode {
	case RangeDaily, RangeLastMonth:
		return DateRange{Mode: mode}, nil
	case RangeCustom:
		return DateRange{Mode: mode, Start: start, End: end}, nil
	default:
		return DateRange{}, fmt.Errorf("invalid range %q", mode)
	}
}

// Bounds resolves the range to concrete inclusive bounds relative to
// now. ok is false when no date restriction applies: a custom range
// missing either bound is equivalent to fetching unfiltered.
func (r DateRange) Bounds(now time.Time) (start, end time.Time, ok bool) {
	switch r.Mode {
	case RangeDaily:
		return timeutil.StartOfDay(now.AddDate(0, 0, -1)), now, true
	case RangeLastMonth:
		return now.AddDate(0, -1, 0), now, true
	case RangeCustom:
		if r.Start == nil || r.End == nil {
			return time.Time{}, time.Time{}, false
		}
		return *r.Start, *r.End, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Apply appends the range's bounds to f as inclusive conditions on
// column. A range with no effective bounds leaves f unchanged.
func (r DateRange) Apply(f store.Filter, column string, now time.Time) store.Filter {
	start, end, ok := r.Bounds(now)
	if !ok {
		return f
	}
	return f.Gte(column, start).Lte(column, end)
}
