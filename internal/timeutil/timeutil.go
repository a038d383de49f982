// Package timeutil holds small time helpers shared by the analytics
// and store layers.
package timeutil

import "time"

// DayKey buckets t into a UTC calendar-day string (YYYY-MM-DD).
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// StartOfDay returns midnight UTC of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
