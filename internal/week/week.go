// Package week computes the rolling 7-day tracking window.
package week

import "time"

// DefaultAnchor is the weekday a tracking week starts on.
const DefaultAnchor = time.Saturday

const Days = 7

// Start returns the most recent anchor weekday at or before now,
// truncated to midnight in now's location. Repeated calls within the
// same day yield the same instant.
func Start(now time.Time, anchor time.Weekday) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	back := (int(day.Weekday()) - int(anchor) + Days) % Days
	return day.AddDate(0, 0, -back)
}

// Dates returns the 7 day dates of the week beginning at start,
// one per day offset 0..6.
func Dates(start time.Time) []time.Time {
	out := make([]time.Time, Days)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}
