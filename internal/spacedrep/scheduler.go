package spacedrep

import (
	"sort"
	"time"
)

// DueItems returns the records due at now, earliest review time first
// (most overdue first). Ties keep input order.
func DueItems(records []Progress, now time.Time) []Progress {
	var due []Progress
	for _, p := range records {
		if p.IsDue(now) {
			due = append(due, p)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReview.Before(due[j].NextReview)
	})
	return due
}

// Forecast counts reviews falling due on each of the next days days,
// starting with today. Index 0 includes everything already overdue.
func Forecast(records []Progress, now time.Time, days int) []int {
	if days <= 0 {
		return nil
	}
	out := make([]int, days)
	for _, p := range records {
		if p.NextReview.IsZero() {
			continue
		}
		d := int(p.NextReview.Sub(now) / day)
		if p.NextReview.Before(now) {
			d = 0
		}
		if d < days {
			out[d]++
		}
	}
	return out
}
