// Package calendar reduces validated submission timestamps into a fixed
// per-day series and activity streaks. Everything here is pure: "today"
// is always passed in.
package calendar

import (
	"slices"
	"time"

	"dsatracker/backend/leetcode"
)

// WindowDays is the length of the display series: today and the 180 days before it.
const WindowDays = 181

const dateLayout = "2006-01-02"

type Day struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Summary struct {
	Days          []Day `json:"days"`
	CurrentStreak int   `json:"currentStreak"`
	MaxStreak     int   `json:"maxStreak"`
}

// Reduce buckets entries by UTC date and derives the display window and
// both streaks. The window is fixed at WindowDays, but streaks walk the
// full bucketed history, so activity older than the window can still
// count towards them.
func Reduce(entries []leetcode.RawCalendarEntry, now time.Time) Summary {
	buckets := BucketByDay(entries)
	today := dayOf(now)

	current, longest := Streaks(buckets, today)
	return Summary{
		Days:          Window(buckets, today),
		CurrentStreak: current,
		MaxStreak:     longest,
	}
}

// BucketByDay sums counts per UTC calendar date.
func BucketByDay(entries []leetcode.RawCalendarEntry) map[time.Time]int {
	buckets := make(map[time.Time]int, len(entries))
	for _, e := range entries {
		buckets[dayOf(time.Unix(e.Timestamp, 0))] += e.Count
	}
	return buckets
}

// Window materializes [today-180, today] with zero for missing days.
func Window(buckets map[time.Time]int, today time.Time) []Day {
	today = dayOf(today)
	days := make([]Day, 0, WindowDays)
	for d := today.AddDate(0, 0, -(WindowDays - 1)); !d.After(today); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{Date: d.Format(dateLayout), Count: buckets[d]})
	}
	return days
}

// Streaks returns the run of active days ending today and the longest run
// between the earliest bucketed date and today. Both are computed from the
// active dates themselves, so the cost follows the number of buckets, not
// the span of days they cover.
func Streaks(buckets map[time.Time]int, today time.Time) (current, longest int) {
	today = dayOf(today)

	active := make([]time.Time, 0, len(buckets))
	for d, n := range buckets {
		if n > 0 && !d.After(today) {
			active = append(active, d)
		}
	}
	if len(active) == 0 {
		return 0, 0
	}
	slices.SortFunc(active, func(a, b time.Time) int { return a.Compare(b) })

	run := 0
	for i, d := range active {
		if i > 0 && active[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	// The last run is the current streak only if it reaches today.
	if active[len(active)-1].Equal(today) {
		current = run
	}
	return current, longest
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
