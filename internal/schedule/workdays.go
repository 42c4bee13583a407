// Package schedule holds the date arithmetic and capacity projection used by the
// calendar and acceptance services. Everything here is pure.
package schedule

import "time"

// DateOnly truncates t to midnight UTC of its own calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddWorkingDays advances start one calendar day at a time and stops after n
// Monday–Friday days have been counted. n <= 0 returns start unchanged.
func AddWorkingDays(start time.Time, n int) time.Time {
	d := start
	for added := 0; added < n; {
		d = d.AddDate(0, 0, 1)
		if !IsWeekend(d) {
			added++
		}
	}
	return d
}

// DaysInclusive counts calendar days from start to end, both included.
// It returns 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	s, e := DateOnly(start), DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// MonthBounds returns the first and last day of the month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
