// Package dates provides the calendar arithmetic used by every valuation in
// the engine. All day counts are computed on UTC midnights so that the same
// snapshot replayed from different host timezones produces identical results.
package dates

import "time"

// Normalize truncates t to UTC midnight.
func Normalize(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayCount returns the number of calendar days from start to end, start
// inclusive and end exclusive. Zero-value or reversed inputs return 0 rather
// than an error; historical snapshots routinely contain missing dates and a
// zero term degrades cleanly downstream.
func DayCount(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	s := Normalize(start)
	e := Normalize(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours() / 24)
}

// HolidaySet holds non-trading dates keyed by "2006-01-02".
type HolidaySet map[string]struct{}

// NewHolidaySet builds a HolidaySet from explicit dates.
func NewHolidaySet(days ...time.Time) HolidaySet {
	h := make(HolidaySet, len(days))
	for _, d := range days {
		h[Normalize(d).Format("2006-01-02")] = struct{}{}
	}
	return h
}

// Contains reports whether d is a holiday.
func (h HolidaySet) Contains(d time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h[Normalize(d).Format("2006-01-02")]
	return ok
}

// BusinessDayCount counts weekdays strictly after start through end
// inclusive, skipping any date present in holidays. Invalid ranges return 0.
func BusinessDayCount(start, end time.Time, holidays HolidaySet) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	s := Normalize(start)
	e := Normalize(end)
	if !e.After(s) {
		return 0
	}
	n := 0
	for d := s.AddDate(0, 0, 1); !d.After(e); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if holidays.Contains(d) {
			continue
		}
		n++
	}
	return n
}
