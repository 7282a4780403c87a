package calsys

import "time"

const secondsPerDay = 24 * 60 * 60

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// dayNumber returns the number of civil days between 1970-01-01 and the
// given date. Out-of-range month and day values are normalized.
func dayNumber(y int, m time.Month, d int) int {
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// civilDay returns the day number of t's wall-clock date in t's location.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return dayNumber(y, m, d)
}

// midnight returns the first instant of the civil date y-m-d in loc. When a
// zone transition skips local midnight the first existing instant of the
// day is returned.
func midnight(loc *time.Location, y int, m time.Month, d int) time.Time {
	ny, nm, nd := time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Date()
	t := time.Date(ny, nm, nd, 0, 0, 0, 0, loc)
	for i := 0; i < 8; i++ {
		ty, tm, td := t.Date()
		if ty == ny && tm == nm && td == nd {
			return t
		}
		t = t.Add(30 * time.Minute)
	}
	return t
}

// midnightOf returns the first instant of civil day number dn in loc.
func midnightOf(loc *time.Location, dn int) time.Time {
	return midnight(loc, 1970, time.January, 1+dn)
}

// isMidnight reports whether t is the first instant of its civil day.
func isMidnight(t time.Time) bool {
	y, m, d := t.Date()
	return t.Equal(midnight(t.Location(), y, m, d))
}

// wholeUnits returns the number of whole steps from from to to, truncated
// toward zero. add(n) must be monotonic in n with add(0) == from; est is a
// starting guess that may be off by a few steps.
func wholeUnits(add func(n int) time.Time, from, to time.Time, est int) int {
	if !to.Before(from) {
		n := max(est, 0)
		for n > 0 && add(n).After(to) {
			n--
		}
		for !add(n + 1).After(to) {
			n++
		}
		return n
	}
	n := min(est, 0)
	for n < 0 && add(n).Before(to) {
		n++
	}
	for !add(n - 1).Before(to) {
		n--
	}
	return n
}

// weekOfMonth numbers the week holding the day-th day of a month whose first
// day falls offset positions after the week start. A leading partial week
// shorter than minDays is week 0.
func weekOfMonth(day, offset, weekLen, minDays int) int {
	base := 1
	if weekLen-offset < minDays {
		base = 0
	}
	return (day-1+offset)/weekLen + base
}

func clampMinDays(n, weekLen int) int {
	if n < 1 {
		return 1
	}
	if n > weekLen {
		return weekLen
	}
	return n
}
