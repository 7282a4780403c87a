// Package unit models calendar units (Year, Month, Week, Day) as immutable
// values anchored to a calendar system.
//
// A unit stores only its backing value, the minimal data needed to rebuild
// its start instant:
//
//	Day   {year, month, day}
//	Month {year, month}
//	Week  start instant
//	Year  year number
//
// Units cover the half-open interval [Start, End). Navigation (Next, Prev,
// Advanced) and Distance go through the calendar system, so variable month
// lengths, daylight-saving days and non-Gregorian shapes are handled by the
// calendar rather than by fixed durations.
//
// Year, Month and Week are compound: they expose the index range of their
// subunits (months, weeks, days) and positional lookup backed by the shared
// unitcache registry.
//
// Mixing units of different calendars, asking for an out-of-range subunit
// or reconstructing an invalid date are programming errors and panic with a
// *PreconditionError. The zero value of every unit type is unusable.
package unit

import (
	"fmt"
	"time"

	"calunit/internal/calsys"
)

// Unit is the behaviour shared by Day, Week, Month and Year.
type Unit[U any] interface {
	Calendar() *calsys.Handle
	Start() time.Time
	End() time.Time
	Duration() time.Duration
	Advanced(n int) U
	Distance(to U) int
	Equal(other U) bool
}

// PreconditionError is the panic value for caller errors.
type PreconditionError struct {
	Op     string
	Detail string
}

func (e *PreconditionError) Error() string {
	return "unit: " + e.Op + ": " + e.Detail
}

func precondition(op, format string, args ...any) {
	panic(&PreconditionError{Op: op, Detail: fmt.Sprintf(format, args...)})
}

func mustSameCalendar(op string, a, b *calsys.Handle) {
	if !a.Equal(b) {
		precondition(op, "calendars differ (%s vs %s)", a, b)
	}
}

// value is the state shared by all unit types: the calendar reference and
// the backing value.
type value[B comparable] struct {
	cal     *calsys.Handle
	backing B
}

func containing[B comparable](c codec[B], t time.Time, cal *calsys.Handle) value[B] {
	if cal == nil {
		precondition("containing", "nil calendar")
	}
	start, _, ok := cal.System().Interval(c.granularity(), t)
	if !ok {
		precondition("containing", "calendar %s has no %s boundary at %s", cal, c.granularity(), t.Format(time.RFC3339))
	}
	return value[B]{cal: cal, backing: c.extract(cal.System(), start)}
}

func (v value[B]) sys() calsys.System {
	if v.cal == nil {
		precondition("use", "zero unit value")
	}
	return v.cal.System()
}

func (v value[B]) start(c codec[B]) time.Time {
	return c.instant(v.sys(), v.backing)
}

func (v value[B]) end(c codec[B]) time.Time {
	return v.sys().Add(c.granularity(), 1, v.start(c))
}

func (v value[B]) advanced(c codec[B], n int) value[B] {
	if n == 0 {
		return v
	}
	return value[B]{cal: v.cal, backing: c.advance(v.sys(), v.backing, n)}
}

func (v value[B]) distance(c codec[B], to value[B]) int {
	mustSameCalendar("distance", v.cal, to.cal)
	return c.distance(v.sys(), v.backing, to.backing)
}

func (v value[B]) equal(o value[B]) bool {
	return v.backing == o.backing && v.cal.Equal(o.cal)
}

// ownerKey identifies a unit across handles with equal rules.
type ownerKey[B comparable] struct {
	rules   calsys.Rules
	backing B
}

func (v value[B]) key() ownerKey[B] {
	return ownerKey[B]{rules: v.cal.Key(), backing: v.backing}
}
