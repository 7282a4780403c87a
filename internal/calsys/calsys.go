// Package calsys defines the calendar-system collaborator used by the unit
// package: component extraction, instant reconstruction, unit arithmetic and
// subunit index ranges, plus localized symbol tables.
//
// Two implementations are provided:
//
//   - Gregorian: the civil calendar in a time.Location, with a configurable
//     first weekday and minimal number of days in the first week.
//   - Uniform: a regular arithmetic calendar (fixed month length, fixed
//     months per year, arbitrary week length) for non-Gregorian layouts
//     such as 13 months of 28 days or 10-day weeks.
//
// Calendar systems are shared through a *Handle. Handles compare equal when
// they are the same pointer or when their Rules are equal.
package calsys

import (
	"fmt"
	"time"
)

// Component identifies a calendar field or unit granularity.
type Component int

const (
	Year Component = iota + 1
	Month
	Week
	Day
	Weekday
	WeekOfMonth
)

func (c Component) String() string {
	switch c {
	case Year:
		return "year"
	case Month:
		return "month"
	case Week:
		return "week"
	case Day:
		return "day"
	case Weekday:
		return "weekday"
	case WeekOfMonth:
		return "week-of-month"
	default:
		return fmt.Sprintf("component(%d)", int(c))
	}
}

// ComponentSet is a bit set of components.
type ComponentSet uint16

// SetOf builds a ComponentSet from the given components.
func SetOf(cs ...Component) ComponentSet {
	var s ComponentSet
	for _, c := range cs {
		s |= 1 << uint(c)
	}
	return s
}

// Has reports whether c is a member of s.
func (s ComponentSet) Has(c Component) bool {
	return s&(1<<uint(c)) != 0
}

// Fields is a record of component values. Only the fields requested from
// Components are populated. When passed to Date, a zero Month or Day means
// the first month or day.
type Fields struct {
	Year        int
	Month       int
	Day         int
	Weekday     int
	WeekOfMonth int
}

// Style selects the length of a localized symbol.
type Style int

const (
	StyleNormal Style = iota
	StyleShort
	StyleVeryShort
)

func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleShort:
		return "short"
	case StyleVeryShort:
		return "very-short"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// Rules fully describes a calendar system. Two systems with equal Rules
// produce identical results for every operation.
type Rules struct {
	Kind               string
	Zone               string
	Locale             string
	FirstWeekday       int
	MinDaysInFirstWeek int

	// Uniform calendar shape; zero for Gregorian.
	MonthsPerYear int
	DaysPerMonth  int
	DaysPerWeek   int
	EpochYear     int
}

// System supplies the calendar primitives. Implementations must be safe for
// concurrent use and must not be mutated after construction.
type System interface {
	// Rules returns the comparable rule set of this system.
	Rules() Rules
	// Location is the zone in which civil days are evaluated.
	Location() *time.Location

	// ComponentValue extracts a single component of t.
	ComponentValue(c Component, t time.Time) int
	// Components extracts the requested components of t.
	Components(set ComponentSet, t time.Time) Fields
	// Date returns the start instant of the day described by f. ok is false
	// when f does not name a valid date.
	Date(f Fields) (t time.Time, ok bool)

	// Distance returns the number of whole c units from from to to,
	// truncated toward zero.
	Distance(c Component, from, to time.Time) int
	// Add adds n units of c to t.
	Add(c Component, n int, t time.Time) time.Time
	// Interval returns the half-open boundary [start, end) of the c unit
	// containing t.
	Interval(c Component, t time.Time) (start, end time.Time, ok bool)
	// SubunitRange returns the half-open range [lo, hi) of sub positions
	// inside the within unit containing t.
	SubunitRange(sub, within Component, t time.Time) (lo, hi int, ok bool)

	// Symbols returns the ordered display names for c (Month or Weekday).
	Symbols(c Component, style Style, standalone bool) []string
}
