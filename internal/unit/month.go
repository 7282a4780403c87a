package unit

import (
	"fmt"
	"iter"
	"time"

	"calunit/internal/calsys"
)

// Month is one calendar month. It contains weeks, numbered by the
// calendar's week-of-month rules; the first and last weeks usually spill
// into the neighbouring months.
type Month struct {
	v     value[monthFields]
	weeks IntRange
}

// MonthContaining returns the month in which t falls.
func MonthContaining(t time.Time, cal *calsys.Handle) Month {
	return newMonth(containing(monthCodec, t, cal))
}

// NewMonth returns month number month of year. It panics if the calendar
// has no such month.
func NewMonth(year, month int, cal *calsys.Handle) Month {
	v := value[monthFields]{cal: cal, backing: monthFields{year, month}}
	v.start(monthCodec)
	return newMonth(v)
}

func newMonth(v value[monthFields]) Month {
	return Month{v: v, weeks: monthWeeks.indexRange(v)}
}

func (m Month) Calendar() *calsys.Handle { return m.v.cal }

// Start returns the first instant of the month.
func (m Month) Start() time.Time { return m.v.start(monthCodec) }
func (m Month) End() time.Time { return m.v.end(monthCodec) }
func (m Month) Duration() time.Duration { return m.End().Sub(m.Start()) }
func (m Month) Contains(t time.Time) bool { return containsInstant(m, t) }

// Advanced returns the month n months later (earlier when n is negative).
func (m Month) Advanced(n int) Month { return newMonth(m.v.advanced(monthCodec, n)) }
func (m Month) Next() Month { return m.Advanced(1) }
func (m Month) Prev() Month { return m.Advanced(-1) }

// Distance returns the number of months from m to to.
func (m Month) Distance(to Month) int { return m.v.distance(monthCodec, to.v) }
func (m Month) Equal(o Month) bool { return m.v.equal(o.v) }

// Year returns the year number component.
func (m Month) Year() int { return m.v.backing.year }

// Month returns the month number component.
func (m Month) Month() int { return m.v.backing.month }

// InYear returns the year containing the month.
func (m Month) InYear() Year { return YearContaining(m.Start(), m.v.cal) }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.v.backing.year, m.v.backing.month)
}

// Symbol returns the localized month name.
func (m Month) Symbol(style calsys.Style, standalone bool) string {
	sys := m.v.sys()
	ord := subunitOrdinal(sys, calsys.Month, calsys.Year, m.v.backing.month, m.Start())
	return symbol(m.v.cal, calsys.Month, ord, style, standalone)
}

// SubunitRange returns the week-of-month numbers of the month.
func (m Month) SubunitRange() IntRange { return m.weeks }

// Subunit returns the week numbered at. It panics if at is outside
// SubunitRange.
func (m Month) Subunit(at int) Week { return newWeek(monthWeeks.subunit(m.v, m.weeks, at)) }

// Ordinal returns the i-th week of the month, counting from 0.
func (m Month) Ordinal(i int) Week { return newWeek(monthWeeks.ordinal(m.v, m.weeks, i)) }

// IndexOf returns the week-of-month number of w, or false if w does not
// start on a week boundary inside the month.
func (m Month) IndexOf(w Week) (int, bool) { return monthWeeks.indexOf(m.v, m.weeks, w.v) }

// Subunits iterates the weeks intersecting the month.
func (m Month) Subunits() iter.Seq2[int, Week] {
	return func(yield func(int, Week) bool) {
		for pos, v := range monthWeeks.all(m.v, m.weeks) {
			if !yield(pos, newWeek(v)) {
				return
			}
		}
	}
}

// Days returns the span of days in the month.
func (m Month) Days() Span[Day] {
	first := DayContaining(m.Start(), m.v.cal)
	last := DayContaining(m.End().Add(-time.Nanosecond), m.v.cal)
	return NewSpan(first, last)
}
