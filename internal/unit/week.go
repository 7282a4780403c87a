package unit

import (
	"iter"
	"time"

	"calunit/internal/calsys"
)

// Week is one calendar week, starting on the calendar's first weekday. It
// contains days. Day positions count from the week start over the
// calendar's weekday range, so with a Monday-first Gregorian calendar
// Monday sits at position 1 although its Weekday() is 2.
type Week struct {
	v    value[time.Time]
	days IntRange
}

// WeekContaining returns the week in which t falls.
func WeekContaining(t time.Time, cal *calsys.Handle) Week {
	return newWeek(containing(weekCodec, t, cal))
}

func newWeek(v value[time.Time]) Week {
	return Week{v: v, days: weekDays.indexRange(v)}
}

// Calendar returns the calendar the week belongs to.
func (w Week) Calendar() *calsys.Handle { return w.v.cal }

// Start returns the first instant of the week.
func (w Week) Start() time.Time { return w.v.start(weekCodec) }

// End returns the first instant after the week.
func (w Week) End() time.Time { return w.v.end(weekCodec) }
func (w Week) Duration() time.Duration { return w.End().Sub(w.Start()) }
func (w Week) Contains(t time.Time) bool { return containsInstant(w, t) }

// Advanced returns the week n weeks later (earlier when n is negative).
func (w Week) Advanced(n int) Week { return newWeek(w.v.advanced(weekCodec, n)) }
func (w Week) Next() Week { return w.Advanced(1) }
func (w Week) Prev() Week { return w.Advanced(-1) }

// Distance returns the number of weeks from w to to.
func (w Week) Distance(to Week) int { return w.v.distance(weekCodec, to.v) }

// Equal reports whether both are the same week of the same calendar.
func (w Week) Equal(o Week) bool { return w.v.equal(o.v) }

func (w Week) String() string {
	return "week of " + w.Start().Format(time.DateOnly)
}

// SubunitRange returns the day positions of the week.
func (w Week) SubunitRange() IntRange { return w.days }

// Subunit returns the day at position at, an offset from the week start.
// It panics if at is outside SubunitRange.
func (w Week) Subunit(at int) Day { return Day{weekDays.subunit(w.v, w.days, at)} }

// Ordinal returns the i-th day of the week, counting from 0.
func (w Week) Ordinal(i int) Day { return Day{weekDays.ordinal(w.v, w.days, i)} }

// IndexOf returns the position of d, or false if d is not in the week.
func (w Week) IndexOf(d Day) (int, bool) { return weekDays.indexOf(w.v, w.days, d.v) }

// Subunits iterates the days of the week.
func (w Week) Subunits() iter.Seq2[int, Day] {
	return func(yield func(int, Day) bool) {
		for pos, v := range weekDays.all(w.v, w.days) {
			if !yield(pos, Day{v}) {
				return
			}
		}
	}
}
