package unit

import (
	"fmt"
	"time"

	"calunit/internal/calsys"
)

// Day is one civil day. Its duration follows the calendar's zone and may
// be 23 or 25 hours across daylight-saving transitions.
type Day struct {
	v value[dayFields]
}

// DayContaining returns the day in which t falls.
func DayContaining(t time.Time, cal *calsys.Handle) Day {
	return Day{containing(dayCodec, t, cal)}
}

// NewDay returns the day year-month-day. It panics if the calendar has no
// such date.
func NewDay(year, month, day int, cal *calsys.Handle) Day {
	v := value[dayFields]{cal: cal, backing: dayFields{year, month, day}}
	v.start(dayCodec)
	return Day{v}
}

func (d Day) Calendar() *calsys.Handle { return d.v.cal }

// Start returns midnight at the beginning of the day.
func (d Day) Start() time.Time { return d.v.start(dayCodec) }
func (d Day) End() time.Time { return d.v.end(dayCodec) }
func (d Day) Duration() time.Duration { return d.End().Sub(d.Start()) }
func (d Day) Contains(t time.Time) bool { return containsInstant(d, t) }

// Advanced returns the day n days later (earlier when n is negative).
func (d Day) Advanced(n int) Day { return Day{d.v.advanced(dayCodec, n)} }
func (d Day) Next() Day { return d.Advanced(1) }
func (d Day) Prev() Day { return d.Advanced(-1) }

// Distance returns the number of days from d to to.
func (d Day) Distance(to Day) int { return d.v.distance(dayCodec, to.v) }

// Equal reports whether both are the same day of the same calendar.
func (d Day) Equal(o Day) bool { return d.v.equal(o.v) }

func (d Day) Year() int { return d.v.backing.year }
func (d Day) Month() int { return d.v.backing.month }
func (d Day) DayOfMonth() int { return d.v.backing.day }

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.v.backing.year, d.v.backing.month, d.v.backing.day)
}

// Weekday returns the calendar's weekday component (Gregorian: 1 = Sunday
// through 7 = Saturday), independent of the first weekday.
func (d Day) Weekday() int {
	return d.v.sys().ComponentValue(calsys.Weekday, d.Start())
}

// WeekdayOrdinal returns the zero-based position of the day within its
// week, counted from the calendar's first weekday.
func (d Day) WeekdayOrdinal() int {
	w := WeekContaining(d.Start(), d.v.cal)
	idx, ok := w.IndexOf(d)
	if !ok {
		precondition("weekday ordinal", "%s not found in %s", d, w)
	}
	return idx - w.SubunitRange().Lo
}

// InMonth returns the month containing the day.
func (d Day) InMonth() Month { return MonthContaining(d.Start(), d.v.cal) }

// InWeek returns the week containing the day.
func (d Day) InWeek() Week { return WeekContaining(d.Start(), d.v.cal) }

// Symbol returns the localized weekday name.
func (d Day) Symbol(style calsys.Style, standalone bool) string {
	start := d.Start()
	ord := subunitOrdinal(d.v.sys(), calsys.Day, calsys.Week, d.Weekday(), start)
	return symbol(d.v.cal, calsys.Weekday, ord, style, standalone)
}
