package calsys

import (
	"errors"
	"fmt"
	"time"
)

// KindUniform is the Rules.Kind of Uniform calendars.
const KindUniform = "uniform"

var ErrInvalidShape = errors.New("calsys: invalid uniform calendar shape")

// Shape describes a Uniform calendar. Day number 0 (1970-01-01 in the
// calendar's location) is the first day of EpochYear and the first weekday
// position.
type Shape struct {
	MonthsPerYear      int
	DaysPerMonth       int
	DaysPerWeek        int
	EpochYear          int
	FirstWeekday       int // 1-based weekday on which weeks start
	MinDaysInFirstWeek int
}

// Validate checks that every dimension is usable.
func (s Shape) Validate() error {
	if s.MonthsPerYear < 1 || s.DaysPerMonth < 1 || s.DaysPerWeek < 1 {
		return fmt.Errorf("%w: %d months of %d days, %d-day weeks", ErrInvalidShape, s.MonthsPerYear, s.DaysPerMonth, s.DaysPerWeek)
	}
	if s.FirstWeekday < 1 || s.FirstWeekday > s.DaysPerWeek {
		return fmt.Errorf("%w: first weekday %d outside 1..%d", ErrInvalidShape, s.FirstWeekday, s.DaysPerWeek)
	}
	return nil
}

// Uniform is a regular arithmetic calendar: every month has DaysPerMonth
// days, every year MonthsPerYear months, every week DaysPerWeek days.
type Uniform struct {
	loc     *time.Location
	shape   Shape
	symbols *symbolSet
}

// NewUniform returns a Uniform calendar in loc (UTC when nil).
func NewUniform(loc *time.Location, shape Shape) (*Uniform, error) {
	if loc == nil {
		loc = time.UTC
	}
	if shape.FirstWeekday == 0 {
		shape.FirstWeekday = 1
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	shape.MinDaysInFirstWeek = clampMinDays(shape.MinDaysInFirstWeek, shape.DaysPerWeek)
	return &Uniform{
		loc:     loc,
		shape:   shape,
		symbols: numberedSymbols(shape.MonthsPerYear, shape.DaysPerWeek),
	}, nil
}

func (u *Uniform) Rules() Rules {
	return Rules{
		Kind:               KindUniform,
		Zone:               u.loc.String(),
		Locale:             u.symbols.locale,
		FirstWeekday:       u.shape.FirstWeekday,
		MinDaysInFirstWeek: u.shape.MinDaysInFirstWeek,
		MonthsPerYear:      u.shape.MonthsPerYear,
		DaysPerMonth:       u.shape.DaysPerMonth,
		DaysPerWeek:        u.shape.DaysPerWeek,
		EpochYear:          u.shape.EpochYear,
	}
}

func (u *Uniform) Location() *time.Location { return u.loc }

func (u *Uniform) daysPerYear() int { return u.shape.MonthsPerYear * u.shape.DaysPerMonth }

// split breaks a day number into its zero-based year index, month index and
// day-of-month index.
func (u *Uniform) split(dn int) (yi, mi, di int) {
	dpy := u.daysPerYear()
	yi = floorDiv(dn, dpy)
	rem := dn - yi*dpy
	return yi, rem / u.shape.DaysPerMonth, rem % u.shape.DaysPerMonth
}

// weekPos is the zero-based position of day dn within its week.
func (u *Uniform) weekPos(dn int) int {
	return floorMod(dn-(u.shape.FirstWeekday-1), u.shape.DaysPerWeek)
}

func (u *Uniform) dayOf(t time.Time) int { return civilDay(t.In(u.loc)) }

func (u *Uniform) ComponentValue(c Component, t time.Time) int {
	dn := u.dayOf(t)
	yi, mi, di := u.split(dn)
	switch c {
	case Year:
		return yi + u.shape.EpochYear
	case Month:
		return mi + 1
	case Day:
		return di + 1
	case Weekday:
		return floorMod(dn, u.shape.DaysPerWeek) + 1
	case WeekOfMonth:
		return weekOfMonth(di+1, u.weekPos(dn-di), u.shape.DaysPerWeek, u.shape.MinDaysInFirstWeek)
	default:
		panic(fmt.Sprintf("calsys: uniform has no component %s", c))
	}
}

func (u *Uniform) Components(set ComponentSet, t time.Time) Fields {
	var f Fields
	if set.Has(Year) {
		f.Year = u.ComponentValue(Year, t)
	}
	if set.Has(Month) {
		f.Month = u.ComponentValue(Month, t)
	}
	if set.Has(Day) {
		f.Day = u.ComponentValue(Day, t)
	}
	if set.Has(Weekday) {
		f.Weekday = u.ComponentValue(Weekday, t)
	}
	if set.Has(WeekOfMonth) {
		f.WeekOfMonth = u.ComponentValue(WeekOfMonth, t)
	}
	return f
}

func (u *Uniform) Date(f Fields) (time.Time, bool) {
	m, d := f.Month, f.Day
	if m == 0 {
		m = 1
	}
	if d == 0 {
		d = 1
	}
	if m < 1 || m > u.shape.MonthsPerYear || d < 1 || d > u.shape.DaysPerMonth {
		return time.Time{}, false
	}
	dn := (f.Year-u.shape.EpochYear)*u.daysPerYear() + (m-1)*u.shape.DaysPerMonth + d - 1
	return midnightOf(u.loc, dn), true
}

func (u *Uniform) Add(c Component, n int, t time.Time) time.Time {
	t = t.In(u.loc)
	if n == 0 {
		return t
	}
	dn := civilDay(t)
	var target int
	switch c {
	case Day:
		target = dn + n
	case Week:
		target = dn + n*u.shape.DaysPerWeek
	case Month:
		target = dn + n*u.shape.DaysPerMonth
	case Year:
		target = dn + n*u.daysPerYear()
	default:
		panic(fmt.Sprintf("calsys: uniform cannot add %s", c))
	}
	start := midnightOf(u.loc, target)
	if isMidnight(t) {
		return start
	}
	return start.Add(t.Sub(midnightOf(u.loc, dn)))
}

func (u *Uniform) Distance(c Component, from, to time.Time) int {
	days := u.dayOf(to) - u.dayOf(from)
	var est int
	switch c {
	case Day:
		est = days
	case Week:
		est = days / u.shape.DaysPerWeek
	case Month:
		est = days / u.shape.DaysPerMonth
	case Year:
		est = days / u.daysPerYear()
	default:
		panic(fmt.Sprintf("calsys: uniform has no distance in %s", c))
	}
	return wholeUnits(func(n int) time.Time { return u.Add(c, n, from) }, from, to, est)
}

func (u *Uniform) Interval(c Component, t time.Time) (time.Time, time.Time, bool) {
	dn := u.dayOf(t)
	yi, _, di := u.split(dn)
	var start, length int
	switch c {
	case Day:
		start, length = dn, 1
	case Week:
		start, length = dn-u.weekPos(dn), u.shape.DaysPerWeek
	case Month:
		start, length = dn-di, u.shape.DaysPerMonth
	case Year:
		start, length = yi*u.daysPerYear(), u.daysPerYear()
	default:
		return time.Time{}, time.Time{}, false
	}
	return midnightOf(u.loc, start), midnightOf(u.loc, start+length), true
}

func (u *Uniform) SubunitRange(sub, within Component, t time.Time) (int, int, bool) {
	switch {
	case sub == Month && within == Year:
		return 1, u.shape.MonthsPerYear + 1, true
	case sub == Week && within == Month:
		dn := u.dayOf(t)
		_, _, di := u.split(dn)
		off := u.weekPos(dn - di)
		first := weekOfMonth(1, off, u.shape.DaysPerWeek, u.shape.MinDaysInFirstWeek)
		last := weekOfMonth(u.shape.DaysPerMonth, off, u.shape.DaysPerWeek, u.shape.MinDaysInFirstWeek)
		return first, last + 1, true
	case sub == Day && within == Week:
		return 1, u.shape.DaysPerWeek + 1, true
	case sub == Day && within == Month:
		return 1, u.shape.DaysPerMonth + 1, true
	case sub == Day && within == Year:
		return 1, u.daysPerYear() + 1, true
	default:
		return 0, 0, false
	}
}

func (u *Uniform) Symbols(c Component, style Style, standalone bool) []string {
	return u.symbols.table(c, style, standalone)
}
