package calsys

import (
	"fmt"
	"time"
)

// KindGregorian is the Rules.Kind of Gregorian calendars.
const KindGregorian = "gregorian"

// Gregorian is the proleptic Gregorian calendar evaluated in a location.
type Gregorian struct {
	loc          *time.Location
	firstWeekday time.Weekday
	minDays      int
	symbols      *symbolSet
}

// GregorianOption configures a Gregorian calendar.
type GregorianOption func(*Gregorian)

// WithFirstWeekday sets the weekday on which weeks start (default Sunday).
func WithFirstWeekday(wd time.Weekday) GregorianOption {
	return func(g *Gregorian) {
		if wd >= time.Sunday && wd <= time.Saturday {
			g.firstWeekday = wd
		}
	}
}

// WithMinDaysInFirstWeek sets how many days of a month's leading partial
// week are required for it to count as week 1 (default 1).
func WithMinDaysInFirstWeek(n int) GregorianOption {
	return func(g *Gregorian) { g.minDays = clampMinDays(n, 7) }
}

// WithLocale selects the symbol tables. Unsupported locales fall back to
// English.
func WithLocale(name string) GregorianOption {
	return func(g *Gregorian) { g.symbols = resolveSymbols(name) }
}

// NewGregorian returns a Gregorian calendar in loc (UTC when nil).
func NewGregorian(loc *time.Location, opts ...GregorianOption) *Gregorian {
	if loc == nil {
		loc = time.UTC
	}
	g := &Gregorian{
		loc:          loc,
		firstWeekday: time.Sunday,
		minDays:      1,
		symbols:      resolveSymbols(""),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gregorian) Rules() Rules {
	return Rules{
		Kind:               KindGregorian,
		Zone:               g.loc.String(),
		Locale:             g.symbols.locale,
		FirstWeekday:       int(g.firstWeekday) + 1,
		MinDaysInFirstWeek: g.minDays,
	}
}

func (g *Gregorian) Location() *time.Location { return g.loc }

func (g *Gregorian) ComponentValue(c Component, t time.Time) int {
	t = t.In(g.loc)
	y, m, d := t.Date()
	switch c {
	case Year:
		return y
	case Month:
		return int(m)
	case Day:
		return d
	case Weekday:
		return int(t.Weekday()) + 1
	case WeekOfMonth:
		return weekOfMonth(d, g.monthOffset(y, m), 7, g.minDays)
	default:
		panic(fmt.Sprintf("calsys: gregorian has no component %s", c))
	}
}

func (g *Gregorian) Components(set ComponentSet, t time.Time) Fields {
	var f Fields
	for _, c := range []Component{Year, Month, Day, Weekday, WeekOfMonth} {
		if !set.Has(c) {
			continue
		}
		v := g.ComponentValue(c, t)
		switch c {
		case Year:
			f.Year = v
		case Month:
			f.Month = v
		case Day:
			f.Day = v
		case Weekday:
			f.Weekday = v
		case WeekOfMonth:
			f.WeekOfMonth = v
		}
	}
	return f
}

func (g *Gregorian) Date(f Fields) (time.Time, bool) {
	m, d := f.Month, f.Day
	if m == 0 {
		m = 1
	}
	if d == 0 {
		d = 1
	}
	if m < 1 || m > 12 || d < 1 || d > daysIn(f.Year, time.Month(m)) {
		return time.Time{}, false
	}
	return midnight(g.loc, f.Year, time.Month(m), d), true
}

func (g *Gregorian) Add(c Component, n int, t time.Time) time.Time {
	t = t.In(g.loc)
	if n == 0 {
		return t
	}
	y, m, d := t.Date()
	switch c {
	case Day:
		return g.shift(t, y, m, d+n)
	case Week:
		return g.shift(t, y, m, d+7*n)
	case Month:
		total := y*12 + int(m) - 1 + n
		ty, tm := floorDiv(total, 12), time.Month(floorMod(total, 12)+1)
		return g.shift(t, ty, tm, min(d, daysIn(ty, tm)))
	case Year:
		ty := y + n
		return g.shift(t, ty, m, min(d, daysIn(ty, m)))
	default:
		panic(fmt.Sprintf("calsys: gregorian cannot add %s", c))
	}
}

// shift moves t to the civil date y-m-d keeping its wall clock. Day starts
// map to day starts.
func (g *Gregorian) shift(t time.Time, y int, m time.Month, d int) time.Time {
	if isMidnight(t) {
		return midnight(g.loc, y, m, d)
	}
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), g.loc)
}

func (g *Gregorian) Distance(c Component, from, to time.Time) int {
	from, to = from.In(g.loc), to.In(g.loc)
	var est int
	switch c {
	case Day:
		est = civilDay(to) - civilDay(from)
	case Week:
		est = (civilDay(to) - civilDay(from)) / 7
	case Month:
		est = (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	case Year:
		est = to.Year() - from.Year()
	default:
		panic(fmt.Sprintf("calsys: gregorian has no distance in %s", c))
	}
	return wholeUnits(func(n int) time.Time { return g.Add(c, n, from) }, from, to, est)
}

func (g *Gregorian) Interval(c Component, t time.Time) (time.Time, time.Time, bool) {
	t = t.In(g.loc)
	y, m, d := t.Date()
	switch c {
	case Day:
		return midnight(g.loc, y, m, d), midnight(g.loc, y, m, d+1), true
	case Week:
		off := floorMod(int(t.Weekday())-int(g.firstWeekday), 7)
		return midnight(g.loc, y, m, d-off), midnight(g.loc, y, m, d-off+7), true
	case Month:
		return midnight(g.loc, y, m, 1), midnight(g.loc, y, m+1, 1), true
	case Year:
		return midnight(g.loc, y, time.January, 1), midnight(g.loc, y+1, time.January, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func (g *Gregorian) SubunitRange(sub, within Component, t time.Time) (int, int, bool) {
	t = t.In(g.loc)
	y, m, _ := t.Date()
	switch {
	case sub == Month && within == Year:
		return 1, 13, true
	case sub == Week && within == Month:
		off := g.monthOffset(y, m)
		first := weekOfMonth(1, off, 7, g.minDays)
		last := weekOfMonth(daysIn(y, m), off, 7, g.minDays)
		return first, last + 1, true
	case sub == Day && within == Week:
		return 1, 8, true
	case sub == Day && within == Month:
		return 1, daysIn(y, m) + 1, true
	case sub == Day && within == Year:
		return 1, dayNumber(y+1, time.January, 1) - dayNumber(y, time.January, 1) + 1, true
	default:
		return 0, 0, false
	}
}

func (g *Gregorian) Symbols(c Component, style Style, standalone bool) []string {
	return g.symbols.table(c, style, standalone)
}

// monthOffset is the position of the first day of y-m within its week.
func (g *Gregorian) monthOffset(y int, m time.Month) int {
	wd := time.Date(y, m, 1, 12, 0, 0, 0, time.UTC).Weekday()
	return floorMod(int(wd)-int(g.firstWeekday), 7)
}

func daysIn(y int, m time.Month) int {
	return dayNumber(y, m+1, 1) - dayNumber(y, m, 1)
}
