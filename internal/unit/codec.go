package unit

import (
	"time"

	"calunit/internal/calsys"
)

// codec converts between a backing value and instants for one granularity.
// extract receives the start instant of a unit and keeps only what is needed
// to rebuild it.
type codec[B comparable] interface {
	granularity() calsys.Component
	extract(sys calsys.System, start time.Time) B
	instant(sys calsys.System, b B) time.Time
	distance(sys calsys.System, from, to B) int
	advance(sys calsys.System, b B, n int) B
}

type dayFields struct {
	year, month, day int
}

type monthFields struct {
	year, month int
}

var (
	dayCodec   codec[dayFields]   = dayStrategy{}
	monthCodec codec[monthFields] = monthStrategy{}
	weekCodec  codec[time.Time]   = weekStrategy{}
	yearCodec  codec[int]         = yearStrategy{}
)

func resolve(sys calsys.System, f calsys.Fields) time.Time {
	t, ok := sys.Date(f)
	if !ok {
		precondition("date", "unresolvable components %+v", f)
	}
	return t
}

type dayStrategy struct{}

func (dayStrategy) granularity() calsys.Component { return calsys.Day }

func (dayStrategy) extract(sys calsys.System, start time.Time) dayFields {
	f := sys.Components(calsys.SetOf(calsys.Year, calsys.Month, calsys.Day), start)
	return dayFields{f.Year, f.Month, f.Day}
}

func (dayStrategy) instant(sys calsys.System, b dayFields) time.Time {
	return resolve(sys, calsys.Fields{Year: b.year, Month: b.month, Day: b.day})
}

func (s dayStrategy) distance(sys calsys.System, from, to dayFields) int {
	return sys.Distance(calsys.Day, s.instant(sys, from), s.instant(sys, to))
}

func (s dayStrategy) advance(sys calsys.System, b dayFields, n int) dayFields {
	return s.extract(sys, sys.Add(calsys.Day, n, s.instant(sys, b)))
}

type monthStrategy struct{}

func (monthStrategy) granularity() calsys.Component { return calsys.Month }

func (monthStrategy) extract(sys calsys.System, start time.Time) monthFields {
	f := sys.Components(calsys.SetOf(calsys.Year, calsys.Month), start)
	return monthFields{f.Year, f.Month}
}

func (monthStrategy) instant(sys calsys.System, b monthFields) time.Time {
	return resolve(sys, calsys.Fields{Year: b.year, Month: b.month})
}

func (s monthStrategy) distance(sys calsys.System, from, to monthFields) int {
	return sys.Distance(calsys.Month, s.instant(sys, from), s.instant(sys, to))
}

func (s monthStrategy) advance(sys calsys.System, b monthFields, n int) monthFields {
	return s.extract(sys, sys.Add(calsys.Month, n, s.instant(sys, b)))
}

// Weeks are kept as their start instant, normalized to UTC without a
// monotonic reading so that == compares instants.
type weekStrategy struct{}

func (weekStrategy) granularity() calsys.Component { return calsys.Week }

func (weekStrategy) extract(_ calsys.System, start time.Time) time.Time {
	return start.Round(0).UTC()
}

func (weekStrategy) instant(sys calsys.System, b time.Time) time.Time {
	return b.In(sys.Location())
}

func (s weekStrategy) distance(sys calsys.System, from, to time.Time) int {
	return sys.Distance(calsys.Week, s.instant(sys, from), s.instant(sys, to))
}

func (s weekStrategy) advance(sys calsys.System, b time.Time, n int) time.Time {
	return s.extract(sys, sys.Add(calsys.Week, n, s.instant(sys, b)))
}

// Year numbers are calendar independent once extracted, so distance and
// advance are plain integer arithmetic.
type yearStrategy struct{}

func (yearStrategy) granularity() calsys.Component { return calsys.Year }

func (yearStrategy) extract(sys calsys.System, start time.Time) int {
	return sys.ComponentValue(calsys.Year, start)
}

func (yearStrategy) instant(sys calsys.System, b int) time.Time {
	return resolve(sys, calsys.Fields{Year: b})
}

func (yearStrategy) distance(_ calsys.System, from, to int) int { return to - from }

func (yearStrategy) advance(_ calsys.System, b int, n int) int { return b + n }
