package unit

import (
	"iter"
	"strconv"
	"time"

	"calunit/internal/calsys"
)

// Year is one calendar year. It contains months.
type Year struct {
	v      value[int]
	months IntRange
}

// YearContaining returns the year in which t falls.
func YearContaining(t time.Time, cal *calsys.Handle) Year {
	return newYear(containing(yearCodec, t, cal))
}

// NewYear returns the year numbered year.
func NewYear(year int, cal *calsys.Handle) Year {
	v := value[int]{cal: cal, backing: year}
	v.start(yearCodec) // panics when the calendar cannot resolve the year
	return newYear(v)
}

func newYear(v value[int]) Year {
	return Year{v: v, months: yearMonths.indexRange(v)}
}

func (y Year) Calendar() *calsys.Handle { return y.v.cal }

// Start returns the first instant of the year.
func (y Year) Start() time.Time { return y.v.start(yearCodec) }
func (y Year) End() time.Time { return y.v.end(yearCodec) }
func (y Year) Duration() time.Duration { return y.End().Sub(y.Start()) }
func (y Year) Contains(t time.Time) bool { return containsInstant(y, t) }

// Advanced returns the year n years later (earlier when n is negative).
func (y Year) Advanced(n int) Year { return newYear(y.v.advanced(yearCodec, n)) }
func (y Year) Next() Year { return y.Advanced(1) }
func (y Year) Prev() Year { return y.Advanced(-1) }

// Distance returns the number of years from y to to.
func (y Year) Distance(to Year) int { return y.v.distance(yearCodec, to.v) }
func (y Year) Equal(o Year) bool { return y.v.equal(o.v) }

// Number returns the year number.
func (y Year) Number() int { return y.v.backing }
func (y Year) String() string { return strconv.Itoa(y.v.backing) }

// SubunitRange returns the month numbers of the year.
func (y Year) SubunitRange() IntRange { return y.months }

// Subunit returns the month numbered at. It panics if at is outside
// SubunitRange.
func (y Year) Subunit(at int) Month { return newMonth(yearMonths.subunit(y.v, y.months, at)) }

// Ordinal returns the i-th month of the year, counting from 0.
func (y Year) Ordinal(i int) Month { return newMonth(yearMonths.ordinal(y.v, y.months, i)) }
func (y Year) IndexOf(m Month) (int, bool) { return yearMonths.indexOf(y.v, y.months, m.v) }

// Subunits iterates the months of the year.
func (y Year) Subunits() iter.Seq2[int, Month] {
	return func(yield func(int, Month) bool) {
		for pos, v := range yearMonths.all(y.v, y.months) {
			if !yield(pos, newMonth(v)) {
				return
			}
		}
	}
}
