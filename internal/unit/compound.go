package unit

import (
	"iter"
	"time"

	"calunit/internal/calsys"
	"calunit/internal/unitcache"
)

// Compound is implemented by units that contain a contiguous sequence of
// smaller units: Year (months), Month (weeks) and Week (days).
type Compound[S any] interface {
	// SubunitRange is the half-open range of valid subunit positions. It
	// follows the calendar's own numbering and need not start at zero.
	SubunitRange() IntRange
	// Subunit returns the subunit at a position in SubunitRange.
	Subunit(at int) S
	// Ordinal returns the i-th subunit counting from zero.
	Ordinal(i int) S
	// IndexOf returns the position of s, or false when s does not belong
	// to this unit.
	IndexOf(s S) (int, bool)
	// Subunits iterates positions and subunits in order.
	Subunits() iter.Seq2[int, S]
}

var (
	_ Compound[Month] = Year{}
	_ Compound[Week]  = Month{}
	_ Compound[Day]   = Week{}
)

// compound implements subunit lookup for one owner/subunit pairing.
type compound[OB, SB comparable] struct {
	tag   unitcache.Tag
	owner codec[OB]
	sub   codec[SB]
}

var (
	yearMonths = compound[int, monthFields]{unitcache.TagYearMonths, yearCodec, monthCodec}
	monthWeeks = compound[monthFields, time.Time]{unitcache.TagMonthWeeks, monthCodec, weekCodec}
	weekDays   = compound[time.Time, dayFields]{unitcache.TagWeekDays, weekCodec, dayCodec}
)

func (c compound[OB, SB]) store() *unitcache.Store[ownerKey[OB], SB] {
	return unitcache.Lookup[ownerKey[OB], SB](unitcache.Default(), c.tag)
}

// indexRange asks the calendar for the subunit positions of o.
func (c compound[OB, SB]) indexRange(o value[OB]) IntRange {
	sub, within := c.sub.granularity(), c.owner.granularity()
	lo, hi, ok := o.sys().SubunitRange(sub, within, o.start(c.owner))
	if !ok {
		precondition("subunit range", "calendar %s has no %s range within %s", o.cal, sub, within)
	}
	return IntRange{Lo: lo, Hi: hi}
}

func (c compound[OB, SB]) subunit(o value[OB], r IntRange, pos int) value[SB] {
	if !r.Contains(pos) {
		precondition("subunit", "position %d outside %s", pos, r)
	}
	st := c.store()
	key := o.key()
	if b, ok := st.Element(key, pos); ok {
		return value[SB]{cal: o.cal, backing: b}
	}
	first := containing(c.sub, o.start(c.owner), o.cal)
	s := first.advanced(c.sub, pos-r.Lo)
	st.PutElement(key, pos, s.backing)
	return s
}

func (c compound[OB, SB]) indexOf(o value[OB], r IntRange, s value[SB]) (int, bool) {
	if s.cal == nil || !o.cal.Equal(s.cal) {
		return 0, false
	}
	st := c.store()
	key := o.key()
	if idx, ok := st.Index(key, s.backing); ok {
		return idx, true
	}
	// The subunit must sit on a boundary of this calendar's numbering.
	start := s.start(c.sub)
	if aligned := containing(c.sub, start, o.cal); aligned.backing != s.backing {
		return 0, false
	}
	first := containing(c.sub, o.start(c.owner), o.cal)
	idx := r.Lo + first.distance(c.sub, s)
	if !r.Contains(idx) {
		return 0, false
	}
	st.PutIndex(key, s.backing, idx)
	return idx, true
}

func (c compound[OB, SB]) ordinal(o value[OB], r IntRange, i int) value[SB] {
	return c.subunit(o, r, i+r.Lo)
}

func (c compound[OB, SB]) all(o value[OB], r IntRange) iter.Seq2[int, value[SB]] {
	return func(yield func(int, value[SB]) bool) {
		for pos := r.Lo; pos < r.Hi; pos++ {
			if !yield(pos, c.subunit(o, r, pos)) {
				return
			}
		}
	}
}

// subunitOrdinal is the zero-based position of value v of component c
// among the c values inside within.
func subunitOrdinal(sys calsys.System, c, within calsys.Component, v int, at time.Time) int {
	lo, _, ok := sys.SubunitRange(c, within, at)
	if !ok {
		precondition("ordinal", "no %s range within %s", c, within)
	}
	return v - lo
}
