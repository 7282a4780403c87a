package unit

import (
	"iter"
	"time"

	"calunit/internal/calsys"
)

type bounded interface {
	Start() time.Time
	End() time.Time
}

func containsInstant[U bounded](u U, t time.Time) bool {
	return !t.Before(u.Start()) && t.Before(u.End())
}

// Span is the closed range [Lower, Upper] of units of one type and
// calendar. It covers the instants [Lower.Start(), Upper.End()).
type Span[U Unit[U]] struct {
	Lower, Upper U
}

// NewSpan returns the span between a and b in either order. It panics when
// a and b belong to different calendars.
func NewSpan[U Unit[U]](a, b U) Span[U] {
	if a.Distance(b) < 0 {
		a, b = b, a
	}
	return Span[U]{Lower: a, Upper: b}
}

// SpanCovering returns the units of one type intersecting [from, to).
// containing is the type's constructor, e.g. DayContaining.
func SpanCovering[U Unit[U]](from, to time.Time, cal *calsys.Handle, containing func(time.Time, *calsys.Handle) U) Span[U] {
	if !to.After(from) {
		precondition("span", "empty interval %s..%s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return NewSpan(containing(from, cal), containing(to.Add(-time.Nanosecond), cal))
}

// Count returns the number of units in s.
func (s Span[U]) Count() int { return s.Lower.Distance(s.Upper) + 1 }

// Start returns the first instant covered by s.
func (s Span[U]) Start() time.Time { return s.Lower.Start() }

// End returns the instant just past s.
func (s Span[U]) End() time.Time { return s.Upper.End() }

// Contains reports whether u lies within s.
func (s Span[U]) Contains(u U) bool {
	return s.Lower.Distance(u) >= 0 && u.Distance(s.Upper) >= 0
}

// ContainsInstant reports whether t falls inside s.
func (s Span[U]) ContainsInstant(t time.Time) bool {
	return containsInstant(s, t)
}

// Index returns the zero-based position of u in s.
func (s Span[U]) Index(u U) (int, bool) {
	i := s.Lower.Distance(u)
	if i < 0 || i >= s.Count() {
		return 0, false
	}
	return i, true
}

// Clamp returns the unit of s closest to u.
func (s Span[U]) Clamp(u U) U {
	if s.Lower.Distance(u) < 0 {
		return s.Lower
	}
	if u.Distance(s.Upper) < 0 {
		return s.Upper
	}
	return u
}

// Union returns the smallest span covering s and o.
func (s Span[U]) Union(o Span[U]) Span[U] {
	lower, upper := s.Lower, s.Upper
	if lower.Distance(o.Lower) < 0 {
		lower = o.Lower
	}
	if upper.Distance(o.Upper) > 0 {
		upper = o.Upper
	}
	return Span[U]{Lower: lower, Upper: upper}
}

// Intersect returns the overlap of s and o, or false when they are
// disjoint.
func (s Span[U]) Intersect(o Span[U]) (Span[U], bool) {
	lower, upper := s.Lower, s.Upper
	if lower.Distance(o.Lower) > 0 {
		lower = o.Lower
	}
	if upper.Distance(o.Upper) < 0 {
		upper = o.Upper
	}
	if lower.Distance(upper) < 0 {
		return Span[U]{}, false
	}
	return Span[U]{Lower: lower, Upper: upper}, true
}

// Units iterates the units of s in order.
func (s Span[U]) Units() iter.Seq[U] {
	return func(yield func(U) bool) {
		n := s.Count()
		u := s.Lower
		for i := 0; i < n; i++ {
			if !yield(u) {
				return
			}
			u = u.Advanced(1)
		}
	}
}
