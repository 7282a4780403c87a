package unit

import (
	"fmt"
	"iter"
)

// IntRange is the half-open integer range [Lo, Hi).
type IntRange struct {
	Lo, Hi int
}

// Count returns the number of integers in r.
func (r IntRange) Count() int { return max(r.Hi-r.Lo, 0) }

// Empty reports whether r holds no integers.
func (r IntRange) Empty() bool { return r.Hi <= r.Lo }

// Contains reports whether i lies in r.
func (r IntRange) Contains(i int) bool { return i >= r.Lo && i < r.Hi }

// Clamp returns the member of r closest to i. r must not be empty.
func (r IntRange) Clamp(i int) int {
	if r.Empty() {
		precondition("clamp", "empty range %s", r)
	}
	return min(max(i, r.Lo), r.Hi-1)
}

// Union returns the smallest range covering both r and o. Empty operands
// are ignored.
func (r IntRange) Union(o IntRange) IntRange {
	switch {
	case r.Empty():
		return o
	case o.Empty():
		return r
	}
	return IntRange{Lo: min(r.Lo, o.Lo), Hi: max(r.Hi, o.Hi)}
}

// Intersect returns the overlap of r and o, which may be empty.
func (r IntRange) Intersect(o IntRange) IntRange {
	return IntRange{Lo: max(r.Lo, o.Lo), Hi: max(min(r.Hi, o.Hi), max(r.Lo, o.Lo))}
}

// Offset shifts r by n.
func (r IntRange) Offset(n int) IntRange { return IntRange{Lo: r.Lo + n, Hi: r.Hi + n} }

// Values iterates the members of r in ascending order.
func (r IntRange) Values() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := r.Lo; i < r.Hi; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func (r IntRange) String() string { return fmt.Sprintf("[%d, %d)", r.Lo, r.Hi) }
