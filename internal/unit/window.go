package unit

import (
	"iter"

	"github.com/gammazero/deque"
)

// Window is a strip of consecutive units that can slide in either
// direction, as used by scrolling month or week lists. Sliding by one unit
// costs one push and one pop.
type Window[U Unit[U]] struct {
	q deque.Deque[U]
}

// NewWindow returns the units from center.Advanced(-before) through
// center.Advanced(after).
func NewWindow[U Unit[U]](center U, before, after int) *Window[U] {
	if before < 0 || after < 0 {
		precondition("window", "negative extent %d/%d", before, after)
	}
	w := &Window[U]{}
	w.fill(center.Advanced(-before), before+after+1)
	return w
}

func (w *Window[U]) fill(first U, n int) {
	w.q.Clear()
	u := first
	for i := 0; i < n; i++ {
		w.q.PushBack(u)
		u = u.Advanced(1)
	}
}

// Len returns the number of units in the window.
func (w *Window[U]) Len() int { return w.q.Len() }

// At returns the i-th unit of the window.
func (w *Window[U]) At(i int) U {
	if i < 0 || i >= w.q.Len() {
		precondition("window", "index %d outside [0, %d)", i, w.q.Len())
	}
	return w.q.At(i)
}

// First returns the earliest unit.
func (w *Window[U]) First() U { return w.q.Front() }

// Last returns the latest unit.
func (w *Window[U]) Last() U { return w.q.Back() }

// Span returns the units covered by the window.
func (w *Window[U]) Span() Span[U] { return Span[U]{Lower: w.First(), Upper: w.Last()} }

// Index returns the position of u in the window.
func (w *Window[U]) Index(u U) (int, bool) { return w.Span().Index(u) }

// Shift slides the window by n units: forward when n > 0, backward when
// n < 0. The length is unchanged.
func (w *Window[U]) Shift(n int) {
	size := w.q.Len()
	if n == 0 || size == 0 {
		return
	}
	if n >= size || -n >= size {
		w.fill(w.First().Advanced(n), size)
		return
	}
	for ; n > 0; n-- {
		w.q.PushBack(w.q.Back().Advanced(1))
		w.q.PopFront()
	}
	for ; n < 0; n++ {
		w.q.PushFront(w.q.Front().Advanced(-1))
		w.q.PopBack()
	}
}

// Units iterates the window's positions and units.
func (w *Window[U]) Units() iter.Seq2[int, U] {
	return func(yield func(int, U) bool) {
		for i := 0; i < w.q.Len(); i++ {
			if !yield(i, w.q.At(i)) {
				return
			}
		}
	}
}
