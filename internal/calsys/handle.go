package calsys

// Handle is a shared reference to a System. Units hold a *Handle rather than
// a copy of the system so equality can short-circuit on pointer identity.
type Handle struct {
	sys   System
	rules Rules
}

// NewHandle wraps sys. The rules are captured once; sys must be immutable.
func NewHandle(sys System) *Handle {
	if sys == nil {
		panic("calsys: nil system")
	}
	return &Handle{sys: sys, rules: sys.Rules()}
}

// System returns the wrapped calendar system.
func (h *Handle) System() System { return h.sys }

// Key returns the rules identifying this calendar; handles with equal keys
// are interchangeable.
func (h *Handle) Key() Rules { return h.rules }

// Equal reports whether h and o describe the same calendar.
func (h *Handle) Equal(o *Handle) bool {
	if h == o {
		return true
	}
	if h == nil || o == nil {
		return false
	}
	return h.rules == o.rules
}

func (h *Handle) String() string {
	if h == nil {
		return "<nil calendar>"
	}
	return h.rules.Kind + "/" + h.rules.Zone + "/" + h.rules.Locale
}
