package calsys

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownKind = errors.New("calsys: unknown calendar kind")

// Config selects and parameterizes a calendar system.
type Config struct {
	Kind     string // KindGregorian (default) or KindUniform
	Location *time.Location
	Locale   string

	// Gregorian settings.
	FirstWeekday       time.Weekday
	MinDaysInFirstWeek int

	// Uniform settings.
	Shape Shape
}

// New builds a calendar system from cfg and wraps it in a Handle.
func New(cfg Config) (*Handle, error) {
	switch cfg.Kind {
	case "", KindGregorian:
		g := NewGregorian(cfg.Location,
			WithFirstWeekday(cfg.FirstWeekday),
			WithMinDaysInFirstWeek(cfg.MinDaysInFirstWeek),
			WithLocale(cfg.Locale),
		)
		return NewHandle(g), nil
	case KindUniform:
		u, err := NewUniform(cfg.Location, cfg.Shape)
		if err != nil {
			return nil, err
		}
		return NewHandle(u), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
