package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "calunit/internal/log"
	"calunit/internal/model"
	"calunit/internal/unit"
)

const defaultMaxOccurrencesPerEvent = 5000

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// Days is the window of interest; occurrences overlapping any of its
	// days are returned, converted into the days' calendar timezone.
	Days unit.Span[unit.Day]

	// MaxOccurrencesPerEvent caps large expansions. If zero,
	// defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

// ExpandResult wraps the expanded occurrences and truncation info.
type ExpandResult struct {
	Occurrences []model.Occurrence
	// TruncatedEvents records UIDs that hit the MaxOccurrencesPerEvent cap.
	TruncatedEvents []string
}

type window struct {
	from, to time.Time
	loc      *time.Location
	max      int
}

// ExpandOccurrences expands events into concrete occurrences overlapping
// cfg.Days. It handles single events, RRULE recurrence, EXDATE removal,
// RECURRENCE-ID overrides and all-day semantics.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	cal := cfg.Days.Lower.Calendar()
	if cal == nil {
		return result, errors.New("expand: empty day span")
	}
	w := window{
		from: cfg.Days.Start(),
		to:   cfg.Days.End(),
		loc:  cal.System().Location(),
		max:  cfg.MaxOccurrencesPerEvent,
	}
	if w.max <= 0 {
		w.max = defaultMaxOccurrencesPerEvent
	}

	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	uids := make([]string, 0)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
			continue
		}
		if _, ok := baseByUID[ev.UID]; !ok {
			uids = append(uids, ev.UID)
		}
		baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
	}

	for _, uid := range uids {
		ov := overridesByUID[uid]
		truncated := false
		for _, ev := range baseByUID[uid] {
			occ, hitCap := expandEvent(ev, ov, w)
			truncated = truncated || hitCap
			result.Occurrences = append(result.Occurrences, occ...)
		}
		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, uid)
			appLog.Warn("expand: truncated occurrences", "uid", uid, "cap", w.max)
		}
	}
	return result, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, w window) ([]model.Occurrence, bool) {
	if ev.RawRRule == "" {
		return expandSingleEvent(ev, overrides, w), false
	}
	return expandRecurringEvent(ev, overrides, w)
}

func expandSingleEvent(ev ParsedEvent, overrides []ParsedEvent, w window) []model.Occurrence {
	start, end := ev.Start, ev.End
	if o, ok := findOverrideForStart(overrides, start); ok {
		ev, start, end = o, o.Start, o.End
	}
	occ := makeOccurrence(ev, start, end, w.loc)
	if !occ.Overlaps(w.from, w.to) {
		return nil
	}
	return []model.Occurrence{occ}
}

func expandRecurringEvent(ev ParsedEvent, overrides []ParsedEvent, w window) ([]model.Occurrence, bool) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Instances that start before the window can still run into it.
	dur := ev.End.Sub(ev.Start)
	from := w.from.Add(-dur).In(ev.Start.Location())
	to := w.to.In(ev.Start.Location())
	starts := set.Between(from, to, true)

	hitCap := false
	if len(starts) > w.max {
		starts = starts[:w.max]
		hitCap = true
	}

	out := make([]model.Occurrence, 0, len(starts))
	for _, s := range starts {
		start, end, base := s, s.Add(dur), ev
		if o, ok := findOverrideForStart(overrides, s); ok {
			start, end, base = o.Start, o.End, o
		}
		occ := makeOccurrence(base, start, end, w.loc)
		if occ.Overlaps(w.from, w.to) {
			out = append(out, occ)
		}
	}
	return out, hitCap
}

// findOverrideForStart finds an override whose RECURRENCE-ID equals start.
func findOverrideForStart(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && ov.Recurrence.Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

// makeOccurrence converts an event instance into a model.Occurrence in loc.
// All-day instances are re-anchored to local midnights so that they cover
// whole days even across daylight-saving changes.
func makeOccurrence(ev ParsedEvent, start, end time.Time, loc *time.Location) model.Occurrence {
	if ev.AllDay {
		days := max(civilDays(start, end), 1)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, days)
	} else {
		start, end = start.In(loc), end.In(loc)
	}

	return model.Occurrence{
		SourceID:    ev.Source.ID,
		UID:         ev.UID,
		InstanceKey: start.Format(time.RFC3339Nano),
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		Start:       start,
		End:         end,
	}
}

// civilDays counts the dates from start up to end as written.
func civilDays(start, end time.Time) int {
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
