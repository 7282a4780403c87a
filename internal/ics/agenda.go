package ics

import (
	"cmp"
	"errors"
	"slices"

	appLog "calunit/internal/log"
	"calunit/internal/model"
	"calunit/internal/unit"
)

// DayAgenda is the list of occurrences touching one day.
type DayAgenda struct {
	Day         unit.Day
	Occurrences []model.Occurrence
}

// Agenda is a day-by-day view of a span.
type Agenda struct {
	Days      unit.Span[unit.Day]
	Entries   []DayAgenda
	Truncated []string
}

// Bucket places each occurrence in every day of days it overlaps.
// Within a day, all-day occurrences come first, then by start time and
// summary.
func Bucket(occ []model.Occurrence, days unit.Span[unit.Day]) Agenda {
	ag := Agenda{Days: days, Entries: make([]DayAgenda, 0, days.Count())}
	for d := range days.Units() {
		ag.Entries = append(ag.Entries, DayAgenda{Day: d})
	}
	if len(occ) == 0 {
		return ag
	}
	cal := days.Lower.Calendar()

	for _, o := range occ {
		if !o.Overlaps(days.Start(), days.End()) {
			continue
		}
		first := days.Lower
		if o.Start.After(days.Start()) {
			first = unit.DayContaining(o.Start, cal)
		}
		for d := first; ; d = d.Next() {
			idx, ok := days.Index(d)
			if !ok || !o.Overlaps(d.Start(), d.End()) {
				break
			}
			ag.Entries[idx].Occurrences = append(ag.Entries[idx].Occurrences, o)
		}
	}

	for i := range ag.Entries {
		slices.SortStableFunc(ag.Entries[i].Occurrences, compareOccurrences)
	}
	return ag
}

func compareOccurrences(a, b model.Occurrence) int {
	if a.AllDay != b.AllDay {
		if a.AllDay {
			return -1
		}
		return 1
	}
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.Summary, b.Summary)
}

// LoadAgenda reads every source and buckets its occurrences over days.
// Sources that fail to load are logged and skipped; their errors are
// joined into the returned error alongside the partial agenda.
func LoadAgenda(sources []Source, days unit.Span[unit.Day]) (Agenda, error) {
	var (
		events []ParsedEvent
		errs   []error
	)
	for _, src := range sources {
		evs, err := LoadFile(src)
		if err != nil {
			appLog.Error("ics source skipped", err, "id", src.ID)
			errs = append(errs, err)
			continue
		}
		events = append(events, evs...)
	}

	res, err := ExpandOccurrences(events, ExpandConfig{Days: days})
	if err != nil {
		return Agenda{Days: days}, err
	}
	ag := Bucket(res.Occurrences, days)
	ag.Truncated = res.TruncatedEvents
	return ag, errors.Join(errs...)
}
