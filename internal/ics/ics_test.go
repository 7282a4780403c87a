package ics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calunit/internal/calsys"
	"calunit/internal/unit"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//calunit//test//EN
BEGIN:VEVENT
UID:standup@test
DTSTAMP:20210101T000000Z
DTSTART:20210301T090000Z
DTEND:20210301T093000Z
RRULE:FREQ=WEEKLY;COUNT=4
EXDATE:20210315T090000Z
SUMMARY:Standup
END:VEVENT
BEGIN:VEVENT
UID:standup@test
DTSTAMP:20210101T000000Z
RECURRENCE-ID:20210308T090000Z
DTSTART:20210308T100000Z
DTEND:20210308T103000Z
SUMMARY:Standup (moved)
END:VEVENT
BEGIN:VEVENT
UID:trip@test
DTSTAMP:20210101T000000Z
DTSTART;VALUE=DATE:20210319
DTEND;VALUE=DATE:20210322
SUMMARY:Trip
END:VEVENT
BEGIN:VEVENT
UID:late@test
DTSTAMP:20210101T000000Z
DTSTART:20210331T230000Z
DTEND:20210401T010000Z
SUMMARY:Late call
END:VEVENT
BEGIN:VEVENT
DTSTAMP:20210101T000000Z
DTSTART:20210302T090000Z
SUMMARY:No UID
END:VEVENT
END:VCALENDAR
`

func crlf(s string) []byte { return []byte(strings.ReplaceAll(s, "\n", "\r\n")) }

func march(t *testing.T) unit.Span[unit.Day] {
	t.Helper()
	cal := calsys.NewHandle(calsys.NewGregorian(time.UTC))
	return unit.NewMonth(2021, 3, cal).Days()
}

func TestParseICS(t *testing.T) {
	events, err := ParseICS(Source{ID: "test"}, crlf(sampleICS))
	require.NoError(t, err)
	require.Len(t, events, 4, "the event without UID is skipped")

	standup := events[0]
	assert.Equal(t, "standup@test", standup.UID)
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4", standup.RawRRule)
	require.Len(t, standup.ExDates, 1)
	assert.True(t, standup.ExDates[0].Equal(time.Date(2021, 3, 15, 9, 0, 0, 0, time.UTC)))

	assert.True(t, events[1].IsOverride)
	assert.True(t, events[2].AllDay)
	assert.False(t, events[3].AllDay)
	assert.Equal(t, "test", events[3].Source.ID)

	_, err = ParseICS(Source{ID: "empty"}, nil)
	assert.Error(t, err)
}

func TestExpandOccurrences(t *testing.T) {
	events, err := ParseICS(Source{ID: "test"}, crlf(sampleICS))
	require.NoError(t, err)

	res, err := ExpandOccurrences(events, ExpandConfig{Days: march(t)})
	require.NoError(t, err)
	assert.Empty(t, res.TruncatedEvents)

	var summaries []string
	for _, o := range res.Occurrences {
		summaries = append(summaries, o.Start.Format("01-02 15:04")+" "+o.Summary)
	}
	assert.ElementsMatch(t, []string{
		"03-01 09:00 Standup",
		"03-08 10:00 Standup (moved)",
		"03-22 09:00 Standup",
		"03-19 00:00 Trip",
		"03-31 23:00 Late call",
	}, summaries)

	_, err = ExpandOccurrences(events, ExpandConfig{})
	assert.Error(t, err)
}

func TestExpandOccurrences_Cap(t *testing.T) {
	events, err := ParseICS(Source{ID: "test"}, crlf(sampleICS))
	require.NoError(t, err)

	res, err := ExpandOccurrences(events, ExpandConfig{Days: march(t), MaxOccurrencesPerEvent: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"standup@test"}, res.TruncatedEvents)
}

func TestLoadAgenda(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "work.ics")
	require.NoError(t, os.WriteFile(path, crlf(sampleICS), 0o600))

	days := march(t)
	ag, err := LoadAgenda([]Source{
		{ID: "work", Path: path},
		{ID: "missing", Path: filepath.Join(dir, "missing.ics")},
	}, days)
	require.Error(t, err, "the missing source is reported")
	require.Len(t, ag.Entries, 31)

	byDay := map[int][]string{}
	for _, e := range ag.Entries {
		for _, o := range e.Occurrences {
			byDay[e.Day.DayOfMonth()] = append(byDay[e.Day.DayOfMonth()], o.Summary)
		}
	}
	assert.Equal(t, map[int][]string{
		1:  {"Standup"},
		8:  {"Standup (moved)"},
		19: {"Trip"},
		20: {"Trip"},
		21: {"Trip"},
		22: {"Standup"},
		31: {"Late call"},
	}, byDay)
	assert.Equal(t, "work", ag.Entries[0].Occurrences[0].SourceID)
}

func TestBucket_OrdersAllDayFirst(t *testing.T) {
	events, err := ParseICS(Source{ID: "test"}, crlf(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//calunit//test//EN
BEGIN:VEVENT
UID:b@test
DTSTAMP:20210101T000000Z
DTSTART:20210305T080000Z
DTEND:20210305T090000Z
SUMMARY:Breakfast
END:VEVENT
BEGIN:VEVENT
UID:a@test
DTSTAMP:20210101T000000Z
DTSTART;VALUE=DATE:20210305
SUMMARY:Holiday
END:VEVENT
END:VCALENDAR
`))
	require.NoError(t, err)

	days := march(t)
	res, err := ExpandOccurrences(events, ExpandConfig{Days: days})
	require.NoError(t, err)
	ag := Bucket(res.Occurrences, days)

	fifth := ag.Entries[4]
	require.Len(t, fifth.Occurrences, 2)
	assert.Equal(t, "Holiday", fifth.Occurrences[0].Summary)
	assert.Equal(t, "Breakfast", fifth.Occurrences[1].Summary)
	assert.Empty(t, ag.Entries[5].Occurrences)
}
