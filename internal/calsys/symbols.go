package calsys

import (
	"strconv"

	"golang.org/x/text/language"
)

// symbolTables holds one list per style, for format and standalone use.
type symbolTables struct {
	format     [3][]string
	standalone [3][]string
}

// symbolSet is the immutable symbol data of one locale. Weekday tables are
// ordered by weekday component value (Sunday first for Gregorian).
type symbolSet struct {
	locale   string
	months   symbolTables
	weekdays symbolTables
}

func (s *symbolSet) table(c Component, style Style, standalone bool) []string {
	var t *symbolTables
	switch c {
	case Month:
		t = &s.months
	case Weekday, Day:
		t = &s.weekdays
	default:
		return nil
	}
	if style < StyleNormal || style > StyleVeryShort {
		style = StyleNormal
	}
	if standalone {
		return t.standalone[style]
	}
	return t.format[style]
}

func same(normal, short, veryShort []string) symbolTables {
	return symbolTables{
		format:     [3][]string{normal, short, veryShort},
		standalone: [3][]string{normal, short, veryShort},
	}
}

var englishSymbols = &symbolSet{
	locale: "en",
	months: same(
		[]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		[]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		[]string{"J", "F", "M", "A", "M", "J", "J", "A", "S", "O", "N", "D"},
	),
	weekdays: same(
		[]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		[]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		[]string{"S", "M", "T", "W", "T", "F", "S"},
	),
}

var koreanSymbols = &symbolSet{
	locale: "ko",
	months: same(
		[]string{"1월", "2월", "3월", "4월", "5월", "6월", "7월", "8월", "9월", "10월", "11월", "12월"},
		[]string{"1월", "2월", "3월", "4월", "5월", "6월", "7월", "8월", "9월", "10월", "11월", "12월"},
		[]string{"1월", "2월", "3월", "4월", "5월", "6월", "7월", "8월", "9월", "10월", "11월", "12월"},
	),
	weekdays: same(
		[]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"},
		[]string{"일", "월", "화", "수", "목", "금", "토"},
		[]string{"일", "월", "화", "수", "목", "금", "토"},
	),
}

var germanSymbols = &symbolSet{
	locale: "de",
	months: symbolTables{
		format: [3][]string{
			{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
			{"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
			{"J", "F", "M", "A", "M", "J", "J", "A", "S", "O", "N", "D"},
		},
		standalone: [3][]string{
			{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
			{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
			{"J", "F", "M", "A", "M", "J", "J", "A", "S", "O", "N", "D"},
		},
	},
	weekdays: symbolTables{
		format: [3][]string{
			{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
			{"So.", "Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa."},
			{"S", "M", "D", "M", "D", "F", "S"},
		},
		standalone: [3][]string{
			{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
			{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
			{"S", "M", "D", "M", "D", "F", "S"},
		},
	},
}

var (
	supportedLocales = []language.Tag{language.English, language.Korean, language.German}
	localeSymbols    = []*symbolSet{englishSymbols, koreanSymbols, germanSymbols}
	localeMatcher    = language.NewMatcher(supportedLocales)
)

// resolveSymbols picks the closest supported locale for name. Empty or
// unparsable names resolve to English.
func resolveSymbols(name string) *symbolSet {
	if name == "" {
		return englishSymbols
	}
	tag, err := language.Parse(name)
	if err != nil {
		return englishSymbols
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(localeSymbols) {
		return englishSymbols
	}
	return localeSymbols[idx]
}

// numberedSymbols builds locale-independent tables for calendars without
// named months or weekdays.
func numberedSymbols(months, weekdays int) *symbolSet {
	build := func(n int, long, short string) symbolTables {
		normal := make([]string, n)
		abbr := make([]string, n)
		tiny := make([]string, n)
		for i := range n {
			num := strconv.Itoa(i + 1)
			normal[i] = long + " " + num
			abbr[i] = short + num
			tiny[i] = num
		}
		return same(normal, abbr, tiny)
	}
	return &symbolSet{
		locale:   "und",
		months:   build(months, "Month", "M"),
		weekdays: build(weekdays, "Day", "D"),
	}
}
