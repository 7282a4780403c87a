package web

import (
	"time"

	"calunit/internal/unit"
)

// DayView is the JSON shape of one day.
type DayView struct {
	Date    string    `json:"date"`
	Day     int       `json:"day"`
	Weekday int       `json:"weekday"`
	Name    string    `json:"name"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	// InMonth is only set for days of a month grid.
	InMonth *bool `json:"in_month,omitempty"`
}

// WeekView is the JSON shape of one week. Index is the week's position
// within its month when listed by a MonthView.
type WeekView struct {
	Index int       `json:"index,omitempty"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  []DayView `json:"days"`
}

// MonthView is a month laid out as a week grid.
type MonthView struct {
	Month   string     `json:"month"`
	Year    int        `json:"year"`
	Number  int        `json:"number"`
	Name    string     `json:"name"`
	Start   time.Time  `json:"start"`
	End     time.Time  `json:"end"`
	Headers []string   `json:"headers"`
	Weeks   []WeekView `json:"weeks"`
}

// MonthSummary is a month as listed by a YearView.
type MonthSummary struct {
	Index int       `json:"index"`
	Month string    `json:"month"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
	Weeks int       `json:"weeks"`
}

// YearView lists the months of a year.
type YearView struct {
	Year   int            `json:"year"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Months []MonthSummary `json:"months"`
}

func NewDayView(d unit.Day) DayView {
	return DayView{
		Date:    d.String(),
		Day:     d.DayOfMonth(),
		Weekday: d.Weekday(),
		Name:    d.Symbol(unit.StyleNormal, true),
		Start:   d.Start(),
		End:     d.End(),
	}
}

func NewWeekView(w unit.Week) WeekView {
	v := WeekView{Start: w.Start(), End: w.End(), Days: make([]DayView, 0, w.SubunitRange().Count())}
	for _, d := range w.Subunits() {
		v.Days = append(v.Days, NewDayView(d))
	}
	return v
}

func NewMonthView(m unit.Month) MonthView {
	g := unit.MonthGrid(m)
	v := MonthView{
		Month:   m.String(),
		Year:    m.Year(),
		Number:  m.Month(),
		Name:    m.Symbol(unit.StyleNormal, true),
		Start:   m.Start(),
		End:     m.End(),
		Headers: g.Headers(unit.StyleShort, true),
		Weeks:   make([]WeekView, 0, len(g.Rows)),
	}
	for _, row := range g.Rows {
		wv := WeekView{Index: row.Index, Start: row.Week.Start(), End: row.Week.End(), Days: make([]DayView, 0, len(row.Cells))}
		for _, c := range row.Cells {
			dv := NewDayView(c.Day)
			in := c.InMonth
			dv.InMonth = &in
			wv.Days = append(wv.Days, dv)
		}
		v.Weeks = append(v.Weeks, wv)
	}
	return v
}

func NewYearView(y unit.Year) YearView {
	v := YearView{Year: y.Number(), Start: y.Start(), End: y.End(), Months: make([]MonthSummary, 0, y.SubunitRange().Count())}
	for idx, m := range y.Subunits() {
		v.Months = append(v.Months, MonthSummary{
			Index: idx,
			Month: m.String(),
			Name:  m.Symbol(unit.StyleNormal, true),
			Start: m.Start(),
			End:   m.End(),
			Days:  m.Days().Count(),
			Weeks: m.SubunitRange().Count(),
		})
	}
	return v
}
