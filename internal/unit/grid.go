package unit

// GridCell is one day of a month grid.
type GridCell struct {
	Day Day
	// InMonth is false for the leading and trailing days that belong to
	// the neighbouring months.
	InMonth bool
}

// GridRow is one week of a month grid.
type GridRow struct {
	Index int
	Week  Week
	Cells []GridCell
}

// Grid is the week-by-day layout of a month.
type Grid struct {
	Month Month
	Rows  []GridRow
}

// MonthGrid lays out m as rows of weeks. Rows and cells come from the
// compound lookups, so repeated grids of the same month hit the cache.
func MonthGrid(m Month) Grid {
	g := Grid{Month: m, Rows: make([]GridRow, 0, m.SubunitRange().Count())}
	for idx, w := range m.Subunits() {
		row := GridRow{Index: idx, Week: w, Cells: make([]GridCell, 0, w.SubunitRange().Count())}
		for _, d := range w.Subunits() {
			row.Cells = append(row.Cells, GridCell{
				Day:     d,
				InMonth: d.Year() == m.Year() && d.Month() == m.Month(),
			})
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// Headers returns the weekday symbols in grid column order.
func (g Grid) Headers(style Style, standalone bool) []string {
	if len(g.Rows) == 0 {
		return nil
	}
	out := make([]string, 0, len(g.Rows[0].Cells))
	for _, c := range g.Rows[0].Cells {
		out = append(out, c.Day.Symbol(style, standalone))
	}
	return out
}
