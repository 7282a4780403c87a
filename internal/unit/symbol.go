package unit

import "calunit/internal/calsys"

// symbol looks up entry ord of the calendar's c table.
func symbol(cal *calsys.Handle, c calsys.Component, ord int, style calsys.Style, standalone bool) string {
	table := cal.System().Symbols(c, style, standalone)
	if ord < 0 || ord >= len(table) {
		precondition("symbol", "no %s %s symbol at %d (table of %d)", style, c, ord, len(table))
	}
	return table[ord]
}

// Style re-exports calsys.Style for callers that only import unit.
type Style = calsys.Style

const (
	StyleNormal    = calsys.StyleNormal
	StyleShort     = calsys.StyleShort
	StyleVeryShort = calsys.StyleVeryShort
)
