package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"calunit/internal/unit"
	"calunit/internal/web"
)

var yearCmd = &cobra.Command{
	Use:   "year",
	Short: "List the months of the year containing --date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := referenceTime()
		if err != nil {
			return err
		}
		y := unit.YearContaining(at, env.cal)
		if flags.json {
			return printJSON(cmd.OutOrStdout(), web.NewYearView(y))
		}
		printYear(cmd.OutOrStdout(), y)
		return nil
	},
}

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Print the week grid of the month containing --date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := referenceTime()
		if err != nil {
			return err
		}
		m := unit.MonthContaining(at, env.cal)
		if flags.json {
			return printJSON(cmd.OutOrStdout(), web.NewMonthView(m))
		}
		printMonth(cmd.OutOrStdout(), m)
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "List the days of the week containing --date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := referenceTime()
		if err != nil {
			return err
		}
		w := unit.WeekContaining(at, env.cal)
		if flags.json {
			return printJSON(cmd.OutOrStdout(), web.NewWeekView(w))
		}
		printWeek(cmd.OutOrStdout(), w)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(yearCmd, monthCmd, weekCmd)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYear(w io.Writer, y unit.Year) {
	fmt.Fprintln(w, y.String())
	for idx, m := range y.Subunits() {
		fmt.Fprintf(w, "%3d  %-12s %3d days  %d weeks\n",
			idx, m.Symbol(unit.StyleNormal, true), m.Days().Count(), m.SubunitRange().Count())
	}
}

// printMonth renders a cal(1)-style grid. Days of neighbouring months are
// left blank.
func printMonth(w io.Writer, m unit.Month) {
	g := unit.MonthGrid(m)
	fmt.Fprintf(w, "%s %d\n", m.Symbol(unit.StyleNormal, true), m.Year())

	var b strings.Builder
	for _, h := range g.Headers(unit.StyleShort, true) {
		fmt.Fprintf(&b, "%4s", truncate(h, 3))
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for _, row := range g.Rows {
		b.Reset()
		for _, c := range row.Cells {
			if c.InMonth {
				fmt.Fprintf(&b, "%4d", c.Day.DayOfMonth())
			} else {
				b.WriteString("    ")
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func printWeek(w io.Writer, wk unit.Week) {
	for _, d := range wk.Subunits() {
		fmt.Fprintf(w, "%-4s %s\n", truncate(d.Symbol(unit.StyleShort, true), 3), d.String())
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
