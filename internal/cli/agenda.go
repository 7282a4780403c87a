package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"calunit/internal/config"
	"calunit/internal/ics"
	appLog "calunit/internal/log"
	"calunit/internal/unit"
)

var agendaDays int

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "List ICS events day by day starting at --date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if agendaDays <= 0 {
			return fmt.Errorf("--days must be positive, got %d", agendaDays)
		}
		at, err := referenceTime()
		if err != nil {
			return err
		}
		first := unit.DayContaining(at, env.cal)
		span := unit.NewSpan(first, first.Advanced(agendaDays-1))

		sources := make([]ics.Source, 0, len(env.cfg.ICS))
		for _, c := range env.cfg.ICS {
			sources = append(sources, ics.Source{ID: c.ID, Name: c.Name, Path: config.ResolvePath(flags.configPath, c.Path)})
		}

		ag, err := ics.LoadAgenda(sources, span)
		if err != nil {
			// Partial agendas are still printed.
			appLog.Warn("agenda incomplete", "error", err.Error())
		}
		printAgenda(cmd.OutOrStdout(), ag)
		return nil
	},
}

func init() {
	agendaCmd.Flags().IntVar(&agendaDays, "days", 7, "number of days to list")
	rootCmd.AddCommand(agendaCmd)
}

func printAgenda(w io.Writer, ag ics.Agenda) {
	for _, e := range ag.Entries {
		if len(e.Occurrences) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", e.Day.String(), e.Day.Symbol(unit.StyleShort, false))
		for _, o := range e.Occurrences {
			when := "all day    "
			if !o.AllDay {
				when = o.Start.Format("15:04") + "-" + o.End.Format("15:04")
			}
			fmt.Fprintf(w, "  %s  %s [%s]\n", when, o.Summary, o.SourceID)
		}
	}
	for _, uid := range ag.Truncated {
		fmt.Fprintf(w, "(truncated: %s)\n", uid)
	}
}
