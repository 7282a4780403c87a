package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"calunit/internal/calsys"
	"calunit/internal/config"
	appLog "calunit/internal/log"
	"calunit/internal/unitcache"
	"calunit/internal/web"
)

var rootCmd = &cobra.Command{
	Use:           "calunit",
	Short:         "Calendar unit navigation",
	Long:          "calunit prints years, months, weeks and ICS agendas in a configurable calendar system, and serves them over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// flags holds persistent flag values.
var flags struct {
	configPath string
	date       string
	logLevel   string
	json       bool
}

// env is the state shared by subcommands after setup.
var env struct {
	cfg *config.Config
	cal *calsys.Handle
	now func() time.Time
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	env.now = time.Now

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "calunit.yaml", "path to config file (created with defaults if missing)")
	pf.StringVar(&flags.date, "date", "", "reference date as YYYY-MM-DD (default today)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.BoolVar(&flags.json, "json", false, "print JSON instead of text")
}

func setup() error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	lvl, ok := appLog.ParseLevel(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	appLog.SetLevel(lvl)

	cal, err := cfg.BuildCalendar()
	if err != nil {
		return err
	}
	if err := unitcache.Default().Configure(cfg.UnitCache()); err != nil {
		return fmt.Errorf("unit cache: %w", err)
	}

	env.cfg = cfg
	env.cal = cal
	appLog.Debug("effective config",
		"config_path", flags.configPath,
		"calendar", cal.String(),
		"cache_threshold", cfg.Cache.Threshold,
		"ics_count", len(cfg.ICS),
	)
	return nil
}

// referenceTime resolves --date in the calendar's timezone.
func referenceTime() (time.Time, error) {
	return web.ParseDate(flags.date, env.cal.System().Location(), env.now)
}
