package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	appLog "calunit/internal/log"
	"calunit/internal/unitcache"
	"calunit/internal/web"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listenAddr != "" {
			env.cfg.Listen = listenAddr
		}

		// Root context with cancellation on SIGINT/SIGTERM.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sched, err := startPurgeSchedule(env.cfg.Cache.PurgeCron, unitcache.Default())
		if err != nil {
			return err
		}
		if sched != nil {
			defer func() {
				<-sched.Stop().Done()
			}()
		}

		appLog.Info("calunit serving",
			"listen", env.cfg.Listen,
			"calendar", env.cal.String(),
			"purge_cron", env.cfg.Cache.PurgeCron,
		)
		srv := web.NewServer(env.cfg, flags.configPath, env.cal)
		if err := srv.Run(ctx); err != nil {
			return err
		}
		appLog.Info("calunit exiting")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP listen address (overrides config if set)")
	rootCmd.AddCommand(serveCmd)
}

// startPurgeSchedule runs reg.Purge on the cron spec. An empty spec
// disables the schedule and returns nil.
func startPurgeSchedule(spec string, reg *unitcache.Registry) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		before := reg.Len()
		reg.Purge()
		appLog.Info("scheduled unit cache purge", "before", before, "after", reg.Len())
	}); err != nil {
		return nil, fmt.Errorf("cache.purge_cron %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
