package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pos_emailer/internal/app"
	"pos_emailer/internal/infra/logger"
	"pos_emailer/internal/infra/scheduler"

	"github.com/spf13/cobra"
)

func scheduleCmd(configPath *string) *cobra.Command {
	var (
		cronSpec string
		runNow   bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the emailer on a cron schedule until interrupted",
		Long: `Keep the process alive and run one pass on every cron tick. Use this
instead of an external scheduler. The spec defaults to $CRON_SPEC (hourly).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cron") {
				cfg.CronSpec = cronSpec
			}

			router, err := buildRouter(cfg, false, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			job := app.ParseJob(cfg.Job)
			jobScheduler := scheduler.NewJobScheduler(func(ctx context.Context) {
				router.Run(ctx, job)
			}, logger.Log.WithField("component", "scheduler"), cfg.CronSpec, cfg.RunTimeout)

			if err := jobScheduler.Start(); err != nil {
				return err
			}
			logger.Log.WithField("next_run", jobScheduler.Next()).Info("Scheduler started")

			if runNow {
				jobScheduler.RunOnce()
			}

			// Graceful shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Log.Info("Shutting down...")
			jobScheduler.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "cron spec (overrides $CRON_SPEC)")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "run one pass immediately after starting")
	return cmd
}
