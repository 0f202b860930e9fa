package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"pos_emailer/internal/app"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errRunFailures = errors.New("run finished with failures")

func runCmd(configPath *string) *cobra.Command {
	var (
		job    string
		dryRun bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one notification pass and exit",
		Long: `Run one pass of the emailer.

The job selector decides which procedures run:
  faculty      - reviewer digests only
  pos-student  - student approval/rejection emails only
  (other)      - both, faculty first

By default the command exits 0 even when sends fail; use --strict to
exit non-zero when any procedure aborted or any email failed.

Examples:
  pos-emailer run
  pos-emailer run --job faculty --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("job") {
				cfg.Job = job
			}

			router, err := buildRouter(cfg, dryRun, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
			defer cancel()

			report := router.Run(ctx, app.ParseJob(cfg.Job))
			return finishRun(cmd.OutOrStdout(), report, strict)
		},
	}

	cmd.Flags().StringVar(&job, "job", "", "job selector: faculty, pos-student, or empty for both (overrides $job)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print rendered emails instead of sending them")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any notification failed")
	return cmd
}

// finishRun prints the per-procedure summary and decides the exit status.
// Failures only fail the command in strict mode.
func finishRun(out io.Writer, report *app.Report, strict bool) error {
	printReport(out, report)
	if strict && report.HasFailures() {
		return errRunFailures
	}
	return nil
}

func printReport(out io.Writer, report *app.Report) {
	for _, s := range report.Summaries {
		state := color.New(color.FgGreen).Sprint("OK    ")
		if s.Err != nil {
			state = color.New(color.FgRed).Sprint("ABORT ")
		} else if s.Count(app.OutcomeFailed) > 0 {
			state = color.New(color.FgYellow).Sprint("FAILED")
		}
		fmt.Fprintf(out, "%s %-8s sent=%d skipped=%d failed=%d notified=%v\n",
			state, s.Procedure,
			s.Count(app.OutcomeSent), s.Count(app.OutcomeSkipped), s.Count(app.OutcomeFailed),
			s.NotifiedPlanIDs())
	}
}
