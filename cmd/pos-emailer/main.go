package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "pos-emailer",
		Short: "Plan of Study email notifier",
		Long: `pos-emailer scans Plan of Study approval records and emails the people
who need to hear about them: students once their plan is approved or
rejected, and reviewers with a digest of the plans waiting on them.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file (environment variables take precedence)")

	rootCmd.AddCommand(runCmd(&configPath))
	rootCmd.AddCommand(scheduleCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
