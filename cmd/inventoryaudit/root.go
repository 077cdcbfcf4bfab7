package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventoryaudit",
		Short: "Audit the federal public website inventory",
		Long: `inventoryaudit audits the federal public website inventory.

It aggregates data-quality statistics per agency, compares the inventory
with the federal .gov domain registry, and classifies the site-scanning
dataset into candidates for addition, candidates for removal and scan errors.

Remote sources that cannot be downloaded are logged and the reports that
depend on them are skipped. Only an unreadable public inventory stops a run.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewReportsCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
