// Package cli implements the moneyball command-line entrypoint.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "moneyball",
		Short: "Shared-expense ledger and number baseball chat bot",
		Long: `moneyball runs a chat bot that tracks shared expenses in an append-only
ledger and hosts number baseball games.

Configuration is read from environment variables; see the run command.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
