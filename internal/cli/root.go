// Package cli provides the stagehand command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "Stagehand - plan-driven step orchestrator",
	Long: `Stagehand breaks a request into an ordered plan, executes each step
through a language model, applies the extracted file edits and shell
commands, and validates every step before moving on.`,
	SilenceUsage: true,
	Version:      version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(statusCmd)
}
