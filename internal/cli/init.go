package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/msageha/stagehand/internal/setup"
)

var initName string

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize stagehand.yaml and the state directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := setup.Run(dir, initName); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		abs, _ := filepath.Abs(dir)
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized stagehand in %s\n", abs)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "project name (defaults to directory basename)")
}
