package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/msageha/stagehand/internal/config"
	"github.com/msageha/stagehand/internal/status"
	"github.com/msageha/stagehand/internal/workspace"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show run history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := workspace.FindRoot(cwd)
		if err != nil {
			return err
		}
		cfg, err := config.Discover(root)
		if err != nil {
			return err
		}
		return status.Run(config.StatePath(cfg), statusJSON, cmd.OutOrStdout())
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}
