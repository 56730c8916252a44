package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var runYes bool

var runCmd = &cobra.Command{
	Use:   "run <request>",
	Short: "Plan and execute a request end to end",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(runYes)
		if err != nil {
			return err
		}
		defer s.close()

		release, err := s.lockRun()
		if err != nil {
			return err
		}
		defer release()

		unsub := attachProgress(s.bus, cmd.OutOrStdout())
		defer unsub()

		record, err := s.orch.Run(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), record.Summary)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "allow command execution without prompting")
}
