package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var applyYes bool

var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Extract and apply actions from responder-style text",
	Long: `Apply reads text containing action markers (filepath code blocks,
RUN_TERMINAL lines, shell blocks) from a file or stdin and applies them
to the workspace without involving a language model.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 && args[0] != "-" {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		s, err := newSession(applyYes)
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

		res := s.orch.Applier.Apply(cmd.Context(), string(data))

		failed := 0
		for _, f := range res.FileEdits {
			if !f.Success {
				failed++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nApplied %d file edit(s), ran %d command(s).\n",
			len(res.FileEdits), len(res.Commands))
		if failed > 0 {
			return fmt.Errorf("%d file edit(s) failed", failed)
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "allow command execution without prompting")
}
