package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msageha/stagehand/internal/orchestrator"
	"github.com/msageha/stagehand/internal/plan"
	"github.com/msageha/stagehand/internal/responder"
)

var planCmd = &cobra.Command{
	Use:   "plan <request>",
	Short: "Show the plan for a request without executing it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(false)
		if err != nil {
			return err
		}
		defer s.close()

		prompt := strings.Join(args, " ")
		res, err := s.resp.Generate(cmd.Context(), orchestrator.BuildPlanPrompt(prompt), responder.Options{})
		if err != nil {
			return fmt.Errorf("plan: %w", err)
		}

		p := plan.Extract(res.Content)
		if p == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No structured plan; the request would run as a single step:")
			fmt.Fprintf(cmd.OutOrStdout(), "  1. %s\n", prompt)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Plan: %s\n", p.Summary)
		for _, step := range p.Steps {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s\n", step.ID, step.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "     %s\n", step.Objective)
			if len(step.InputNeeded) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "     needs: %s\n", strings.Join(step.InputNeeded, ", "))
			}
		}
		return nil
	},
}
