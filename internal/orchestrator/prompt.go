package orchestrator

import (
	"fmt"
	"strings"

	"github.com/msageha/stagehand/internal/model"
)

// actionProtocol tells the responder the exact markers the extractor
// recognizes. Kept verbatim-stable: downstream parsing depends on it.
const actionProtocol = `When you need to act on the project, use these forms:
- Edit or create a file: a fenced code block whose first line is a comment "filepath: <path>". Use "...existing code..." (as a comment line) to stand for unchanged regions of an existing file.
- Run a shell command: a line "RUN_TERMINAL: <command>", or a fenced bash/sh/zsh block.
- Look up files: a line "SEARCH_FILE: <glob pattern>".`

// BuildPlanPrompt asks for a structured plan for the user's request.
func BuildPlanPrompt(userPrompt string) string {
	var b strings.Builder
	b.WriteString("Break the following request into an ordered execution plan.\n\n")
	b.WriteString("Request: " + userPrompt + "\n\n")
	b.WriteString(`Respond with a fenced json block of this shape:
{"plan": {"summary": "...", "steps": [{"id": 1, "title": "...", "objective": "...", "inputNeeded": []}]}}
`)
	b.WriteString("If the request is trivial enough for a single action, you may instead answer with the actions directly.\n\n")
	b.WriteString(actionProtocol)
	b.WriteString("\n")
	return b.String()
}

// BuildStepPrompt embeds one step and a textual summary of everything
// earlier steps produced.
func BuildStepPrompt(step model.Step, prior []model.StepOutput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Execute step %d of the plan.\n\n", step.ID)
	fmt.Fprintf(&b, "Title: %s\nObjective: %s\n", step.Title, step.Objective)
	if len(step.InputNeeded) > 0 {
		fmt.Fprintf(&b, "Input needed: %s\n", strings.Join(step.InputNeeded, ", "))
	}

	if len(prior) > 0 {
		b.WriteString("\nPrevious step outputs:\n")
		for _, out := range prior {
			fmt.Fprintf(&b, "\nStep %d (%s):\n", out.StepID, out.Title)
			for _, f := range out.FileEdits {
				outcome := "failed"
				if f.Success {
					outcome = "ok"
				}
				fmt.Fprintf(&b, "- file %s: %s\n", f.FilePath, outcome)
			}
			for _, e := range out.Terminal {
				fmt.Fprintf(&b, "- ran %q (exit %d)\n", e.Command, e.ExitCode)
			}
			for _, e := range out.FixExecution {
				fmt.Fprintf(&b, "- fix %q (exit %d)\n", e.Command, e.ExitCode)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(actionProtocol)
	b.WriteString("\n")
	return b.String()
}
