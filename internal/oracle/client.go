// Package oracle asks the responder to judge whether a step met its
// objective, and parses the structured verdict. Anything the oracle
// says that cannot be interpreted is treated as "not completed":
// failure to parse judgment must never pass for success.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/msageha/stagehand/internal/jsonutil"
	"github.com/msageha/stagehand/internal/model"
	"github.com/msageha/stagehand/internal/responder"
)

// Client builds judgment requests and interprets verdicts.
type Client struct {
	Responder responder.Responder
}

func NewClient(r responder.Responder) *Client {
	return &Client{Responder: r}
}

// Validate judges one step from its executed actions. The exec slice
// must already hold the union of original and fix-attempt results when
// re-validating after a fix.
func (c *Client) Validate(ctx context.Context, step model.Step, execs []model.ExecResult, fileEdits []model.FileEditResult) model.ValidationVerdict {
	prompt := BuildPrompt(step, execs, fileEdits)

	fallback := model.ValidationVerdict{StepID: step.ID, Completed: false, FixCommands: []string{}}

	res, err := c.Responder.Generate(ctx, prompt, responder.Options{})
	if err != nil || res == nil {
		fallback.Notes = "validation responder unavailable"
		return fallback
	}

	verdict, ok := ParseVerdict(res.Content)
	if !ok {
		fallback.Notes = "verdict unparseable, conservatively not completed"
		return fallback
	}
	verdict.StepID = step.ID
	if verdict.FixCommands == nil {
		verdict.FixCommands = []string{}
	}
	return verdict
}

// BuildPrompt enumerates the step, every command outcome, and every
// file edit, and instructs the responder to answer with only the
// verdict object.
func BuildPrompt(step model.Step, execs []model.ExecResult, fileEdits []model.FileEditResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are validating whether a step of an execution plan achieved its objective.\n\n")
	fmt.Fprintf(&b, "Step %d: %s\nObjective: %s\n\n", step.ID, step.Title, step.Objective)

	if len(execs) == 0 {
		b.WriteString("No commands were executed.\n")
	} else {
		b.WriteString("Executed commands:\n")
		for _, e := range execs {
			fmt.Fprintf(&b, "- command: %s\n  status: %s\n  exit code: %d\n", e.Command, e.Status, e.ExitCode)
			if e.Stdout != "" {
				fmt.Fprintf(&b, "  stdout: %s\n", truncate(e.Stdout, 2000))
			}
			if e.Stderr != "" {
				fmt.Fprintf(&b, "  stderr: %s\n", truncate(e.Stderr, 2000))
			}
			if e.Error != "" {
				fmt.Fprintf(&b, "  error: %s\n", e.Error)
			}
		}
	}

	if len(fileEdits) == 0 {
		b.WriteString("No files were edited.\n")
	} else {
		b.WriteString("File edits:\n")
		for _, f := range fileEdits {
			outcome := "failed"
			if f.Success {
				outcome = "succeeded"
			}
			fmt.Fprintf(&b, "- %s: %s (%s)\n", f.FilePath, outcome, f.Message)
		}
	}

	fmt.Fprintf(&b, "\nAnswer with ONLY a JSON object of this exact shape, no extra text:\n")
	fmt.Fprintf(&b, `{"stepId": %d, "completed": true|false, "fixCommands": ["shell command", ...], "notes": "short explanation"}`, step.ID)
	b.WriteString("\n")
	return b.String()
}

// rawVerdict distinguishes a missing completed field from an explicit
// false one; both map to not-completed, but only the former marks the
// verdict unparseable.
type rawVerdict struct {
	StepID      int      `json:"stepId"`
	Completed   *bool    `json:"completed"`
	FixCommands []string `json:"fixCommands"`
	Notes       string   `json:"notes"`
}

// ParseVerdict extracts the verdict object from responder text. Fenced
// block preferred, else the first balanced-brace substring. Returns
// ok=false when no candidate parses or the completed field is absent.
func ParseVerdict(text string) (model.ValidationVerdict, bool) {
	for _, candidate := range jsonutil.ObjectCandidates(text) {
		var raw rawVerdict
		if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
			continue
		}
		if raw.Completed == nil {
			continue
		}
		return model.ValidationVerdict{
			StepID:      raw.StepID,
			Completed:   *raw.Completed,
			FixCommands: raw.FixCommands,
			Notes:       raw.Notes,
		}, true
	}
	return model.ValidationVerdict{}, false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
