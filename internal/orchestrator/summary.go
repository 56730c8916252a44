package orchestrator

import (
	"fmt"
	"strings"

	"github.com/msageha/stagehand/internal/model"
	yamlutil "github.com/msageha/stagehand/internal/yaml"
)

// BuildSummary renders the aggregate run outcome: per step, every file
// edit, terminal command, and fix command with its result. Unresolved
// steps are flagged explicitly; there is no silent failure mode.
func BuildSummary(p *model.Plan, outputs []model.StepOutput) string {
	var b strings.Builder

	validated := 0
	for _, out := range outputs {
		if out.Validated {
			validated++
		}
	}
	fmt.Fprintf(&b, "Plan: %s\n", p.Summary)
	fmt.Fprintf(&b, "Validated %d/%d steps.\n", validated, len(outputs))

	for _, out := range outputs {
		status := "NOT VALIDATED"
		if out.Validated {
			status = "validated"
		}
		fmt.Fprintf(&b, "\nStep %d: %s — %s (%d attempt(s))\n", out.StepID, out.Title, status, out.Attempts)

		for _, f := range out.FileEdits {
			outcome := "failed"
			if f.Success {
				outcome = "ok"
			}
			fmt.Fprintf(&b, "  file %s: %s (%s)\n", f.FilePath, outcome, f.Message)
		}
		for _, e := range out.Terminal {
			fmt.Fprintf(&b, "  ran %s: %s (exit %d)\n", e.Command, e.Status, e.ExitCode)
		}
		for _, e := range out.FixExecution {
			fmt.Fprintf(&b, "  fix %s: %s (exit %d)\n", e.Command, e.Status, e.ExitCode)
		}
		if !out.Validated && out.Attempts > 1 {
			// Attempts counts the initial validation; the notice
			// counts retries.
			fmt.Fprintf(&b, "  not validated after %d attempts\n", out.Attempts-1)
		} else if !out.Validated {
			b.WriteString("  not validated\n")
		}
	}
	return b.String()
}

func writeRecord(path string, record *model.RunRecord) error {
	return yamlutil.AtomicWrite(path, record)
}

// LoadRecord reads a persisted run record back, validating its header.
func LoadRecord(path string) (*model.RunRecord, error) {
	if err := yamlutil.ValidateSchemaHeader(path, model.RunRecordFileType); err != nil {
		return nil, err
	}
	var record model.RunRecord
	if err := yamlutil.Read(path, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
