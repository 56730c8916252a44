// Package status reports persisted run history from the state
// directory.
package status

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/msageha/stagehand/internal/model"
	"github.com/msageha/stagehand/internal/orchestrator"
	yamlutil "github.com/msageha/stagehand/internal/yaml"
)

// RunInfo is one row of run history.
type RunInfo struct {
	RunID       string `json:"run_id"`
	PlanSummary string `json:"plan_summary"`
	Steps       int    `json:"steps"`
	Validated   int    `json:"validated"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at"`
}

// List reads every run record under <state_dir>/runs, newest first.
// Unreadable or corrupted records are logged and skipped.
func List(stateDir string) ([]RunInfo, error) {
	runsDir := filepath.Join(stateDir, "runs")
	entries, err := os.ReadDir(runsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read runs dir: %w", err)
	}

	var runs []RunInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(runsDir, entry.Name())
		record, err := orchestrator.LoadRecord(path)
		if err != nil {
			log.Printf("status: skip %s: %v", entry.Name(), err)
			if qerr := yamlutil.Quarantine(stateDir, path); qerr != nil {
				log.Printf("status: quarantine %s: %v", entry.Name(), qerr)
			}
			continue
		}
		runs = append(runs, summarize(record))
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt > runs[j].StartedAt
	})
	return runs, nil
}

func summarize(record *model.RunRecord) RunInfo {
	validated := 0
	for _, out := range record.StepOutputs {
		if out.Validated {
			validated++
		}
	}
	return RunInfo{
		RunID:       record.RunID,
		PlanSummary: record.PlanSummary,
		Steps:       len(record.StepOutputs),
		Validated:   validated,
		StartedAt:   record.StartedAt,
		FinishedAt:  record.FinishedAt,
	}
}

// Run lists run history and prints it to w.
func Run(stateDir string, jsonOutput bool, w io.Writer) error {
	runs, err := List(stateDir)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-14s  %5s  %9s  %-20s  %s\n", "RUN", "STEPS", "VALIDATED", "STARTED", "PLAN")
	for _, r := range runs {
		plan := r.PlanSummary
		if len(plan) > 50 {
			plan = plan[:47] + "..."
		}
		fmt.Fprintf(w, "%-14s  %5d  %9d  %-20s  %s\n",
			r.RunID, r.Steps, r.Validated, r.StartedAt, plan)
	}
	return nil
}
