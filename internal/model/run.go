package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord is the persisted outcome of one orchestrated run, written
// to <state_dir>/runs/<run_id>.yaml when the run ends.
type RunRecord struct {
	SchemaVersion int          `yaml:"schema_version"`
	FileType      string       `yaml:"file_type"`
	RunID         string       `yaml:"run_id"`
	PlanSummary   string       `yaml:"plan_summary"`
	StepOutputs   []StepOutput `yaml:"step_outputs"`
	Summary       string       `yaml:"summary"`
	StartedAt     string       `yaml:"started_at"`
	FinishedAt    string       `yaml:"finished_at"`
}

const (
	RunRecordSchemaVersion = 1
	RunRecordFileType      = "run_record"
)

// NewRunID returns a fresh run identifier, e.g. "run_1b4e28ba".
func NewRunID() string {
	return fmt.Sprintf("run_%s", uuid.NewString()[:8])
}

// Timestamp formats t the way all stagehand state files store time.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
