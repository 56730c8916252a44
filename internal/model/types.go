// Package model defines the data structures for Stagehand's plans, step
// outputs, execution results, and configuration.
package model

// Plan is an ordered sequence of steps extracted from responder output.
// Step order is execution order; there is no dependency graph.
type Plan struct {
	Summary string `yaml:"summary" json:"summary"`
	Steps   []Step `yaml:"steps" json:"steps"`
}

// Step is one unit of plan work. Objective is mutable after creation:
// the orchestrator may append remediation text from a failed earlier
// step to a future step's objective.
type Step struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Objective   string   `yaml:"objective" json:"objective"`
	InputNeeded []string `yaml:"input_needed,omitempty" json:"inputNeeded,omitempty"`
}

// ExecStatus is the outcome classification of one command execution.
type ExecStatus string

const (
	ExecStatusDone    ExecStatus = "done"
	ExecStatusError   ExecStatus = "error"
	ExecStatusSkipped ExecStatus = "skipped"
)

// ExecResult captures the outcome of one shell command. Failures are
// data, not errors: a non-zero exit or a spawn failure both land here.
type ExecResult struct {
	Command  string     `yaml:"command" json:"command"`
	Stdout   string     `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Stderr   string     `yaml:"stderr,omitempty" json:"stderr,omitempty"`
	ExitCode int        `yaml:"exit_code" json:"exitCode"`
	Status   ExecStatus `yaml:"status" json:"status"`
	Error    string     `yaml:"error,omitempty" json:"error,omitempty"`
}

// FileEditResult captures the outcome of one file patch or creation.
type FileEditResult struct {
	FilePath string `yaml:"file_path" json:"filePath"`
	Success  bool   `yaml:"success" json:"success"`
	Message  string `yaml:"message" json:"message"`
}

// StepOutput accumulates everything produced while executing one step.
// The orchestrator appends one per step; later steps see earlier outputs
// as context. Nothing here survives past the end of a run except the
// persisted RunRecord.
type StepOutput struct {
	StepID       int              `yaml:"step_id" json:"stepId"`
	Title        string           `yaml:"title" json:"title"`
	Content      string           `yaml:"content" json:"content"`
	FileEdits    []FileEditResult `yaml:"file_edits,omitempty" json:"fileEdits,omitempty"`
	Terminal     []ExecResult     `yaml:"terminal,omitempty" json:"terminal,omitempty"`
	FixExecution []ExecResult     `yaml:"fix_execution,omitempty" json:"fixExecution,omitempty"`
	Validated    bool             `yaml:"validated" json:"validated"`
	Attempts     int              `yaml:"attempts" json:"attempts"`
}

// ValidationVerdict is the oracle's judgment of one step. Produced fresh
// on every validation call and never mutated, only superseded.
type ValidationVerdict struct {
	StepID      int      `yaml:"step_id" json:"stepId"`
	Completed   bool     `yaml:"completed" json:"completed"`
	FixCommands []string `yaml:"fix_commands,omitempty" json:"fixCommands,omitempty"`
	Notes       string   `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// StepStatus tracks a step through the orchestrator's state machine.
type StepStatus string

const (
	StepStatusPending     StepStatus = "pending"
	StepStatusRunning     StepStatus = "running"
	StepStatusValidating  StepStatus = "validating"
	StepStatusRetrying    StepStatus = "retrying"
	StepStatusCompleted   StepStatus = "completed"
	StepStatusBacktracked StepStatus = "backtracked"
	StepStatusFailed      StepStatus = "failed"
)

var terminalStepStatuses = map[StepStatus]bool{
	StepStatusCompleted:   true,
	StepStatusBacktracked: true,
	StepStatusFailed:      true,
}

// IsTerminal reports whether the status is final for a step.
func (s StepStatus) IsTerminal() bool {
	return terminalStepStatuses[s]
}
