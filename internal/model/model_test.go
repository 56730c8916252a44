package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"
)

func TestStepStatusIsTerminal(t *testing.T) {
	cases := []struct {
		status   StepStatus
		terminal bool
	}{
		{StepStatusPending, false},
		{StepStatusRunning, false},
		{StepStatusValidating, false},
		{StepStatusRetrying, false},
		{StepStatusCompleted, true},
		{StepStatusBacktracked, true},
		{StepStatusFailed, true},
	}
	for _, tc := range cases {
		if got := tc.status.IsTerminal(); got != tc.terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultStateDir, cfg.Project.StateDir)
	assert.Equal(t, "openai", cfg.Responder.Provider)
	assert.Equal(t, DefaultMaxRetries, cfg.Execution.MaxRetries)
	assert.NotEmpty(t, cfg.Execution.DenyPatterns)
	assert.Equal(t, DefaultSearchMaxResults, cfg.Search.MaxResults)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Execution.MaxRetries = 2
	cfg.Responder.Model = "gpt-4o-mini"
	cfg.ApplyDefaults()

	assert.Equal(t, 2, cfg.Execution.MaxRetries)
	assert.Equal(t, "gpt-4o-mini", cfg.Responder.Model)
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	require.True(t, strings.HasPrefix(a, "run_"))
	require.Len(t, a, len("run_")+8)
	assert.NotEqual(t, a, b)
}

func TestRunRecordYAMLRoundTrip(t *testing.T) {
	rec := RunRecord{
		SchemaVersion: RunRecordSchemaVersion,
		FileType:      RunRecordFileType,
		RunID:         NewRunID(),
		PlanSummary:   "two step plan",
		StepOutputs: []StepOutput{
			{
				StepID:  1,
				Title:   "Setup",
				Content: "created files",
				FileEdits: []FileEditResult{
					{FilePath: "main.go", Success: true, Message: "created"},
				},
				Terminal: []ExecResult{
					{Command: "go build ./...", ExitCode: 0, Status: ExecStatusDone},
				},
				Validated: true,
				Attempts:  1,
			},
		},
		Summary: "1/1 steps validated",
	}

	data, err := yamlv3.Marshal(rec)
	require.NoError(t, err)

	var got RunRecord
	require.NoError(t, yamlv3.Unmarshal(data, &got))
	assert.Equal(t, rec, got)
}
