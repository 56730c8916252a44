// Package orchestrator drives the plan execution loop: one step at a
// time, in plan order, each step generated, applied, validated, and
// retried before the next begins. A failed step never aborts the run;
// its unresolved remediation is merged into the next step's objective
// or flagged in the final summary.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/msageha/stagehand/internal/events"
	"github.com/msageha/stagehand/internal/extract"
	"github.com/msageha/stagehand/internal/model"
	"github.com/msageha/stagehand/internal/oracle"
	"github.com/msageha/stagehand/internal/plan"
	"github.com/msageha/stagehand/internal/responder"
	"github.com/msageha/stagehand/internal/runner"
	"github.com/msageha/stagehand/internal/workspace"
)

// Orchestrator owns the mutable plan and the step output sequence for
// the duration of one run; nothing else mutates them.
type Orchestrator struct {
	Responder  responder.Responder
	Applier    *extract.Applier
	Oracle     *oracle.Client
	Runner     *runner.Runner
	Searcher   *workspace.Searcher
	Bus        *events.Bus
	MaxRetries int
	// StateDir, when set, receives a run record under runs/.
	StateDir string
}

func New(r responder.Responder, applier *extract.Applier, oc *oracle.Client, run *runner.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		Responder:  r,
		Applier:    applier,
		Oracle:     oc,
		Runner:     run,
		MaxRetries: model.DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithBus(bus *events.Bus) Option {
	return func(o *Orchestrator) { o.Bus = bus }
}

func WithSearcher(s *workspace.Searcher) Option {
	return func(o *Orchestrator) { o.Searcher = s }
}

func WithMaxRetries(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.MaxRetries = n
		}
	}
}

func WithStateDir(dir string) Option {
	return func(o *Orchestrator) { o.StateDir = dir }
}

// Run is the top-level entry: ask the responder for a plan, then
// execute it. When no plan can be extracted the request becomes a
// single implicit step so the same loop still applies.
func (o *Orchestrator) Run(ctx context.Context, userPrompt string) (*model.RunRecord, error) {
	res, err := o.Responder.Generate(ctx, BuildPlanPrompt(userPrompt), responder.Options{})

	var p *model.Plan
	if err == nil && res != nil {
		p = plan.Extract(res.Content)
	}
	if p == nil {
		p = &model.Plan{
			Summary: userPrompt,
			Steps: []model.Step{
				{ID: 1, Title: "Direct request", Objective: userPrompt, InputNeeded: []string{}},
			},
		}
	} else {
		o.publish(events.EventPlanExtracted, map[string]interface{}{
			"summary": p.Summary,
			"steps":   len(p.Steps),
		})
	}

	return o.ExecutePlan(ctx, p)
}

// ExecutePlan runs every step in order and returns the aggregate
// record. The error return covers only record persistence; step
// failures live inside the record.
func (o *Orchestrator) ExecutePlan(ctx context.Context, p *model.Plan) (*model.RunRecord, error) {
	record := &model.RunRecord{
		SchemaVersion: model.RunRecordSchemaVersion,
		FileType:      model.RunRecordFileType,
		RunID:         model.NewRunID(),
		PlanSummary:   p.Summary,
		StartedAt:     model.Timestamp(time.Now()),
	}

	o.publish(events.EventRunStarted, map[string]interface{}{
		"run_id": record.RunID,
		"steps":  len(p.Steps),
	})

	var outputs []model.StepOutput
	for i := range p.Steps {
		step := &p.Steps[i]
		var next *model.Step
		if i+1 < len(p.Steps) {
			next = &p.Steps[i+1]
		}
		outputs = append(outputs, o.executeStep(ctx, step, next, outputs, record.RunID))
	}

	record.StepOutputs = outputs
	record.Summary = BuildSummary(p, outputs)
	record.FinishedAt = model.Timestamp(time.Now())

	o.publish(events.EventRunCompleted, map[string]interface{}{
		"run_id":  record.RunID,
		"summary": record.Summary,
	})

	if o.StateDir != "" {
		if err := o.persist(record); err != nil {
			return record, fmt.Errorf("persist run record: %w", err)
		}
	}
	return record, nil
}

// executeStep runs one step through generate → apply → validate →
// retry, mutating next's objective when remediation backtracks.
func (o *Orchestrator) executeStep(ctx context.Context, step, next *model.Step, prior []model.StepOutput, runID string) model.StepOutput {
	o.publish(events.EventStepStarted, map[string]interface{}{
		"run_id":    runID,
		"step_id":   step.ID,
		"title":     step.Title,
		"objective": step.Objective,
	})

	content := o.generate(ctx, BuildStepPrompt(*step, prior))
	content = o.resolveSearches(ctx, content)

	output := model.StepOutput{
		StepID:  step.ID,
		Title:   step.Title,
		Content: content,
	}

	applied := o.Applier.Apply(ctx, content)
	output.FileEdits = applied.FileEdits
	output.Terminal = applied.Commands

	verdict := o.validate(ctx, *step, &output)
	retries := 0
	for !verdict.Completed && retries < o.MaxRetries {
		if len(verdict.FixCommands) > 0 {
			o.publish(events.EventFixAttempt, map[string]interface{}{
				"run_id":   runID,
				"step_id":  step.ID,
				"commands": verdict.FixCommands,
			})
			fixResults := o.Runner.RunBatch(ctx, verdict.FixCommands)
			output.FixExecution = append(output.FixExecution, fixResults...)
		}
		// Without fix commands this re-asks the oracle on unchanged
		// evidence, preserving the source behavior of letting it
		// change its mind. The retry bound keeps it finite.
		verdict = o.validate(ctx, *step, &output)
		retries++
	}
	output.Attempts = 1 + retries
	output.Validated = verdict.Completed

	switch {
	case verdict.Completed:
		o.publish(events.EventStepCompleted, map[string]interface{}{
			"run_id":   runID,
			"step_id":  step.ID,
			"attempts": output.Attempts,
		})
	case next != nil && len(verdict.FixCommands) > 0:
		remediation := remediationText(verdict)
		next.Objective = next.Objective + remediation
		o.publish(events.EventStepBacktracked, map[string]interface{}{
			"run_id":      runID,
			"step_id":     step.ID,
			"merged_into": next.ID,
			"remediation": remediation,
		})
	default:
		o.publish(events.EventStepFailed, map[string]interface{}{
			"run_id":  runID,
			"step_id": step.ID,
			"notice":  fmt.Sprintf("not validated after %d attempts", o.MaxRetries),
		})
	}
	return output
}

// validate always judges the union of original and fix-attempt command
// results.
func (o *Orchestrator) validate(ctx context.Context, step model.Step, output *model.StepOutput) model.ValidationVerdict {
	execs := make([]model.ExecResult, 0, len(output.Terminal)+len(output.FixExecution))
	execs = append(execs, output.Terminal...)
	execs = append(execs, output.FixExecution...)

	verdict := o.Oracle.Validate(ctx, step, execs, output.FileEdits)
	o.publish(events.EventVerdict, map[string]interface{}{
		"step_id":      step.ID,
		"completed":    verdict.Completed,
		"fix_commands": verdict.FixCommands,
		"notes":        verdict.Notes,
	})
	return verdict
}

// generate shields the loop from responder errors: the responder owns
// its fallbacks, and an error here degrades to empty content.
func (o *Orchestrator) generate(ctx context.Context, prompt string) string {
	res, err := o.Responder.Generate(ctx, prompt, responder.Options{})
	if err != nil || res == nil {
		return ""
	}
	return res.Content
}

// resolveSearches answers SEARCH_FILE markers and folds the matches
// back into the step content as File: blocks.
func (o *Orchestrator) resolveSearches(ctx context.Context, content string) string {
	if o.Searcher == nil {
		return content
	}
	patterns := extract.SearchPatterns(content)
	if len(patterns) == 0 {
		return content
	}

	var rendered string
	for _, pattern := range patterns {
		matches, err := o.Searcher.Search(pattern)
		if err != nil || len(matches) == 0 {
			continue
		}
		rendered += o.Searcher.RenderContext(matches)
	}
	if rendered == "" {
		return content
	}
	return content + "\n\n" + rendered
}

func remediationText(verdict model.ValidationVerdict) string {
	text := "\n\nUnresolved from previous step, address first:"
	for _, cmd := range verdict.FixCommands {
		text += "\n- " + cmd
	}
	if verdict.Notes != "" {
		text += "\nNotes: " + verdict.Notes
	}
	return text
}

func (o *Orchestrator) persist(record *model.RunRecord) error {
	dir := filepath.Join(o.StateDir, "runs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create runs dir: %w", err)
	}
	return writeRecord(filepath.Join(dir, record.RunID+".yaml"), record)
}

func (o *Orchestrator) publish(t events.EventType, data map[string]interface{}) {
	if o.Bus != nil {
		o.Bus.Publish(t, data)
	}
}
