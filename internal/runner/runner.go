// Package runner executes shell commands under a permission-gated
// policy, capturing output. Command failures are captured as data in
// the returned ExecResult; Run never reports them as errors.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"time"

	"github.com/msageha/stagehand/internal/events"
	"github.com/msageha/stagehand/internal/model"
)

// Runner executes one shell command at a time in a fixed working
// directory. It is stateless per call; the only cross-call state is the
// persisted allow flag behind the Gate.
type Runner struct {
	workDir   string
	gate      *Gate
	bus       *events.Bus
	denyRules []*regexp.Regexp
	timeout   time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithBus attaches the progress event bus. In terminal display mode
// each command is echoed as an event before it runs.
func WithBus(bus *events.Bus) Option {
	return func(r *Runner) { r.bus = bus }
}

// WithTimeout bounds each command. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithDenyPatterns blocks commands matching any of the given regexps.
// Invalid patterns are skipped.
func WithDenyPatterns(patterns []string) Option {
	return func(r *Runner) {
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				continue
			}
			r.denyRules = append(r.denyRules, re)
		}
	}
}

func New(workDir string, gate *Gate, opts ...Option) *Runner {
	r := &Runner{workDir: workDir, gate: gate}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a single command via the shell and captures its outcome.
// A deny-rule match, a spawn failure, and a non-zero exit all land in
// the result; the returned struct is always usable.
func (r *Runner) Run(ctx context.Context, command string, display Mode) model.ExecResult {
	res := model.ExecResult{Command: command}

	for _, rule := range r.denyRules {
		if rule.MatchString(command) {
			res.Status = model.ExecStatusError
			res.ExitCode = -1
			res.Error = "blocked by deny rule: " + rule.String()
			return res
		}
	}

	if display == ModeTerminal && r.bus != nil {
		r.bus.Publish(events.EventCommandStarted, map[string]interface{}{
			"command": command,
		})
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	switch e := err.(type) {
	case nil:
		res.ExitCode = 0
		res.Status = model.ExecStatusDone
	case *exec.ExitError:
		res.ExitCode = e.ExitCode()
		res.Status = model.ExecStatusError
	default:
		res.ExitCode = -1
		res.Status = model.ExecStatusError
		res.Error = err.Error()
	}

	if r.bus != nil {
		r.bus.Publish(events.EventCommandFinished, map[string]interface{}{
			"command":   command,
			"exit_code": res.ExitCode,
			"status":    string(res.Status),
		})
	}
	return res
}

// RunBatch resolves the permission mode once for the whole batch, then
// executes sequentially. A cancel decision marks every command skipped
// without execution; commands already finished are unaffected.
func (r *Runner) RunBatch(ctx context.Context, commands []string) []model.ExecResult {
	if len(commands) == 0 {
		return nil
	}

	mode := ModeCancel
	if r.gate != nil {
		m, err := r.gate.Decide(ctx, commands)
		if err == nil {
			mode = m
		}
	}

	results := make([]model.ExecResult, 0, len(commands))
	if mode == ModeCancel {
		for _, c := range commands {
			results = append(results, model.ExecResult{
				Command: c,
				Status:  model.ExecStatusSkipped,
			})
		}
		return results
	}

	for _, c := range commands {
		results = append(results, r.Run(ctx, c, mode))
	}
	return results
}
