package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/msageha/stagehand/internal/config"
	"github.com/msageha/stagehand/internal/events"
	"github.com/msageha/stagehand/internal/extract"
	"github.com/msageha/stagehand/internal/lock"
	"github.com/msageha/stagehand/internal/model"
	"github.com/msageha/stagehand/internal/oracle"
	"github.com/msageha/stagehand/internal/orchestrator"
	"github.com/msageha/stagehand/internal/responder"
	"github.com/msageha/stagehand/internal/runner"
	"github.com/msageha/stagehand/internal/workspace"
)

// session is everything one CLI invocation needs wired together.
type session struct {
	cfg      model.Config
	stateDir string
	orch     *orchestrator.Orchestrator
	resp     responder.Responder
	run      *runner.Runner
	bus      *events.Bus
	audit    *events.AuditLogger
}

// newSession discovers the workspace, loads config, and assembles the
// orchestrator stack. alwaysAllow pre-approves command execution for
// this invocation without persisting the flag.
func newSession(alwaysAllow bool) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := workspace.FindRoot(cwd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Discover(root)
	if err != nil {
		return nil, err
	}

	stateDir := config.StatePath(cfg)
	bus := events.NewBus(0)

	// A broken audit log never blocks a run.
	audit, err := events.NewAuditLogger(filepath.Join(stateDir, "audit.jsonl"), 0)
	if err == nil {
		audit.Attach(bus)
	}

	resp := buildResponder(cfg.Responder)

	var store runner.Store
	store = runner.NewYAMLStore(filepath.Join(stateDir, "permissions.yaml"), nil)
	if cfg.Execution.AlwaysAllow || alwaysAllow {
		store = &preApprovedStore{}
	}
	gate := runner.NewGate(store, stdinPrompter{})

	run := runner.New(cfg.Project.Root, gate,
		runner.WithBus(bus),
		runner.WithTimeout(time.Duration(cfg.Execution.CommandTimeoutSec)*time.Second),
		runner.WithDenyPatterns(cfg.Execution.DenyPatterns),
	)

	applier := extract.NewApplier(cfg.Project.Root, run, bus)
	searcher := workspace.NewSearcher(cfg.Project.Root, cfg.Search.MaxResults, cfg.Search.MaxFileLines)

	orch := orchestrator.New(resp, applier, oracle.NewClient(resp), run,
		orchestrator.WithBus(bus),
		orchestrator.WithSearcher(searcher),
		orchestrator.WithMaxRetries(cfg.Execution.MaxRetries),
		orchestrator.WithStateDir(stateDir),
	)

	return &session{cfg: cfg, stateDir: stateDir, orch: orch, resp: resp, run: run, bus: bus, audit: audit}, nil
}

// lockRun takes the state-dir flock so two stagehand invocations never
// mutate the same workspace concurrently. The returned func releases it.
func (s *session) lockRun() (func(), error) {
	if err := os.MkdirAll(s.stateDir, 0755); err != nil {
		return nil, err
	}
	fl := lock.NewFileLock(filepath.Join(s.stateDir, "run.lock"))
	if err := fl.TryLock(); err != nil {
		return nil, err
	}
	return func() { _ = fl.Unlock() }, nil
}

// buildResponder selects the provider. A broken or absent API setup
// degrades to the mock so offline exploration still works; the oracle's
// conservative defaults keep that from silently "passing" steps.
func buildResponder(cfg model.ResponderConfig) responder.Responder {
	if cfg.Provider == "mock" {
		return responder.NewMock()
	}
	lc, err := responder.NewLangChain(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; falling back to mock responder\n", err)
		return responder.NewMock()
	}
	return responder.NewFallback(lc, responder.NewMock())
}

func (s *session) close() {
	if s.audit != nil {
		s.audit.Close()
	}
	s.bus.Close()
}

// preApprovedStore answers every permission check with yes.
type preApprovedStore struct{}

func (preApprovedStore) AlwaysAllow() (bool, error)  { return true, nil }
func (preApprovedStore) SetAlwaysAllow(v bool) error { return nil }
