package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/msageha/stagehand/internal/lock"
	yamlutil "github.com/msageha/stagehand/internal/yaml"
)

// Mode is the user's decision for one batch of extracted commands.
type Mode string

const (
	// ModeUnknown means the user has not been asked yet.
	ModeUnknown Mode = "unknown"
	// ModeTerminal runs the batch and echoes commands to the terminal.
	ModeTerminal Mode = "terminal"
	// ModeBackground runs the batch capturing output only.
	ModeBackground Mode = "background"
	// ModeAlwaysTerminal is ModeTerminal plus persisting the allow flag
	// so future batches skip the prompt.
	ModeAlwaysTerminal Mode = "always_terminal"
	// ModeCancel marks every pending command in the batch skipped.
	ModeCancel Mode = "cancel"
)

// Prompter asks the user how to run a batch of commands. Implemented by
// the CLI; tests inject fakes.
type Prompter interface {
	Prompt(ctx context.Context, commands []string) (Mode, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, commands []string) (Mode, error)

func (f PrompterFunc) Prompt(ctx context.Context, commands []string) (Mode, error) {
	return f(ctx, commands)
}

// Store persists the "always allow terminal execution" flag.
type Store interface {
	AlwaysAllow() (bool, error)
	SetAlwaysAllow(v bool) error
}

const permissionLockKey = "permissions"

// PermissionState is the on-disk shape of the persisted flag.
type PermissionState struct {
	SchemaVersion int    `yaml:"schema_version"`
	FileType      string `yaml:"file_type"`
	AlwaysAllow   bool   `yaml:"always_allow"`
	UpdatedAt     string `yaml:"updated_at"`
}

// YAMLStore keeps the flag in <state_dir>/permissions.yaml, written
// atomically and guarded by a keyed mutex so the core stays correct
// when embedded in a multi-session server.
type YAMLStore struct {
	path    string
	lockMap *lock.MutexMap
}

func NewYAMLStore(path string, lockMap *lock.MutexMap) *YAMLStore {
	if lockMap == nil {
		lockMap = lock.NewMutexMap()
	}
	return &YAMLStore{path: path, lockMap: lockMap}
}

func (s *YAMLStore) AlwaysAllow() (bool, error) {
	s.lockMap.Lock(permissionLockKey)
	defer s.lockMap.Unlock(permissionLockKey)

	// Missing file means "never asked".
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return false, nil
	}

	var state PermissionState
	if err := yamlutil.Read(s.path, &state); err != nil {
		// Corrupted flag files are quarantined and reset to the safe
		// default: ask again.
		if rerr := yamlutil.RecoverCorruptedFile(filepath.Dir(s.path), s.path, "permission_state"); rerr != nil {
			return false, err
		}
		return false, nil
	}
	return state.AlwaysAllow, nil
}

func (s *YAMLStore) SetAlwaysAllow(v bool) error {
	s.lockMap.Lock(permissionLockKey)
	defer s.lockMap.Unlock(permissionLockKey)

	state := PermissionState{
		SchemaVersion: yamlutil.CurrentSchemaVersion,
		FileType:      "permission_state",
		AlwaysAllow:   v,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	return yamlutil.AtomicWrite(s.path, state)
}

// MemoryStore is an in-process Store for tests and one-shot runs.
type MemoryStore struct {
	allow bool
}

func (s *MemoryStore) AlwaysAllow() (bool, error) { return s.allow, nil }
func (s *MemoryStore) SetAlwaysAllow(v bool) error {
	s.allow = v
	return nil
}

// Gate decides once per batch how extracted commands may execute.
type Gate struct {
	store    Store
	prompter Prompter
	group    singleflight.Group
}

func NewGate(store Store, prompter Prompter) *Gate {
	return &Gate{store: store, prompter: prompter}
}

// Decide resolves the permission mode for one batch. The persisted
// allow flag short-circuits straight to terminal mode. Concurrent
// batches share a single prompt via singleflight.
func (g *Gate) Decide(ctx context.Context, commands []string) (Mode, error) {
	allowed, err := g.store.AlwaysAllow()
	if err != nil {
		return ModeUnknown, fmt.Errorf("read permission flag: %w", err)
	}
	if allowed {
		return ModeTerminal, nil
	}
	if g.prompter == nil {
		return ModeCancel, nil
	}

	v, err, _ := g.group.Do("prompt", func() (any, error) {
		mode, err := g.prompter.Prompt(ctx, commands)
		if err != nil {
			return ModeUnknown, err
		}
		if mode == ModeAlwaysTerminal {
			if err := g.store.SetAlwaysAllow(true); err != nil {
				return ModeUnknown, fmt.Errorf("persist allow flag: %w", err)
			}
			mode = ModeTerminal
		}
		return mode, nil
	})
	if err != nil {
		return ModeUnknown, err
	}
	return v.(Mode), nil
}
