package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/msageha/stagehand/internal/events"
	"github.com/msageha/stagehand/internal/model"
	"github.com/msageha/stagehand/internal/patch"
	"github.com/msageha/stagehand/internal/runner"
	"github.com/msageha/stagehand/internal/workspace"
)

// Applier turns extracted actions into side effects: commands through
// the runner, file edits through the patch engine or whole-file writes.
type Applier struct {
	Root   string
	Runner *runner.Runner
	Bus    *events.Bus
}

// Result is everything one Apply call produced.
type Result struct {
	FileEdits []model.FileEditResult
	Commands  []model.ExecResult
}

func NewApplier(root string, r *runner.Runner, bus *events.Bus) *Applier {
	return &Applier{Root: root, Runner: r, Bus: bus}
}

// Apply extracts and executes every action in text. Commands run before
// file edits; within each group, source order is preserved. One file's
// failure never aborts its siblings.
func (a *Applier) Apply(ctx context.Context, text string) Result {
	var res Result

	if commands := Commands(text); len(commands) > 0 && a.Runner != nil {
		res.Commands = a.Runner.RunBatch(ctx, commands)
	}

	for _, edit := range FileEdits(text) {
		fer := a.applyFileEdit(edit)
		res.FileEdits = append(res.FileEdits, fer)
		if a.Bus != nil {
			a.Bus.Publish(events.EventFileEdited, map[string]interface{}{
				"file_path": fer.FilePath,
				"success":   fer.Success,
				"message":   fer.Message,
			})
		}
	}
	return res
}

func (a *Applier) applyFileEdit(edit FileEdit) model.FileEditResult {
	path := workspace.Resolve(a.Root, edit.Path)
	res := model.FileEditResult{FilePath: path}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		res = a.updateExisting(path, edit.Content, string(existing))
	case os.IsNotExist(err):
		res = a.createNew(path, edit.Content)
	default:
		res.Success = false
		res.Message = fmt.Sprintf("read %s: %v", path, err)
	}
	return res
}

// updateExisting rewrites a file that already exists. A block made
// purely of line-oriented edit instructions goes through the patch
// engine; anything else replaces the whole content after placeholder
// expansion. Either way the file is written once, as a single batch.
func (a *Applier) updateExisting(path, content, original string) model.FileEditResult {
	res := model.FileEditResult{FilePath: path}

	if !HasPlaceholder(content) && isInstructionBlock(content) {
		pr := patch.ParseAndApply(original, content)
		if err := os.WriteFile(path, []byte(pr.NewText), 0644); err != nil {
			res.Message = fmt.Sprintf("write %s: %v", path, err)
			return res
		}
		res.Success = true
		res.Message = pr.Message
		if len(pr.Warnings) > 0 {
			res.Message += "; " + strings.Join(pr.Warnings, "; ")
		}
		return res
	}

	final := ExpandPlaceholders(content, original)
	if err := os.WriteFile(path, []byte(final), 0644); err != nil {
		res.Message = fmt.Sprintf("write %s: %v", path, err)
		return res
	}
	res.Success = true
	res.Message = "updated"
	return res
}

func (a *Applier) createNew(path, content string) model.FileEditResult {
	res := model.FileEditResult{FilePath: path}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		res.Message = fmt.Sprintf("create parent dirs for %s: %v", path, err)
		return res
	}
	final := StripPlaceholders(content)
	if err := os.WriteFile(path, []byte(final), 0644); err != nil {
		res.Message = fmt.Sprintf("write %s: %v", path, err)
		return res
	}
	res.Success = true
	res.Message = "created"
	return res
}

// isInstructionBlock reports whether every non-blank line of content
// parses as an edit instruction. Mixed blocks are treated as literal
// file content, never fed to the patch engine.
func isInstructionBlock(content string) bool {
	instructions := patch.ParseInstructions(content)
	if len(instructions) == 0 {
		return false
	}
	nonBlank := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}
	}
	return len(instructions) == nonBlank
}
