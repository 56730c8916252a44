package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msageha/stagehand/internal/model"
	"github.com/msageha/stagehand/internal/runner"
)

func newTestApplier(t *testing.T) (*Applier, string) {
	t.Helper()
	root := t.TempDir()
	gate := runner.NewGate(&runner.MemoryStore{}, runner.PrompterFunc(
		func(ctx context.Context, commands []string) (runner.Mode, error) {
			return runner.ModeBackground, nil
		}))
	return NewApplier(root, runner.New(root, gate), nil), root
}

func TestApply_CreatesNewFile(t *testing.T) {
	a, root := newTestApplier(t)
	text := "```go\n// filepath: cmd/app/main.go\npackage main\n\nfunc main() {}\n```\n"

	res := a.Apply(context.Background(), text)
	require.Len(t, res.FileEdits, 1)
	assert.True(t, res.FileEdits[0].Success)
	assert.Equal(t, "created", res.FileEdits[0].Message)

	content, err := os.ReadFile(filepath.Join(root, "cmd", "app", "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "package main")
}

func TestApply_UpdatesExistingWithPlaceholder(t *testing.T) {
	a, root := newTestApplier(t)
	path := filepath.Join(root, "util.go")
	original := "package util\n\nfunc Old() {}"
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	text := "```go\n// filepath: util.go\n// ...existing code...\n\nfunc New() {}\n```\n"
	res := a.Apply(context.Background(), text)
	require.Len(t, res.FileEdits, 1)
	require.True(t, res.FileEdits[0].Success)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "func Old() {}")
	assert.Contains(t, string(content), "func New() {}")
}

func TestApply_StripsPlaceholderOnCreate(t *testing.T) {
	a, root := newTestApplier(t)
	text := "```go\n// filepath: fresh.go\n// ...existing code...\npackage fresh\n```\n"

	res := a.Apply(context.Background(), text)
	require.Len(t, res.FileEdits, 1)
	require.True(t, res.FileEdits[0].Success)

	content, err := os.ReadFile(filepath.Join(root, "fresh.go"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "existing code")
}

func TestApply_AbsolutePathUsedAsIs(t *testing.T) {
	a, _ := newTestApplier(t)
	other := t.TempDir()
	target := filepath.Join(other, "abs.txt")

	text := "```\n// filepath: " + target + "\nabsolute content\n```\n"
	res := a.Apply(context.Background(), text)
	require.Len(t, res.FileEdits, 1)
	assert.True(t, res.FileEdits[0].Success)
	assert.Equal(t, target, res.FileEdits[0].FilePath)
}

func TestApply_InstructionBlockGoesThroughPatchEngine(t *testing.T) {
	a, root := newTestApplier(t)
	path := filepath.Join(root, "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree"), 0644))

	text := "```\n// filepath: list.txt\nLine 2: TWO\nAdd at end: four\n```\n"
	res := a.Apply(context.Background(), text)
	require.Len(t, res.FileEdits, 1)
	require.True(t, res.FileEdits[0].Success)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\nthree\nfour", string(content))
}

func TestApply_OneFailureDoesNotAbortSiblings(t *testing.T) {
	a, root := newTestApplier(t)
	// First target is a directory, so the write fails.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blocked"), 0755))

	text := "```\n// filepath: blocked\nwould fail\n```\n" +
		"```\n// filepath: ok.txt\nfine\n```\n"
	res := a.Apply(context.Background(), text)
	require.Len(t, res.FileEdits, 2)
	assert.False(t, res.FileEdits[0].Success)
	assert.True(t, res.FileEdits[1].Success)
}

func TestApply_RunsCommandsBeforeFileEdits(t *testing.T) {
	a, root := newTestApplier(t)
	text := "RUN_TERMINAL: echo ran > marker.txt\n" +
		"```\n// filepath: note.txt\nnote\n```\n"

	res := a.Apply(context.Background(), text)
	require.Len(t, res.Commands, 1)
	assert.Equal(t, model.ExecStatusDone, res.Commands[0].Status)
	require.Len(t, res.FileEdits, 1)

	_, err := os.Stat(filepath.Join(root, "marker.txt"))
	assert.NoError(t, err)
}

func TestApply_IdempotentOnIdenticalInput(t *testing.T) {
	a, _ := newTestApplier(t)
	text := "```go\n// filepath: idem.go\npackage idem\n```\n"

	first := a.Apply(context.Background(), text)
	second := a.Apply(context.Background(), text)

	require.Len(t, first.FileEdits, 1)
	require.Len(t, second.FileEdits, 1)
	assert.Equal(t, first.FileEdits[0].Success, second.FileEdits[0].Success)
}
