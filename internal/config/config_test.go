package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msageha/stagehand/internal/model"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	assert.Equal(t, model.DefaultMaxRetries, cfg.Execution.MaxRetries)
	assert.Equal(t, "openai", cfg.Responder.Provider)
	assert.Equal(t, model.DefaultStateDir, cfg.Project.StateDir)
}

func TestLoad_PartialFileGetsDefaultsFilled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `project:
  name: demo
responder:
  provider: mock
execution:
  max_retries: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, "mock", cfg.Responder.Provider)
	assert.Equal(t, 3, cfg.Execution.MaxRetries)
	// Untouched sections still get defaults.
	assert.Equal(t, model.DefaultSearchMaxResults, cfg.Search.MaxResults)
	assert.NotEmpty(t, cfg.Execution.DenyPatterns)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("project: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDiscover_FillsRoot(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Project.Root)
}

func TestStatePath(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Project.Root = "/proj"
	assert.Equal(t, filepath.Join("/proj", model.DefaultStateDir), StatePath(cfg))

	cfg.Project.StateDir = "/var/lib/stagehand"
	assert.Equal(t, "/var/lib/stagehand", StatePath(cfg))
}
