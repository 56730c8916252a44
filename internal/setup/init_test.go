package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msageha/stagehand/internal/config"
	"github.com/msageha/stagehand/internal/model"
)

func TestRun_CreatesConfigAndStateDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Run(dir, "myproject"))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "myproject", cfg.Project.Name)
	assert.Equal(t, model.DefaultMaxRetries, cfg.Execution.MaxRetries)

	for _, d := range []string{"runs", "archive", "quarantine"} {
		info, err := os.Stat(filepath.Join(dir, model.DefaultStateDir, d))
		require.NoError(t, err, d)
		assert.True(t, info.IsDir())
	}
}

func TestRun_DefaultsNameToBasename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Run(dir, ""))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), cfg.Project.Name)
}

func TestRun_RefusesSecondInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Run(dir, ""))

	err := Run(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
