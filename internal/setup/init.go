// Package setup handles stagehand project initialization.
package setup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/msageha/stagehand/internal/config"
	"github.com/msageha/stagehand/internal/model"
	yamlutil "github.com/msageha/stagehand/internal/yaml"
	"github.com/msageha/stagehand/templates"
)

// Run initializes stagehand.yaml and the state directory in the given
// project directory. projectName overrides the auto-detected name
// (defaults to directory basename if empty).
func Run(projectDir, projectName string) error {
	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("resolve project dir: %w", err)
	}

	cfgPath := filepath.Join(absDir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg, err := generateConfig(absDir, projectName)
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}

	stateDir := filepath.Join(absDir, cfg.Project.StateDir)
	for _, d := range []string{"runs", "archive", "quarantine"} {
		if err := os.MkdirAll(filepath.Join(stateDir, d), 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	if err := yamlutil.AtomicWrite(cfgPath, cfg); err != nil {
		return fmt.Errorf("write %s: %w", config.FileName, err)
	}
	return nil
}

func generateConfig(projectDir, projectName string) (*model.Config, error) {
	// Read template config as base
	data, err := fs.ReadFile(templates.FS, "stagehand.yaml")
	if err != nil {
		return nil, fmt.Errorf("read config template: %w", err)
	}

	var cfg model.Config
	if err := yamlv3.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config template: %w", err)
	}

	if projectName != "" {
		cfg.Project.Name = projectName
	} else {
		cfg.Project.Name = filepath.Base(projectDir)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}
