// Package config loads stagehand.yaml and fills defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/msageha/stagehand/internal/model"
)

// FileName is the configuration file looked up at the project root.
const FileName = "stagehand.yaml"

// Load reads a config file and applies defaults. A missing file is not
// an error: the defaults alone are a runnable configuration.
func Load(path string) (model.Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DefaultConfig(), nil
	}
	if err != nil {
		return model.Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Discover loads the config for a workspace root directory.
func Discover(root string) (model.Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return model.Config{}, err
	}
	if cfg.Project.Root == "" {
		cfg.Project.Root = root
	}
	return cfg, nil
}

// StatePath resolves the state directory against the project root.
func StatePath(cfg model.Config) string {
	if filepath.IsAbs(cfg.Project.StateDir) {
		return cfg.Project.StateDir
	}
	return filepath.Join(cfg.Project.Root, cfg.Project.StateDir)
}
