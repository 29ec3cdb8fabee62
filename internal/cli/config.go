// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/atlas"
	"github.com/gogpu/atlas/packer"
)

// Config is the pack job description. It can be loaded from a TOML or YAML
// file; command-line flags override loaded values.
type Config struct {
	Inputs   []string `toml:"inputs" yaml:"inputs"`
	Output   string   `toml:"output" yaml:"output"`
	Width    int      `toml:"width" yaml:"width"`
	Height   int      `toml:"height" yaml:"height"`
	MaxSize  int      `toml:"max_size" yaml:"max_size"`
	Padding  int      `toml:"padding" yaml:"padding"`
	Strategy string   `toml:"strategy" yaml:"strategy"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Output:   "atlas",
		Width:    atlas.DefaultSize,
		Height:   atlas.DefaultSize,
		MaxSize:  atlas.DefaultMaxSize,
		Strategy: packer.StrategyGuillotine.String(),
	}
}

// LoadConfig reads path into cfg. Fields absent from the file keep their
// current values. The format is chosen by extension: .toml, .yaml or .yml.
func LoadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

// atlasOptions converts the config to atlas options.
func (c *Config) atlasOptions() ([]atlas.Option, error) {
	strategy, err := packer.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	return []atlas.Option{
		atlas.WithInitialSize(c.Width, c.Height),
		atlas.WithMaxSize(c.MaxSize),
		atlas.WithPadding(c.Padding),
		atlas.WithStrategy(strategy),
	}, nil
}
