package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultPrompt      = "tsh> "
	defaultMaxJobs     = 16
	defaultHistorySize = 1000
	historyFileName    = ".tinysh_history"
)

// Config carries the shell's tunables. Zero values are replaced with
// defaults on load.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	HistorySize int    `yaml:"history_size"`
	MaxJobs     int    `yaml:"max_jobs"`
	HomeDir     string `yaml:"home_dir"`
	Verbose     bool   `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a YAML config from path. A missing file is not an error: the
// defaults apply. Unknown keys are rejected so typos surface instead of
// silently doing nothing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}

	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() error {
	if c.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		c.HomeDir = home
	}
	if c.Prompt == "" {
		c.Prompt = defaultPrompt
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.HomeDir, historyFileName)
	}
	if c.HistorySize <= 0 {
		c.HistorySize = defaultHistorySize
	}
	if c.MaxJobs <= 0 {
		c.MaxJobs = defaultMaxJobs
	}
	return nil
}
