// Package config loads the shell's settings from a YAML or TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"npsh/internal/jobs"
	"npsh/internal/parser"
)

// DefaultPrompt is a green "np", magenta "sh" and a bold "$".
const DefaultPrompt = "\033[32mnp\033[35msh\033[1m$\033[0m "

type Config struct {
	MaxJobs    int    `yaml:"max_jobs" toml:"max_jobs"`
	MaxArgs    int    `yaml:"max_args" toml:"max_args"`
	Prompt     string `yaml:"prompt" toml:"prompt"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	LogLevel   string `yaml:"log_level" toml:"log_level"`
	JobControl bool   `yaml:"job_control" toml:"job_control"`
}

func Default() Config {
	return Config{
		MaxJobs:    jobs.DefaultCapacity,
		MaxArgs:    parser.DefaultMaxArgs,
		Prompt:     DefaultPrompt,
		LogLevel:   "info",
		JobControl: true,
	}
}

// DefaultPaths are tried in order when no file is named explicitly.
func DefaultPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".npshrc.yaml"),
		filepath.Join(home, ".npshrc.toml"),
	}
}

// Load reads path over the defaults. An empty path searches DefaultPaths and
// falls back to the defaults when none exists.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		for _, candidate := range DefaultPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decode(path, data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.MaxJobs <= 0 {
		errs = append(errs, fmt.Errorf("max_jobs must be positive, got %d", c.MaxJobs))
	}
	if c.MaxArgs <= 0 {
		errs = append(errs, fmt.Errorf("max_args must be positive, got %d", c.MaxArgs))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
