package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_YAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "npshrc.yaml", "max_jobs: 4\nlog_level: debug\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxJobs != 4 {
		t.Fatalf("max_jobs mismatch: %d", cfg.MaxJobs)
	}
	def := Default()
	if cfg.MaxArgs != def.MaxArgs || cfg.Prompt != def.Prompt || !cfg.JobControl {
		t.Fatalf("unset keys must keep defaults: %+v", cfg)
	}
	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("level mismatch: %v %v", level, err)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "npshrc.toml", "max_args = 8\nprompt = \"> \"\njob_control = false\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxArgs != 8 || cfg.Prompt != "> " || cfg.JobControl {
		t.Fatalf("config mismatch: %+v", cfg)
	}
	if cfg.MaxJobs != Default().MaxJobs {
		t.Fatalf("max_jobs must keep default: %d", cfg.MaxJobs)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_NoDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults: %+v", cfg)
	}
}

func TestLoad_DefaultFileInHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, ".npshrc.toml"), []byte("max_jobs = 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxJobs != 2 {
		t.Fatalf("max_jobs mismatch: %d", cfg.MaxJobs)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MaxJobs = 0
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"max_jobs", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error should mention %s: %v", want, err)
		}
	}
}

func TestLoad_BadSyntax(t *testing.T) {
	path := writeFile(t, "npshrc.yaml", "max_jobs: [1, 2\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDefault_Prompt(t *testing.T) {
	if got := Default().Prompt; got != DefaultPrompt {
		t.Fatalf("prompt mismatch: %q", got)
	}
}
