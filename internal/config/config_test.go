package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ibbench.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.TasksDir != "tasks" || cfg.ResultsDir != "results" {
		t.Errorf("unexpected default dirs: %+v", cfg)
	}
	if cfg.Weights.Easy+cfg.Weights.Medium+cfg.Weights.Hard != 1.0 {
		t.Errorf("default weights should sum to 1.0: %+v", cfg.Weights)
	}
	if cfg.Parallel != 4 {
		t.Errorf("default parallel = %d, want 4", cfg.Parallel)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
tasks_dir: corpus
judge_model: gpt-5.2
weights:
  easy: 0.1
  medium: 0.3
  hard: 0.6
models:
  - gpt-5.2
  - claude-sonnet-4-5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TasksDir != "corpus" {
		t.Errorf("TasksDir = %q, want corpus", cfg.TasksDir)
	}
	if cfg.ResultsDir != "results" {
		t.Errorf("unset fields keep defaults, got ResultsDir = %q", cfg.ResultsDir)
	}
	if cfg.Weights.Hard != 0.6 {
		t.Errorf("Weights.Hard = %v, want 0.6", cfg.Weights.Hard)
	}
	if len(cfg.Models) != 2 {
		t.Errorf("Models = %v", cfg.Models)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative weight", "weights:\n  easy: -0.5\n"},
		{"all zero weights", "weights:\n  easy: 0\n  medium: 0\n  hard: 0\n"},
		{"zero parallel", "parallel: 0\n"},
		{"empty tasks dir", "tasks_dir: \"\"\n"},
		{"bad yaml", "weights: [not a map\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil || cfg.TasksDir != "tasks" {
		t.Errorf("empty path should yield defaults (cfg=%+v err=%v)", cfg, err)
	}

	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil || cfg.Parallel != 4 {
		t.Errorf("missing file should yield defaults (cfg=%+v err=%v)", cfg, err)
	}

	path := writeConfig(t, "parallel: 8\n")
	cfg, err = LoadOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parallel != 8 {
		t.Errorf("Parallel = %d, want 8", cfg.Parallel)
	}
}

func TestDerivedDirs(t *testing.T) {
	cfg := &Config{ResultsDir: "out"}
	if got := cfg.ResponsesDir(); got != filepath.Join("out", "responses") {
		t.Errorf("ResponsesDir = %q", got)
	}
	if got := cfg.ScoresDir(); got != filepath.Join("out", "scores") {
		t.Errorf("ScoresDir = %q", got)
	}
}
