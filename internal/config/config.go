// Package config loads the harness configuration file. All settings have
// working defaults so a checkout with the conventional tasks/ and results/
// layout needs no config file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TasksDir   string   `yaml:"tasks_dir"`
	ResultsDir string   `yaml:"results_dir"`
	Weights    Weights  `yaml:"weights"`
	Models     []string `yaml:"models"`
	JudgeModel string   `yaml:"judge_model"`
	Parallel   int      `yaml:"parallel"`
	Pricing    string   `yaml:"pricing_file"`
}

// Weights are the leaderboard tier multipliers.
type Weights struct {
	Easy   float64 `yaml:"easy"`
	Medium float64 `yaml:"medium"`
	Hard   float64 `yaml:"hard"`
}

// Default returns the conventional repository layout and scoring policy.
func Default() *Config {
	return &Config{
		TasksDir:   "tasks",
		ResultsDir: "results",
		Weights:    Weights{Easy: 0.20, Medium: 0.35, Hard: 0.45},
		Parallel:   4,
	}
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists, otherwise the defaults. An empty
// path always means defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func validate(cfg *Config) error {
	if cfg.TasksDir == "" {
		return fmt.Errorf("tasks_dir is required")
	}
	if cfg.ResultsDir == "" {
		return fmt.Errorf("results_dir is required")
	}
	if cfg.Weights.Easy < 0 || cfg.Weights.Medium < 0 || cfg.Weights.Hard < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	if cfg.Weights.Easy+cfg.Weights.Medium+cfg.Weights.Hard == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	if cfg.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1")
	}
	return nil
}

// ResponsesDir is where generation runs cache model responses.
func (c *Config) ResponsesDir() string {
	return filepath.Join(c.ResultsDir, "responses")
}

// ScoresDir is where scoring runs persist TaskScore artifacts.
func (c *Config) ScoresDir() string {
	return filepath.Join(c.ResultsDir, "scores")
}
