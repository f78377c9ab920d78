package task

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type meta struct {
	Task struct {
		ID          string `yaml:"id"`
		Type        string `yaml:"type"`
		Category    string `yaml:"category"`
		Description string `yaml:"description"`
	} `yaml:"task"`
}

// Filter narrows which tasks LoadAll returns.
type Filter struct {
	IDs    []string // exact task ids; empty means all
	Prefix string   // id prefix, e.g. "e-" for the easy tier
}

func (f Filter) matches(id string) bool {
	if f.Prefix != "" && !strings.HasPrefix(id, f.Prefix) {
		return false
	}
	if len(f.IDs) == 0 {
		return true
	}
	for _, want := range f.IDs {
		if id == want {
			return true
		}
	}
	return false
}

// Load reads a single task directory: meta.yaml, prompt.md, rubric.json and
// any input*.* files. All validation failures are fatal here so scoring
// never sees a malformed task.
func Load(dir string) (*Task, error) {
	metaData, err := os.ReadFile(filepath.Join(dir, "meta.yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading task meta: %w", err)
	}
	var m meta
	if err := yaml.Unmarshal(metaData, &m); err != nil {
		return nil, fmt.Errorf("parsing meta.yaml in %s: %w", dir, err)
	}
	if m.Task.ID == "" {
		return nil, fmt.Errorf("meta.yaml in %s: missing task id", dir)
	}
	if _, err := TierOf(m.Task.ID); err != nil {
		return nil, err
	}

	prompt, err := os.ReadFile(filepath.Join(dir, "prompt.md"))
	if err != nil {
		return nil, fmt.Errorf("task %s: reading prompt: %w", m.Task.ID, err)
	}

	rubricData, err := os.ReadFile(filepath.Join(dir, "rubric.json"))
	if err != nil {
		return nil, fmt.Errorf("task %s: reading rubric: %w", m.Task.ID, err)
	}
	rubric, err := ParseRubric(rubricData)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", m.Task.ID, err)
	}

	inputs, err := filepath.Glob(filepath.Join(dir, "input*.*"))
	if err != nil {
		return nil, fmt.Errorf("task %s: globbing inputs: %w", m.Task.ID, err)
	}
	sort.Strings(inputs)

	return &Task{
		ID:          m.Task.ID,
		Dir:         dir,
		Type:        m.Task.Type,
		Category:    m.Task.Category,
		Description: m.Task.Description,
		Prompt:      string(prompt),
		Rubric:      rubric,
		InputFiles:  inputs,
	}, nil
}

// LoadAll discovers tasks under tasksDir, one directory per task. Directory
// names may carry -done/-working suffixes which are stripped to form the id;
// directories starting with _ are skipped.
func LoadAll(tasksDir string, filter Filter) ([]*Task, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return nil, fmt.Errorf("reading tasks dir: %w", err)
	}

	var tasks []*Task
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		id := DirID(entry.Name())
		if !filter.matches(id) {
			continue
		}
		t, err := Load(filepath.Join(tasksDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// DirID strips workflow suffixes from a task directory name.
func DirID(dirName string) string {
	id := strings.TrimSuffix(dirName, "-done")
	return strings.TrimSuffix(id, "-working")
}

// CountByTier counts task directories per tier without loading task bodies.
// Used for leaderboard "completed/total" denominators.
func CountByTier(tasksDir string) (map[Tier]int, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return nil, fmt.Errorf("reading tasks dir: %w", err)
	}
	counts := map[Tier]int{TierEasy: 0, TierMedium: 0, TierHard: 0}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		tier, err := TierOf(DirID(entry.Name()))
		if err != nil {
			return nil, err
		}
		counts[tier]++
	}
	return counts, nil
}
