package task

import (
	"fmt"
	"strings"
)

// Tier is a task difficulty bucket derived from the task id prefix.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers lists all tiers in display order.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

// TierOf maps a task id prefix to its tier (e-001 -> easy).
// An unrecognized prefix is a validation error, not a silent bucket.
func TierOf(taskID string) (Tier, error) {
	prefix, _, ok := strings.Cut(taskID, "-")
	if !ok {
		return "", fmt.Errorf("task id %q: missing tier prefix", taskID)
	}
	switch prefix {
	case "e":
		return TierEasy, nil
	case "m":
		return TierMedium, nil
	case "h":
		return TierHard, nil
	}
	return "", fmt.Errorf("task id %q: unrecognized tier prefix %q", taskID, prefix)
}

// Task is one immutable work item from the corpus: the prompt given to the
// model, the files it received, and the rubric used to score its answer.
type Task struct {
	ID          string
	Dir         string
	Type        string
	Category    string
	Description string
	Prompt      string
	Rubric      *Rubric
	InputFiles  []string
}

// Tier returns the task's difficulty tier. The id is validated at load time,
// so this never fails on a loaded task.
func (t *Task) Tier() Tier {
	tier, _ := TierOf(t.ID)
	return tier
}
