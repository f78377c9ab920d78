// Package leaderboard aggregates persisted task scores across models and
// runs into ranked, tier-weighted standings. It is read-only over the score
// store; entries are recomputed on demand and never the source of truth.
package leaderboard

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ibbench/ibbench/internal/score"
	"github.com/ibbench/ibbench/internal/task"
)

// Weights are the per-tier multipliers for the overall score. They apply
// unconditionally; a tier with no attempts contributes zero and is reported
// as not attempted rather than reweighted away.
type Weights struct {
	Easy   float64 `json:"easy" yaml:"easy"`
	Medium float64 `json:"medium" yaml:"medium"`
	Hard   float64 `json:"hard" yaml:"hard"`
}

// DefaultWeights favor harder tiers.
var DefaultWeights = Weights{Easy: 0.20, Medium: 0.35, Hard: 0.45}

// For returns the weight for one tier.
func (w Weights) For(t task.Tier) float64 {
	switch t {
	case task.TierEasy:
		return w.Easy
	case task.TierMedium:
		return w.Medium
	case task.TierHard:
		return w.Hard
	}
	return 0
}

// TierScore is one tier's aggregate for one model. Score is 0-100.
// Completed==0 means the tier was not attempted, which output must keep
// distinct from a genuine zero score.
type TierScore struct {
	Score     float64 `json:"score"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
}

// Attempted reports whether any task in the tier was completed.
func (t TierScore) Attempted() bool { return t.Completed > 0 }

// Entry is one model's leaderboard standing, derived entirely from its
// persisted TaskScores.
type Entry struct {
	Rank           int                     `json:"rank"`
	Model          string                  `json:"model"`
	Provider       string                  `json:"provider"`
	Overall        float64                 `json:"overall_score"`
	Tiers          map[task.Tier]TierScore `json:"scores_by_difficulty"`
	RunID          string                  `json:"run_id"`
	RunDate        string                  `json:"run_date"`
	TasksAttempted int                     `json:"tasks_attempted"`
	TasksTotal     int                     `json:"tasks_total"`
	TasksBlocked   int                     `json:"tasks_blocked"`
}

// Build aggregates every model directory under scoresDir into ranked
// entries. Runs for one model merge oldest-to-newest, later runs overriding
// earlier ones per task so a partial rescore run refreshes only the tasks it
// touched. models, when non-empty, restricts which model dirs are included.
func Build(scoresDir string, taskCounts map[task.Tier]int, weights Weights, models []string) ([]Entry, error) {
	modelDirs, err := os.ReadDir(scoresDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading scores dir: %w", err)
	}

	var entries []Entry
	for _, dir := range modelDirs {
		if !dir.IsDir() {
			continue
		}
		model := dir.Name()
		if len(models) > 0 && !contains(models, model) {
			continue
		}
		entry, err := buildEntry(model, filepath.Join(scoresDir, model), taskCounts, weights)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
	}

	Rank(entries)
	return entries, nil
}

// buildEntry merges all runs for one model and computes its tier and
// overall scores. Returns nil when the model has no scored tasks.
func buildEntry(model, modelDir string, taskCounts map[task.Tier]int, weights Weights) (*Entry, error) {
	runs, err := os.ReadDir(modelDir)
	if err != nil {
		return nil, fmt.Errorf("reading runs for %s: %w", model, err)
	}
	var runIDs []string
	for _, r := range runs {
		if r.IsDir() {
			runIDs = append(runIDs, r.Name())
		}
	}
	sort.Strings(runIDs)

	byTask := make(map[string]*score.TaskScore)
	for _, runID := range runIDs {
		scores, err := score.ReadRun(filepath.Join(modelDir, runID))
		if err != nil {
			return nil, err
		}
		for _, ts := range scores {
			byTask[ts.TaskID] = ts
		}
	}
	if len(byTask) == 0 {
		return nil, nil
	}

	credits := map[task.Tier]float64{}
	completed := map[task.Tier]int{}
	blocked := 0
	for taskID, ts := range byTask {
		tier, err := task.TierOf(taskID)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model, err)
		}
		if ts.Blocked {
			blocked++
		}
		credits[tier] += score.Credit(ts.ScorePercent)
		completed[tier]++
	}

	tiers := make(map[task.Tier]TierScore, len(task.Tiers))
	overall := 0.0
	attempted := 0
	total := 0
	for _, tier := range task.Tiers {
		ts := TierScore{Completed: completed[tier], Total: taskCounts[tier]}
		if ts.Completed > 0 {
			ts.Score = round1(credits[tier] / float64(ts.Completed) * 100)
		}
		tiers[tier] = ts
		overall += ts.Score * weights.For(tier)
		attempted += ts.Completed
		total += ts.Total
	}

	latest := runIDs[len(runIDs)-1]
	return &Entry{
		Model:          model,
		Provider:       providerOf(model),
		Overall:        round1(overall),
		Tiers:          tiers,
		RunID:          latest,
		RunDate:        runDate(latest),
		TasksAttempted: attempted,
		TasksTotal:     total,
		TasksBlocked:   blocked,
	}, nil
}

// Rank orders entries descending by overall score, breaking ties by tasks
// completed then model id so the ordering is total and reproducible, and
// stamps the rank field.
func Rank(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Overall != b.Overall {
			return a.Overall > b.Overall
		}
		if a.TasksAttempted != b.TasksAttempted {
			return a.TasksAttempted > b.TasksAttempted
		}
		return a.Model < b.Model
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// providerOf infers the provider from the model name, for display only.
func providerOf(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "claude"):
		return "anthropic"
	case strings.Contains(m, "gpt") || strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3"):
		return "openai"
	case strings.Contains(m, "gemini"):
		return "google"
	}
	return "unknown"
}

// runDate extracts the date from a YYYYMMDD_HHMMSS run id.
func runDate(runID string) string {
	datePart, _, _ := strings.Cut(runID, "_")
	t, err := time.Parse("20060102", datePart)
	if err != nil {
		return "unknown"
	}
	return t.Format("2006-01-02")
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
