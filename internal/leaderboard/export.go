package leaderboard

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ibbench/ibbench/internal/task"
)

// exportVersion tags the snapshot schema. Bump only with a coordinated
// dashboard change; consumers depend on these exact field names.
const exportVersion = "1.0"

// Export is the leaderboard snapshot document external dashboards consume.
type Export struct {
	LeaderboardVersion string         `json:"leaderboard_version"`
	GeneratedAt        string         `json:"generated_at"`
	Weights            Weights        `json:"weights"`
	TaskCounts         map[string]int `json:"task_counts"`
	Entries            []ExportEntry  `json:"entries"`
}

// ExportEntry mirrors Entry with string-keyed tiers for a stable wire shape.
type ExportEntry struct {
	Rank               int                  `json:"rank"`
	Model              string               `json:"model"`
	Provider           string               `json:"provider"`
	OverallScore       float64              `json:"overall_score"`
	ScoresByDifficulty map[string]TierScore `json:"scores_by_difficulty"`
	RunID              string               `json:"run_id"`
	RunDate            string               `json:"run_date"`
	TasksAttempted     int                  `json:"tasks_attempted"`
	TasksTotal         int                  `json:"tasks_total"`
	TasksBlocked       int                  `json:"tasks_blocked"`
}

// BuildExport assembles the snapshot from ranked entries.
func BuildExport(entries []Entry, weights Weights, taskCounts map[task.Tier]int, now time.Time) *Export {
	counts := make(map[string]int, len(taskCounts))
	for tier, n := range taskCounts {
		counts[string(tier)] = n
	}

	doc := &Export{
		LeaderboardVersion: exportVersion,
		GeneratedAt:        now.Format(time.RFC3339),
		Weights:            weights,
		TaskCounts:         counts,
	}
	for _, e := range entries {
		tiers := make(map[string]TierScore, len(e.Tiers))
		for tier, ts := range e.Tiers {
			tiers[string(tier)] = ts
		}
		doc.Entries = append(doc.Entries, ExportEntry{
			Rank:               e.Rank,
			Model:              e.Model,
			Provider:           e.Provider,
			OverallScore:       e.Overall,
			ScoresByDifficulty: tiers,
			RunID:              e.RunID,
			RunDate:            e.RunDate,
			TasksAttempted:     e.TasksAttempted,
			TasksTotal:         e.TasksTotal,
			TasksBlocked:       e.TasksBlocked,
		})
	}
	return doc
}

// WriteExport writes the snapshot document as indented JSON.
func WriteExport(path string, doc *Export) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling leaderboard: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing leaderboard: %w", err)
	}
	return nil
}
