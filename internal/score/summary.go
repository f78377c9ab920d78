package score

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SummaryResult is the per-task line of a run summary.
type SummaryResult struct {
	TaskID       string  `json:"task_id"`
	Passed       bool    `json:"passed"`
	PointsEarned int     `json:"points_earned"`
	TotalPoints  int     `json:"total_points"`
	ScorePercent float64 `json:"score_percent"`
	Credit       float64 `json:"credit"`
	Blocked      bool    `json:"blocked,omitempty"`
	JudgeGated   bool    `json:"judge_gated,omitempty"`
	NeedsRescore bool    `json:"needs_rescore,omitempty"`
}

// Summary aggregates one scoring run: counts, point totals, the credit
// histogram, and the rubric hash each task was scored under. It is a derived
// artifact; TaskScore files remain the source of truth.
type Summary struct {
	Total          int               `json:"total"`
	Passed         int               `json:"passed"`
	Failed         int               `json:"failed"`
	Skipped        int               `json:"skipped"`
	Blocked        int               `json:"blocked"`
	NeedsRescore   int               `json:"needs_rescore"`
	TotalPoints    int               `json:"total_points"`
	PointsEarned   int               `json:"points_earned"`
	OverallPercent float64           `json:"overall_percent"`
	CreditCounts   map[string]int    `json:"credit_counts"`
	Results        []SummaryResult   `json:"results"`
	RubricHashes   map[string]string `json:"rubric_hashes"`
}

// BuildSummary derives a run summary from its TaskScores. skipped counts
// tasks left alone because they were already scored.
func BuildSummary(scores []*TaskScore, skipped int) *Summary {
	s := &Summary{
		Skipped:      skipped,
		CreditCounts: map[string]int{"0": 0, "0.5": 0, "1.0": 0},
		RubricHashes: make(map[string]string, len(scores)),
	}
	for _, ts := range scores {
		s.Total++
		s.TotalPoints += ts.TotalPoints
		s.PointsEarned += ts.PointsEarned
		if ts.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		if ts.Blocked {
			s.Blocked++
		}
		if ts.NeedsRescore {
			s.NeedsRescore++
		}
		credit := Credit(ts.ScorePercent)
		s.CreditCounts[CreditKey(credit)]++
		s.RubricHashes[ts.TaskID] = ts.RubricHash
		s.Results = append(s.Results, SummaryResult{
			TaskID:       ts.TaskID,
			Passed:       ts.Passed,
			PointsEarned: ts.PointsEarned,
			TotalPoints:  ts.TotalPoints,
			ScorePercent: ts.ScorePercent,
			Credit:       credit,
			Blocked:      ts.Blocked,
			JudgeGated:   ts.JudgeGated,
			NeedsRescore: ts.NeedsRescore,
		})
	}
	if s.TotalPoints > 0 {
		s.OverallPercent = float64(s.PointsEarned) / float64(s.TotalPoints)
	}
	return s
}

// WriteSummary writes the run's summary.json.
func WriteSummary(runDir string, s *Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "summary.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// ReadSummary loads a run's summary.json.
func ReadSummary(runDir string) (*Summary, error) {
	data, err := os.ReadFile(filepath.Join(runDir, "summary.json"))
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing summary: %w", err)
	}
	return &s, nil
}
