// Package score turns one cached model response into an auditable point
// score against its task's rubric, persists the result as an immutable
// artifact, and summarizes a scoring run. Credit bucketing for leaderboard
// aggregation also lives here since it is a pure function of score_percent.
package score

import (
	"time"

	"github.com/ibbench/ibbench/internal/task"
)

// passThreshold is the score fraction at or above which a task counts as
// passed in run summaries. Leaderboard credit uses its own buckets.
const passThreshold = 0.60

// CriterionResult is the outcome of evaluating one rubric criterion.
// Immutable once produced.
type CriterionResult struct {
	ID           string         `json:"id"`
	Kind         task.Kind      `json:"kind"`
	MatchType    task.MatchType `json:"match_type,omitempty"`
	Passed       bool           `json:"passed"`
	Points       int            `json:"points"`
	PointsEarned int            `json:"points_earned"`
	Actual       string         `json:"actual,omitempty"`
	Rationale    string         `json:"rationale,omitempty"`
}

// TaskScore is the complete score for one (task, response, rubric) triple.
// Append-only: rescoring writes a new record, old ones are never edited.
// ScorePercent is a fraction in [0,1].
type TaskScore struct {
	TaskID       string            `json:"task_id"`
	RubricHash   string            `json:"rubric_hash"`
	ScoredAt     time.Time         `json:"scored_at"`
	Criteria     []CriterionResult `json:"criteria"`
	TotalPoints  int               `json:"total_points"`
	PointsEarned int               `json:"points_earned"`
	ScorePercent float64           `json:"score_percent"`
	Passed       bool              `json:"passed"`
	JudgeGated   bool              `json:"judge_gated"`
	Blocked      bool              `json:"blocked"`
	NeedsRescore bool              `json:"needs_rescore,omitempty"`
}

// finalize derives the aggregate fields from the criterion results.
func (s *TaskScore) finalize() {
	earned := 0
	for _, r := range s.Criteria {
		earned += r.PointsEarned
	}
	s.PointsEarned = earned
	if s.TotalPoints > 0 {
		s.ScorePercent = float64(earned) / float64(s.TotalPoints)
	}
	s.Passed = s.ScorePercent >= passThreshold
}
