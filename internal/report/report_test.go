package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibbench/ibbench/internal/leaderboard"
	"github.com/ibbench/ibbench/internal/pricing"
	"github.com/ibbench/ibbench/internal/report"
	"github.com/ibbench/ibbench/internal/response"
	"github.com/ibbench/ibbench/internal/score"
	"github.com/ibbench/ibbench/internal/task"
)

func sampleInput() *report.Input {
	return &report.Input{
		Model: "gpt-5.2",
		RunID: "20260301_120000",
		Scores: []*score.TaskScore{
			{
				TaskID: "e-001", TotalPoints: 100, PointsEarned: 94, ScorePercent: 0.94, Passed: true,
				Criteria: []score.CriterionResult{
					{ID: "a", Kind: task.KindDeterministic, Passed: true},
					{ID: "b", Kind: task.KindJudge, Passed: true},
				},
			},
			{
				TaskID: "e-002", TotalPoints: 100, PointsEarned: 55, ScorePercent: 0.55,
				Criteria: []score.CriterionResult{
					{ID: "a", Kind: task.KindDeterministic, Passed: true},
					{ID: "b", Kind: task.KindJudge, Passed: false},
				},
			},
			{
				TaskID: "m-001", TotalPoints: 100, JudgeGated: true,
				Criteria: []score.CriterionResult{
					{ID: "a", Kind: task.KindDeterministic, Passed: false},
					{ID: "b", Kind: task.KindJudge, Rationale: "skipped: gate criterion failed"},
				},
			},
		},
		TaskCounts: map[task.Tier]int{task.TierEasy: 2, task.TierMedium: 2, task.TierHard: 2},
		Weights:    leaderboard.Weights{Easy: 0.20, Medium: 0.35, Hard: 0.45},
	}
}

func TestBuild(t *testing.T) {
	a := report.Build(sampleInput())

	assert.Equal(t, 3, a.TasksAttempted)
	assert.Equal(t, 6, a.TasksTotal)

	easy := a.Tiers["easy"]
	require.NotNil(t, easy.Score)
	assert.Equal(t, 75.0, *easy.Score, "one full credit and one half credit over two tasks")

	medium := a.Tiers["medium"]
	require.NotNil(t, medium.Score)
	assert.Equal(t, 0.0, *medium.Score)

	hard := a.Tiers["hard"]
	assert.Nil(t, hard.Score, "unattempted tier has no score")

	assert.Equal(t, map[string]int{"0": 1, "0.5": 1, "1.0": 1}, a.CreditCounts)
	assert.InDelta(t, 15.0, a.Overall, 1e-9)

	assert.Equal(t, report.PassRate{Passed: 2, Total: 3}, a.PassRates["deterministic"])
	assert.Equal(t, report.PassRate{Passed: 1, Total: 3}, a.PassRates["judge"])
}

func TestBuildWarnings(t *testing.T) {
	in := sampleInput()
	in.Scores = append(in.Scores,
		&score.TaskScore{TaskID: "h-001", TotalPoints: 100, Blocked: true},
		&score.TaskScore{TaskID: "h-002", TotalPoints: 100, NeedsRescore: true,
			Criteria: []score.CriterionResult{
				{ID: "j", Kind: task.KindJudge, Rationale: "judge unavailable"},
			}},
		&score.TaskScore{TaskID: "h-003", TotalPoints: 100,
			Criteria: []score.CriterionResult{
				{ID: "d", Kind: task.KindDeterministic,
					Rationale: "no structured output extracted from response"},
			}},
	)

	a := report.Build(in)

	joined := ""
	for _, w := range a.Warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, "scored 0%")
	assert.Contains(t, joined, "judge skipped criteria on: h-002")
	assert.Contains(t, joined, "extraction failure")
	assert.Contains(t, joined, "judge evaluation gated")
	assert.Contains(t, joined, "blocked by provider content policy")
}

func TestBuildCostEstimate(t *testing.T) {
	in := sampleInput()
	in.Responses = []*response.Response{
		{TaskID: "e-001", Usage: response.Usage{InputTokens: 2000, OutputTokens: 1000}},
		{TaskID: "e-002", Usage: response.Usage{InputTokens: 1000, OutputTokens: 500}},
	}
	in.Pricing = &pricing.Table{Providers: map[string]map[string]pricing.ModelPricing{
		"openai": {"gpt-5.2": {Input: 0.001, Output: 0.01}},
	}}

	a := report.Build(in)
	require.NotNil(t, a.EstimatedCostUSD)
	assert.InDelta(t, 0.003+0.01*1.5, *a.EstimatedCostUSD, 1e-9)
}

func TestBuildCostOmittedWithoutPricing(t *testing.T) {
	a := report.Build(sampleInput())
	assert.Nil(t, a.EstimatedCostUSD)
}

func TestGenerateText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Generate(sampleInput(), "text", &buf))

	out := buf.String()
	assert.Contains(t, out, "Run analysis: gpt-5.2/20260301_120000")
	assert.Contains(t, out, "3 attempted / 6 total")
	assert.Contains(t, out, "hard     -    (not attempted)")
	assert.Contains(t, out, "Credits: 1 full, 1 half, 1 none")
	assert.Contains(t, out, "deterministic")
}

func TestGenerateJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Generate(sampleInput(), "json", &buf))

	var a report.Analysis
	require.NoError(t, json.Unmarshal(buf.Bytes(), &a))
	assert.Equal(t, "gpt-5.2", a.Model)
	assert.Equal(t, 3, a.TasksAttempted)
}
