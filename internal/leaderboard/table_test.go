package leaderboard_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibbench/ibbench/internal/leaderboard"
	"github.com/ibbench/ibbench/internal/task"
)

func TestRenderUnattemptedTierShowsDash(t *testing.T) {
	entries := []leaderboard.Entry{{
		Rank: 1, Model: "gpt-5.2", Provider: "openai", Overall: 37.5,
		Tiers: map[task.Tier]leaderboard.TierScore{
			task.TierEasy:   {Score: 100, Completed: 2, Total: 2},
			task.TierMedium: {Score: 50, Completed: 2, Total: 2},
			task.TierHard:   {Total: 2},
		},
		RunID: "20260301_120000", RunDate: "2026-03-01",
		TasksAttempted: 4, TasksTotal: 6,
	}}

	var buf bytes.Buffer
	require.NoError(t, leaderboard.Render(&buf, entries, leaderboard.DefaultWeights))

	out := buf.String()
	assert.Contains(t, out, "gpt-5.2")
	assert.Contains(t, out, "37.5")
	assert.Contains(t, out, "100.0 (2/2)")
	assert.Contains(t, out, "-")
	assert.NotContains(t, out, "0.0 (0/2)", "an unattempted tier must not render as a zero score")
	assert.Contains(t, out, "Weights: easy=20% medium=35% hard=45%")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, leaderboard.Render(&buf, nil, leaderboard.DefaultWeights))
	assert.Contains(t, buf.String(), "No scored runs found.")
}
