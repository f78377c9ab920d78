package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibbench/ibbench/internal/score"
)

func TestBuildSummary(t *testing.T) {
	pass := sampleScore("e-001", 94)
	half := sampleScore("e-002", 55)
	fail := sampleScore("m-001", 20)
	fail.NeedsRescore = true
	blocked := sampleScore("h-001", 0)
	blocked.Blocked = true

	s := score.BuildSummary([]*score.TaskScore{pass, half, fail, blocked}, 2)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 3, s.Failed)
	assert.Equal(t, 2, s.Skipped)
	assert.Equal(t, 1, s.Blocked)
	assert.Equal(t, 1, s.NeedsRescore)
	assert.Equal(t, 400, s.TotalPoints)
	assert.Equal(t, 169, s.PointsEarned)
	assert.InDelta(t, 0.4225, s.OverallPercent, 1e-9)

	assert.Equal(t, map[string]int{"0": 2, "0.5": 1, "1.0": 1}, s.CreditCounts)
	assert.Equal(t, "ab12cd34", s.RubricHashes["e-001"])
	require.Len(t, s.Results, 4)
	assert.Equal(t, 0.5, s.Results[1].Credit)
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := score.BuildSummary(nil, 0)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.OverallPercent)
	assert.Equal(t, map[string]int{"0": 0, "0.5": 0, "1.0": 0}, s.CreditCounts)
}

func TestSummaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := score.BuildSummary([]*score.TaskScore{sampleScore("e-001", 94)}, 0)
	require.NoError(t, score.WriteSummary(dir, in))

	out, err := score.ReadSummary(dir)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
