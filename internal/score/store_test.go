package score_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibbench/ibbench/internal/score"
)

func sampleScore(taskID string, earned int) *score.TaskScore {
	ts := &score.TaskScore{
		TaskID:     taskID,
		RubricHash: "ab12cd34",
		ScoredAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Criteria: []score.CriterionResult{
			{ID: "c1", Points: 100, PointsEarned: earned, Passed: earned >= 60},
		},
		TotalPoints:  100,
		PointsEarned: earned,
		ScorePercent: float64(earned) / 100,
		Passed:       earned >= 60,
	}
	return ts
}

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	in := sampleScore("e-001", 94)
	require.NoError(t, score.Write(dir, in))

	out, err := score.Read(score.Path(dir, "e-001"))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteCreatesRunDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gpt-5.2", "20260301_120000")
	require.NoError(t, score.Write(dir, sampleScore("e-001", 50)))
	_, err := os.Stat(score.Path(dir, "e-001"))
	assert.NoError(t, err)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, score.Write(dir, sampleScore("e-001", 94)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e-001.json", entries[0].Name())
}

func TestReadRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, score.Write(dir, sampleScore("m-001", 70)))
	require.NoError(t, score.Write(dir, sampleScore("e-001", 94)))

	// summary.json and stray temp files are not scores.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".e-002-123.tmp"), []byte("partial"), 0o644))

	scores, err := score.ReadRun(dir)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "e-001", scores[0].TaskID)
	assert.Equal(t, "m-001", scores[1].TaskID)
}

func TestReadRunMissingDir(t *testing.T) {
	_, err := score.ReadRun(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
