package score

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Path returns the score artifact path for a task within a run directory.
func Path(runDir, taskID string) string {
	return filepath.Join(runDir, taskID+".json")
}

// Write persists one TaskScore atomically: temp file in the target
// directory, then rename. A crash mid-write leaves no partial artifact
// behind under the final name.
func Write(runDir string, ts *TaskScore) error {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("creating scores dir: %w", err)
	}
	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling score for %s: %w", ts.TaskID, err)
	}

	tmp, err := os.CreateTemp(runDir, "."+ts.TaskID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing score for %s: %w", ts.TaskID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing score for %s: %w", ts.TaskID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing score for %s: %w", ts.TaskID, err)
	}
	if err := os.Rename(tmp.Name(), Path(runDir, ts.TaskID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing score for %s: %w", ts.TaskID, err)
	}
	return nil
}

// Read loads a single persisted TaskScore.
func Read(path string) (*TaskScore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading score: %w", err)
	}
	var ts TaskScore
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("parsing score %s: %w", path, err)
	}
	return &ts, nil
}

// ReadRun loads every TaskScore in a run directory, sorted by task id.
// summary.json and temp files are skipped.
func ReadRun(runDir string) ([]*TaskScore, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, fmt.Errorf("reading scores dir: %w", err)
	}
	var scores []*TaskScore
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") ||
			name == "summary.json" || strings.HasPrefix(name, ".") {
			continue
		}
		ts, err := Read(filepath.Join(runDir, name))
		if err != nil {
			return nil, err
		}
		scores = append(scores, ts)
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].TaskID < scores[j].TaskID })
	return scores, nil
}
