// Package compare diffs two scored runs for regression analysis.
package compare

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ibbench/ibbench/internal/score"
)

// unchangedThreshold keeps floating-point noise out of the regression
// buckets: any absolute percent change below it counts as unchanged.
const unchangedThreshold = 0.01

// Status buckets a task's score movement between two runs.
type Status string

const (
	StatusImproved  Status = "improved"
	StatusRegressed Status = "regressed"
	StatusUnchanged Status = "unchanged"
)

// TaskDelta is the score movement for one task present in both runs.
// Percents are fractions in [0,1]; Delta is new minus old.
type TaskDelta struct {
	TaskID     string  `json:"task_id"`
	OldPercent float64 `json:"old_percent"`
	NewPercent float64 `json:"new_percent"`
	Delta      float64 `json:"delta"`
	Status     Status  `json:"status"`
}

// Result is the full comparison of two runs. Tasks present in only one run
// are listed separately, never folded into the delta buckets.
type Result struct {
	Deltas    []TaskDelta `json:"deltas"`
	Added     []string    `json:"added"`
	Removed   []string    `json:"removed"`
	Improved  int         `json:"improved"`
	Regressed int         `json:"regressed"`
	Unchanged int         `json:"unchanged"`
}

// Runs compares two TaskScore collections, old against new.
func Runs(oldScores, newScores []*score.TaskScore) *Result {
	oldByTask := byTask(oldScores)
	newByTask := byTask(newScores)

	r := &Result{}
	for taskID, n := range newByTask {
		o, ok := oldByTask[taskID]
		if !ok {
			r.Added = append(r.Added, taskID)
			continue
		}
		d := TaskDelta{
			TaskID:     taskID,
			OldPercent: o.ScorePercent,
			NewPercent: n.ScorePercent,
			Delta:      n.ScorePercent - o.ScorePercent,
		}
		switch {
		case math.Abs(d.Delta) < unchangedThreshold:
			d.Status = StatusUnchanged
			r.Unchanged++
		case d.Delta > 0:
			d.Status = StatusImproved
			r.Improved++
		default:
			d.Status = StatusRegressed
			r.Regressed++
		}
		r.Deltas = append(r.Deltas, d)
	}
	for taskID := range oldByTask {
		if _, ok := newByTask[taskID]; !ok {
			r.Removed = append(r.Removed, taskID)
		}
	}

	sort.Slice(r.Deltas, func(i, j int) bool { return r.Deltas[i].TaskID < r.Deltas[j].TaskID })
	sort.Strings(r.Added)
	sort.Strings(r.Removed)
	return r
}

func byTask(scores []*score.TaskScore) map[string]*score.TaskScore {
	m := make(map[string]*score.TaskScore, len(scores))
	for _, ts := range scores {
		m[ts.TaskID] = ts
	}
	return m
}

// Render prints the comparison as a delta table plus bucket counts.
func Render(w io.Writer, oldLabel, newLabel string, r *Result) error {
	fmt.Fprintf(w, "Comparing %s -> %s\n\n", oldLabel, newLabel)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tOLD\tNEW\tDELTA\tSTATUS")
	fmt.Fprintln(tw, strings.Repeat("-", 60))
	for _, d := range r.Deltas {
		fmt.Fprintf(tw, "%s\t%.1f%%\t%.1f%%\t%+.1f%%\t%s\n",
			d.TaskID, d.OldPercent*100, d.NewPercent*100, d.Delta*100, d.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d improved, %d regressed, %d unchanged\n",
		r.Improved, r.Regressed, r.Unchanged)
	if len(r.Added) > 0 {
		fmt.Fprintf(w, "Only in %s: %s\n", newLabel, strings.Join(r.Added, ", "))
	}
	if len(r.Removed) > 0 {
		fmt.Fprintf(w, "Only in %s: %s\n", oldLabel, strings.Join(r.Removed, ", "))
	}
	return nil
}
