package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ibbench/ibbench/internal/judge"
	"github.com/ibbench/ibbench/internal/response"
	"github.com/ibbench/ibbench/internal/runner"
	"github.com/ibbench/ibbench/internal/score"
	"github.com/ibbench/ibbench/internal/task"
	"github.com/ibbench/ibbench/internal/workbook"
)

var (
	flagScoreTasks    []string
	flagRescore       bool
	flagScoreParallel int
	flagJudgeModel    string
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score MODEL/RUN_ID",
		Short: "Score cached responses for a run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore,
	}
	cmd.Flags().StringSliceVar(&flagScoreTasks, "tasks", nil, "restrict to specific task ids")
	cmd.Flags().BoolVar(&flagRescore, "rescore", false, "rescore already-scored tasks")
	cmd.Flags().IntVar(&flagScoreParallel, "parallel", 0, "max concurrent scoring jobs (default from config)")
	cmd.Flags().StringVar(&flagJudgeModel, "judge-model", "", "override the judge model")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	model, runID, err := splitRunPath(args[0])
	if err != nil {
		return err
	}

	responsesRun := filepath.Join(cfg.ResponsesDir(), model, runID)
	scoresRun := filepath.Join(cfg.ScoresDir(), model, runID)

	available, err := response.List(responsesRun)
	if err != nil {
		return err
	}
	taskIDs, err := selectTasks(available, flagScoreTasks)
	if err != nil {
		return err
	}

	// Skip already-scored tasks unless rescoring was requested.
	skipped := 0
	if !flagRescore {
		var pending []string
		for _, id := range taskIDs {
			if _, err := os.Stat(score.Path(scoresRun, id)); err == nil {
				skipped++
				continue
			}
			pending = append(pending, id)
		}
		taskIDs = pending
	}
	if skipped > 0 {
		fmt.Printf("Skipping %d already-scored task(s), use --rescore to override\n", skipped)
	}
	if len(taskIDs) == 0 {
		fmt.Println("Nothing to score.")
		return nil
	}

	tasks, err := task.LoadAll(cfg.TasksDir, task.Filter{IDs: taskIDs})
	if err != nil {
		return err
	}
	taskByID := make(map[string]*task.Task, len(tasks))
	needsJudge := false
	for _, t := range tasks {
		taskByID[t.ID] = t
		if len(t.Rubric.Judge()) > 0 {
			needsJudge = true
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scorer := &score.Scorer{
		Judge: buildJudge(ctx, needsJudge, cfg.JudgeModel),
		Workbooks: func(taskID string) (*workbook.Workbook, error) {
			return workbook.Load(filepath.Join(responsesRun, taskID+".workbook.json"))
		},
	}

	fmt.Printf("Scoring %d response(s) for %s/%s...\n", len(taskIDs), model, runID)

	var mu sync.Mutex
	var failed []string
	var jobs []runner.Job
	for _, id := range taskIDs {
		id := id
		jobs = append(jobs, func(ctx context.Context) error {
			t, ok := taskByID[id]
			if !ok {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return fmt.Errorf("task %s: no task definition found", id)
			}
			resp, err := response.Read(response.Path(responsesRun, id))
			if err != nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return err
			}
			ts := scorer.Score(ctx, t, resp)
			if err := score.Write(scoresRun, ts); err != nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return err
			}
			printTaskScore(ts)
			return nil
		})
	}

	parallel := cfg.Parallel
	if flagScoreParallel > 0 {
		parallel = flagScoreParallel
	}
	errs := runner.RunPool(ctx, parallel, jobs)
	for _, err := range errs {
		log.Printf("warning: %v", err)
	}

	scores, err := score.ReadRun(scoresRun)
	if err != nil {
		return err
	}
	summary := score.BuildSummary(scores, skipped)
	if err := score.WriteSummary(scoresRun, summary); err != nil {
		return err
	}
	printSummary(summary, scoresRun)

	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("%d task(s) could not be scored: %v", len(failed), failed)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scoring interrupted: %w", err)
	}
	return nil
}

// selectTasks resolves the --tasks filter against the cached responses.
// Asking for a task with no response is a collaborator failure, not a skip.
func selectTasks(available, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return available, nil
	}
	have := make(map[string]bool, len(available))
	for _, id := range available {
		have[id] = true
	}
	var missing, out []string
	for _, id := range requested {
		if !have[id] {
			missing = append(missing, id)
			continue
		}
		out = append(out, id)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no cached response for task(s): %v", missing)
	}
	sort.Strings(out)
	return out, nil
}

// buildJudge constructs the judge client when any task needs it. A missing
// key degrades to judge-unavailable scoring rather than aborting the run.
func buildJudge(ctx context.Context, needed bool, configModel string) judge.Judge {
	if !needed {
		return nil
	}
	jcfg, err := judge.ConfigFromEnv(ctx)
	if err != nil {
		log.Printf("warning: judge disabled: %v", err)
		return nil
	}
	model := flagJudgeModel
	if model == "" {
		model = configModel
	}
	return judge.NewClient(jcfg, model)
}

func printTaskScore(ts *score.TaskScore) {
	status := "FAIL"
	if ts.Passed {
		status = "PASS"
	}
	note := ""
	switch {
	case ts.Blocked:
		note = " [BLOCKED]"
	case ts.JudgeGated:
		note = " [JUDGE GATED]"
	case ts.NeedsRescore:
		note = " [NEEDS RESCORE]"
	}
	fmt.Printf("  %s: %s (%d/%d points, %.1f%%)%s\n",
		ts.TaskID, status, ts.PointsEarned, ts.TotalPoints, ts.ScorePercent*100, note)
}

func printSummary(s *score.Summary, scoresRun string) {
	fmt.Printf("\nSummary: %d/%d passed (%.1f%%)\n", s.Passed, s.Total, s.OverallPercent*100)
	fmt.Printf("Points: %d/%d\n", s.PointsEarned, s.TotalPoints)
	fmt.Printf("Credits: %d full, %d half, %d none\n",
		s.CreditCounts["1.0"], s.CreditCounts["0.5"], s.CreditCounts["0"])
	if s.Blocked > 0 {
		fmt.Printf("Blocked: %d\n", s.Blocked)
	}
	if s.NeedsRescore > 0 {
		fmt.Printf("Needs rescore: %d\n", s.NeedsRescore)
	}
	fmt.Printf("Scores saved to: %s\n", scoresRun)
}
