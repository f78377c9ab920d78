package cmd

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ibbench/ibbench/internal/leaderboard"
	"github.com/ibbench/ibbench/internal/pricing"
	"github.com/ibbench/ibbench/internal/report"
	"github.com/ibbench/ibbench/internal/response"
	"github.com/ibbench/ibbench/internal/score"
	"github.com/ibbench/ibbench/internal/task"
)

var flagAnalyzeFormat string

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze MODEL/RUN_ID",
		Short: "Diagnostic dump of a scored run",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	cmd.Flags().StringVar(&flagAnalyzeFormat, "format", "text", "output format (text, json)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	model, runID, err := splitRunPath(args[0])
	if err != nil {
		return err
	}

	scoresRun := filepath.Join(cfg.ScoresDir(), model, runID)
	responsesRun := filepath.Join(cfg.ResponsesDir(), model, runID)

	scores, err := score.ReadRun(scoresRun)
	if err != nil {
		return err
	}
	taskCounts, err := task.CountByTier(cfg.TasksDir)
	if err != nil {
		return err
	}
	runConfig, err := response.ReadRunConfig(responsesRun)
	if err != nil {
		log.Printf("warning: %v", err)
		runConfig = &response.RunConfig{}
	}

	in := &report.Input{
		Model:      model,
		RunID:      runID,
		Config:     runConfig,
		Scores:     scores,
		TaskCounts: taskCounts,
		Weights: leaderboard.Weights{
			Easy:   cfg.Weights.Easy,
			Medium: cfg.Weights.Medium,
			Hard:   cfg.Weights.Hard,
		},
	}

	if cfg.Pricing != "" {
		table, err := pricing.Load(cfg.Pricing)
		if err != nil {
			log.Printf("warning: skipping cost estimate: %v", err)
		} else {
			in.Pricing = table
			in.Responses = loadResponses(responsesRun)
		}
	}

	return report.Generate(in, flagAnalyzeFormat, os.Stdout)
}

// loadResponses best-effort reads the run's responses for cost estimation.
func loadResponses(runDir string) []*response.Response {
	ids, err := response.List(runDir)
	if err != nil {
		return nil
	}
	var out []*response.Response
	for _, id := range ids {
		r, err := response.Read(response.Path(runDir, id))
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
