package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ibbench/ibbench/internal/compare"
	"github.com/ibbench/ibbench/internal/score"
)

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare OLD_MODEL/RUN_ID NEW_MODEL/RUN_ID",
		Short: "Diff two scored runs for regressions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			oldScores, err := readRunScores(cfg.ScoresDir(), args[0])
			if err != nil {
				return err
			}
			newScores, err := readRunScores(cfg.ScoresDir(), args[1])
			if err != nil {
				return err
			}
			result := compare.Runs(oldScores, newScores)
			return compare.Render(os.Stdout, args[0], args[1], result)
		},
	}
}

func readRunScores(scoresDir, runPath string) ([]*score.TaskScore, error) {
	model, runID, err := splitRunPath(runPath)
	if err != nil {
		return nil, err
	}
	return score.ReadRun(filepath.Join(scoresDir, model, runID))
}
