package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ibbench/ibbench/internal/config"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ibbench",
		Short: "Scoring and leaderboard harness for financial-analyst LLM evals",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "ibbench.yaml", "config file path")
	root.AddCommand(newScoreCmd())
	root.AddCommand(newLeaderboardCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newMarkBlockedCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(cfgFile)
}

// splitRunPath parses the MODEL/RUN_ID argument every run-oriented command
// takes.
func splitRunPath(s string) (model, runID string, err error) {
	model, runID, ok := strings.Cut(s, "/")
	if !ok || model == "" || runID == "" || strings.Contains(runID, "/") {
		return "", "", fmt.Errorf("expected MODEL/RUN_ID, got %q", s)
	}
	return model, runID, nil
}
