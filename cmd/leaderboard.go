package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ibbench/ibbench/internal/leaderboard"
	"github.com/ibbench/ibbench/internal/task"
)

var (
	flagLBFormat string
	flagLBOut    string
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank models across all scored runs",
		RunE:  runLeaderboard,
	}
	cmd.Flags().StringVar(&flagLBFormat, "format", "table", "output format (table, json)")
	cmd.Flags().StringVar(&flagLBOut, "out", "", "write the JSON snapshot to a file")
	return cmd
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	taskCounts, err := task.CountByTier(cfg.TasksDir)
	if err != nil {
		return err
	}
	weights := leaderboard.Weights{
		Easy:   cfg.Weights.Easy,
		Medium: cfg.Weights.Medium,
		Hard:   cfg.Weights.Hard,
	}

	entries, err := leaderboard.Build(cfg.ScoresDir(), taskCounts, weights, cfg.Models)
	if err != nil {
		return err
	}

	switch flagLBFormat {
	case "json":
		doc := leaderboard.BuildExport(entries, weights, taskCounts, time.Now().UTC())
		if flagLBOut != "" {
			if err := leaderboard.WriteExport(flagLBOut, doc); err != nil {
				return err
			}
			fmt.Printf("Exported to: %s\n", flagLBOut)
			return nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "table":
		if err := leaderboard.Render(os.Stdout, entries, weights); err != nil {
			return err
		}
		if flagLBOut != "" {
			doc := leaderboard.BuildExport(entries, weights, taskCounts, time.Now().UTC())
			if err := leaderboard.WriteExport(flagLBOut, doc); err != nil {
				return err
			}
			fmt.Printf("Exported to: %s\n", flagLBOut)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", flagLBFormat)
}
