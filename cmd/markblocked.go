package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ibbench/ibbench/internal/response"
)

func newMarkBlockedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-blocked MODEL/RUN_ID TASK_ID",
		Short: "Record a provider content-filter refusal for a task",
		Long:  "Writes a blocked response stub so scoring can report the task as blocked instead of missing. Refuses to overwrite an existing response.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			model, runID, err := splitRunPath(args[0])
			if err != nil {
				return err
			}
			taskID := args[1]

			runDir := filepath.Join(cfg.ResponsesDir(), model, runID)
			if _, err := os.Stat(runDir); err != nil {
				return fmt.Errorf("run directory not found: %s", runDir)
			}

			path := response.Path(runDir, taskID)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("response already exists: %s (delete it first to mark as blocked)", path)
			}

			runConfig, err := response.ReadRunConfig(runDir)
			if err != nil {
				return err
			}
			modelName := runConfig.Model
			if modelName == "" {
				modelName = model
			}

			blocked := &response.Response{
				TaskID:     taskID,
				Model:      modelName,
				Timestamp:  time.Now().UTC().Format(time.RFC3339),
				StopReason: response.StopContentFilter,
			}
			if err := response.Write(path, blocked); err != nil {
				return err
			}
			fmt.Printf("Marked %s as blocked (content filter)\n", taskID)
			fmt.Printf("Saved to: %s\n", path)
			return nil
		},
	}
}
