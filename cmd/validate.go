package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ibbench/ibbench/internal/task"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every task definition in the corpus",
		Long:  "Load each task directory and report rubric problems (points not summing to total, unknown match types, bad regexes, malformed metadata) before they surface mid-run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			entries, err := os.ReadDir(cfg.TasksDir)
			if err != nil {
				return fmt.Errorf("reading tasks dir: %w", err)
			}

			var problems []string
			checked := 0
			for _, entry := range entries {
				if !entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
					continue
				}
				checked++
				if _, err := task.Load(filepath.Join(cfg.TasksDir, entry.Name())); err != nil {
					problems = append(problems, err.Error())
				}
			}

			if len(problems) > 0 {
				for _, p := range problems {
					fmt.Printf("  FAIL %s\n", p)
				}
				return fmt.Errorf("%d of %d task(s) failed validation", len(problems), checked)
			}
			fmt.Printf("All %d task(s) valid.\n", checked)
			return nil
		},
	}
}
