package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ibbench/ibbench/internal/task"
)

var flagListTier string

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the task corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			filter := task.Filter{}
			if flagListTier != "" {
				prefix, err := tierPrefix(flagListTier)
				if err != nil {
					return err
				}
				filter.Prefix = prefix
			}
			tasks, err := task.LoadAll(cfg.TasksDir, filter)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TASK\tTIER\tCATEGORY\tPOINTS\tCRITERIA")
			fmt.Fprintln(tw, strings.Repeat("-", 60))
			counts := map[task.Tier]int{}
			for _, t := range tasks {
				counts[t.Tier()]++
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d det / %d judge\n",
					t.ID, t.Tier(), t.Category, t.Rubric.TotalPoints,
					len(t.Rubric.Deterministic()), len(t.Rubric.Judge()))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d task(s): %d easy, %d medium, %d hard\n",
				len(tasks), counts[task.TierEasy], counts[task.TierMedium], counts[task.TierHard])
			return nil
		},
	}
	cmd.Flags().StringVar(&flagListTier, "tier", "", "filter by tier (easy, medium, hard)")
	return cmd
}

// tierPrefix maps a tier name to its task id prefix.
func tierPrefix(tier string) (string, error) {
	switch task.Tier(tier) {
	case task.TierEasy:
		return "e-", nil
	case task.TierMedium:
		return "m-", nil
	case task.TierHard:
		return "h-", nil
	}
	return "", fmt.Errorf("unknown tier %q (expected easy, medium, or hard)", tier)
}
