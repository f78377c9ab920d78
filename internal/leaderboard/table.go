package leaderboard

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ibbench/ibbench/internal/task"
)

// newTable builds a table writer with the standard rendering used for all
// CLI tables.
func newTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 120,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// Render prints the ranked leaderboard table. Tiers without attempts show
// "-" so a skipped tier never reads as a zero score.
func Render(w io.Writer, entries []Entry, weights Weights) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No scored runs found.")
		return nil
	}

	table := newTable([]string{"Rank", "Model", "Overall", "Easy", "Medium", "Hard", "Tasks", "Blocked"}, w)
	for _, e := range entries {
		row := []string{
			fmt.Sprintf("%d", e.Rank),
			e.Model,
			fmt.Sprintf("%.1f", e.Overall),
		}
		for _, tier := range task.Tiers {
			ts := e.Tiers[tier]
			if ts.Attempted() {
				row = append(row, fmt.Sprintf("%.1f (%d/%d)", ts.Score, ts.Completed, ts.Total))
			} else {
				row = append(row, "-")
			}
		}
		row = append(row, fmt.Sprintf("%d/%d", e.TasksAttempted, e.TasksTotal))
		blocked := "-"
		if e.TasksBlocked > 0 {
			blocked = fmt.Sprintf("%d", e.TasksBlocked)
		}
		row = append(row, blocked)
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nWeights: easy=%.0f%% medium=%.0f%% hard=%.0f%%\n",
		weights.Easy*100, weights.Medium*100, weights.Hard*100)
	return nil
}
