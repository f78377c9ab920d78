// Package report produces the diagnostic analysis of one scored run:
// tier scores, credit histogram, health warnings, per-kind criterion pass
// rates, and an API cost estimate from recorded token usage.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ibbench/ibbench/internal/leaderboard"
	"github.com/ibbench/ibbench/internal/pricing"
	"github.com/ibbench/ibbench/internal/response"
	"github.com/ibbench/ibbench/internal/score"
	"github.com/ibbench/ibbench/internal/task"
)

// Input is everything the analysis draws on. Pricing and Responses are
// optional; without them the cost estimate is omitted.
type Input struct {
	Model      string
	RunID      string
	Config     *response.RunConfig
	Scores     []*score.TaskScore
	TaskCounts map[task.Tier]int
	Weights    leaderboard.Weights
	Responses  []*response.Response
	Pricing    *pricing.Table
}

// TierSummary is one tier's aggregate within a single run.
type TierSummary struct {
	Attempted int      `json:"attempted"`
	Total     int      `json:"total"`
	Credits   float64  `json:"credits"`
	Score     *float64 `json:"score"` // nil when the tier was not attempted
}

// Analysis is the computed run diagnosis, also the JSON output shape.
type Analysis struct {
	Model            string                 `json:"model"`
	RunID            string                 `json:"run_id"`
	StartedAt        string                 `json:"started_at,omitempty"`
	TasksAttempted   int                    `json:"tasks_attempted"`
	TasksTotal       int                    `json:"tasks_total"`
	Overall          float64                `json:"overall"`
	Tiers            map[string]TierSummary `json:"tiers"`
	CreditCounts     map[string]int         `json:"credit_counts"`
	Blocked          int                    `json:"blocked"`
	Warnings         []string               `json:"warnings"`
	PassRates        map[string]PassRate    `json:"pass_rates_by_kind"`
	EstimatedCostUSD *float64               `json:"estimated_cost_usd,omitempty"`
}

// PassRate counts criterion outcomes for one criterion kind.
type PassRate struct {
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

// Build computes the analysis from run artifacts.
func Build(in *Input) *Analysis {
	a := &Analysis{
		Model:        in.Model,
		RunID:        in.RunID,
		CreditCounts: map[string]int{"0": 0, "0.5": 0, "1.0": 0},
		Tiers:        make(map[string]TierSummary, len(task.Tiers)),
		PassRates:    make(map[string]PassRate),
	}
	if in.Config != nil {
		a.StartedAt = in.Config.StartedAt
	}
	for _, n := range in.TaskCounts {
		a.TasksTotal += n
	}

	credits := map[task.Tier]float64{}
	attempted := map[task.Tier]int{}
	for _, ts := range in.Scores {
		a.TasksAttempted++
		tier, err := task.TierOf(ts.TaskID)
		if err != nil {
			continue
		}
		credits[tier] += score.Credit(ts.ScorePercent)
		attempted[tier]++
		a.CreditCounts[score.CreditKey(score.Credit(ts.ScorePercent))]++
		if ts.Blocked {
			a.Blocked++
		}
		for _, c := range ts.Criteria {
			pr := a.PassRates[string(c.Kind)]
			pr.Total++
			if c.Passed {
				pr.Passed++
			}
			a.PassRates[string(c.Kind)] = pr
		}
	}

	for _, tier := range task.Tiers {
		sum := TierSummary{
			Attempted: attempted[tier],
			Total:     in.TaskCounts[tier],
			Credits:   credits[tier],
		}
		if sum.Attempted > 0 {
			s := credits[tier] / float64(sum.Attempted) * 100
			sum.Score = &s
			a.Overall += s * in.Weights.For(tier)
		}
		a.Tiers[string(tier)] = sum
	}

	a.Warnings = collectWarnings(in.Scores)
	a.EstimatedCostUSD = estimateCost(in)
	return a
}

func collectWarnings(scores []*score.TaskScore) []string {
	var warnings []string
	var zero, gated, blocked, extraction int
	var judgeSkipped []string

	for _, ts := range scores {
		if ts.ScorePercent == 0 && !ts.Blocked {
			zero++
		}
		if ts.JudgeGated {
			gated++
		}
		if ts.Blocked {
			blocked++
		}
		for _, c := range ts.Criteria {
			switch c.Rationale {
			case score.RationaleNoExtraction:
				extraction++
			case score.RationaleNotScored, score.RationaleJudgeUnavailable:
				judgeSkipped = append(judgeSkipped, ts.TaskID)
			}
		}
	}

	if zero > 0 {
		warnings = append(warnings, fmt.Sprintf("%d task(s) scored 0%% - check rubrics or model output", zero))
	}
	if len(judgeSkipped) > 0 {
		warnings = append(warnings, fmt.Sprintf("judge skipped criteria on: %s", joinLimited(dedupe(judgeSkipped), 5)))
	}
	if extraction > 0 {
		warnings = append(warnings, fmt.Sprintf("%d criterion evaluation(s) hit extraction failures", extraction))
	}
	if gated > 0 {
		warnings = append(warnings, fmt.Sprintf("%d task(s) had judge evaluation gated by a failed deterministic criterion", gated))
	}
	if blocked > 0 {
		warnings = append(warnings, fmt.Sprintf("%d task(s) blocked by provider content policy", blocked))
	}
	return warnings
}

func estimateCost(in *Input) *float64 {
	if in.Pricing == nil || len(in.Responses) == 0 {
		return nil
	}
	total := 0.0
	known := false
	for _, r := range in.Responses {
		cost, ok := in.Pricing.ModelCost(in.Model, r.Usage.InputTokens, r.Usage.OutputTokens)
		if ok {
			known = true
			total += cost
		}
	}
	if !known {
		return nil
	}
	return &total
}

// Generate writes the analysis in the requested format.
func Generate(in *Input, format string, w io.Writer) error {
	a := Build(in)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	default:
		return writeText(a, w)
	}
}

func writeText(a *Analysis, w io.Writer) error {
	fmt.Fprintf(w, "Run analysis: %s/%s\n", a.Model, a.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\nMetadata")
	if a.StartedAt != "" {
		fmt.Fprintf(w, "  Run date: %s\n", a.StartedAt)
	}
	fmt.Fprintf(w, "  Tasks:    %d attempted / %d total\n", a.TasksAttempted, a.TasksTotal)

	fmt.Fprintln(w, "\nScore summary")
	fmt.Fprintf(w, "  Overall: %.1f / 100\n", a.Overall)
	for _, tier := range task.Tiers {
		sum := a.Tiers[string(tier)]
		if sum.Score != nil {
			fmt.Fprintf(w, "  %-8s %.1f (%.1f credits / %d tasks)\n",
				tier, *sum.Score, sum.Credits, sum.Attempted)
		} else {
			fmt.Fprintf(w, "  %-8s -    (not attempted)\n", tier)
		}
	}
	fmt.Fprintf(w, "  Credits: %d full, %d half, %d none\n",
		a.CreditCounts["1.0"], a.CreditCounts["0.5"], a.CreditCounts["0"])

	fmt.Fprintln(w, "\nHealth warnings")
	if len(a.Warnings) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, warning := range a.Warnings {
		fmt.Fprintf(w, "  - %s\n", warning)
	}

	fmt.Fprintln(w, "\nCriterion pass rates")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	kinds := make([]string, 0, len(a.PassRates))
	for kind := range a.PassRates {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		pr := a.PassRates[kind]
		pct := 0.0
		if pr.Total > 0 {
			pct = float64(pr.Passed) / float64(pr.Total) * 100
		}
		flag := ""
		if pct < 30 && pr.Total >= 3 {
			flag = "  <- low"
		}
		fmt.Fprintf(tw, "  %s\t%d/%d passed\t(%.0f%%)%s\n", kind, pr.Passed, pr.Total, pct, flag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if a.EstimatedCostUSD != nil {
		fmt.Fprintf(w, "\nEstimated API cost: $%.2f\n", *a.EstimatedCostUSD)
	}
	return nil
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	var out []string
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func joinLimited(list []string, n int) string {
	if len(list) <= n {
		return strings.Join(list, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(list[:n], ", "), len(list)-n)
}
