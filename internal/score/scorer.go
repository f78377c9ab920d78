package score

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ibbench/ibbench/internal/judge"
	"github.com/ibbench/ibbench/internal/match"
	"github.com/ibbench/ibbench/internal/response"
	"github.com/ibbench/ibbench/internal/task"
	"github.com/ibbench/ibbench/internal/workbook"
)

// judgePassThreshold marks a judge criterion as passed when its [0,1] score
// reaches it. Points are earned proportionally regardless.
const judgePassThreshold = 0.60

// Canonical rationale strings for zero-scored criteria. These are part of
// the artifact contract: run diagnostics match on them, so they change only
// together with the consumers.
const (
	RationaleBlocked          = "response blocked by provider content policy"
	RationaleNoExtraction     = "no structured output extracted from response"
	RationaleGateFailed       = "skipped: gate criterion failed"
	RationaleJudgeUnavailable = "judge unavailable"
	RationaleNotScored        = "criterion not scored by judge"
)

// WorkbookSource resolves the extracted workbook document for a task's
// spreadsheet output. A nil source or an error means cell criteria fail,
// never that scoring aborts.
type WorkbookSource func(taskID string) (*workbook.Workbook, error)

// Scorer evaluates responses against rubrics. The judge and workbook
// collaborators are injected so tests can substitute deterministic fakes;
// either may be nil when the corpus needs neither.
type Scorer struct {
	Judge     judge.Judge
	Workbooks WorkbookSource
	Now       func() time.Time
}

func (s *Scorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Score runs the task scoring state machine: blocked short-circuit, then
// deterministic criteria, then the gate check, then at most one batched
// judge call. The returned record lists criteria in rubric order.
func (s *Scorer) Score(ctx context.Context, t *task.Task, resp *response.Response) *TaskScore {
	rubric := t.Rubric
	ts := &TaskScore{
		TaskID:      t.ID,
		RubricHash:  rubric.Hash(),
		ScoredAt:    s.now(),
		TotalPoints: rubric.TotalPoints,
	}

	if resp.Blocked() {
		ts.Blocked = true
		for _, c := range rubric.Criteria {
			ts.Criteria = append(ts.Criteria, zeroResult(c, RationaleBlocked))
		}
		ts.finalize()
		return ts
	}

	extracted, extractedOK := resp.Extracted()

	results := make(map[string]CriterionResult, len(rubric.Criteria))
	gateFailed := false
	for _, c := range rubric.Deterministic() {
		r := s.evalDeterministic(c, t, extracted, extractedOK)
		if !r.Passed && c.GatesJudge {
			gateFailed = true
		}
		results[c.ID] = r
	}

	judgeCriteria := rubric.Judge()
	switch {
	case len(judgeCriteria) == 0:
		// nothing to judge
	case gateFailed:
		ts.JudgeGated = true
		for _, c := range judgeCriteria {
			results[c.ID] = zeroResult(c, RationaleGateFailed)
		}
	default:
		judgeResults, unavailable := s.runJudge(ctx, t, resp, extracted, extractedOK, judgeCriteria)
		ts.NeedsRescore = unavailable
		for id, r := range judgeResults {
			results[id] = r
		}
	}

	for _, c := range rubric.Criteria {
		ts.Criteria = append(ts.Criteria, results[c.ID])
	}
	ts.finalize()
	return ts
}

// evalDeterministic dispatches one deterministic criterion to its matcher.
// Match types are validated at rubric load, so the switch is exhaustive.
func (s *Scorer) evalDeterministic(c task.Criterion, t *task.Task, extracted map[string]any, extractedOK bool) CriterionResult {
	r := CriterionResult{
		ID:        c.ID,
		Kind:      task.KindDeterministic,
		MatchType: c.MatchType,
		Points:    c.Points,
	}

	switch c.MatchType {
	case task.MatchCellValue, task.MatchFormatting:
		r.Passed, r.Rationale = s.evalWorkbook(c, t)
	default:
		if !extractedOK {
			r.Rationale = RationaleNoExtraction
			return r
		}
		value := extractedValue(c, extracted)
		r.Actual = clip(value, 200)
		switch c.MatchType {
		case task.MatchSubstringOneOf:
			r.Passed, r.Rationale = match.SubstringOneOf(value, c.AcceptedValues, c.ForbiddenValues)
		case task.MatchRegexPattern:
			r.Passed, r.Rationale = match.RegexPattern(value, c.ValidPatterns, c.RequiredElements, c.ForbiddenElements)
		}
	}

	if r.Passed {
		r.PointsEarned = c.Points
	}
	return r
}

func (s *Scorer) evalWorkbook(c task.Criterion, t *task.Task) (bool, string) {
	if s.Workbooks == nil {
		return false, "no workbook available for cell checks"
	}
	wb, err := s.Workbooks(t.ID)
	if err != nil {
		return false, fmt.Sprintf("workbook unavailable: %v", err)
	}

	if c.MatchType == task.MatchFormatting {
		return match.Formatting(wb.CheckConventions(c.Cells))
	}

	cell, ok := wb.Lookup(c.Cell)
	if !ok {
		return false, fmt.Sprintf("cell %s not found in workbook", c.Cell)
	}
	actual, ok := cell.Numeric()
	if !ok {
		return false, fmt.Sprintf("cell %s has no numeric value", c.Cell)
	}
	return match.CellValue(actual, c.Expected, c.Tolerance)
}

// runJudge makes the single batched judge call for a task. A transport
// failure after the client's retry budget zeroes the criteria and flags the
// score for rescoring; it never aborts the run. The second return is true
// when the judge could not be reached.
func (s *Scorer) runJudge(ctx context.Context, t *task.Task, resp *response.Response, extracted map[string]any, extractedOK bool, criteria []task.Criterion) (map[string]CriterionResult, bool) {
	results := make(map[string]CriterionResult, len(criteria))

	if s.Judge == nil {
		for _, c := range criteria {
			results[c.ID] = zeroResult(c, RationaleJudgeUnavailable)
		}
		return results, true
	}

	req := &judge.Request{
		TaskID:       t.ID,
		TaskPrompt:   t.Prompt,
		ResponseText: judgeText(resp, extracted, extractedOK),
		InputFiles:   t.InputFiles,
	}
	for _, c := range criteria {
		req.Criteria = append(req.Criteria, judge.Criterion{
			ID:           c.ID,
			Description:  c.Description,
			Points:       c.Points,
			CoreConcepts: c.CoreConcepts,
		})
	}

	scores, err := s.Judge.Score(ctx, req)
	if err != nil {
		for _, c := range criteria {
			results[c.ID] = zeroResult(c, RationaleJudgeUnavailable)
		}
		return results, true
	}

	for _, c := range criteria {
		js, ok := scores[c.ID]
		if !ok {
			results[c.ID] = zeroResult(c, RationaleNotScored)
			continue
		}
		r := CriterionResult{
			ID:           c.ID,
			Kind:         task.KindJudge,
			Points:       c.Points,
			PointsEarned: int(math.Round(js.Score * float64(c.Points))),
			Passed:       js.Score >= judgePassThreshold,
			Actual:       fmt.Sprintf("%.2f", js.Score),
			Rationale:    js.Rationale,
		}
		results[c.ID] = r
	}
	return results, false
}

// judgeText picks what the judge evaluates: the structured extraction when
// present, the raw text as fallback so free-text answers still get judged.
func judgeText(resp *response.Response, extracted map[string]any, extractedOK bool) string {
	if extractedOK {
		if data, err := json.MarshalIndent(extracted, "", "  "); err == nil {
			return string(data)
		}
	}
	return resp.RawResponse
}

// extractedValue resolves the candidate string for a deterministic matcher:
// the whole extraction when the criterion searches the full response, else
// the field named by the criterion id. A missing field yields "" and fails
// naturally in the matcher.
func extractedValue(c task.Criterion, extracted map[string]any) string {
	if c.SearchFullResponse {
		data, err := json.Marshal(extracted)
		if err != nil {
			return ""
		}
		return string(data)
	}
	v, ok := extracted[c.ID]
	if !ok {
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func zeroResult(c task.Criterion, rationale string) CriterionResult {
	return CriterionResult{
		ID:        c.ID,
		Kind:      c.Kind,
		MatchType: c.MatchType,
		Points:    c.Points,
		Rationale: rationale,
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
