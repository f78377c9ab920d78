package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Kind distinguishes deterministic (pattern-matched) criteria from
// judge (LLM-scored) criteria.
type Kind string

const (
	KindDeterministic Kind = "deterministic"
	KindJudge         Kind = "judge"
)

// MatchType selects the matcher for a deterministic criterion.
type MatchType string

const (
	MatchSubstringOneOf MatchType = "substring_one_of"
	MatchRegexPattern   MatchType = "regex_pattern"
	MatchCellValue      MatchType = "cell_value"
	MatchFormatting     MatchType = "formatting"
)

// ErrRubricPoints reports a rubric whose criteria points do not sum to
// total_points. Always raised at load time, never during scoring.
var ErrRubricPoints = errors.New("criteria points do not sum to total_points")

// Criterion is one scored dimension of a rubric. Exactly one Kind applies;
// the match configuration fields are meaningful only for deterministic
// criteria and the description/core-concept fields only for judge criteria.
type Criterion struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	Points     int    `json:"points"`
	GatesJudge bool   `json:"gates_judge,omitempty"`

	// Deterministic match configuration.
	MatchType          MatchType `json:"match_type,omitempty"`
	SearchFullResponse bool      `json:"search_full_response,omitempty"`
	AcceptedValues     []string  `json:"accepted_values,omitempty"`
	ForbiddenValues    []string  `json:"forbidden_values,omitempty"`
	ValidPatterns      []string  `json:"valid_patterns,omitempty"`
	RequiredElements   []string  `json:"required_elements,omitempty"`
	ForbiddenElements  []string  `json:"forbidden_elements,omitempty"`
	Cell               string    `json:"cell,omitempty"`
	Expected           float64   `json:"expected,omitempty"`
	Tolerance          float64   `json:"tolerance,omitempty"`
	Cells              []string  `json:"cells,omitempty"`

	// Judge configuration.
	Description  string   `json:"description,omitempty"`
	CoreConcepts []string `json:"core_concepts,omitempty"`
}

// Rubric is a named set of criteria with a declared point total.
type Rubric struct {
	Name        string      `json:"name,omitempty"`
	TotalPoints int         `json:"total_points"`
	Criteria    []Criterion `json:"criteria"`
}

// rawCriterion accepts both the current and the legacy wire fields. Older
// rubric files use type=programmatic/llm_judge and gates_llm.
type rawCriterion struct {
	ID                 string          `json:"id"`
	Type               string          `json:"type"`
	Kind               string          `json:"kind"`
	Points             int             `json:"points"`
	GatesJudge         bool            `json:"gates_judge"`
	GatesLLM           bool            `json:"gates_llm"`
	MatchType          string          `json:"match_type"`
	SearchFullResponse bool            `json:"search_full_response"`
	AcceptedValues     []string        `json:"accepted_values"`
	ForbiddenValues    []string        `json:"forbidden_values"`
	ValidPatterns      []string        `json:"valid_patterns"`
	RequiredElements   []string        `json:"required_elements"`
	ForbiddenElements  []string        `json:"forbidden_elements"`
	Cell               string          `json:"cell"`
	Expected           float64         `json:"expected"`
	Tolerance          float64         `json:"tolerance"`
	Cells              []string        `json:"cells"`
	Description        string          `json:"description"`
	CoreConcepts       []string        `json:"core_concepts"`
	Extra              json.RawMessage `json:"-"`
}

type rawRubric struct {
	Name        string          `json:"name"`
	TotalPoints int             `json:"total_points"`
	Criteria    json.RawMessage `json:"criteria"`
}

// ParseRubric decodes and validates a rubric document. Criteria may be
// written as a list with explicit ids or as a map keyed by criterion id;
// both normalize to the list form with map keys sorted for determinism.
func ParseRubric(data []byte) (*Rubric, error) {
	var raw rawRubric
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing rubric: %w", err)
	}

	rawCriteria, err := normalizeCriteria(raw.Criteria)
	if err != nil {
		return nil, err
	}

	r := &Rubric{Name: raw.Name, TotalPoints: raw.TotalPoints}
	for _, rc := range rawCriteria {
		c, err := normalizeCriterion(rc)
		if err != nil {
			return nil, err
		}
		r.Criteria = append(r.Criteria, c)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// normalizeCriteria handles the two criteria shapes found in rubric files.
func normalizeCriteria(data json.RawMessage) ([]rawCriterion, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("rubric has no criteria")
	}

	var list []rawCriterion
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var byID map[string]rawCriterion
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, fmt.Errorf("parsing rubric criteria: %w", err)
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	list = make([]rawCriterion, 0, len(byID))
	for _, id := range ids {
		c := byID[id]
		c.ID = id
		list = append(list, c)
	}
	return list, nil
}

func normalizeCriterion(rc rawCriterion) (Criterion, error) {
	c := Criterion{
		ID:                 rc.ID,
		Points:             rc.Points,
		GatesJudge:         rc.GatesJudge || rc.GatesLLM,
		MatchType:          MatchType(rc.MatchType),
		SearchFullResponse: rc.SearchFullResponse,
		AcceptedValues:     rc.AcceptedValues,
		ForbiddenValues:    rc.ForbiddenValues,
		ValidPatterns:      rc.ValidPatterns,
		RequiredElements:   rc.RequiredElements,
		ForbiddenElements:  rc.ForbiddenElements,
		Cell:               rc.Cell,
		Expected:           rc.Expected,
		Tolerance:          rc.Tolerance,
		Cells:              rc.Cells,
		Description:        rc.Description,
		CoreConcepts:       rc.CoreConcepts,
	}

	kind := rc.Kind
	if kind == "" {
		kind = rc.Type
	}
	switch kind {
	case "deterministic", "programmatic":
		c.Kind = KindDeterministic
	case "judge", "llm_judge":
		c.Kind = KindJudge
	case "":
		return c, fmt.Errorf("criterion %q: missing kind", rc.ID)
	default:
		return c, fmt.Errorf("criterion %q: unknown kind %q", rc.ID, kind)
	}
	return c, nil
}

// Validate enforces the load-time rubric contract: positive point values
// summing to total_points, unique ids, a known match type with a usable
// configuration per deterministic criterion, and compilable regex patterns.
func (r *Rubric) Validate() error {
	if r.TotalPoints <= 0 {
		return fmt.Errorf("rubric %q: total_points must be positive", r.Name)
	}
	if len(r.Criteria) == 0 {
		return fmt.Errorf("rubric %q: no criteria", r.Name)
	}

	sum := 0
	seen := make(map[string]bool, len(r.Criteria))
	for _, c := range r.Criteria {
		if c.ID == "" {
			return fmt.Errorf("rubric %q: criterion with empty id", r.Name)
		}
		if seen[c.ID] {
			return fmt.Errorf("rubric %q: duplicate criterion id %q", r.Name, c.ID)
		}
		seen[c.ID] = true
		if c.Points <= 0 || c.Points > r.TotalPoints {
			return fmt.Errorf("rubric %q: criterion %q: points %d out of range (1..%d)",
				r.Name, c.ID, c.Points, r.TotalPoints)
		}
		if err := validateKind(c); err != nil {
			return fmt.Errorf("rubric %q: %w", r.Name, err)
		}
		sum += c.Points
	}
	if sum != r.TotalPoints {
		return fmt.Errorf("rubric %q: %w (sum=%d, total_points=%d)",
			r.Name, ErrRubricPoints, sum, r.TotalPoints)
	}
	return nil
}

func validateKind(c Criterion) error {
	switch c.Kind {
	case KindJudge:
		if c.GatesJudge {
			return fmt.Errorf("criterion %q: gates_judge is only valid on deterministic criteria", c.ID)
		}
		return nil
	case KindDeterministic:
		// fallthrough to match-type checks below
	default:
		return fmt.Errorf("criterion %q: unknown kind %q", c.ID, c.Kind)
	}

	switch c.MatchType {
	case MatchSubstringOneOf:
		if len(c.AcceptedValues) == 0 {
			return fmt.Errorf("criterion %q: substring_one_of requires accepted_values", c.ID)
		}
	case MatchRegexPattern:
		if len(c.ValidPatterns) == 0 && len(c.RequiredElements) == 0 {
			return fmt.Errorf("criterion %q: regex_pattern requires valid_patterns or required_elements", c.ID)
		}
		for _, p := range c.ValidPatterns {
			if _, err := regexp.Compile("(?i)" + p); err != nil {
				return fmt.Errorf("criterion %q: invalid pattern %q: %w", c.ID, p, err)
			}
		}
	case MatchCellValue:
		if c.Cell == "" {
			return fmt.Errorf("criterion %q: cell_value requires a cell reference", c.ID)
		}
		if c.Tolerance < 0 {
			return fmt.Errorf("criterion %q: tolerance must be non-negative", c.ID)
		}
	case MatchFormatting:
		if len(c.Cells) == 0 {
			return fmt.Errorf("criterion %q: formatting requires cells to check", c.ID)
		}
	case "":
		return fmt.Errorf("criterion %q: missing match_type", c.ID)
	default:
		return fmt.Errorf("criterion %q: unknown match_type %q", c.ID, c.MatchType)
	}
	return nil
}

// Deterministic returns the deterministic criteria in rubric order.
func (r *Rubric) Deterministic() []Criterion {
	var out []Criterion
	for _, c := range r.Criteria {
		if c.Kind == KindDeterministic {
			out = append(out, c)
		}
	}
	return out
}

// Judge returns the judge criteria in rubric order.
func (r *Rubric) Judge() []Criterion {
	var out []Criterion
	for _, c := range r.Criteria {
		if c.Kind == KindJudge {
			out = append(out, c)
		}
	}
	return out
}
