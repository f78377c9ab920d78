package judge

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// judgeJSON finds the outermost JSON object in judge output, tolerating
// preamble text and nested score objects.
var judgeJSON = regexp.MustCompile(`(?s)\{.*\}`)

type rawScore struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
	Rationale string  `json:"rationale"`
}

// ParseResponse recovers per-criterion scores from judge model output.
// Judges wrap JSON in markdown fences and preamble prose under output noise;
// both forms are handled, as is the flat {"criterion": 0.8} shape some
// judges fall back to. Scores are clamped to [0,1]. Criterion ids the judge
// dropped are simply absent from the result.
func ParseResponse(content string) (map[string]Score, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	blob := judgeJSON.FindString(content)
	if blob == "" {
		return nil, fmt.Errorf("no JSON object in judge response")
	}

	// Preferred shape: {"scores": {id: {"score": s, "reasoning": r}}}.
	var wrapped struct {
		Scores map[string]rawScore `json:"scores"`
	}
	if err := json.Unmarshal([]byte(blob), &wrapped); err == nil && len(wrapped.Scores) > 0 {
		return convert(wrapped.Scores), nil
	}

	// Per-id objects without the wrapper.
	var flat map[string]rawScore
	if err := json.Unmarshal([]byte(blob), &flat); err == nil && len(flat) > 0 {
		return convert(flat), nil
	}

	// Bare numeric map.
	var numeric map[string]float64
	if err := json.Unmarshal([]byte(blob), &numeric); err == nil && len(numeric) > 0 {
		out := make(map[string]Score, len(numeric))
		for id, s := range numeric {
			out[id] = Score{Score: clamp01(s)}
		}
		return out, nil
	}

	return nil, fmt.Errorf("parsing judge response: unrecognized score format")
}

func convert(raw map[string]rawScore) map[string]Score {
	out := make(map[string]Score, len(raw))
	for id, rs := range raw {
		rationale := rs.Rationale
		if rationale == "" {
			rationale = rs.Reasoning
		}
		out[id] = Score{Score: clamp01(rs.Score), Rationale: rationale}
	}
	return out
}

func clamp01(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
