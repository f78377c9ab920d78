package response

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	// First balanced-to-one-level JSON object in free text. Models wrap
	// their answer in prose often enough that this fallback earns its keep.
	bareJSON = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

// ExtractJSON pulls a structured key->value object out of raw model output.
// Tries a direct parse, then a fenced ```json block, then the first JSON
// object found in the text. ok=false means no object could be recovered;
// that is a scoreable outcome, not an error.
func ExtractJSON(text string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		return obj, true
	}

	if m := fencedJSON.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &obj); err == nil {
			return obj, true
		}
	}

	if m := bareJSON.FindString(trimmed); m != "" {
		if err := json.Unmarshal([]byte(m), &obj); err == nil {
			return obj, true
		}
	}

	return nil, false
}
