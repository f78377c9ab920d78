package response

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StopContentFilter marks a response the provider refused to generate.
// Scoring short-circuits these to zero without attempting extraction.
const StopContentFilter = "content_filter"

// Usage records token counts and latency reported by the provider.
type Usage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	LatencyMS    float64 `json:"latency_ms"`
}

// Response is one cached model answer for one task, produced by the
// generation pipeline and consumed read-only by the scorer.
type Response struct {
	TaskID         string         `json:"task_id"`
	Model          string         `json:"model"`
	Timestamp      string         `json:"timestamp"`
	InputFiles     []string       `json:"input_files"`
	RawResponse    string         `json:"raw_response"`
	ParsedResponse map[string]any `json:"parsed_response"`
	StopReason     string         `json:"stop_reason,omitempty"`
	Usage          Usage          `json:"usage"`
}

// Blocked reports whether the provider withheld this response.
func (r *Response) Blocked() bool {
	return r.StopReason == StopContentFilter
}

// Extracted returns the structured key->value mapping for deterministic
// matching, re-attempting extraction from the raw text when the generation
// pipeline recorded none. ok=false means the response has no parseable
// structure and deterministic criteria should fail per the missing-data
// policy.
func (r *Response) Extracted() (map[string]any, bool) {
	if len(r.ParsedResponse) > 0 {
		return r.ParsedResponse, true
	}
	return ExtractJSON(r.RawResponse)
}

// RunConfig is the generation run's config.json, kept alongside responses.
type RunConfig struct {
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model"`
	TaskIDs     []string `json:"task_ids,omitempty"`
	StartedAt   string   `json:"started_at,omitempty"`
	CompletedAt string   `json:"completed_at,omitempty"`
}

// Read loads a single cached response file.
func Read(path string) (*Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing response %s: %w", path, err)
	}
	return &resp, nil
}

// Write saves a response file (used by mark-blocked; generation writes its
// own artifacts).
func Write(path string, resp *Response) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunConfig loads config.json from a run directory. A missing config is
// not an error; generation metadata is advisory.
func ReadRunConfig(runDir string) (*RunConfig, error) {
	data, err := os.ReadFile(filepath.Join(runDir, "config.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &RunConfig{}, nil
		}
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &cfg, nil
}

// List returns the task ids with a cached response in runDir, sorted.
// Workbook sidecars (TASK_ID.workbook.json) live beside the responses and
// are not responses themselves.
func List(runDir string) ([]string, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, fmt.Errorf("reading responses dir: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == "config.json" ||
			strings.HasSuffix(name, ".workbook.json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Path returns the response file path for a task within a run directory.
func Path(runDir, taskID string) string {
	return filepath.Join(runDir, taskID+".json")
}
