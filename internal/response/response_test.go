package response_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibbench/ibbench/internal/response"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
		ok   bool
	}{
		{
			"direct object",
			`{"error_location": "Row 140"}`,
			map[string]any{"error_location": "Row 140"},
			true,
		},
		{
			"fenced json block",
			"Here is my answer:\n```json\n{\"answer\": \"42\"}\n```\nDone.",
			map[string]any{"answer": "42"},
			true,
		},
		{
			"unlabeled fence",
			"```\n{\"answer\": \"42\"}\n```",
			map[string]any{"answer": "42"},
			true,
		},
		{
			"bare object in prose",
			`The result is {"value": 16477} as computed.`,
			map[string]any{"value": float64(16477)},
			true,
		},
		{
			"nested object",
			`Answer: {"outer": {"inner": 1}}`,
			map[string]any{"outer": map[string]any{"inner": float64(1)}},
			true,
		},
		{"no json at all", "I cannot answer this question.", nil, false},
		{"empty", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := response.ExtractJSON(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractedPrefersParsed(t *testing.T) {
	r := &response.Response{
		RawResponse:    `{"from_raw": true}`,
		ParsedResponse: map[string]any{"from_parsed": true},
	}
	got, ok := r.Extracted()
	require.True(t, ok)
	assert.Contains(t, got, "from_parsed")
}

func TestExtractedFallsBackToRaw(t *testing.T) {
	r := &response.Response{RawResponse: "answer in ```json\n{\"a\": 1}\n``` form"}
	got, ok := r.Extracted()
	require.True(t, ok)
	assert.Equal(t, float64(1), got["a"])

	r = &response.Response{RawResponse: "no structure here"}
	_, ok = r.Extracted()
	assert.False(t, ok)
}

func TestBlocked(t *testing.T) {
	assert.True(t, (&response.Response{StopReason: response.StopContentFilter}).Blocked())
	assert.False(t, (&response.Response{StopReason: "end_turn"}).Blocked())
	assert.False(t, (&response.Response{}).Blocked())
}

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := response.Path(dir, "e-001")
	in := &response.Response{
		TaskID:      "e-001",
		Model:       "gpt-5.2",
		RawResponse: `{"answer": "42"}`,
		Usage:       response.Usage{InputTokens: 100, OutputTokens: 50},
	}
	require.NoError(t, response.Write(path, in))

	out, err := response.Read(path)
	require.NoError(t, err)
	assert.Equal(t, in.TaskID, out.TaskID)
	assert.Equal(t, in.Usage, out.Usage)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"m-001.json", "e-001.json", "config.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	ids, err := response.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"e-001", "m-001"}, ids)
}

func TestListSkipsWorkbookSidecars(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"e-001.json", "e-001.workbook.json", "config.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	ids, err := response.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"e-001"}, ids)
}

func TestReadRunConfigMissing(t *testing.T) {
	cfg, err := response.ReadRunConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &response.RunConfig{}, cfg)
}
