package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds judge client settings, loaded from the environment.
type Config struct {
	APIKey      string        `env:"IBBENCH_JUDGE_API_KEY"`
	BaseURL     string        `env:"IBBENCH_JUDGE_BASE_URL, default=https://generativelanguage.googleapis.com/v1beta/openai"`
	Model       string        `env:"IBBENCH_JUDGE_MODEL, default=gemini-2.0-flash"`
	Timeout     time.Duration `env:"IBBENCH_JUDGE_TIMEOUT, default=120s"`
	MaxRetries  int           `env:"IBBENCH_JUDGE_MAX_RETRIES, default=3"`
	InitialWait time.Duration `env:"IBBENCH_JUDGE_INITIAL_WAIT, default=5s"`
}

// ConfigFromEnv loads judge settings from IBBENCH_JUDGE_* variables.
func ConfigFromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("loading judge config: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("IBBENCH_JUDGE_API_KEY not set")
	}
	return &cfg, nil
}

// Client calls an OpenAI-compatible chat-completions endpoint. Rate-limit
// and transient server errors are retried here with exponential backoff;
// the scorer never retries.
type Client struct {
	cfg  *Config
	http *http.Client
}

// NewClient builds a judge client. Model may override the configured model
// (the --judge-model flag).
func NewClient(cfg *Config, model string) *Client {
	if model != "" {
		c := *cfg
		c.Model = model
		cfg = &c
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Score implements Judge over one chat-completions call for the whole batch.
func (c *Client) Score(ctx context.Context, req *Request) (map[string]Score, error) {
	prompt := buildPrompt(req)

	wait := c.cfg.InitialWait
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		scores, retryable, err := c.call(ctx, prompt)
		if err == nil {
			return scores, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("judge unavailable after %d retries: %w", c.cfg.MaxRetries, lastErr)
}

func (c *Client) call(ctx context.Context, prompt string) (map[string]Score, bool, error) {
	reqBody := map[string]any{
		"model":       c.cfg.Model,
		"temperature": 0,
		"max_tokens":  4096,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, false, err
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]any
		json.NewDecoder(resp.Body).Decode(&errBody)
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("judge API returned %d: %v", resp.StatusCode, errBody)
	}

	var chatResult struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResult); err != nil {
		return nil, false, err
	}
	if len(chatResult.Choices) == 0 {
		return nil, false, fmt.Errorf("no choices in judge response")
	}

	scores, err := ParseResponse(chatResult.Choices[0].Message.Content)
	if err != nil {
		return nil, false, err
	}
	return scores, false, nil
}

func buildPrompt(req *Request) string {
	var criteria strings.Builder
	var ids []string
	for _, c := range req.Criteria {
		ids = append(ids, c.ID)
		fmt.Fprintf(&criteria, "- **%s** (%d points): %s\n", c.ID, c.Points, c.Description)
		if len(c.CoreConcepts) > 0 {
			fmt.Fprintf(&criteria, "  Core concepts: %s\n", strings.Join(c.CoreConcepts, "; "))
		}
	}

	files := "none"
	if len(req.InputFiles) > 0 {
		files = strings.Join(req.InputFiles, ", ")
	}

	return fmt.Sprintf(`You are an expert evaluator for investment banking work products.

## Task Given to the Model
%s

## Source Documents
%s

## Response to Evaluate
%s

## Evaluation Criteria
%s
## Instructions
1. Evaluate the response against each criterion
2. Score each criterion on a 0-1 scale (0 = completely fails, 1 = perfect)
3. Provide brief reasoning for each score

Respond with ONLY a JSON object in this exact format:
{"scores": {"criterion_id": {"score": 0.0, "reasoning": "brief explanation"}}}

Include all criteria: %s`,
		req.TaskPrompt, files, req.ResponseText, criteria.String(), strings.Join(ids, ", "))
}
