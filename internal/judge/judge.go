// Package judge defines the LLM-as-judge collaborator: given a model's
// answer and the qualitative criteria of a rubric, it returns one score and
// rationale per criterion. The scorer treats it as an opaque oracle; all
// transport concerns (retries, timeouts) live behind the interface.
package judge

import "context"

// Criterion is the slice of a rubric criterion the judge needs to score it.
type Criterion struct {
	ID           string
	Description  string
	Points       int
	CoreConcepts []string
}

// Request batches every judge criterion of one task into a single call.
type Request struct {
	TaskID       string
	TaskPrompt   string
	ResponseText string
	InputFiles   []string
	Criteria     []Criterion
}

// Score is one judged criterion: a score in [0,1] plus the judge's stated
// rationale.
type Score struct {
	Score     float64
	Rationale string
}

// Judge scores a batch of criteria. The returned map may omit criterion ids
// the judge failed to address; callers score those as zero rather than
// treating the call as failed.
type Judge interface {
	Score(ctx context.Context, req *Request) (map[string]Score, error)
}
