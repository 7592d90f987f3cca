package assistant

import "context"

// Hit is a single result from the vector-search collaborator. Score is
// a similarity where higher means more relevant; it is treated as an
// ordering key, not an absolute measure.
type Hit struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// SourceInfo identifies a retrieved item that contributed to an
// answer. Score is nil when the backend did not report one.
type SourceInfo struct {
	SourceID string   `json:"source_id"`
	Score    *float64 `json:"score"`
}

// Turn is one half of an exchange in a session's history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Result is what GenerateResponse always returns, error path included.
type Result struct {
	Answer  string       `json:"answer"`
	Sources []SourceInfo `json:"sources"`
}

// Embedder turns a question into a query vector. Failure here is fatal
// for the request since retrieval cannot proceed without a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever returns the topK nearest documents to a query vector,
// ordered by descending relevance.
type Retriever interface {
	Search(ctx context.Context, vector []float32, topK int) ([]Hit, error)
}

// HistoryStore persists conversation turns per session. Append must be
// safe under concurrent appends to the same session; ordering between
// concurrent requests is undefined.
type HistoryStore interface {
	Fetch(ctx context.Context, sessionID string, maxTurns int) ([]Turn, error)
	Append(ctx context.Context, sessionID string, turns ...Turn) error
}

// NoopHistory is the null store used when history is disabled: reads
// are always empty and writes always succeed.
type NoopHistory struct{}

func (NoopHistory) Fetch(ctx context.Context, sessionID string, maxTurns int) ([]Turn, error) {
	return nil, nil
}

func (NoopHistory) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	return nil
}
