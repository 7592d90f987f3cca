package retrieval

import (
	"context"
	"fmt"

	"ai-support-chat-be/pkg/assistant"
	"ai-support-chat-be/pkg/embedding"
)

// ProviderEmbedder adapts an embedding.EmbeddingProvider to the
// pipeline's Embedder interface.
type ProviderEmbedder struct {
	provider embedding.EmbeddingProvider
	taskType string
}

var _ assistant.Embedder = &ProviderEmbedder{}

func NewProviderEmbedder(provider embedding.EmbeddingProvider) *ProviderEmbedder {
	return &ProviderEmbedder{
		provider: provider,
		taskType: "RETRIEVAL_QUERY",
	}
}

func (e *ProviderEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.provider.Generate(ctx, text, e.taskType)
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}
	if resp == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding provider returned empty vector")
	}
	return resp.Embedding.Values, nil
}
