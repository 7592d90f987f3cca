package retrieval

import (
	"context"
	"fmt"
	"strconv"

	"ai-support-chat-be/internal/repository/unitofwork"
	"ai-support-chat-be/pkg/assistant"
)

// DocumentRetriever adapts the document repository's vector search to
// the pipeline's Retriever interface.
type DocumentRetriever struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ assistant.Retriever = &DocumentRetriever{}

func NewDocumentRetriever(uowFactory unitofwork.RepositoryFactory) *DocumentRetriever {
	return &DocumentRetriever{uowFactory: uowFactory}
}

func (r *DocumentRetriever) Search(ctx context.Context, vector []float32, topK int) ([]assistant.Hit, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentRepository().SearchSimilarWithScore(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]assistant.Hit, 0, len(scored))
	for _, s := range scored {
		if s == nil || s.Document == nil {
			continue
		}
		doc := s.Document
		payload := make(map[string]any, len(doc.Payload)+3)
		for k, v := range doc.Payload {
			payload[k] = v
		}
		payload["source_id"] = doc.SourceId
		payload["text"] = doc.Content
		payload["chunk_index"] = strconv.Itoa(doc.ChunkIndex)

		hits = append(hits, assistant.Hit{
			ID:      doc.Id.String(),
			Score:   s.Similarity,
			Payload: payload,
		})
	}
	return hits, nil
}
