package contract

import (
	"context"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/repository/specification"
)

// ScoredDocument wraps Document with its similarity score
type ScoredDocument struct {
	Document   *entity.Document
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	CreateBulk(ctx context.Context, documents []*entity.Document) error
	DeleteBySourceId(ctx context.Context, sourceId string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns documents ordered by descending
	// cosine similarity to the query vector.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocument, error)
}
