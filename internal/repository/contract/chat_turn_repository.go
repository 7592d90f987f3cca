package contract

import (
	"context"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/repository/specification"
)

type ChatTurnRepository interface {
	// Append inserts turns in order. Rows are never updated afterwards.
	Append(ctx context.Context, turns []*entity.ChatTurn) error
	// FindRecent returns up to limit of the newest turns for a
	// session, oldest first.
	FindRecent(ctx context.Context, sessionId string, limit int) ([]*entity.ChatTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
