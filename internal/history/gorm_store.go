package history

import (
	"context"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/repository/unitofwork"
	"ai-support-chat-be/pkg/assistant"
)

// GormStore persists turns in Postgres via the chat turn repository.
type GormStore struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ assistant.HistoryStore = &GormStore{}

func NewGormStore(uowFactory unitofwork.RepositoryFactory) *GormStore {
	return &GormStore{uowFactory: uowFactory}
}

func (s *GormStore) Fetch(ctx context.Context, sessionID string, maxTurns int) ([]assistant.Turn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ChatTurnRepository().FindRecent(ctx, sessionID, maxTurns)
	if err != nil {
		return nil, err
	}

	turns := make([]assistant.Turn, len(rows))
	for i, row := range rows {
		turns[i] = assistant.Turn{Role: row.Role, Content: row.Content}
	}
	return turns, nil
}

func (s *GormStore) Append(ctx context.Context, sessionID string, turns ...assistant.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	rows := make([]*entity.ChatTurn, len(turns))
	for i, turn := range turns {
		rows[i] = &entity.ChatTurn{
			SessionId: sessionID,
			Role:      turn.Role,
			Content:   turn.Content,
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatTurnRepository().Append(ctx, rows)
}
