package mapper

import (
	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/model"
)

type ChatTurnMapper struct{}

func NewChatTurnMapper() *ChatTurnMapper {
	return &ChatTurnMapper{}
}

func (m *ChatTurnMapper) ToEntity(t *model.ChatTurn) *entity.ChatTurn {
	if t == nil {
		return nil
	}
	return &entity.ChatTurn{
		Id:        t.Id,
		SessionId: t.SessionId,
		Role:      t.Role,
		Content:   t.Content,
		Seq:       t.Seq,
		CreatedAt: t.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToModel(t *entity.ChatTurn) *model.ChatTurn {
	if t == nil {
		return nil
	}
	// Seq is intentionally not mapped: the column is DB-assigned.
	return &model.ChatTurn{
		Id:        t.Id,
		SessionId: t.SessionId,
		Role:      t.Role,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}
