package implementation

import (
	"context"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/mapper"
	"ai-support-chat-be/internal/model"
	"ai-support-chat-be/internal/repository/contract"
	"ai-support-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatTurnMapper
}

func NewChatTurnRepository(db *gorm.DB) contract.ChatTurnRepository {
	return &ChatTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatTurnMapper(),
	}
}

func (r *ChatTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatTurnRepositoryImpl) Append(ctx context.Context, turns []*entity.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}

	models := make([]*model.ChatTurn, len(turns))
	for i, t := range turns {
		models[i] = r.mapper.ToModel(t)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*turns[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChatTurnRepositoryImpl) FindRecent(ctx context.Context, sessionId string, limit int) ([]*entity.ChatTurn, error) {
	if limit <= 0 {
		limit = 6
	}

	// Newest suffix first by seq, then reversed so callers get oldest
	// first. created_at is truncated to microseconds and shared by both
	// rows of an appended exchange, so it cannot break the tie.
	var models []*model.ChatTurn
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "seq", Desc: true},
		specification.Pagination{Limit: limit},
	)
	err := query.Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.ChatTurn, len(models))
	for i, m := range models {
		entities[len(models)-1-i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ChatTurnRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChatTurn{}).Count(&count).Error
	return count, err
}
