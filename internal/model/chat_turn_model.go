package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn rows are append-only: no updates, no soft delete. Concurrent
// appends to the same session interleave in insertion order.
type ChatTurn struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string    `gorm:"type:varchar(255);not null;index:idx_chat_turns_session_seq,priority:1"`
	Role      string    `gorm:"type:varchar(20);not null"`
	Content   string    `gorm:"type:text"`
	// Seq is the ordering key. CreatedAt is truncated to microseconds
	// and shared by every row of a batch insert, so it cannot order the
	// turns of one exchange; the DB-assigned sequence can.
	Seq       int64     `gorm:"->;column:seq;type:bigserial;index:idx_chat_turns_session_seq,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
