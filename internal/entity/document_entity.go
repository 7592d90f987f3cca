package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is one embedded knowledge-base chunk. SourceId groups the
// chunks that came from the same FAQ/manual entry and is what answers
// cite.
type Document struct {
	Id         uuid.UUID
	SourceId   string
	Content    string
	Payload    map[string]interface{}
	Embedding  []float32
	ChunkIndex int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
