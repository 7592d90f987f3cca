package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one half of an exchange, keyed by the caller-supplied
// session id. Turns are append-only and never mutated or reordered.
type ChatTurn struct {
	Id        uuid.UUID
	SessionId string
	Role      string
	Content   string
	// Seq is assigned by the store and strictly increases in insertion
	// order, including within one appended exchange.
	Seq       int64
	CreatedAt time.Time
}
