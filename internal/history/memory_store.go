package history

import (
	"context"
	"sync"
	"time"

	"ai-support-chat-be/pkg/assistant"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps history in-process. Meant for development and
// single-instance deployments; entries expire so abandoned sessions do
// not accumulate forever.
type MemoryStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

var _ assistant.HistoryStore = &MemoryStore{}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{
		cache: gocache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Fetch(ctx context.Context, sessionID string, maxTurns int) ([]assistant.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, found := s.cache.Get(sessionID)
	if !found {
		return nil, nil
	}
	turns := value.([]assistant.Turn)

	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	out := make([]assistant.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, turns ...assistant.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing []assistant.Turn
	if value, found := s.cache.Get(sessionID); found {
		existing = value.([]assistant.Turn)
	}

	updated := make([]assistant.Turn, 0, len(existing)+len(turns))
	updated = append(updated, existing...)
	updated = append(updated, turns...)

	s.cache.Set(sessionID, updated, s.ttl)
	return nil
}
