package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-support-chat-be/pkg/assistant"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chat:history:"

// RedisStore keeps each session's turns in a Redis list, newest at the
// tail. RPUSH is atomic, so concurrent appends never corrupt a list.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ assistant.HistoryStore = &RedisStore{}

// NewRedisStore wraps an existing client. A zero ttl means sessions
// never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (s *RedisStore) Fetch(ctx context.Context, sessionID string, maxTurns int) ([]assistant.Turn, error) {
	if maxTurns <= 0 {
		return nil, nil
	}

	raw, err := s.client.LRange(ctx, sessionKey(sessionID), int64(-maxTurns), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	turns := make([]assistant.Turn, 0, len(raw))
	for _, item := range raw {
		var turn assistant.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			// Skip malformed rows rather than failing the fetch.
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turns ...assistant.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, len(turns))
	for i, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("marshal turn: %w", err)
		}
		values[i] = data
	}

	key := sessionKey(sessionID)
	if err := s.client.RPush(ctx, key, values...).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}
	return nil
}
