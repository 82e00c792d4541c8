package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"geobot/internal/logger"
	"log/slog"
)

const keyPrefix = "session:"

// RedisStore persists sessions as JSON values in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}

// Get returns the stored session for a chat, or a default idle session
// when the chat has none yet.
func (s *RedisStore) Get(ctx context.Context, chatID int64) (Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Idle(), nil
	}
	if err != nil {
		logger.STORE.Error("session get failed",
			slog.String("event", "store.get"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return Idle(), fmt.Errorf("session get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Idle(), fmt.Errorf("session decode: %w", err)
	}
	if sess.State == "" {
		sess.State = StateIdle
	}
	return sess, nil
}

// Put upserts the session for a chat. Concurrent writers for the same
// chat race and the last write wins.
func (s *RedisStore) Put(ctx context.Context, chatID int64, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(chatID), raw, 0).Err(); err != nil {
		logger.STORE.Error("session put failed",
			slog.String("event", "store.put"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}
