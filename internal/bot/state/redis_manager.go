package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

// stateTTL lets abandoned conversations expire on their own.
const stateTTL = 24 * time.Hour

// RedisManager keeps user states in Redis so they survive restarts
type RedisManager struct {
	client *redis.Client
}

func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("nurture:user:%d:state", userID)
}

func tempKey(userID int64) string {
	return fmt.Sprintf("nurture:user:%d:temp", userID)
}

func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx := context.Background()
	if err := m.client.Set(ctx, stateKey(userID), state, stateTTL).Err(); err != nil {
		logger.Error("Failed to save user state", "user_id", userID, "error", err)
	}
}

// GetUserState falls back to None on a miss or a Redis error
func (m *RedisManager) GetUserState(userID int64) string {
	ctx := context.Background()
	state, err := m.client.Get(ctx, stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return None
	}
	if err != nil {
		logger.Error("Failed to read user state", "user_id", userID, "error", err)
		return None
	}
	return state
}

func (m *RedisManager) ClearUserState(userID int64) {
	m.client.Del(context.Background(), stateKey(userID))
}

func (m *RedisManager) SetTempData(userID int64, key, value string) {
	ctx := context.Background()
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to save temp data", "user_id", userID, "key", key, "error", err)
	}
}

func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	value, err := m.client.HGet(context.Background(), tempKey(userID), key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error("Failed to read temp data", "user_id", userID, "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

func (m *RedisManager) ClearTempData(userID int64) {
	m.client.Del(context.Background(), tempKey(userID))
}

func (m *RedisManager) Close() error {
	return m.client.Close()
}
