package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "nurture:"

// RedisBlobStore keeps blobs as plain Redis strings without expiry.
type RedisBlobStore struct {
	client *redis.Client
}

func NewRedisBlobStore(client *redis.Client) *RedisBlobStore {
	return &RedisBlobStore{client: client}
}

func (s *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBlobNotFound
	}
	return data, err
}

func (s *RedisBlobStore) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (s *RedisBlobStore) Close() error {
	return s.client.Close()
}
