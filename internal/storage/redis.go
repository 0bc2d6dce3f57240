package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marketboost/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the record as one JSON value under Key. No TTL is
// set: expiry is the store's load-time filter, not the backend's job.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (r *RedisStorage) Load(ctx context.Context) (*domain.CartRecord, error) {
	data, err := r.client.Get(ctx, Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var rec domain.CartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse cart record: %w", err)
	}
	return &rec, nil
}

func (r *RedisStorage) Save(ctx context.Context, rec domain.CartRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal cart record: %w", err)
	}
	if err := r.client.Set(ctx, Key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
