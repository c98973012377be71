// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/litreview/pkg/types"
)

const redisKeyPrefix = "litreview:record:"

// Redis is a Store backed by a Redis server, for caches shared between
// machines.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to cfg.RedisAddr and pings the server.
func NewRedis(ctx context.Context, cfg types.CacheConfig) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	return &Redis{rdb: rdb, ttl: cfg.TTL}, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) (*types.PaperRecord, bool, error) {
	data, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rec types.PaperRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("decoding cached record %s: %w", key, err)
	}
	return &rec, true, nil
}

// Put implements Store. A zero TTL keeps entries until evicted.
func (r *Redis) Put(ctx context.Context, key string, rec *types.PaperRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return r.rdb.Set(ctx, redisKeyPrefix+key, data, r.ttl).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
