package redis_utils

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"assetmanager/src/config"

	"github.com/redis/go-redis/v9"
)

// RedisHandler is a CacheHandlerI backed by Redis, shared across API and worker processes.
type RedisHandler struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisHandler(ctx context.Context, cfg *config.Config) (*RedisHandler, error) {
	opts := &redis.Options{
		Addr:     cfg.Databases.Redis.Host + ":" + cfg.Databases.Redis.Port,
		Username: cfg.Databases.Redis.Username,
		Password: cfg.Databases.Redis.Password,
		DB:       cfg.Databases.Redis.Database,
	}
	if cfg.Databases.Redis.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisHandlerFromClient(client, "assetmanager:"), nil
}

func NewRedisHandlerFromClient(client redis.UniversalClient, prefix string) *RedisHandler {
	return &RedisHandler{client: client, prefix: prefix}
}

func (r *RedisHandler) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	return r.client.Set(ctx, r.prefix+key, data, expiration).Err()
}

func (r *RedisHandler) Get(ctx context.Context, key string, result interface{}) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to get key: %w", err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("failed to deserialize value: %w", err)
	}
	return true, nil
}

func (r *RedisHandler) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *RedisHandler) Close() error {
	return r.client.Close()
}
