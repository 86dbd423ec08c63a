package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gamestate:"

// RedisStore keeps the save document under a gamestate:<slot> key. Unlike a
// cache entry, the key carries no TTL: saved progress must not expire.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewRedisStore connects to the Redis at url (redis://host:port form) and
// stores the given slot.
func NewRedisStore(url, slot string, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opts), slot, logger), nil
}

// NewRedisStoreFromClient wraps an existing client; used by tests.
func NewRedisStoreFromClient(client *redis.Client, slot string, logger *slog.Logger) *RedisStore {
	if slot == "" {
		slot = "default"
	}
	return &RedisStore{
		client: client,
		key:    keyPrefix + slot,
		logger: logger,
	}
}

// Ping tests the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		r.logger.Debug("no saved gamestate", "key", r.key)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return data, true, nil
}

func (r *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	r.logger.Debug("saved game state", "key", r.key, "bytes", len(data))
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
