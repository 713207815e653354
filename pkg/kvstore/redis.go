package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection configuration.
type RedisConfig struct {
	// ConnectionURL should be in the format "redis://:password@localhost:6379/0"
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// KeyPrefix namespaces all keys so multiple clients can share a database.
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"sessionkit:"`
}

// Connect establishes a Redis connection, retrying per the configuration.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}

// Redis implements Store on a go-redis client. It does not implement
// WatchableStore; cross-process notification over Redis would require
// keyspace notifications, which most hosted setups disable.
type Redis struct {
	db     redis.UniversalClient
	prefix string
}

// NewRedis wraps an established Redis client. The prefix namespaces every
// key; pass the configured RedisConfig.KeyPrefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{db: client, prefix: prefix}
}

// Get retrieves the value for key, or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	value, err := r.db.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores the value under key without expiration; credentials outlive
// any single process run.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	if err := r.db.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kvstore: redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the key. Absent keys are ignored.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	if err := r.db.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("kvstore: redis delete %s: %w", key, err)
	}
	return nil
}
