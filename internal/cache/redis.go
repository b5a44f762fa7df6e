package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/msomdec/rolecall/internal/domain"
)

// ClientOption adjusts the parsed redis options before the client is built.
type ClientOption func(*redis.Options)

// NewRedisClient creates a universal redis client from a redis:// URL.
func NewRedisClient(redisURL string, options ...ClientOption) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cant parse redis url: %w", err)
	}
	for _, opt := range options {
		opt(opts)
	}
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{opts.Addr},
		DB:           opts.DB,
		Username:     opts.Username,
		Password:     opts.Password,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		MaxRetries:   opts.MaxRetries,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	}), nil
}

// Redis is a domain.Cache stored in redis under "<prefix>:<key>", values
// encoded as JSON.
type Redis[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis creates a redis-backed cache. A zero ttl keeps entries until removed.
func NewRedis[T any](client redis.UniversalClient, prefix string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return r.decode(key, data)
}

func (r *Redis[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("can't marshal item of type %T: %w", value, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Remove deletes the key atomically with GETDEL and returns its previous value.
func (r *Redis[T]) Remove(ctx context.Context, key string) (T, bool, error) {
	var zero T
	data, err := r.client.GetDel(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("redis getdel %q: %w", key, err)
	}
	return r.decode(key, data)
}

func (r *Redis[T]) decode(key string, data []byte) (T, bool, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("can't unmarshal item of type %T (key=%q): %w", v, key, err)
	}
	return v, true, nil
}

func (r *Redis[T]) key(key string) string {
	return r.prefix + ":" + key
}

var _ domain.Cache[int] = (*Redis[int])(nil)
