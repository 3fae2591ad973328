package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis is a Store backed by a redis server. Connectivity errors are logged
// at debug level and behave like misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedis(cfg RedisConfig) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewRedisFromClient(client, cfg.TTL)
}

func NewRedisFromClient(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{client: client, ttl: ttl, prefix: "standupbot:"}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil || r.client == nil {
		return nil, false
	}

	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Default().DebugContext(ctx, "cache_get_failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte) {
	if r == nil || r.client == nil {
		return
	}

	if err := r.client.Set(ctx, r.prefix+key, val, r.ttl).Err(); err != nil {
		slog.Default().DebugContext(ctx, "cache_set_failed", "key", key, "err", err)
	}
}

func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if r == nil || r.client == nil || len(keys) == 0 {
		return
	}

	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.prefix+k)
	}

	if err := r.client.Del(ctx, full...).Err(); err != nil {
		slog.Default().WarnContext(ctx, "cache_delete_failed", "keys", keys, "err", err)
	}
}

// Ping checks redis connectivity; used by the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
