package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "team:1", []byte(`{"a":1}`))
	c.Set(ctx, "team:2", []byte(`{"a":2}`))

	v, ok := c.Get(ctx, "team:1")
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(v))

	c.Delete(ctx, "team:1", "team:2")
	_, ok = c.Get(ctx, "team:1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "team:2")
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Second)

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	c.Set(ctx, "k", []byte("v"))

	c.now = func() time.Time { return base.Add(500 * time.Millisecond) }
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	c.now = func() time.Time { return base.Add(2 * time.Second) }
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_DefaultTTL(t *testing.T) {
	c := NewMemory(0)
	assert.Equal(t, 5*time.Second, c.ttl)
}

func TestRedis_UnreachableBehavesAsMiss(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedisFromClient(client, time.Minute)
	defer func() { _ = r.Close() }()

	r.Set(ctx, "k", []byte("v"))
	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	r.Delete(ctx, "k")
}

func TestNoop(t *testing.T) {
	var s Store = Noop{}
	s.Set(context.Background(), "k", []byte("v"))
	_, ok := s.Get(context.Background(), "k")
	assert.False(t, ok)
}
