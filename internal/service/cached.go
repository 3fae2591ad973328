package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/geocoder89/standupbot/internal/cache"
	"github.com/geocoder89/standupbot/internal/observability"
)

// generations counts invalidations per cache key. A load that started
// before an invalidation must not leave its result in the cache.
type generations struct {
	mu sync.Mutex
	m  map[string]uint64
}

func newGenerations() *generations {
	return &generations{m: make(map[string]uint64)}
}

func (g *generations) current(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m[key]
}

func (g *generations) bump(keys ...string) {
	g.mu.Lock()
	for _, k := range keys {
		g.m[k]++
	}
	g.mu.Unlock()
}

// readCache bundles the store with its invalidation bookkeeping.
type readCache struct {
	store cache.Store
	gens  *generations
	prom  *observability.Prom
}

// invalidate must run after the write it covers has been committed.
func (rc *readCache) invalidate(ctx context.Context, keys ...string) {
	rc.gens.bump(keys...)
	rc.store.Delete(ctx, keys...)
}

// cached serves key from the cache when present and otherwise loads, stores
// and returns a fresh value. Undecodable entries count as misses. When the
// key is invalidated while load runs, the stored value is removed again.
func cached[T any](ctx context.Context, rc *readCache, family, key string, load func() (T, error)) (T, error) {
	if b, ok := rc.store.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			rc.prom.ObserveCache(family, true)
			return v, nil
		}
	}
	rc.prom.ObserveCache(family, false)

	gen := rc.gens.current(key)

	v, err := load()
	if err != nil {
		return v, err
	}

	if rc.gens.current(key) != gen {
		return v, nil
	}

	if b, err := json.Marshal(v); err == nil {
		rc.store.Set(ctx, key, b)
		// an invalidation between the check and the Set may have deleted
		// before we wrote
		if rc.gens.current(key) != gen {
			rc.store.Delete(ctx, key)
		}
	}
	return v, nil
}
