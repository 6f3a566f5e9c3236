// Package cache provides a small typed TTL cache with hit/miss counters.
package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Metrics tracks cache performance
type Metrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// TTLCache is a concurrency-safe cache whose entries expire after a fixed TTL.
type TTLCache[T any] struct {
	store  *gocache.Cache
	name   string
	logger *zap.Logger

	hits, misses, sets atomic.Int64
}

// New creates a cache named name whose entries live for ttl.
func New[T any](ttl time.Duration, name string, logger *zap.Logger) *TTLCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TTLCache[T]{
		store:  gocache.New(ttl, 2*ttl),
		name:   name,
		logger: logger,
	}
}

func (c *TTLCache[T]) Get(key string) (T, bool) {
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.hits.Add(1)
			return typed, true
		}
	}
	c.misses.Add(1)
	var zero T
	return zero, false
}

func (c *TTLCache[T]) Set(key string, value T) {
	c.store.SetDefault(key, value)
	c.sets.Add(1)
	c.logger.Debug("Cache set", zap.String("cache", c.name), zap.String("key", key))
}

// Metrics returns a snapshot of the counters.
func (c *TTLCache[T]) Metrics() Metrics {
	return Metrics{Hits: c.hits.Load(), Misses: c.misses.Load(), Sets: c.sets.Load()}
}

// Counters returns the hit, miss and set counts in that order.
func (c *TTLCache[T]) Counters() (hits, misses, sets int64) {
	m := c.Metrics()
	return m.Hits, m.Misses, m.Sets
}

func (c *TTLCache[T]) Name() string {
	return c.name
}
