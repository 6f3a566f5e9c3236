package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type clientWindows struct {
	minute []time.Time
	hour   []time.Time
}

// MemoryLimiter keeps request timestamps per client in process memory.
// Idle clients are evicted by the cache after an hour without requests.
type MemoryLimiter struct {
	mu     sync.Mutex
	limits Limits
	store  *cache.Cache
	now    func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(limits Limits, opts ...Option) *MemoryLimiter {
	o := applyOptions(opts)
	return &MemoryLimiter{
		limits: limits,
		store:  cache.New(hourSpan, 10*time.Minute),
		now:    o.now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w := &clientWindows{}
	if v, ok := m.store.Get(key); ok {
		w = v.(*clientWindows)
	}
	w.minute = prune(w.minute, now.Add(-minuteSpan))
	w.hour = prune(w.hour, now.Add(-hourSpan))

	var res Result
	switch {
	case len(w.minute) >= m.limits.PerMinute:
		res = newResult(m.limits, len(w.minute), len(w.hour))
		res.Exceeded = WindowMinute
	case len(w.hour) >= m.limits.PerHour:
		res = newResult(m.limits, len(w.minute), len(w.hour))
		res.Exceeded = WindowHour
	default:
		w.minute = append(w.minute, now)
		w.hour = append(w.hour, now)
		res = newResult(m.limits, len(w.minute), len(w.hour))
		res.Allowed = true
	}

	m.store.Set(key, w, cache.DefaultExpiration)
	return res, nil
}

// prune drops timestamps at or before cutoff. Timestamps are appended in order.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	return append(ts[:0], ts[i:]...)
}
