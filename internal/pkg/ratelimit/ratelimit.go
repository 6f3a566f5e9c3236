// Package ratelimit implements per-client sliding-window request limits over a
// one-minute and a one-hour window.
package ratelimit

import (
	"context"
	"time"
)

type Window string

const (
	WindowMinute Window = "minute"
	WindowHour   Window = "hour"
)

const (
	minuteSpan = time.Minute
	hourSpan   = time.Hour
)

// Limits are the caps applied to each window.
type Limits struct {
	PerMinute int
	PerHour   int
}

// Result describes one admission decision. Remaining counts already include
// the current request when it was admitted.
type Result struct {
	Allowed         bool
	Exceeded        Window
	LimitMinute     int
	RemainingMinute int
	LimitHour       int
	RemainingHour   int
}

// Limiter admits or rejects a request for a client key. Implementations must be
// safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

type options struct {
	now func() time.Time
}

// Option configures a Limiter.
type Option func(*options)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newResult(l Limits, minuteCount, hourCount int) Result {
	return Result{
		LimitMinute:     l.PerMinute,
		RemainingMinute: max(l.PerMinute-minuteCount, 0),
		LimitHour:       l.PerHour,
		RemainingHour:   max(l.PerHour-hourCount, 0),
	}
}
