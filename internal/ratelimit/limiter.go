// Package ratelimit throttles callers of the chat endpoint.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the outcome of a single Allow call
type Decision struct {
	Allowed   bool
	// Limit is the most requests a key can make within one minute
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// WindowLimit is the per-minute ceiling both limiters report: the sustained
// rate plus the burst allowance
func WindowLimit(requestsPerMinute, burst int) int {
	return requestsPerMinute + burst
}

// LocalLimiter is an in-process token bucket per key, used when Redis is disabled.
// Limits are per replica.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	rate     rate.Limit
	burst    int
	limit    int
	idleTTL  time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows requestsPerMinute sustained with burst headroom
func NewLocalLimiter(requestsPerMinute, burst int) *LocalLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LocalLimiter{
		limiters: make(map[string]*entry),
		rate:     rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burst,
		limit:    WindowLimit(requestsPerMinute, burst),
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes one token for key
func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(now)

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now

	allowed := e.limiter.AllowN(now, 1)
	remaining := int(e.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	reset := now
	if !allowed && l.rate > 0 {
		reset = now.Add(time.Duration(float64(time.Second) / float64(l.rate)))
	}

	return Decision{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   reset,
	}, nil
}

// evict drops buckets not used for idleTTL so the map stays bounded
func (l *LocalLimiter) evict(now time.Time) {
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
}
