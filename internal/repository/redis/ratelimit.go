package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/finance-copilot/internal/ratelimit"
)

const rateLimitPrefix = "copilot:ratelimit:"

// RateLimiter is a fixed one-minute window counter shared by all replicas
type RateLimiter struct {
	client *Client
	limit  int
	now    func() time.Time
}

// NewRateLimiter allows requestsPerMinute plus burst requests per key per minute
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  ratelimit.WindowLimit(requestsPerMinute, burst),
		now:    time.Now,
	}
}

// Allow counts one request for key in the current window
func (r *RateLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	windowStart := r.now().UTC().Truncate(time.Minute)
	windowEnd := windowStart.Add(time.Minute)
	fullKey := fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, windowStart.Unix())

	pipe := r.client.rdb.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireAt(ctx, fullKey, windowEnd.Add(time.Second))
	if _, err := pipe.Exec(ctx); err != nil {
		return ratelimit.Decision{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := int(incr.Val())
	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return ratelimit.Decision{
		Allowed:   count <= r.limit,
		Limit:     r.limit,
		Remaining: remaining,
		ResetAt:   windowEnd,
	}, nil
}
