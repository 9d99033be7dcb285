package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter_Burst(t *testing.T) {
	l := NewLocalLimiter(60, 3)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
	}

	d, err := l.Allow(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 63, d.Limit)
	assert.Equal(t, now.Add(time.Second), d.ResetAt)

	// Other keys have their own bucket
	d, err = l.Allow(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// One token refills per second at 60 rpm
	now = now.Add(time.Second)
	d, err = l.Allow(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLocalLimiter_EvictsIdleKeys(t *testing.T) {
	l := NewLocalLimiter(60, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "u1")
	require.Len(t, l.limiters, 1)

	now = now.Add(11 * time.Minute)
	_, _ = l.Allow(context.Background(), "u2")
	assert.Len(t, l.limiters, 1)
	assert.Contains(t, l.limiters, "u2")
}
