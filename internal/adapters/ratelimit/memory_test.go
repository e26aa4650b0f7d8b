package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, period time.Duration) (*memoryLimiter, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(limit, period).(*memoryLimiter)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMemoryLimiterBlocksAfterLimit(t *testing.T) {
	l, now := newTestLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
		assert.Equal(t, now.Add(time.Minute), d.ResetAt)
	}

	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)

	other, err := l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	d, _ := l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "k")
	assert.False(t, d.Allowed)

	*now = now.Add(time.Minute)

	d, _ = l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiterSweepsIdleKeys(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_, err := l.Allow(ctx, key)
		require.NoError(t, err)
	}
	assert.Len(t, l.windows, 3)

	*now = now.Add(2 * time.Minute)
	_, err := l.Allow(ctx, "d")
	require.NoError(t, err)

	assert.Len(t, l.windows, 1)
}
