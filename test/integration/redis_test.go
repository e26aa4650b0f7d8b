package integration

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/fanvote/internal/adapters/notify"
	"github.com/vncsmyrnk/fanvote/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

func setupRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()
	container, url, err := setupRedisContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisRateLimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := setupRedisClient(t)
	limiter := ratelimit.NewRedisLimiter(client, "vote", 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		decision, err := limiter.Allow(ctx, "203.0.113.9")
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 4-i, decision.Remaining)
	}

	decision, err := limiter.Allow(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.WithinDuration(t, time.Now().Add(time.Minute), decision.ResetAt, 5*time.Second)

	// Other callers have their own budget
	decision, err = limiter.Allow(ctx, "203.0.113.10")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	frames []string
}

func (b *recordingBroadcaster) Broadcast(room, event string, data json.RawMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, room+"|"+event+"|"+string(data))
}

func (b *recordingBroadcaster) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.frames...)
}

func TestRedisNotifierRelaysEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := setupRedisClient(t)
	logger := logrus.New()

	local := &recordingBroadcaster{}
	relay := notify.NewRedisNotifier(client, "fanvote:test", local, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	// Publish until the subscription is live
	require.Eventually(t, func() bool {
		if err := relay.Publish(ctx, domain.RoomVoting, domain.EventVoteUpdate, domain.VoteUpdate{NewVoteCount: 11, TotalVotes: 21}); err != nil {
			return false
		}
		return len(local.snapshot()) > 0
	}, 10*time.Second, 100*time.Millisecond)

	frame := local.snapshot()[0]
	assert.Contains(t, frame, "voting-updates|voteUpdate|")
	assert.Contains(t, frame, `"newVoteCount":11`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
}
