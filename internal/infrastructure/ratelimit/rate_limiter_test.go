package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewLimiter(client, max, window), mr
}

func TestAllowUpToMax(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "alice", "send_message"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow(ctx, "alice", "send_message"))
}

func TestLimitsAreIndependentPerUserAndAction(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Hour)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "alice", "send_message"))
	assert.False(t, limiter.Allow(ctx, "alice", "send_message"))

	// Bob's budget and alice's other actions are unaffected.
	assert.True(t, limiter.Allow(ctx, "bob", "send_message"))
	assert.True(t, limiter.Allow(ctx, "alice", "partner_request"))
}

func TestWindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "alice", "send_message"))
	assert.False(t, limiter.Allow(ctx, "alice", "send_message"))

	// Advancing past the window must open a fresh bucket.
	mr.FastForward(2 * time.Minute)
	assert.True(t, limiter.Allow(ctx, "alice", "send_message"))
}

func TestFailOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	mr.Close()
	assert.True(t, limiter.Allow(ctx, "alice", "send_message"))
}

func TestSubSecondWindowIsClamped(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Millisecond)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "alice", "send_message"))
	assert.False(t, limiter.Allow(ctx, "alice", "send_message"))
}

func TestNilLimiterAllows(t *testing.T) {
	var limiter *Limiter
	assert.True(t, limiter.Allow(context.Background(), "alice", "send_message"))

	assert.True(t, NewLimiter(nil, 1, time.Minute).Allow(context.Background(), "alice", "send_message"))
}
