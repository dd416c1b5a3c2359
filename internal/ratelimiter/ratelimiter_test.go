package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforceAllowsFirstCallImmediately(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	err := l.Enforce(ctx, "example.com")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestHandleRateLimitedStartsCooldown(t *testing.T) {
	l := New()
	l.HandleRateLimited("example.com", "")

	state := l.stateFor("example.com")
	assert.True(t, state.cooldownAt.After(time.Now()))
}

func TestHandleRateLimitedHonorsLongerRetryAfter(t *testing.T) {
	l := New()
	l.HandleRateLimited("example.com", "45")

	state := l.stateFor("example.com")
	assert.WithinDuration(t, time.Now().Add(45*time.Second), state.cooldownAt, time.Second)
}

func TestHandleRateLimitedClampsRetryAfterToMax(t *testing.T) {
	l := New()
	l.HandleRateLimited("example.com", "3600")

	state := l.stateFor("example.com")
	assert.WithinDuration(t, time.Now().Add(maxCooldown), state.cooldownAt, time.Second)
}

func TestHandleRateLimitedIgnoresShorterRetryAfter(t *testing.T) {
	l := New()
	l.HandleRateLimited("example.com", "5")

	state := l.stateFor("example.com")
	assert.WithinDuration(t, time.Now().Add(cooldown), state.cooldownAt, time.Second)
}

func TestClearResetsHostState(t *testing.T) {
	l := New()
	l.HandleRateLimited("example.com", "")
	l.Clear()

	state := l.stateFor("example.com")
	assert.False(t, state.cooldownAt.After(time.Now()))
}
