package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/policytype"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	candidates := []candidate.PolicyCandidate{
		{URL: "https://example.com/privacy", Type: policytype.Privacy, Confidence: 90},
	}
	require.NoError(t, c.Set("example.com", policytype.Privacy, candidates))

	got, ok := c.Get("example.com", policytype.Privacy)
	require.True(t, ok)
	assert.Equal(t, candidates, got)
}

func TestGetMissReturnsFalse(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	_, ok := c.Get("missing.com", policytype.Privacy)
	assert.False(t, ok)
}

func TestGetExpiredEntryIsEvicted(t *testing.T) {
	c := New(t.TempDir(), -time.Second) // already expired on write
	require.NoError(t, c.Set("example.com", policytype.Terms, nil))

	_, ok := c.Get("example.com", policytype.Terms)
	assert.False(t, ok)
}

func TestGetStats(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	require.NoError(t, c.Set("a.com", policytype.Privacy, nil))
	require.NoError(t, c.Set("b.com", policytype.Terms, nil))

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
}

func TestClearRemovesAllEntries(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	require.NoError(t, c.Set("a.com", policytype.Privacy, nil))
	require.NoError(t, c.Clear())

	_, ok := c.Get("a.com", policytype.Privacy)
	assert.False(t, ok)
}
