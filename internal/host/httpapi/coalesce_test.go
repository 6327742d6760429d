package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edirooss/schedsim/internal/host/session"
	"github.com/edirooss/schedsim/internal/schedcore"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	m := session.NewManager(zap.NewNop())
	s, err := m.Create("t", schedcore.Config{Timeslice: 4, MinimumRemaining: 1})
	require.NoError(t, err)
	return s
}

func TestStatusCacheMissThenHit(t *testing.T) {
	c := NewStatusCache(StatusOptions{TTL: time.Minute})
	s := newTestSession(t)

	first, err := c.Get(s)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Len(t, first.Snapshots, 1) // bootstrap init process

	second, err := c.Get(s)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Snapshots, second.Snapshots)
}

func TestStatusCacheInvalidateForcesRefresh(t *testing.T) {
	c := NewStatusCache(StatusOptions{TTL: time.Minute})
	s := newTestSession(t)

	_, err := c.Get(s)
	require.NoError(t, err)

	c.Invalidate(s.ID)

	res, err := c.Get(s)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
}

func TestStatusCacheExpiresAfterTTL(t *testing.T) {
	c := NewStatusCache(StatusOptions{TTL: time.Millisecond})
	s := newTestSession(t)

	_, err := c.Get(s)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	res, err := c.Get(s)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
}
