package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edirooss/schedsim/internal/schedcore"
)

func validConfig() schedcore.Config {
	return schedcore.Config{Timeslice: 4, MinimumRemaining: 1, Policy: schedcore.PolicyRR}
}

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(zap.NewNop())

	s, err := m.Create("a", validConfig())
	require.NoError(t, err)
	require.Equal(t, "a", s.ID)

	got, err := m.Get("a")
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestManagerCreateDuplicateIDFails(t *testing.T) {
	m := NewManager(zap.NewNop())

	_, err := m.Create("dup", validConfig())
	require.NoError(t, err)

	_, err = m.Create("dup", validConfig())
	assert.Error(t, err)
}

func TestManagerCreateInvalidConfigFails(t *testing.T) {
	m := NewManager(zap.NewNop())

	_, err := m.Create("bad", schedcore.Config{Timeslice: 0})
	assert.ErrorIs(t, err, schedcore.ErrInvalidConfig)

	_, err = m.Get("bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerGetUnknownID(t *testing.T) {
	m := NewManager(zap.NewNop())
	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerRemoveIsIdempotent(t *testing.T) {
	m := NewManager(zap.NewNop())
	_, err := m.Create("x", validConfig())
	require.NoError(t, err)

	m.Remove("x")
	m.Remove("x") // no panic, no-op

	_, err = m.Get("x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerListReportsLiveSessions(t *testing.T) {
	m := NewManager(zap.NewNop())
	_, err := m.Create("one", validConfig())
	require.NoError(t, err)
	_, err = m.Create("two", validConfig())
	require.NoError(t, err)

	ids := m.List()
	assert.ElementsMatch(t, []string{"one", "two"}, ids)
}

func TestSessionDoRunsFnWithScheduler(t *testing.T) {
	m := NewManager(zap.NewNop())
	s, err := m.Create("serial", validConfig())
	require.NoError(t, err)

	var decisionKind schedcore.DecisionKind
	s.Do(func(sch *schedcore.Scheduler) {
		decisionKind = sch.Next().Kind
	})
	assert.Equal(t, schedcore.DecisionRun, decisionKind)
}
