// Package session manages named, independent schedcore.Scheduler
// instances for the reference HTTP host. schedcore performs no internal
// locking by contract (SPEC_FULL.md §5); Manager is the host-side
// wrapper that adds the concurrency-safety and naming the teacher's
// ProcessManager provides for supervised OS processes.
package session

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/edirooss/schedsim/internal/schedcore"
)

// ErrNotFound is returned by Manager methods given an unknown session ID.
var ErrNotFound = errors.New("session: not found")

// Session pairs one scheduler instance with the mutex that serializes
// access to it. schedcore.Scheduler is not safe for concurrent use, so
// every Next/Stop/List call for a given session must hold this lock.
type Session struct {
	ID string

	mu  sync.Mutex
	sch *schedcore.Scheduler
}

// Do runs fn with the session's scheduler held exclusively.
func (s *Session) Do(fn func(*schedcore.Scheduler)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.sch)
}

// Manager is a concurrency-safe registry of named scheduler sessions.
// Modeled on processmgr.ProcessManager: a map protected by a single
// RWMutex, creation that rejects an ID already in use, idempotent
// removal.
type Manager struct {
	log *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		log:      log.Named("session_manager"),
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session under id with the given config. Returns an
// error if id is already in use or cfg is invalid.
func (m *Manager) Create(id string, cfg schedcore.Config) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session: id already in use")
	}

	sch, err := schedcore.New(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{ID: id, sch: sch}
	m.sessions[id] = s

	m.log.Info("session created", zap.String("id", id), zap.Stringer("policy", cfg.Policy))
	return s, nil
}

// Get returns the session for id, or ErrNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove deletes a session from the registry. Idempotent: no-op if id
// does not exist.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		m.log.Info("session removed", zap.String("id", id))
	}
}

// List reports the IDs of every live session, in no particular order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}
