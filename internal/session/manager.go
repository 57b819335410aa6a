package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager owns sessions keyed by ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create makes a fresh session and registers it.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
	return s
}

// Get looks a session up by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session and shuts down its watchers. It reports whether
// the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.shutdown()
	}
	return ok
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
