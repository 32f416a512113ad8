// Package session tracks the live SSE sessions a server is currently
// serving: one Session per connected client, keyed by an opaque sessionId,
// evicted after a period of inactivity by a background sweep.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/transport"
)

// DefaultIdleTimeout is how long a session may go without activity before
// the sweep evicts it.
const DefaultIdleTimeout = 30 * time.Minute

// DefaultSweepInterval is how often the eviction sweep runs.
const DefaultSweepInterval = time.Minute

// Session is one live SSE connection: its transport plus bookkeeping
// timestamps the manager uses to decide when it has gone idle.
type Session struct {
	ID        string
	Transport *transport.SSEServerTransport
	CreatedAt time.Time

	mu             sync.Mutex
	lastActivityAt time.Time
}

// Touch records activity on the session, resetting its idle clock.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivityAt = time.Now()
}

func (s *Session) idleSince() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivityAt)
}

// Manager owns the sessionId -> Session mapping for a running SSE server
// and periodically evicts sessions that have been idle past IdleTimeout.
type Manager struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager builds a Manager and starts its sweep goroutine.
func NewManager(idleTimeout, sweepInterval time.Duration) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	m := &Manager{
		IdleTimeout:   idleTimeout,
		SweepInterval: sweepInterval,
		sessions:      make(map[string]*Session),
		stop:          make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Register creates a new Session bound to t and adds it to the manager,
// generating a fresh random session id.
func (m *Manager) Register(t *transport.SSEServerTransport) *Session {
	s := &Session{
		ID:             uuid.NewString(),
		Transport:      t,
		CreatedAt:      time.Now(),
		lastActivityAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Lookup returns the session for id, or nil if none exists (evicted,
// never existed, or already closed).
func (m *Manager) Lookup(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Remove deletes id from the manager and closes its transport.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.Transport.Close()
	}
}

// Count reports how many sessions are currently live.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) sweep() {
	var expired []string

	m.mu.RLock()
	for id, s := range m.sessions {
		if s.idleSince() > m.IdleTimeout {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		logger.Info("session %s idle past timeout, evicting", id)
		m.Remove(id)
	}
}

// Shutdown stops the sweep goroutine and closes every live session's
// transport.
func (m *Manager) Shutdown() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Remove(id)
	}
}
