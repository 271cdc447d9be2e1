package session

import (
	"time"

	"clinical-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// Manager keeps consultation sessions in memory. Sessions expire after an
// hour of inactivity; expired entries are purged every 10 minutes.
type Manager struct {
	cache *cache.Cache
}

func NewManager() *Manager {
	return &Manager{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

// LoadOrCreate retrieves or creates an in-memory session.
func (m *Manager) LoadOrCreate(sessionID string) *store.Session {
	if x, found := m.cache.Get(sessionID); found {
		return x.(*store.Session)
	}
	return &store.Session{ID: sessionID}
}

// Save persists session state.
func (m *Manager) Save(session *store.Session) {
	m.cache.Set(session.ID, session, cache.DefaultExpiration)
}

// Clear drops a session's history.
func (m *Manager) Clear(sessionID string) {
	m.cache.Delete(sessionID)
}
