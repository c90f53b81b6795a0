package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// MemoryRepository is the in-memory SessionRepository. Sessions are created
// on first use and never deleted, so volume and loop settings survive a
// disconnect.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*domain.PlayerSession
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[snowflake.ID]*domain.PlayerSession),
	}
}

// GetOrCreate returns the guild's session, creating it if absent.
func (r *MemoryRepository) GetOrCreate(guildID snowflake.ID) *domain.PlayerSession {
	r.mu.RLock()
	session, ok := r.sessions[guildID]
	r.mu.RUnlock()
	if ok {
		return session
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check: another goroutine may have created it between the locks.
	if session, ok := r.sessions[guildID]; ok {
		return session
	}
	session = domain.NewPlayerSession(guildID)
	r.sessions[guildID] = session
	return session
}

// Get returns the guild's session, or nil if none exists yet.
func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[guildID]
}

// Count returns the number of sessions, for diagnostics.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Ensure MemoryRepository implements SessionRepository.
var _ domain.SessionRepository = (*MemoryRepository)(nil)
