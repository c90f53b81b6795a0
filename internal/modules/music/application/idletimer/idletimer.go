// Package idletimer owns the per-guild auto-disconnect timers. At most one
// timer is live per guild: arming supersedes the previous timer, and firing
// and cancellation are mutually exclusive for a given timer instance.
package idletimer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type entry struct {
	timer      *time.Timer
	generation uint64
}

// Manager tracks one cancellable delayed action per guild.
type Manager struct {
	mu     sync.Mutex
	timers map[snowflake.ID]*entry
	gen    uint64
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		timers: make(map[snowflake.ID]*entry),
	}
}

// Arm schedules fire to run after delay, cancelling any existing timer for
// the guild in the same locked step so two live timers can never coexist.
// The fire callback only runs if the timer is still the guild's current one
// when it goes off; a cancellation that wins the lock first suppresses it.
func (m *Manager) Arm(guildID snowflake.ID, delay time.Duration, fire func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.timers[guildID]; ok {
		existing.timer.Stop()
	}

	m.gen++
	generation := m.gen

	e := &entry{generation: generation}
	e.timer = time.AfterFunc(delay, func() {
		if !m.claim(guildID, generation) {
			return
		}
		fire()
	})
	m.timers[guildID] = e

	slog.Debug("armed idle timer", "guild", guildID, "delay", delay)
}

// claim checks that the firing timer is still the guild's live timer and
// removes it. It returns false if the timer was superseded or cancelled
// after the callback was already scheduled.
func (m *Manager) claim(guildID snowflake.ID, generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.timers[guildID]
	if !ok || e.generation != generation {
		return false
	}
	delete(m.timers, guildID)
	return true
}

// Cancel stops the guild's timer, if one is armed. Idempotent.
func (m *Manager) Cancel(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.timers[guildID]
	if !ok {
		return
	}
	e.timer.Stop()
	delete(m.timers, guildID)

	slog.Debug("cancelled idle timer", "guild", guildID)
}

// Armed reports whether the guild currently has a live timer.
func (m *Manager) Armed(guildID snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.timers[guildID]
	return ok
}
