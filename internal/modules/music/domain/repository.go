package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// SessionRepository is the process-wide session store. Sessions are created
// lazily on first access and live for the process lifetime: leaving a voice
// channel does not discard the guild's queue, volume or loop flag.
type SessionRepository interface {
	// GetOrCreate returns the guild's session, creating one if absent.
	GetOrCreate(guildID snowflake.ID) *PlayerSession

	// Get returns the guild's session, or nil if none exists yet.
	Get(guildID snowflake.ID) *PlayerSession
}
