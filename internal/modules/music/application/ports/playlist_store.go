package ports

import (
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// PlaylistStore persists the flat name -> playlist mapping. Implementations
// load the whole document once at startup and rewrite it wholesale on every
// save; last writer wins on name collisions.
type PlaylistStore interface {
	// Get returns the playlist for the name, or false if absent.
	Get(name string) (domain.Playlist, bool)

	// Put stores the playlist under the name and persists the mapping.
	Put(name string, playlist domain.Playlist) error

	// All returns a copy of the full mapping.
	All() map[string]domain.Playlist
}
