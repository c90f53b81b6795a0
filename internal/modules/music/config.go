package music

import "time"

// Config holds the music module configuration.
type Config struct {
	LavalinkAddress  string        `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string        `env:"LAVALINK_PASSWORD,notEmpty"`
	YouTubeAPIKey    string        `env:"YOUTUBE_API_KEY"`
	PlaylistFile     string        `env:"PLAYLIST_FILE" envDefault:"data/playlists.json"`
	IdleTimeout      time.Duration `env:"IDLE_TIMEOUT" envDefault:"50s"`
}
