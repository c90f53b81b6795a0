package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// AudioTransport is the voice connection and audio output capability. It is
// an external collaborator: starting output for a track eventually produces
// exactly one TrackEndedEvent on the module's event bus.
type AudioTransport interface {
	// Connect joins the given voice channel, moving if already connected
	// elsewhere in the guild.
	Connect(ctx context.Context, guildID, channelID snowflake.ID) error

	// Disconnect leaves the guild's voice channel and tears down the player.
	Disconnect(ctx context.Context, guildID snowflake.ID) error

	// IsConnected reports whether the guild has a live voice connection.
	IsConnected(guildID snowflake.ID) bool

	// ConnectedChannel returns the voice channel the bot is connected to in
	// the guild, or 0 when not connected.
	ConnectedChannel(guildID snowflake.ID) snowflake.ID

	// Play starts output for the track at the given volume.
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track, volume float64) error

	// Stop halts the current output. The transport reports the end of the
	// track through its completion event.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause holds the current output.
	Pause(ctx context.Context, guildID snowflake.ID) error

	// Resume releases a held output.
	Resume(ctx context.Context, guildID snowflake.ID) error

	// SetVolume adjusts the live output volume.
	SetVolume(ctx context.Context, guildID snowflake.ID, volume float64) error
}
