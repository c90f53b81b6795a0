package ports

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// PanelPresenter keeps at most one live control-panel message per guild.
type PanelPresenter interface {
	// Show creates the guild's panel in the given channel, or replaces the
	// existing one in place.
	Show(guildID, channelID snowflake.ID, view domain.PanelView) error

	// Refresh re-renders the panel in place if one exists and auto-refresh
	// is enabled. A deleted panel message is dropped silently.
	Refresh(guildID snowflake.ID, view domain.PanelView)

	// Hide deletes the guild's panel message, if any.
	Hide(guildID snowflake.ID) error

	// SetAutoRefresh toggles automatic refreshing and returns the new value.
	SetAutoRefresh(guildID snowflake.ID, enabled bool) bool

	// AutoRefresh reports whether automatic refreshing is enabled.
	AutoRefresh(guildID snowflake.ID) bool

	// HasPanel reports whether the guild currently has a live panel.
	HasPanel(guildID snowflake.ID) bool
}

// StatusNotifier sends short-lived status messages to a text channel.
type StatusNotifier interface {
	// SendStatus sends a message that deletes itself after the configured
	// interval.
	SendStatus(channelID snowflake.ID, text string)
}

// VoiceStateProvider reads guild voice state.
type VoiceStateProvider interface {
	// GetUserVoiceChannel returns the voice channel the user is in, or 0.
	GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}

// EventPublisher publishes module events for asynchronous handling.
type EventPublisher interface {
	PublishTrackEnqueued(event domain.TrackEnqueuedEvent)
	PublishTrackEnded(event domain.TrackEndedEvent)
	PublishPanelRefresh(event domain.PanelRefreshEvent)
}
