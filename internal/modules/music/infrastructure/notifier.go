package infrastructure

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
)

// DefaultStatusLifetime is how long a status message stays before deleting
// itself.
const DefaultStatusLifetime = 5 * time.Second

// Notifier sends short-lived status messages to Discord channels. Each
// message is deleted after the configured lifetime so status chatter does
// not pile up in the text channel.
type Notifier struct {
	session  *discordgo.Session
	lifetime time.Duration
}

// NewNotifier creates a new Notifier. A non-positive lifetime uses the
// default.
func NewNotifier(session *discordgo.Session, lifetime time.Duration) *Notifier {
	if lifetime <= 0 {
		lifetime = DefaultStatusLifetime
	}
	return &Notifier{
		session:  session,
		lifetime: lifetime,
	}
}

// SendStatus sends a message that deletes itself after the lifetime. Send
// and delete failures are logged, never propagated: status messages are
// best-effort.
func (n *Notifier) SendStatus(channelID snowflake.ID, text string) {
	if channelID == 0 {
		return
	}

	msg, err := n.session.ChannelMessageSend(channelID.String(), text)
	if err != nil {
		slog.Warn("failed to send status message", "channel", channelID, "error", err)
		return
	}

	time.AfterFunc(n.lifetime, func() {
		if err := n.session.ChannelMessageDelete(channelID.String(), msg.ID); err != nil {
			slog.Debug("failed to delete status message",
				"channel", channelID,
				"message", msg.ID,
				"error", err,
			)
		}
	})
}

// Ensure Notifier implements ports.StatusNotifier.
var _ ports.StatusNotifier = (*Notifier)(nil)
