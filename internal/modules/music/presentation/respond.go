package presentation

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/yotsugi/groovebot/internal/bot"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// Reply lifetimes. Transient confirmations vanish quickly so they do not
// clutter the channel; help sticks around long enough to read.
const (
	replyLifetime = 5 * time.Second
	helpLifetime  = 180 * time.Second
)

// respond sends an embed reply and schedules its deletion. The session is
// nil in handler tests, in which case the reply is left alone.
func respond(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	embed *discordgo.MessageEmbed,
	lifetime time.Duration,
) error {
	err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		return err
	}

	if s != nil && lifetime > 0 {
		interaction := i.Interaction
		time.AfterFunc(lifetime, func() {
			if err := s.InteractionResponseDelete(interaction); err != nil {
				slog.Debug("failed to delete interaction reply", "error", err)
			}
		})
	}
	return nil
}

// respondSuccess sends a transient success embed.
func respondSuccess(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	description string,
) error {
	return respond(s, i, r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	}, replyLifetime)
}

// respondError sends a transient error embed.
func respondError(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	message string,
) error {
	return respond(s, i, r, &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}, replyLifetime)
}

// respondEphemeral sends a reply only the invoking user can see. Used for
// the queue-peek button.
func respondEphemeral(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// ackComponent acknowledges a button press without changing the reply. The
// panel edit that follows carries the visible feedback.
func ackComponent(r bot.Responder) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}
