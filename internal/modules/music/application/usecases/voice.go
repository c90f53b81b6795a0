package usecases

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/idletimer"
	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// VoiceService handles joining and leaving voice channels.
type VoiceService struct {
	repo       domain.SessionRepository
	transport  ports.AudioTransport
	voiceState ports.VoiceStateProvider
	timers     *idletimer.Manager
	publisher  ports.EventPublisher
}

// NewVoiceService creates a new VoiceService.
func NewVoiceService(
	repo domain.SessionRepository,
	transport ports.AudioTransport,
	voiceState ports.VoiceStateProvider,
	timers *idletimer.Manager,
	publisher ports.EventPublisher,
) *VoiceService {
	return &VoiceService{
		repo:       repo,
		transport:  transport,
		voiceState: voiceState,
		timers:     timers,
		publisher:  publisher,
	}
}

// Join connects to the voice channel the invoking user is in, moving there
// if already connected elsewhere in the guild. Joining cancels a pending
// idle disconnect. Returns the channel joined.
func (v *VoiceService) Join(
	ctx context.Context,
	guildID, userID snowflake.ID,
) (snowflake.ID, error) {
	channelID, err := v.voiceState.GetUserVoiceChannel(guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up voice state: %w", err)
	}
	if channelID == 0 {
		return 0, ErrUserNotInVoice
	}
	if v.transport.ConnectedChannel(guildID) == channelID {
		return 0, ErrAlreadyInChannel
	}

	if err := v.transport.Connect(ctx, guildID, channelID); err != nil {
		return 0, fmt.Errorf("failed to connect to voice channel: %w", err)
	}

	v.repo.GetOrCreate(guildID)
	v.timers.Cancel(guildID)
	return channelID, nil
}

// EnsureConnected joins the user's channel only when the guild has no live
// voice connection. Used by play so users do not have to /join first.
func (v *VoiceService) EnsureConnected(
	ctx context.Context,
	guildID, userID snowflake.ID,
) error {
	if v.transport.IsConnected(guildID) {
		v.timers.Cancel(guildID)
		return nil
	}
	_, err := v.Join(ctx, guildID, userID)
	return err
}

// Leave disconnects from voice and discards the session's queue and current
// track. The session itself survives so volume and loop settings persist.
func (v *VoiceService) Leave(ctx context.Context, guildID snowflake.ID) error {
	if !v.transport.IsConnected(guildID) {
		return ErrNotConnected
	}

	v.timers.Cancel(guildID)

	if err := v.transport.Disconnect(ctx, guildID); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	if session := v.repo.Get(guildID); session != nil {
		session.TakeCurrent()
		session.ClearQueue()
	}
	v.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	return nil
}
