package infrastructure

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
)

var _ ports.VoiceStateProvider = (*VoiceStateProvider)(nil)

// VoiceStateProvider answers "which voice channel is this user in" from the
// discordgo state cache. The cache only carries voice states when the
// session identifies with IntentGuildVoiceStates.
type VoiceStateProvider struct {
	session *discordgo.Session
}

// NewVoiceStateProvider wraps the session's state cache.
func NewVoiceStateProvider(session *discordgo.Session) *VoiceStateProvider {
	return &VoiceStateProvider{session: session}
}

// GetUserVoiceChannel returns the voice channel the user currently occupies
// in the guild, or 0 when the user is in none.
func (v *VoiceStateProvider) GetUserVoiceChannel(
	guildID, userID snowflake.ID,
) (snowflake.ID, error) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0, fmt.Errorf("guild %s not in state cache: %w", guildID, err)
	}

	uid := userID.String()
	for _, state := range guild.VoiceStates {
		if state.UserID != uid || state.ChannelID == "" {
			continue
		}
		return snowflake.Parse(state.ChannelID)
	}
	return 0, nil
}
