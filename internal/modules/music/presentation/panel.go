package presentation

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// Panel button custom IDs.
const (
	ComponentPrev      = "music:prev"
	ComponentPlayPause = "music:playpause"
	ComponentNext      = "music:next"
	ComponentVolDown   = "music:voldown"
	ComponentVolUp     = "music:volup"
	ComponentStop      = "music:stop"
	ComponentQueue     = "music:queue"
)

const colorPanel = 0x1DB954

// panelState tracks one guild's live panel message.
type panelState struct {
	channelID   snowflake.ID
	messageID   string
	autoRefresh bool
}

// PanelPresenter maintains at most one control-panel message per guild: an
// embed showing the current track plus a row of playback buttons. Showing a
// new panel replaces the old message instead of stacking a second one.
type PanelPresenter struct {
	session *discordgo.Session

	mu     sync.Mutex
	panels map[snowflake.ID]*panelState
}

// NewPanelPresenter creates a new PanelPresenter.
func NewPanelPresenter(session *discordgo.Session) *PanelPresenter {
	return &PanelPresenter{
		session: session,
		panels:  make(map[snowflake.ID]*panelState),
	}
}

// Show creates the guild's panel in the channel, deleting any previous panel
// message first. Auto-refresh starts enabled.
func (p *PanelPresenter) Show(guildID, channelID snowflake.ID, view domain.PanelView) error {
	p.mu.Lock()
	old := p.panels[guildID]
	p.mu.Unlock()

	if old != nil {
		if err := p.session.ChannelMessageDelete(old.channelID.String(), old.messageID); err != nil {
			slog.Debug("failed to delete previous panel", "guild", guildID, "error", err)
		}
	}

	embed, components := RenderPanel(view)
	msg, err := p.session.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return fmt.Errorf("failed to send control panel: %w", err)
	}

	p.mu.Lock()
	p.panels[guildID] = &panelState{
		channelID:   channelID,
		messageID:   msg.ID,
		autoRefresh: true,
	}
	p.mu.Unlock()
	return nil
}

// Refresh re-renders the panel in place. A missing panel or disabled
// auto-refresh is a no-op; an edit failure (panel message deleted by a
// moderator) drops the tracked panel.
func (p *PanelPresenter) Refresh(guildID snowflake.ID, view domain.PanelView) {
	p.mu.Lock()
	state := p.panels[guildID]
	if state == nil || !state.autoRefresh {
		p.mu.Unlock()
		return
	}
	channelID := state.channelID.String()
	messageID := state.messageID
	p.mu.Unlock()

	embed, components := RenderPanel(view)
	_, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		slog.Debug("failed to refresh panel, dropping it", "guild", guildID, "error", err)
		p.mu.Lock()
		if current := p.panels[guildID]; current != nil && current.messageID == messageID {
			delete(p.panels, guildID)
		}
		p.mu.Unlock()
	}
}

// Hide deletes the guild's panel message, if any.
func (p *PanelPresenter) Hide(guildID snowflake.ID) error {
	p.mu.Lock()
	state := p.panels[guildID]
	delete(p.panels, guildID)
	p.mu.Unlock()

	if state == nil {
		return nil
	}
	return p.session.ChannelMessageDelete(state.channelID.String(), state.messageID)
}

// SetAutoRefresh toggles automatic refreshing and returns the new value.
// Without a panel it reports false.
func (p *PanelPresenter) SetAutoRefresh(guildID snowflake.ID, enabled bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := p.panels[guildID]
	if state == nil {
		return false
	}
	state.autoRefresh = enabled
	return state.autoRefresh
}

// AutoRefresh reports whether automatic refreshing is enabled.
func (p *PanelPresenter) AutoRefresh(guildID snowflake.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := p.panels[guildID]
	return state != nil && state.autoRefresh
}

// HasPanel reports whether the guild currently has a live panel.
func (p *PanelPresenter) HasPanel(guildID snowflake.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.panels[guildID] != nil
}

// RenderPanel builds the panel embed and button rows for a session view.
// Pure function so rendering is testable without a session.
func RenderPanel(view domain.PanelView) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title: "Music Controls",
		Color: colorPanel,
	}

	var sb strings.Builder
	switch {
	case view.Playing || view.Paused:
		if view.CurrentURI != "" {
			fmt.Fprintf(&sb, "[%s](%s)\n", view.CurrentTitle, view.CurrentURI)
		} else {
			fmt.Fprintf(&sb, "**%s**\n", view.CurrentTitle)
		}
		fmt.Fprintf(&sb, "`%s` • requested by %s", view.CurrentDuration, view.CurrentRequester)
		if view.Paused {
			sb.WriteString(" • paused")
		}
	default:
		sb.WriteString("Nothing playing.")
	}

	embed.Description = sb.String()
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: panelFooter(view),
	}
	if view.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: view.ArtworkURL}
	}

	playPause := "⏸"
	if view.Paused || !view.Playing {
		playPause = "▶️"
	}

	controls := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: ComponentPrev,
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "⏮"},
			},
			discordgo.Button{
				CustomID: ComponentPlayPause,
				Style:    discordgo.PrimaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: playPause},
			},
			discordgo.Button{
				CustomID: ComponentNext,
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "⏭"},
			},
			discordgo.Button{
				CustomID: ComponentStop,
				Style:    discordgo.DangerButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "⏹"},
			},
		},
	}

	extras := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: ComponentVolDown,
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "🔉"},
			},
			discordgo.Button{
				CustomID: ComponentVolUp,
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "🔊"},
			},
			discordgo.Button{
				CustomID: ComponentQueue,
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "📜"},
			},
		},
	}

	return embed, []discordgo.MessageComponent{controls, extras}
}

func panelFooter(view domain.PanelView) string {
	footer := fmt.Sprintf("Volume %d%% • %d in queue", view.VolumePercent, view.QueueLen)
	if view.Loop {
		footer += " • loop on"
	}
	return footer
}

// Ensure PanelPresenter implements ports.PanelPresenter.
var _ ports.PanelPresenter = (*PanelPresenter)(nil)
