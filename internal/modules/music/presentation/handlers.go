package presentation

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/bot"
	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/application/usecases"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// Handlers routes slash commands and panel buttons to the use cases.
type Handlers struct {
	voice     *usecases.VoiceService
	playback  *usecases.PlaybackService
	queue     *usecases.QueueService
	resolver  *usecases.ResolverService
	playlists *usecases.PlaylistService
	tuning    *usecases.TuningService
	panel     ports.PanelPresenter
	transport ports.AudioTransport
	repo      domain.SessionRepository
}

// NewHandlers creates new Handlers.
func NewHandlers(
	voice *usecases.VoiceService,
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
	resolver *usecases.ResolverService,
	playlists *usecases.PlaylistService,
	tuning *usecases.TuningService,
	panel ports.PanelPresenter,
	transport ports.AudioTransport,
	repo domain.SessionRepository,
) *Handlers {
	return &Handlers{
		voice:     voice,
		playback:  playback,
		queue:     queue,
		resolver:  resolver,
		playlists: playlists,
		tuning:    tuning,
		panel:     panel,
		transport: transport,
		repo:      repo,
	}
}

// interactionIDs extracts the commonly needed snowflakes from an interaction.
func interactionIDs(i *discordgo.InteractionCreate) (guildID, userID, channelID snowflake.ID, err error) {
	guildID, err = snowflake.Parse(i.GuildID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid guild ID: %w", err)
	}
	userID, err = snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid user ID: %w", err)
	}
	channelID, err = snowflake.Parse(i.ChannelID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid channel ID: %w", err)
	}
	return guildID, userID, channelID, nil
}

// HandleJoin handles the /join command.
func (h *Handlers) HandleJoin(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, userID, channelID, err := interactionIDs(i)
	if err != nil {
		return respondError(s, i, r, "Invalid interaction")
	}

	voiceChannelID, err := h.voice.Join(context.Background(), guildID, userID)
	if err != nil {
		return respondError(s, i, r, err.Error())
	}

	h.repo.GetOrCreate(guildID).SetNotificationChannelID(channelID)
	return respondSuccess(s, i, r, fmt.Sprintf("Connected to <#%d>.", voiceChannelID))
}

// HandleLeave handles the /leave command.
func (h *Handlers) HandleLeave(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	if err := h.voice.Leave(context.Background(), guildID); err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, "Disconnected.")
}

// HandlePlay handles the /play command: connect if needed, resolve the
// query, enqueue the result.
func (h *Handlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, userID, channelID, err := interactionIDs(i)
	if err != nil {
		return respondError(s, i, r, "Invalid interaction")
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	if err := h.voice.EnsureConnected(ctx, guildID, userID); err != nil {
		return respondError(s, i, r, err.Error())
	}

	resolution, err := h.resolver.Resolve(ctx, query, getDisplayName(i.Member))
	if err != nil {
		return respondError(s, i, r, err.Error())
	}

	output, err := h.queue.Add(usecases.QueueAddInput{
		GuildID:               guildID,
		Tracks:                resolution.Tracks,
		NotificationChannelID: channelID,
	})
	if err != nil {
		return respondError(s, i, r, err.Error())
	}

	if resolution.PlaylistName != "" {
		return respondSuccess(s, i, r, fmt.Sprintf(
			"Queued %d songs from **%s**.", len(resolution.Tracks), resolution.PlaylistName,
		))
	}

	track := resolution.Tracks[0]
	if output.WasIdle {
		return respondSuccess(s, i, r, fmt.Sprintf("Playing [%s](%s).", track.Title, track.URI))
	}
	return respondSuccess(s, i, r, fmt.Sprintf(
		"Added [%s](%s) to the queue (position %d).", track.Title, track.URI, output.Position,
	))
}

// HandleSkip handles the /skip command.
func (h *Handlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	skipped, err := h.playback.Skip(context.Background(), guildID)
	if err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, fmt.Sprintf("Skipped **%s**.", skipped.Title))
}

// HandlePause handles the /pause command.
func (h *Handlers) HandlePause(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	if err := h.playback.Pause(context.Background(), guildID); err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, "Paused playback.")
}

// HandleResume handles the /resume command.
func (h *Handlers) HandleResume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	if err := h.playback.Resume(context.Background(), guildID); err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, "Resumed playback.")
}

// HandleStop handles the /stop command.
func (h *Handlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	if err := h.playback.Stop(context.Background(), guildID); err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, "Stopped playback and cleared the queue.")
}

// HandleClear handles the /clear command.
func (h *Handlers) HandleClear(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	count, err := h.queue.Clear(guildID)
	if err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, fmt.Sprintf("Cleared %d songs from the queue.", count))
}

// HandleRemove handles the /remove command.
func (h *Handlers) HandleRemove(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	var position int
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "position" {
			position = int(opt.IntValue())
		}
	}

	removed, err := h.queue.Remove(guildID, position)
	if err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, fmt.Sprintf("Removed **%s** from the queue.", removed.Title))
}

// HandleShuffle handles the /shuffle command.
func (h *Handlers) HandleShuffle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	if err := h.queue.Shuffle(guildID); err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, "Shuffled the queue.")
}

// HandleNowPlaying handles the /nowplaying command.
func (h *Handlers) HandleNowPlaying(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	session := h.repo.Get(guildID)
	var current *domain.Track
	if session != nil {
		current = session.Current()
	}
	if current == nil {
		return respondError(s, i, r, usecases.ErrNotPlaying.Error())
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Now Playing",
		Description: fmt.Sprintf("[%s](%s)", current.Title, current.URI),
		Color:       colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: current.FormattedDuration(), Inline: true},
			{Name: "Requested by", Value: current.Requester, Inline: true},
		},
	}
	if current.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: current.ArtworkURL}
	}
	return respond(s, i, r, embed, replyLifetime)
}

// HandleQueue handles the /queue command.
func (h *Handlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	page := 1
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "page" {
			page = int(opt.IntValue())
		}
	}

	output, err := h.queue.List(usecases.QueueListInput{
		GuildID: guildID,
		Page:    page,
	})
	if err != nil {
		return respondError(s, i, r, err.Error())
	}

	return respond(s, i, r, queueEmbed(output), replyLifetime)
}

func queueEmbed(output *usecases.QueueListOutput) *discordgo.MessageEmbed {
	var sb strings.Builder
	if output.Current != nil {
		fmt.Fprintf(&sb, "### Now Playing\n[%s](%s) `%s`\n",
			output.Current.Title, output.Current.URI, output.Current.FormattedDuration())
	}
	if len(output.Tracks) > 0 {
		sb.WriteString("### Up Next\n")
		for idx, track := range output.Tracks {
			fmt.Fprintf(&sb, "%d\\. [%s](%s) `%s`\n",
				output.PageStart+idx+1, track.Title, track.URI, track.FormattedDuration())
		}
	} else if output.Current != nil {
		sb.WriteString("The queue is empty.\n")
	}

	return &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: sb.String(),
		Color:       colorSuccess,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d • %d songs",
				output.CurrentPage, output.TotalPages, output.TotalTracks),
		},
	}
}

// HandleVolume handles the /volume command. User input is percent (0-200);
// the session stores a multiplier.
func (h *Handlers) HandleVolume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	percent := -1
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "percent" {
			percent = int(opt.IntValue())
		}
	}
	if percent < 0 || percent > 200 {
		return respondError(s, i, r, usecases.ErrInvalidVolume.Error())
	}

	applied, err := h.playback.SetVolume(context.Background(), guildID, float64(percent)/100)
	if err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, fmt.Sprintf("Volume set to %d%%.", int(applied*100)))
}

// HandleLoop handles the /loop command.
func (h *Handlers) HandleLoop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	if h.playback.ToggleLoop(guildID) {
		return respondSuccess(s, i, r, "Loop enabled: finished songs rejoin the queue.")
	}
	return respondSuccess(s, i, r, "Loop disabled.")
}

// HandlePlaylist handles the /playlist command group.
func (h *Handlers) HandlePlaylist(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(s, i, r, "Invalid subcommand")
	}

	subCmd := options[0]
	switch subCmd.Name {
	case "save":
		return h.handlePlaylistSave(s, i, r, subCmd.Options)
	case "load":
		return h.handlePlaylistLoad(s, i, r, subCmd.Options)
	case "list":
		return h.handlePlaylistList(s, i, r)
	default:
		return respondError(s, i, r, "Unknown subcommand")
	}
}

func (h *Handlers) handlePlaylistSave(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	var name string
	for _, opt := range options {
		if opt.Name == "name" {
			name = opt.StringValue()
		}
	}

	count, err := h.playlists.Save(guildID, name, getDisplayName(i.Member))
	if err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, fmt.Sprintf("Saved %d songs as **%s**.", count, name))
}

func (h *Handlers) handlePlaylistLoad(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	ctx := context.Background()

	guildID, userID, channelID, err := interactionIDs(i)
	if err != nil {
		return respondError(s, i, r, "Invalid interaction")
	}

	var name string
	for _, opt := range options {
		if opt.Name == "name" {
			name = opt.StringValue()
		}
	}

	tracks, err := h.playlists.Load(name, getDisplayName(i.Member))
	if err != nil {
		return respondError(s, i, r, err.Error())
	}

	if err := h.voice.EnsureConnected(ctx, guildID, userID); err != nil {
		return respondError(s, i, r, err.Error())
	}

	if _, err := h.queue.Add(usecases.QueueAddInput{
		GuildID:               guildID,
		Tracks:                tracks,
		NotificationChannelID: channelID,
	}); err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, fmt.Sprintf("Queued %d songs from **%s**.", len(tracks), name))
}

func (h *Handlers) handlePlaylistList(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	summaries, err := h.playlists.List()
	if err != nil {
		return respondError(s, i, r, err.Error())
	}

	var sb strings.Builder
	for _, summary := range summaries {
		fmt.Fprintf(&sb, "**%s** — %d songs (by %s)\n",
			summary.Name, summary.Songs, summary.CreatedBy)
	}
	return respond(s, i, r, &discordgo.MessageEmbed{
		Title:       "Saved Playlists",
		Description: sb.String(),
		Color:       colorSuccess,
	}, replyLifetime)
}

// HandleControls handles the /controls command group.
func (h *Handlers) HandleControls(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, _, channelID, err := interactionIDs(i)
	if err != nil {
		return respondError(s, i, r, "Invalid interaction")
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(s, i, r, "Invalid subcommand")
	}

	view := h.repo.GetOrCreate(guildID).View()

	switch options[0].Name {
	case "show":
		if err := h.panel.Show(guildID, channelID, view); err != nil {
			return respondError(s, i, r, err.Error())
		}
		return respondSuccess(s, i, r, "Control panel is up.")
	case "hide":
		if err := h.panel.Hide(guildID); err != nil {
			return respondError(s, i, r, err.Error())
		}
		return respondSuccess(s, i, r, "Control panel hidden.")
	case "auto":
		enabled := h.panel.SetAutoRefresh(guildID, !h.panel.AutoRefresh(guildID))
		if enabled {
			return respondSuccess(s, i, r, "Panel auto-refresh enabled.")
		}
		return respondSuccess(s, i, r, "Panel auto-refresh disabled.")
	case "update":
		if !h.panel.HasPanel(guildID) {
			return respondError(s, i, r, "No control panel to update. Use /controls show first.")
		}
		h.panel.Refresh(guildID, view)
		return respondSuccess(s, i, r, "Control panel updated.")
	default:
		return respondError(s, i, r, "Unknown subcommand")
	}
}

// HandleStats handles the /stats command.
func (h *Handlers) HandleStats(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(s, i, r, "Invalid guild")
	}

	session := h.repo.GetOrCreate(guildID)
	view := session.View()
	settings := h.tuning.Current()

	playlistCount := 0
	if summaries, err := h.playlists.List(); err == nil {
		playlistCount = len(summaries)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Player Stats",
		Color: colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "State", Value: session.State().String(), Inline: true},
			{Name: "Connected", Value: fmt.Sprintf("%t", h.transport.IsConnected(guildID)), Inline: true},
			{Name: "Queue", Value: fmt.Sprintf("%d songs", view.QueueLen), Inline: true},
			{Name: "Volume", Value: fmt.Sprintf("%d%%", view.VolumePercent), Inline: true},
			{Name: "Loop", Value: fmt.Sprintf("%t", view.Loop), Inline: true},
			{Name: "Playlists", Value: fmt.Sprintf("%d", playlistCount), Inline: true},
			{Name: "Quality", Value: fmt.Sprintf("%s (%s / %d Hz)",
				settings.Quality.Name, settings.Quality.Bitrate, settings.Quality.SampleRate), Inline: true},
			{Name: "Buffer", Value: settings.BufferSize, Inline: true},
			{Name: "Load retries", Value: fmt.Sprintf("%d", settings.Retries), Inline: true},
		},
	}
	return respond(s, i, r, embed, replyLifetime)
}

// HandleQuality handles the /quality command.
func (h *Handlers) HandleQuality(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var name string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "preset" {
			name = opt.StringValue()
		}
	}

	preset, err := h.tuning.SetQuality(name)
	if err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, fmt.Sprintf(
		"Quality set to **%s** (%s, %d Hz). Takes effect on the next song.",
		preset.Name, preset.Bitrate, preset.SampleRate,
	))
}

// HandleBuffer handles the /buffer command.
func (h *Handlers) HandleBuffer(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var name string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "size" {
			name = opt.StringValue()
		}
	}

	size, err := h.tuning.SetBuffer(name)
	if err != nil {
		return respondError(s, i, r, err.Error())
	}
	return respondSuccess(s, i, r, fmt.Sprintf(
		"Buffer size set to %s. Takes effect on the next song.", size,
	))
}

// HandleOptimize handles the /optimize command.
func (h *Handlers) HandleOptimize(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	h.tuning.Optimize()
	return respondSuccess(s, i, r, "Streaming settings reset to defaults.")
}

// HandleHelp handles the /help command. The reply lives longer than status
// replies so there is time to read it.
func (h *Handlers) HandleHelp(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	embed := &discordgo.MessageEmbed{
		Title: "Commands",
		Color: colorSuccess,
		Description: strings.Join([]string{
			"**Playback**: /play, /skip, /pause, /resume, /stop, /volume, /loop",
			"**Queue**: /queue, /clear, /remove, /shuffle, /nowplaying",
			"**Voice**: /join, /leave",
			"**Playlists**: /playlist save|load|list",
			"**Panel**: /controls show|hide|auto|update",
			"**Tuning**: /quality, /buffer, /optimize, /stats",
		}, "\n"),
	}
	return respond(s, i, r, embed, helpLifetime)
}

// HandleComponent routes panel button presses. The button press itself is
// acknowledged silently; feedback arrives through the panel refresh.
func (h *Handlers) HandleComponent(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return ackComponent(r)
	}

	switch i.MessageComponentData().CustomID {
	case ComponentPrev:
		// Previous-track history is not kept; the button exists for layout
		// parity and acknowledges without acting.
		return ackComponent(r)

	case ComponentPlayPause:
		_, _ = h.playback.TogglePause(ctx, guildID)
		return ackComponent(r)

	case ComponentNext:
		_, _ = h.playback.Skip(ctx, guildID)
		return ackComponent(r)

	case ComponentVolDown:
		_, _ = h.playback.AdjustVolume(ctx, guildID, -0.1)
		return ackComponent(r)

	case ComponentVolUp:
		_, _ = h.playback.AdjustVolume(ctx, guildID, 0.1)
		return ackComponent(r)

	case ComponentStop:
		_ = h.playback.Stop(ctx, guildID)
		return ackComponent(r)

	case ComponentQueue:
		output, err := h.queue.List(usecases.QueueListInput{
			GuildID:  guildID,
			Page:     1,
			PageSize: 5,
		})
		if err != nil {
			return respondEphemeral(r, &discordgo.MessageEmbed{
				Description: err.Error(),
				Color:       colorError,
			})
		}
		return respondEphemeral(r, queueEmbed(output))

	default:
		return ackComponent(r)
	}
}

// getDisplayName returns the effective display name for a guild member.
// Priority: guild nickname > global display name > username.
func getDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}
