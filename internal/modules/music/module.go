package music

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"

	"github.com/yotsugi/groovebot/internal/bot"
	"github.com/yotsugi/groovebot/internal/modules/music/application/events"
	"github.com/yotsugi/groovebot/internal/modules/music/application/idletimer"
	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/application/usecases"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
	"github.com/yotsugi/groovebot/internal/modules/music/infrastructure"
	"github.com/yotsugi/groovebot/internal/modules/music/presentation"
)

func init() {
	bot.Register(&Module{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*Module)(nil)

// Module provides music playback: queue, playlists, voice, tuning and the
// control panel.
type Module struct {
	config   *Config
	handlers *presentation.Handlers

	lavalink      *infrastructure.LavalinkAdapter
	playlistStore *infrastructure.DatastorePlaylistStore

	bus             *events.Bus
	playbackHandler *events.PlaybackEventHandler
	panelHandler    *events.PanelEventHandler

	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *Module) Name() string {
	return "music"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":       m.handlers.HandleJoin,
		"leave":      m.handlers.HandleLeave,
		"play":       m.handlers.HandlePlay,
		"skip":       m.handlers.HandleSkip,
		"pause":      m.handlers.HandlePause,
		"resume":     m.handlers.HandleResume,
		"stop":       m.handlers.HandleStop,
		"clear":      m.handlers.HandleClear,
		"remove":     m.handlers.HandleRemove,
		"shuffle":    m.handlers.HandleShuffle,
		"nowplaying": m.handlers.HandleNowPlaying,
		"queue":      m.handlers.HandleQueue,
		"volume":     m.handlers.HandleVolume,
		"loop":       m.handlers.HandleLoop,
		"playlist":   m.handlers.HandlePlaylist,
		"controls":   m.handlers.HandleControls,
		"stats":      m.handlers.HandleStats,
		"quality":    m.handlers.HandleQuality,
		"buffer":     m.handlers.HandleBuffer,
		"optimize":   m.handlers.HandleOptimize,
		"help":       m.handlers.HandleHelp,
	}
}

// EventHandlers returns the Discord event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			if m.lavalink != nil {
				m.lavalink.OnVoiceServerUpdate(event)
			}
		},
		func(_ *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.lavalink != nil {
				m.lavalink.OnVoiceStateUpdate(event)
			}
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleComponentInteraction(s, i)
		},
	}
}

// LoadConfig loads module configuration from environment variables.
func (m *Module) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init wires the module together.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.bus = events.NewBus(events.DefaultEventBufferSize)

	lavalink, err := infrastructure.NewLavalinkAdapter(deps.Session, infrastructure.LavalinkConfig{
		Address:  m.config.LavalinkAddress,
		Password: m.config.LavalinkPassword,
	})
	if err != nil {
		return err
	}
	lavalink.SetEventBus(m.bus)
	m.lavalink = lavalink

	playlistStore, err := infrastructure.NewDatastorePlaylistStore(m.config.PlaylistFile)
	if err != nil {
		return err
	}
	m.playlistStore = playlistStore

	repo := infrastructure.NewMemoryRepository()
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session, 0)
	panel := presentation.NewPanelPresenter(deps.Session)
	timers := idletimer.NewManager()
	options := domain.DefaultExtractionOptions()

	var search *infrastructure.YouTubeSearchClient
	if m.config.YouTubeAPIKey != "" {
		search = infrastructure.NewYouTubeSearchClient(m.config.YouTubeAPIKey, "")
	} else {
		slog.Warn("no YouTube API key configured, using provider search only")
	}

	resolver := usecases.NewResolverService(lavalink, searchOrNil(search), options)
	playback := usecases.NewPlaybackService(
		repo, lavalink, resolver, timers, m.bus, notifier, m.config.IdleTimeout,
	)
	voice := usecases.NewVoiceService(repo, lavalink, voiceState, timers, m.bus)
	queue := usecases.NewQueueService(repo, m.bus)
	playlists := usecases.NewPlaylistService(repo, playlistStore)
	tuning := usecases.NewTuningService(options)

	m.playbackHandler = events.NewPlaybackEventHandler(playback.Advance, repo, m.bus)
	m.playbackHandler.Start(m.ctx)
	m.panelHandler = events.NewPanelEventHandler(repo, panel, m.bus)
	m.panelHandler.Start(m.ctx)

	m.handlers = presentation.NewHandlers(
		voice, playback, queue, resolver, playlists, tuning, panel, lavalink, repo,
	)

	slog.Info("music module initialized",
		"lavalink", m.config.LavalinkAddress,
		"playlist_file", m.config.PlaylistFile,
	)
	return nil
}

// Shutdown stops event consumers and closes external resources.
func (m *Module) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.playbackHandler != nil {
		m.playbackHandler.Stop()
	}
	if m.panelHandler != nil {
		m.panelHandler.Stop()
	}
	if m.bus != nil {
		m.bus.Close()
	}
	if m.playlistStore != nil {
		if err := m.playlistStore.Close(); err != nil {
			slog.Warn("failed to close playlist store", "error", err)
		}
	}
	if m.lavalink != nil {
		m.lavalink.Link().Close()
	}
	return nil
}

// handleComponentInteraction routes control-panel button presses.
func (m *Module) handleComponentInteraction(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if m.handlers == nil {
		return
	}

	responder := bot.NewDiscordResponder(s, i.Interaction)
	if err := m.handlers.HandleComponent(s, i, responder); err != nil {
		slog.Error("failed to handle component interaction",
			"component", i.MessageComponentData().CustomID,
			"error", err,
		)
	}
}

// searchOrNil keeps a typed nil from sneaking into the SearchClient
// interface.
func searchOrNil(c *infrastructure.YouTubeSearchClient) ports.SearchClient {
	if c == nil {
		return nil
	}
	return c
}
