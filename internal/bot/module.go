package bot

import "github.com/bwmarrin/discordgo"

// InteractionHandler answers one slash-command interaction. All writes back
// to Discord go through the Responder, which is what keeps handlers testable
// without a live session.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// EventHandler is handed straight to discordgo's AddHandler, so it must be a
// function matching one of discordgo's handler signatures, e.g.
// func(s *discordgo.Session, m *discordgo.MessageCreate).
type EventHandler any

// ModuleDependencies is what each module receives at Init time. The session
// is already open, so session state (bot user ID in particular) is populated.
type ModuleDependencies struct {
	Session *discordgo.Session
}

// Module is one self-contained feature set: the slash commands it exposes,
// the handlers behind them, and its lifecycle. Modules register themselves
// with the global registry from their package init().
type Module interface {
	// Name identifies the module in logs and error messages.
	Name() string

	// Commands lists the slash commands to create on startup.
	Commands() []*discordgo.ApplicationCommand

	// CommandHandlers maps command names to their handlers. Names collide
	// across modules silently, so they must be globally unique.
	CommandHandlers() map[string]InteractionHandler

	// EventHandlers lists raw gateway handlers to attach to the session.
	// Component interactions route through these rather than the command map.
	EventHandlers() []EventHandler

	// Init wires the module's services against the open session.
	Init(deps ModuleDependencies) error

	// Shutdown releases the module's resources on bot stop.
	Shutdown() error
}

// ConfigurableModule marks a module whose configuration loads from the
// environment. LoadConfig runs before the Discord connection opens, so a
// missing required variable fails the whole startup instead of surfacing
// mid-session.
type ConfigurableModule interface {
	LoadConfig() error
}
