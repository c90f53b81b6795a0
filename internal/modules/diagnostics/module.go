package diagnostics

import (
	"github.com/bwmarrin/discordgo"

	"github.com/yotsugi/groovebot/internal/bot"
	"github.com/yotsugi/groovebot/internal/modules/diagnostics/presentation"
)

func init() {
	bot.Register(&Module{})
}

// Module provides health commands: /ping and /netcheck.
type Module struct {
	pingHandler     *presentation.PingHandler
	netcheckHandler *presentation.NetcheckHandler
}

// Name returns the module name.
func (m *Module) Name() string {
	return "diagnostics"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check that the bot is alive",
		},
		{
			Name:        "netcheck",
			Description: "Check connectivity to the media provider",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping":     m.pingHandler.Handle,
		"netcheck": m.netcheckHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	m.pingHandler = presentation.NewPingHandler()
	m.netcheckHandler = presentation.NewNetcheckHandler("")
	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	return nil
}
