package bot

import "github.com/bwmarrin/discordgo"

// Responder is the single write path from an interaction handler back to
// Discord. Handlers never call the session's respond API directly; tests
// swap in MockResponder and assert on what would have been sent.
type Responder interface {
	Respond(response *discordgo.InteractionResponse) error
}

var (
	_ Responder = (*DiscordResponder)(nil)
	_ Responder = (*MockResponder)(nil)
)

// DiscordResponder answers the interaction over the live session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// NewDiscordResponder binds a session to one interaction.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

// Respond sends the response through the Discord API.
func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(r.interaction, response)
}

// MockResponder records the last response instead of sending it. Setting Err
// makes Respond fail, for exercising handler error paths.
type MockResponder struct {
	LastResponse *discordgo.InteractionResponse
	Err          error
}

func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.LastResponse = response
	return m.Err
}
