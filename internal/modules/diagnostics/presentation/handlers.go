package presentation

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/yotsugi/groovebot/internal/bot"
	"github.com/yotsugi/groovebot/internal/modules/diagnostics/application"
)

// defaultProbeTarget is the media provider the bot streams from.
const defaultProbeTarget = "https://www.youtube.com"

// PingHandler handles the /ping command.
type PingHandler struct{}

// NewPingHandler creates a new PingHandler.
func NewPingHandler() *PingHandler {
	return &PingHandler{}
}

// Handle replies with the gateway heartbeat latency.
func (h *PingHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	content := "Pong!"
	if s != nil {
		content = fmt.Sprintf("Pong! Gateway latency: %dms", s.HeartbeatLatency().Milliseconds())
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

// NetcheckHandler handles the /netcheck command.
type NetcheckHandler struct {
	prober *application.Prober
}

// NewNetcheckHandler creates a NetcheckHandler probing the given target.
// Empty target probes the default media provider.
func NewNetcheckHandler(target string) *NetcheckHandler {
	if target == "" {
		target = defaultProbeTarget
	}
	return &NetcheckHandler{
		prober: application.NewProber(target),
	}
}

// Handle runs a timed probe and reports the result.
func (h *NetcheckHandler) Handle(
	_ *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result := h.prober.Probe(ctx)

	var content string
	if result.Reachable {
		content = fmt.Sprintf("%s is reachable: HTTP %d in %dms",
			result.Target, result.Status, result.Latency.Milliseconds())
	} else {
		content = fmt.Sprintf("%s is unreachable", result.Target)
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}
