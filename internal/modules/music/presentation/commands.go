package presentation

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the music module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "join",
			Description: "Join your voice channel",
		},
		{
			Name:        "leave",
			Description: "Leave the voice channel and clear the queue",
		},
		{
			Name:        "play",
			Description: "Play a song from URL or search",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "URL or search term",
					Required:    true,
				},
			},
		},
		{
			Name:        "skip",
			Description: "Skip the current song",
		},
		{
			Name:        "pause",
			Description: "Pause playback",
		},
		{
			Name:        "resume",
			Description: "Resume playback",
		},
		{
			Name:        "stop",
			Description: "Stop playback and clear the queue",
		},
		{
			Name:        "clear",
			Description: "Clear the queue, keeping the current song",
		},
		{
			Name:        "remove",
			Description: "Remove a song from the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "position",
					Description: "Queue position to remove (1-indexed, as shown in /queue)",
					Required:    true,
					MinValue:    floatPtr(1),
				},
			},
		},
		{
			Name:        "shuffle",
			Description: "Shuffle the queue",
		},
		{
			Name:        "nowplaying",
			Description: "Show the current song",
		},
		{
			Name:        "queue",
			Description: "Show the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page number",
					Required:    false,
					MinValue:    floatPtr(1),
				},
			},
		},
		{
			Name:        "volume",
			Description: "Set the playback volume",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "percent",
					Description: "Volume from 0 to 200",
					Required:    true,
					MinValue:    floatPtr(0),
					MaxValue:    200,
				},
			},
		},
		{
			Name:        "loop",
			Description: "Toggle queue looping",
		},
		{
			Name:        "playlist",
			Description: "Manage saved playlists",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "save",
					Description: "Save the current queue as a playlist",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Playlist name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "load",
					Description: "Load a saved playlist into the queue",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Playlist name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List saved playlists",
				},
			},
		},
		{
			Name:        "controls",
			Description: "Manage the control panel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the control panel in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "hide",
					Description: "Hide the control panel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "auto",
					Description: "Toggle automatic panel refreshing",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "update",
					Description: "Refresh the control panel now",
				},
			},
		},
		{
			Name:        "stats",
			Description: "Show player statistics",
		},
		{
			Name:        "quality",
			Description: "Set the audio quality preset",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "preset",
					Description: "Quality preset",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Low (64k)", Value: "low"},
						{Name: "Medium (128k)", Value: "medium"},
						{Name: "High (192k)", Value: "high"},
					},
				},
			},
		},
		{
			Name:        "buffer",
			Description: "Set the stream buffer size",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "size",
					Description: "Buffer size preset",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Small (8K)", Value: "small"},
						{Name: "Medium (16K)", Value: "medium"},
						{Name: "Large (32K)", Value: "large"},
					},
				},
			},
		},
		{
			Name:        "optimize",
			Description: "Reset streaming settings to defaults",
		},
		{
			Name:        "help",
			Description: "Show command help",
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
