package presentation

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

func playingView() domain.PanelView {
	return domain.PanelView{
		CurrentTitle:     "a song",
		CurrentDuration:  "03:00",
		CurrentRequester: "alice",
		CurrentURI:       "https://example.com/watch?v=x",
		Playing:          true,
		VolumePercent:    50,
		QueueLen:         2,
	}
}

func TestRenderPanel_PlayingView(t *testing.T) {
	embed, components := RenderPanel(playingView())

	if !strings.Contains(embed.Description, "[a song](https://example.com/watch?v=x)") {
		t.Errorf("expected linked title, got %q", embed.Description)
	}
	if !strings.Contains(embed.Description, "requested by alice") {
		t.Errorf("expected requester, got %q", embed.Description)
	}
	if strings.Contains(embed.Description, "paused") {
		t.Errorf("playing view must not mention paused: %q", embed.Description)
	}
	if embed.Footer.Text != "Volume 50% • 2 in queue" {
		t.Errorf("unexpected footer %q", embed.Footer.Text)
	}
	if len(components) != 2 {
		t.Fatalf("expected 2 button rows, got %d", len(components))
	}
}

func TestRenderPanel_PausedAndLoop(t *testing.T) {
	view := playingView()
	view.Playing = false
	view.Paused = true
	view.Loop = true

	embed, _ := RenderPanel(view)
	if !strings.Contains(embed.Description, "paused") {
		t.Errorf("expected paused marker, got %q", embed.Description)
	}
	if !strings.HasSuffix(embed.Footer.Text, "• loop on") {
		t.Errorf("expected loop marker in footer, got %q", embed.Footer.Text)
	}
}

func TestRenderPanel_IdleView(t *testing.T) {
	embed, components := RenderPanel(domain.PanelView{VolumePercent: 50})

	if embed.Description != "Nothing playing." {
		t.Errorf("unexpected idle description %q", embed.Description)
	}
	if embed.Thumbnail != nil {
		t.Error("idle view must carry no artwork")
	}
	if len(components) != 2 {
		t.Fatalf("expected 2 button rows, got %d", len(components))
	}
}

func TestRenderPanel_UnlinkedTitleWithoutURI(t *testing.T) {
	view := playingView()
	view.CurrentURI = ""

	embed, _ := RenderPanel(view)
	if !strings.Contains(embed.Description, "**a song**") {
		t.Errorf("expected bold title without link, got %q", embed.Description)
	}
}

func TestRenderPanel_ArtworkThumbnail(t *testing.T) {
	view := playingView()
	view.ArtworkURL = "https://example.com/art.jpg"

	embed, _ := RenderPanel(view)
	if embed.Thumbnail == nil || embed.Thumbnail.URL != view.ArtworkURL {
		t.Errorf("expected artwork thumbnail, got %+v", embed.Thumbnail)
	}
}

func TestRenderPanel_ButtonIDs(t *testing.T) {
	_, components := RenderPanel(playingView())

	want := map[string]bool{
		ComponentPrev:      false,
		ComponentPlayPause: false,
		ComponentNext:      false,
		ComponentStop:      false,
		ComponentVolDown:   false,
		ComponentVolUp:     false,
		ComponentQueue:     false,
	}

	for _, row := range components {
		actionsRow, ok := row.(discordgo.ActionsRow)
		if !ok {
			t.Fatalf("expected ActionsRow, got %T", row)
		}
		for _, component := range actionsRow.Components {
			button, ok := component.(discordgo.Button)
			if !ok {
				t.Fatalf("expected Button, got %T", component)
			}
			if _, known := want[button.CustomID]; !known {
				t.Errorf("unexpected custom ID %q", button.CustomID)
			}
			want[button.CustomID] = true
		}
	}

	for id, seen := range want {
		if !seen {
			t.Errorf("missing button %q", id)
		}
	}
}

func TestRenderPanel_PlayPauseGlyph(t *testing.T) {
	findPlayPause := func(components []discordgo.MessageComponent) discordgo.Button {
		t.Helper()
		row := components[0].(discordgo.ActionsRow)
		for _, component := range row.Components {
			button := component.(discordgo.Button)
			if button.CustomID == ComponentPlayPause {
				return button
			}
		}
		t.Fatal("play/pause button not found")
		panic("unreachable")
	}

	_, playing := RenderPanel(playingView())
	if glyph := findPlayPause(playing).Emoji.Name; glyph != "⏸" {
		t.Errorf("playing view: expected pause glyph, got %q", glyph)
	}

	view := playingView()
	view.Playing = false
	view.Paused = true
	_, paused := RenderPanel(view)
	if glyph := findPlayPause(paused).Emoji.Name; glyph != "▶️" {
		t.Errorf("paused view: expected play glyph, got %q", glyph)
	}
}
