package domain

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func sessionTrack(title string) *Track {
	return NewTrack("id-"+title, "encoded-"+title, title, 3*time.Minute,
		"https://example.com/"+title, "", "tester")
}

func TestEnqueue_ReportsIdleAndPosition(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))

	wasIdle, position := s.Enqueue(sessionTrack("a"), sessionTrack("b"))
	if !wasIdle || position != 1 {
		t.Errorf("first enqueue: wasIdle=%v position=%d, want true 1", wasIdle, position)
	}

	s.SetCurrent(s.PopFront())
	wasIdle, position = s.Enqueue(sessionTrack("c"))
	if wasIdle || position != 2 {
		t.Errorf("enqueue while playing: wasIdle=%v position=%d, want false 2", wasIdle, position)
	}
}

func TestPopPushFront(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))

	if s.PopFront() != nil {
		t.Error("pop on empty queue must return nil")
	}

	s.Enqueue(sessionTrack("a"), sessionTrack("b"))
	popped := s.PopFront()
	if popped.Title != "a" {
		t.Fatalf("expected a, got %q", popped.Title)
	}

	s.PushFront(popped)
	if got := s.PopFront().Title; got != "a" {
		t.Errorf("expected restored track at head, got %q", got)
	}
}

func TestRemoveAt(t *testing.T) {
	tests := []struct {
		name      string
		position  int
		wantTitle string
		wantLen   int
	}{
		{"middle", 2, "b", 2},
		{"first", 1, "a", 2},
		{"last", 3, "c", 2},
		{"zero", 0, "", 3},
		{"negative", -1, "", 3},
		{"past end", 4, "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewPlayerSession(snowflake.ID(1))
			s.Enqueue(sessionTrack("a"), sessionTrack("b"), sessionTrack("c"))

			track := s.RemoveAt(tt.position)
			if tt.wantTitle == "" {
				if track != nil {
					t.Errorf("expected nil, got %q", track.Title)
				}
			} else if track == nil || track.Title != tt.wantTitle {
				t.Errorf("expected %q, got %v", tt.wantTitle, track)
			}
			if s.QueueLen() != tt.wantLen {
				t.Errorf("queue len: got %d, want %d", s.QueueLen(), tt.wantLen)
			}
		})
	}
}

func TestShuffle(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))
	if s.Shuffle() {
		t.Error("shuffle on empty queue must return false")
	}

	titles := []string{"a", "b", "c", "d", "e"}
	for _, title := range titles {
		s.Enqueue(sessionTrack(title))
	}
	if !s.Shuffle() {
		t.Fatal("expected shuffle to succeed")
	}

	got := s.QueueTracks()
	if len(got) != len(titles) {
		t.Fatalf("expected %d tracks, got %d", len(titles), len(got))
	}
	seen := make(map[string]bool, len(got))
	for _, track := range got {
		seen[track.Title] = true
	}
	for _, title := range titles {
		if !seen[title] {
			t.Errorf("track %q lost in shuffle", title)
		}
	}
}

func TestClearQueue(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))
	s.SetCurrent(sessionTrack("current"))
	s.Enqueue(sessionTrack("a"), sessionTrack("b"))

	if got := s.ClearQueue(); got != 2 {
		t.Errorf("expected 2 cleared, got %d", got)
	}
	if s.QueueLen() != 0 {
		t.Errorf("expected empty queue, got %d", s.QueueLen())
	}
	if s.Current() == nil {
		t.Error("clear must not touch the current track")
	}
}

func TestStateTransitions(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))

	if s.State() != StateIdle {
		t.Errorf("expected idle, got %v", s.State())
	}

	// Pausing while idle has no effect.
	s.SetPaused(true)
	if s.State() != StateIdle {
		t.Errorf("expected idle after no-op pause, got %v", s.State())
	}

	s.SetCurrent(sessionTrack("a"))
	if s.State() != StatePlaying {
		t.Errorf("expected playing, got %v", s.State())
	}

	s.SetPaused(true)
	if s.State() != StatePaused {
		t.Errorf("expected paused, got %v", s.State())
	}

	// Binding a new track clears the paused flag.
	s.SetCurrent(sessionTrack("b"))
	if s.State() != StatePlaying {
		t.Errorf("expected playing after rebind, got %v", s.State())
	}

	s.SetPaused(true)
	if got := s.TakeCurrent(); got == nil || got.Title != "b" {
		t.Fatalf("expected track b back, got %v", got)
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle after take, got %v", s.State())
	}
}

func TestTakeCurrentMatching(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))

	if got := s.TakeCurrentMatching("id-a"); got != nil {
		t.Fatalf("expected nil on idle session, got %v", got)
	}

	s.SetCurrent(sessionTrack("a"))

	// A mismatched ID means the bound track is not the one that ended.
	if got := s.TakeCurrentMatching("id-other"); got != nil {
		t.Fatalf("expected nil on ID mismatch, got %v", got)
	}
	if s.Current() == nil {
		t.Fatal("mismatch must leave the current track bound")
	}

	if got := s.TakeCurrentMatching("id-a"); got == nil || got.Title != "a" {
		t.Fatalf("expected track a back, got %v", got)
	}
	if s.State() != StateIdle {
		t.Errorf("expected idle after take, got %v", s.State())
	}

	// An empty ID matches whatever is bound.
	s.SetCurrent(sessionTrack("b"))
	if got := s.TakeCurrentMatching(""); got == nil || got.Title != "b" {
		t.Fatalf("expected track b back, got %v", got)
	}
}

func TestSetVolume_Clamps(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{0, 0},
		{2, 2},
		{-0.1, MinVolume},
		{2.5, MaxVolume},
	}

	s := NewPlayerSession(snowflake.ID(1))
	if s.Volume() != DefaultVolume {
		t.Errorf("expected default volume %v, got %v", DefaultVolume, s.Volume())
	}

	for _, tt := range tests {
		if got := s.SetVolume(tt.in); got != tt.want {
			t.Errorf("SetVolume(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if s.Volume() != tt.want {
			t.Errorf("Volume() after SetVolume(%v) = %v, want %v", tt.in, s.Volume(), tt.want)
		}
	}
}

func TestToggleLoop(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))

	if s.Loop() {
		t.Error("loop must start off")
	}
	if !s.ToggleLoop() || !s.Loop() {
		t.Error("expected loop on after first toggle")
	}
	if s.ToggleLoop() || s.Loop() {
		t.Error("expected loop off after second toggle")
	}
}

func TestSetNotificationChannelID_IgnoresZero(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))

	s.SetNotificationChannelID(snowflake.ID(7))
	s.SetNotificationChannelID(0)
	if got := s.NotificationChannelID(); got != snowflake.ID(7) {
		t.Errorf("expected channel 7 kept, got %v", got)
	}
}

func TestView_ConsistentSnapshot(t *testing.T) {
	s := NewPlayerSession(snowflake.ID(1))
	s.SetVolume(0.8)
	s.ToggleLoop()

	view := s.View()
	if view.Playing || view.Paused || view.CurrentTitle != "" {
		t.Errorf("idle view should carry no track: %+v", view)
	}
	if view.VolumePercent != 80 || !view.Loop {
		t.Errorf("expected volume 80 and loop on: %+v", view)
	}

	s.SetCurrent(sessionTrack("now"))
	s.Enqueue(sessionTrack("next"))
	view = s.View()
	if !view.Playing || view.CurrentTitle != "now" || view.QueueLen != 1 {
		t.Errorf("unexpected playing view: %+v", view)
	}
	if view.CurrentDuration != "03:00" {
		t.Errorf("expected formatted duration, got %q", view.CurrentDuration)
	}

	s.SetPaused(true)
	view = s.View()
	if view.Playing || !view.Paused {
		t.Errorf("expected paused view: %+v", view)
	}
}
