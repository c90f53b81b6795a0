package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

const testGuild = snowflake.ID(1)

type advanceCall struct {
	guildID snowflake.ID
	reason  domain.TrackEndReason
	trackID string
}

type memRepo struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.PlayerSession
}

func newMemRepo() *memRepo {
	return &memRepo{sessions: make(map[snowflake.ID]*domain.PlayerSession)}
}

func (r *memRepo) GetOrCreate(guildID snowflake.ID) *domain.PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[guildID]; ok {
		return s
	}
	s := domain.NewPlayerSession(guildID)
	r.sessions[guildID] = s
	return s
}

func (r *memRepo) Get(guildID snowflake.ID) *domain.PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[guildID]
}

type stubPresenter struct {
	refreshes chan snowflake.ID
}

func (p *stubPresenter) Show(snowflake.ID, snowflake.ID, domain.PanelView) error { return nil }
func (p *stubPresenter) Refresh(guildID snowflake.ID, _ domain.PanelView) {
	p.refreshes <- guildID
}
func (p *stubPresenter) Hide(snowflake.ID) error             { return nil }
func (p *stubPresenter) SetAutoRefresh(snowflake.ID, bool) bool { return false }
func (p *stubPresenter) AutoRefresh(snowflake.ID) bool          { return false }
func (p *stubPresenter) HasPanel(snowflake.ID) bool             { return false }

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event processing")
		panic("unreachable")
	}
}

func expectNone[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected call: %+v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func startPlaybackHandler(t *testing.T, repo domain.SessionRepository) (*Bus, chan advanceCall) {
	t.Helper()

	bus := NewBus(8)
	calls := make(chan advanceCall, 8)
	advance := func(_ context.Context, guildID snowflake.ID, reason domain.TrackEndReason, endedTrackID string) error {
		calls <- advanceCall{guildID, reason, endedTrackID}
		return nil
	}

	handler := NewPlaybackEventHandler(advance, repo, bus)
	handler.Start(context.Background())
	t.Cleanup(func() {
		handler.Stop()
		bus.Close()
	})
	return bus, calls
}

func TestPlaybackHandler_IdleEnqueueStartsDrain(t *testing.T) {
	repo := newMemRepo()
	repo.GetOrCreate(testGuild)
	bus, calls := startPlaybackHandler(t, repo)

	bus.PublishTrackEnqueued(domain.TrackEnqueuedEvent{GuildID: testGuild, WasIdle: true})

	call := waitFor(t, calls)
	if call.guildID != testGuild || call.reason != "" {
		t.Errorf("unexpected drain call: %+v", call)
	}
}

func TestPlaybackHandler_NonIdleEnqueueIgnored(t *testing.T) {
	repo := newMemRepo()
	repo.GetOrCreate(testGuild)
	bus, calls := startPlaybackHandler(t, repo)

	bus.PublishTrackEnqueued(domain.TrackEnqueuedEvent{GuildID: testGuild, WasIdle: false})

	expectNone(t, calls)
}

func TestPlaybackHandler_StaleIdleFlagRevalidated(t *testing.T) {
	repo := newMemRepo()
	session := repo.GetOrCreate(testGuild)
	bus, calls := startPlaybackHandler(t, repo)

	// Playback started between the enqueue observing idle and the event
	// being consumed; a second drain step must not run.
	session.SetCurrent(domain.NewTrack("id", "enc", "playing", time.Minute, "uri", "", "t"))
	bus.PublishTrackEnqueued(domain.TrackEnqueuedEvent{GuildID: testGuild, WasIdle: true})

	expectNone(t, calls)
}

func TestPlaybackHandler_TrackEndReasons(t *testing.T) {
	tests := []struct {
		reason      domain.TrackEndReason
		wantAdvance bool
	}{
		{domain.TrackEndFinished, true},
		{domain.TrackEndLoadFailed, true},
		{domain.TrackEndStopped, false},
		{domain.TrackEndReplaced, false},
		{domain.TrackEndCleanup, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			repo := newMemRepo()
			repo.GetOrCreate(testGuild)
			bus, calls := startPlaybackHandler(t, repo)

			bus.PublishTrackEnded(domain.TrackEndedEvent{
				GuildID: testGuild,
				Reason:  tt.reason,
				TrackID: "track-1",
			})

			if tt.wantAdvance {
				call := waitFor(t, calls)
				if call.reason != tt.reason {
					t.Errorf("expected reason %q, got %q", tt.reason, call.reason)
				}
				if call.trackID != "track-1" {
					t.Errorf("expected ended track identity forwarded, got %q", call.trackID)
				}
			} else {
				expectNone(t, calls)
			}
		})
	}
}

func TestPanelHandler_RefreshesOnEvent(t *testing.T) {
	repo := newMemRepo()
	repo.GetOrCreate(testGuild)

	bus := NewBus(8)
	presenter := &stubPresenter{refreshes: make(chan snowflake.ID, 8)}
	handler := NewPanelEventHandler(repo, presenter, bus)
	handler.Start(context.Background())
	t.Cleanup(func() {
		handler.Stop()
		bus.Close()
	})

	bus.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: testGuild})
	if got := waitFor(t, presenter.refreshes); got != testGuild {
		t.Errorf("expected refresh for guild %v, got %v", testGuild, got)
	}

	// Unknown guilds are skipped without a presenter call.
	bus.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: snowflake.ID(999)})
	expectNone(t, presenter.refreshes)
}

func TestBus_PublishAfterCloseIsNoOp(t *testing.T) {
	bus := NewBus(1)
	bus.Close()
	bus.Close()

	bus.PublishTrackEnqueued(domain.TrackEnqueuedEvent{GuildID: testGuild})
	bus.PublishTrackEnded(domain.TrackEndedEvent{GuildID: testGuild})
	bus.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: testGuild})

	if _, ok := <-bus.TrackEnqueued(); ok {
		t.Error("expected closed channel")
	}
}

func TestBus_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus(1)
	defer bus.Close()

	done := make(chan struct{})
	go func() {
		bus.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: testGuild})
		bus.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: testGuild})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full buffer")
	}
}
