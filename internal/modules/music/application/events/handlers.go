package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// AdvanceFunc is the function signature for running one drain step. reason
// and endedTrackID are empty when the trigger is an enqueue rather than a
// finished track.
type AdvanceFunc func(ctx context.Context, guildID snowflake.ID, reason domain.TrackEndReason, endedTrackID string) error

// PlaybackEventHandler drives the queue drain loop. It consumes
// TrackEnqueued and TrackEnded events and invokes the drain step, so the
// transport completion callback never re-enters playback code recursively.
type PlaybackEventHandler struct {
	advance AdvanceFunc
	repo    domain.SessionRepository
	bus     *Bus

	wg   sync.WaitGroup
	done chan struct{}
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	advance AdvanceFunc,
	repo domain.SessionRepository,
	bus *Bus,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		advance: advance,
		repo:    repo,
		bus:     bus,
		done:    make(chan struct{}),
	}
}

// Start begins consuming events in background goroutines.
func (h *PlaybackEventHandler) Start(ctx context.Context) {
	h.wg.Add(2)

	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.done:
				return
			case event, ok := <-h.bus.TrackEnqueued():
				if !ok {
					return
				}
				h.handleTrackEnqueued(ctx, event)
			}
		}
	}()

	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.done:
				return
			case event, ok := <-h.bus.TrackEnded():
				if !ok {
					return
				}
				h.handleTrackEnded(ctx, event)
			}
		}
	}()

	slog.Debug("playback event handler started")
}

// Stop stops the event handler and waits for its goroutines to finish.
func (h *PlaybackEventHandler) Stop() {
	close(h.done)
	h.wg.Wait()
	slog.Debug("playback event handler stopped")
}

func (h *PlaybackEventHandler) handleTrackEnqueued(
	ctx context.Context,
	event domain.TrackEnqueuedEvent,
) {
	// Only the enqueue that found the player idle starts playback.
	if !event.WasIdle {
		return
	}

	// Re-validate: several enqueues may have observed WasIdle before the
	// first drain step ran. Only start if nothing is playing right now.
	session := h.repo.Get(event.GuildID)
	if session == nil || session.Current() != nil {
		slog.Debug("enqueue observed idle but playback already active",
			"guild", event.GuildID,
		)
		return
	}

	if err := h.advance(ctx, event.GuildID, "", ""); err != nil {
		slog.Error("failed to start playback after enqueue",
			"guild", event.GuildID,
			"error", err,
		)
	}
}

func (h *PlaybackEventHandler) handleTrackEnded(
	ctx context.Context,
	event domain.TrackEndedEvent,
) {
	if !event.Reason.ShouldAdvance() {
		slog.Debug("track ended without advancing",
			"guild", event.GuildID,
			"reason", event.Reason,
		)
		return
	}

	if err := h.advance(ctx, event.GuildID, event.Reason, event.TrackID); err != nil {
		slog.Error("failed to advance after track end",
			"guild", event.GuildID,
			"error", err,
		)
	}
}

// PanelEventHandler refreshes the control panel after session mutations.
type PanelEventHandler struct {
	repo      domain.SessionRepository
	presenter ports.PanelPresenter
	bus       *Bus

	wg   sync.WaitGroup
	done chan struct{}
}

// NewPanelEventHandler creates a new PanelEventHandler.
func NewPanelEventHandler(
	repo domain.SessionRepository,
	presenter ports.PanelPresenter,
	bus *Bus,
) *PanelEventHandler {
	return &PanelEventHandler{
		repo:      repo,
		presenter: presenter,
		bus:       bus,
		done:      make(chan struct{}),
	}
}

// Start begins consuming refresh events.
func (h *PanelEventHandler) Start(ctx context.Context) {
	h.wg.Add(1)

	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.done:
				return
			case event, ok := <-h.bus.PanelRefresh():
				if !ok {
					return
				}
				session := h.repo.Get(event.GuildID)
				if session == nil {
					continue
				}
				h.presenter.Refresh(event.GuildID, session.View())
			}
		}
	}()

	slog.Debug("panel event handler started")
}

// Stop stops the event handler and waits for its goroutine to finish.
func (h *PanelEventHandler) Stop() {
	close(h.done)
	h.wg.Wait()
	slog.Debug("panel event handler stopped")
}
