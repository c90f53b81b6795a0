package events

import (
	"log/slog"
	"sync"

	"github.com/yotsugi/groovebot/internal/modules/music/domain"
	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time check that Bus implements ports.EventPublisher.
var _ ports.EventPublisher = (*Bus)(nil)

// Bus is the channel-based event bus that connects session mutations, the
// transport's completion signals and the control-panel presenter. Each event
// type has a single consumer goroutine, which is what makes "exactly one
// drain step per completion" hold.
type Bus struct {
	trackEnqueued chan domain.TrackEnqueuedEvent
	trackEnded    chan domain.TrackEndedEvent
	panelRefresh  chan domain.PanelRefreshEvent

	closed bool
	mu     sync.RWMutex
}

// NewBus creates a Bus with the given channel buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	return &Bus{
		trackEnqueued: make(chan domain.TrackEnqueuedEvent, bufferSize),
		trackEnded:    make(chan domain.TrackEndedEvent, bufferSize),
		panelRefresh:  make(chan domain.PanelRefreshEvent, bufferSize),
	}
}

// PublishTrackEnqueued publishes a TrackEnqueuedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishTrackEnqueued(event domain.TrackEnqueuedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackEnqueued")
		return
	}

	select {
	case b.trackEnqueued <- event:
		slog.Debug("published event", "type", "TrackEnqueued", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackEnqueued")
	}
}

// PublishTrackEnded publishes a TrackEndedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishTrackEnded(event domain.TrackEndedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackEnded")
		return
	}

	select {
	case b.trackEnded <- event:
		slog.Debug("published event", "type", "TrackEnded", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackEnded")
	}
}

// PublishPanelRefresh publishes a PanelRefreshEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishPanelRefresh(event domain.PanelRefreshEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "PanelRefresh")
		return
	}

	select {
	case b.panelRefresh <- event:
	default:
		slog.Warn("event buffer full, dropping event", "type", "PanelRefresh")
	}
}

// TrackEnqueued returns the channel for TrackEnqueuedEvent.
func (b *Bus) TrackEnqueued() <-chan domain.TrackEnqueuedEvent {
	return b.trackEnqueued
}

// TrackEnded returns the channel for TrackEndedEvent.
func (b *Bus) TrackEnded() <-chan domain.TrackEndedEvent {
	return b.trackEnded
}

// PanelRefresh returns the channel for PanelRefreshEvent.
func (b *Bus) PanelRefresh() <-chan domain.PanelRefreshEvent {
	return b.panelRefresh
}

// Close closes all event channels. After Close, publishing is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	close(b.trackEnqueued)
	close(b.trackEnded)
	close(b.panelRefresh)

	slog.Debug("event bus closed")
}
