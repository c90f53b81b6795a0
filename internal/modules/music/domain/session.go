package domain

import (
	"math/rand"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Volume bounds. Volume is a multiplier: 1.0 is source level, 2.0 doubles it.
const (
	MinVolume     = 0.0
	MaxVolume     = 2.0
	DefaultVolume = 0.5
)

// PlaybackState describes what the session is doing right now.
type PlaybackState int

const (
	StateIdle PlaybackState = iota
	StatePlaying
	StatePaused
)

// String returns a human-readable representation of the playback state.
func (s PlaybackState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// PlayerSession holds the per-guild playback state: the pending queue, the
// track currently bound to the transport, volume and the loop flag.
//
// Invariant: current == nil exactly when the transport is not outputting
// anything for this guild. Mutations arrive from command handlers, button
// handlers and track-end events concurrently, so every accessor locks.
type PlayerSession struct {
	mu                    sync.Mutex
	guildID               snowflake.ID
	queue                 []*Track
	current               *Track
	volume                float64
	loop                  bool
	paused                bool
	notificationChannelID snowflake.ID
}

// NewPlayerSession creates a session with an empty queue and default volume.
func NewPlayerSession(guildID snowflake.ID) *PlayerSession {
	return &PlayerSession{
		guildID: guildID,
		queue:   make([]*Track, 0),
		volume:  DefaultVolume,
	}
}

// GuildID returns the owning guild. Immutable after construction.
func (p *PlayerSession) GuildID() snowflake.ID {
	return p.guildID
}

// Enqueue appends tracks in order and reports whether the session was idle
// before the append, along with the 1-based queue position of the first
// appended track.
func (p *PlayerSession) Enqueue(tracks ...*Track) (wasIdle bool, position int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasIdle = p.current == nil
	position = len(p.queue) + 1
	p.queue = append(p.queue, tracks...)
	return wasIdle, position
}

// PopFront removes and returns the first pending track, or nil if the queue
// is empty.
func (p *PlayerSession) PopFront() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return nil
	}
	track := p.queue[0]
	p.queue = p.queue[1:]
	return track
}

// PushFront puts a track back at the head of the queue. Used to restore a
// track whose playback could not be started.
func (p *PlayerSession) PushFront(track *Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append([]*Track{track}, p.queue...)
}

// RemoveAt removes and returns the pending track at the 1-based position.
// The currently playing track is not addressable here; out-of-range
// positions return nil and leave the queue unchanged.
func (p *PlayerSession) RemoveAt(position int) *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	if position < 1 || position > len(p.queue) {
		return nil
	}
	index := position - 1
	track := p.queue[index]
	p.queue = append(p.queue[:index], p.queue[index+1:]...)
	return track
}

// Shuffle permutes the pending queue in place. The current track is
// unaffected. Returns false if the queue is empty.
func (p *PlayerSession) Shuffle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return false
	}
	rand.Shuffle(len(p.queue), func(i, j int) {
		p.queue[i], p.queue[j] = p.queue[j], p.queue[i]
	})
	return true
}

// ClearQueue truncates the pending queue and returns how many tracks were
// dropped.
func (p *PlayerSession) ClearQueue() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := len(p.queue)
	p.queue = p.queue[:0]
	return count
}

// QueueLen returns the number of pending tracks.
func (p *PlayerSession) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// QueueTracks returns a copy of the pending queue in play order.
func (p *PlayerSession) QueueTracks() []*Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracks := make([]*Track, len(p.queue))
	copy(tracks, p.queue)
	return tracks
}

// Current returns the track bound to the transport, or nil when idle.
func (p *PlayerSession) Current() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// SetCurrent binds a track as the one being played and clears the paused
// flag.
func (p *PlayerSession) SetCurrent(track *Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = track
	p.paused = false
}

// TakeCurrent clears and returns the current track.
func (p *PlayerSession) TakeCurrent() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	track := p.current
	p.current = nil
	p.paused = false
	return track
}

// TakeCurrentMatching clears and returns the current track only if its ID
// matches trackID; an empty trackID matches any track. On a mismatch the
// session is left untouched and nil is returned, so a stale end event for a
// track that was already replaced cannot detach its successor.
func (p *PlayerSession) TakeCurrentMatching(trackID string) *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	if trackID != "" && p.current.ID != trackID {
		return nil
	}
	track := p.current
	p.current = nil
	p.paused = false
	return track
}

// State derives the playback state from current and the paused flag.
func (p *PlayerSession) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.current == nil:
		return StateIdle
	case p.paused:
		return StatePaused
	default:
		return StatePlaying
	}
}

// SetPaused records the pause state. It has no effect while idle.
func (p *PlayerSession) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.paused = paused
	}
}

// Volume returns the session volume.
func (p *PlayerSession) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume clamps v to [MinVolume, MaxVolume], stores it and returns the
// clamped value.
func (p *PlayerSession) SetVolume(v float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = min(max(v, MinVolume), MaxVolume)
	return p.volume
}

// Loop returns whether finished tracks are re-enqueued at the back.
func (p *PlayerSession) Loop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop
}

// ToggleLoop flips the loop flag and returns the new value.
func (p *PlayerSession) ToggleLoop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = !p.loop
	return p.loop
}

// NotificationChannelID returns the text channel used for status messages
// and the control panel.
func (p *PlayerSession) NotificationChannelID() snowflake.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notificationChannelID
}

// SetNotificationChannelID updates the status channel if non-zero.
func (p *PlayerSession) SetNotificationChannelID(channelID snowflake.ID) {
	if channelID == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notificationChannelID = channelID
}

// PanelView is a point-in-time snapshot of the session used to render the
// control panel. It is taken under the session lock so buttons, status text
// and queue length always agree with each other.
type PanelView struct {
	CurrentTitle     string
	CurrentDuration  string
	CurrentRequester string
	CurrentURI       string
	ArtworkURL       string
	Playing          bool
	Paused           bool
	VolumePercent    int
	QueueLen         int
	Loop             bool
}

// View builds a consistent PanelView snapshot.
func (p *PlayerSession) View() PanelView {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := PanelView{
		Playing:       p.current != nil && !p.paused,
		Paused:        p.current != nil && p.paused,
		VolumePercent: int(p.volume * 100),
		QueueLen:      len(p.queue),
		Loop:          p.loop,
	}
	if p.current != nil {
		view.CurrentTitle = p.current.Title
		view.CurrentDuration = p.current.FormattedDuration()
		view.CurrentRequester = p.current.Requester
		view.CurrentURI = p.current.URI
		view.ArtworkURL = p.current.ArtworkURL
	}
	return view
}
