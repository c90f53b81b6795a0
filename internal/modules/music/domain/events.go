package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason represents why the transport stopped outputting a track.
type TrackEndReason string

const (
	// TrackEndFinished means the track played to completion.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the stream could not be loaded.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means playback was stopped deliberately (skip or stop).
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means another track replaced this one.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the player was torn down.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// ShouldAdvance returns true if this end reason should trigger the next
// drain step. Deliberate stops (skip, stop) drive their own drain step from
// the command path, so TrackEndStopped must not advance here or one
// completion would drive two drain steps.
func (r TrackEndReason) ShouldAdvance() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed
}

// TrackEnqueuedEvent is published when tracks are appended to a queue.
type TrackEnqueuedEvent struct {
	GuildID snowflake.ID
	Track   *Track
	WasIdle bool // true if nothing was playing at enqueue time
}

// TrackEndedEvent is published by the transport when output for a track
// stops. Exactly one drain step runs per event.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	Reason  TrackEndReason
	TrackID string // identifier of the track the transport reported on
}

// PanelRefreshEvent is published after any session mutation that changes
// what the control panel displays.
type PanelRefreshEvent struct {
	GuildID snowflake.ID
}
