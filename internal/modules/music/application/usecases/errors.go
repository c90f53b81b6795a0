package usecases

import (
	"errors"
	"fmt"
)

// Errors reported back to the user as transient status messages. None of
// them change session state.
var (
	// ErrNotConnected is returned when an operation requires a voice connection.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrUserNotInVoice is returned when the invoking user is not in a voice channel.
	ErrUserNotInVoice = errors.New("you are not connected to a voice channel")

	// ErrAlreadyInChannel is returned when asked to join the channel the bot is in.
	ErrAlreadyInChannel = errors.New("already in this voice channel")

	// ErrNotPlaying is returned when no track is currently playing.
	ErrNotPlaying = errors.New("no song is currently playing")

	// ErrNotPaused is returned when trying to resume while not paused.
	ErrNotPaused = errors.New("no song is paused")

	// ErrQueueEmpty is returned when the queue has no pending tracks.
	ErrQueueEmpty = errors.New("the queue is empty")

	// ErrInvalidPosition is returned for an out-of-range queue position.
	ErrInvalidPosition = errors.New("invalid song number")

	// ErrInvalidVolume is returned for a volume outside 0-200 percent.
	ErrInvalidVolume = errors.New("volume must be between 0 and 200")

	// ErrPlaylistNotFound is returned when loading an unknown playlist name.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNoPlaylists is returned when listing and nothing has been saved.
	ErrNoPlaylists = errors.New("no saved playlists")

	// ErrUnknownPreset is returned for an unrecognized tuning preset name.
	ErrUnknownPreset = errors.New("unknown preset")
)

// ResolutionError reports a failed search or extraction. The enqueue is
// aborted and the session left unchanged; the cause is shown to the user.
type ResolutionError struct {
	Query string
	Cause error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %q: %v", e.Query, e.Cause)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}
