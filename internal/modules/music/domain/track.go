package domain

import (
	"strconv"
	"time"
)

// Track represents one playable item: resolved metadata plus the stream
// handle the transport needs to start output.
type Track struct {
	ID         string
	Encoded    string // resolved stream handle; empty until resolution
	Title      string
	Duration   time.Duration
	URI        string
	ArtworkURL string
	Requester  string // display name of the user who requested the track
	Resolved   bool
}

// NewTrack creates a fully resolved Track.
func NewTrack(
	id string,
	encoded string,
	title string,
	duration time.Duration,
	uri string,
	artworkURL string,
	requester string,
) *Track {
	return &Track{
		ID:         id,
		Encoded:    encoded,
		Title:      title,
		Duration:   duration,
		URI:        uri,
		ArtworkURL: artworkURL,
		Requester:  requester,
		Resolved:   true,
	}
}

// IsValid returns true if the track can be handed to the transport.
func (t *Track) IsValid() bool {
	return t.Encoded != "" && t.Title != ""
}

// Snapshot returns the persistable form of the track. Snapshots carry no
// stream handle; they are re-resolved from the URI when played again.
func (t *Track) Snapshot() TrackSnapshot {
	return TrackSnapshot{
		Title:           t.Title,
		URI:             t.URI,
		DurationSeconds: int(t.Duration.Seconds()),
		ArtworkURL:      t.ArtworkURL,
		Requester:       t.Requester,
	}
}

// TrackSnapshot is the raw, unresolved representation of a track as stored
// in a saved playlist. It exposes the same metadata as a resolved Track.
type TrackSnapshot struct {
	Title           string `json:"title"`
	URI             string `json:"uri"`
	DurationSeconds int    `json:"duration_seconds"`
	ArtworkURL      string `json:"artwork_url,omitempty"`
	Requester       string `json:"requester"`
}

// Track converts the snapshot back into an unresolved Track. The Encoded
// handle stays empty until the resolver re-resolves the URI.
func (s TrackSnapshot) Track() *Track {
	return &Track{
		Title:      s.Title,
		URI:        s.URI,
		Duration:   time.Duration(s.DurationSeconds) * time.Second,
		ArtworkURL: s.ArtworkURL,
		Requester:  s.Requester,
		Resolved:   false,
	}
}

// FormattedDuration returns the duration as mm:ss or hh:mm:ss.
func (t *Track) FormattedDuration() string {
	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
