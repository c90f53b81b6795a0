package ports

import (
	"context"
	"time"
)

// LoadType classifies what a track load returned.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// TrackInfo contains the extraction result for one track.
type TrackInfo struct {
	Identifier string
	Encoded    string // stream handle understood by the transport
	Title      string
	Duration   time.Duration
	URI        string
	ArtworkURL string
}

// LoadResult is the outcome of resolving an identifier (URL or prefixed
// search query) into playable tracks.
type LoadResult struct {
	Type         LoadType
	Tracks       []*TrackInfo
	PlaylistName string
	ErrorMessage string // populated for LoadTypeError
}

// TrackLoader extracts playable tracks from a URL or a provider-prefixed
// search query.
type TrackLoader interface {
	LoadTracks(ctx context.Context, identifier string) (*LoadResult, error)
}

// SearchClient is the keyed external search capability. Search returns the
// media page URL of the best match, or empty string when nothing matched.
type SearchClient interface {
	Search(ctx context.Context, query string) (string, error)
}
