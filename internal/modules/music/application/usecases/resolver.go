package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// ResolverService turns user input (a URL or free-text query) into playable
// tracks. Free text goes through the keyed search API first and falls back
// to the transport's provider-native search when that yields nothing.
type ResolverService struct {
	loader  ports.TrackLoader
	search  ports.SearchClient // may be nil when no API key is configured
	options *domain.ExtractionOptions
}

// NewResolverService creates a new ResolverService.
func NewResolverService(
	loader ports.TrackLoader,
	search ports.SearchClient,
	options *domain.ExtractionOptions,
) *ResolverService {
	return &ResolverService{
		loader:  loader,
		search:  search,
		options: options,
	}
}

// Resolution is the result of resolving one user query.
type Resolution struct {
	Tracks       []*domain.Track
	PlaylistName string // non-empty when the query expanded a playlist
}

// Resolve expands a query into one or more tracks. A playlist URL expands to
// all of its entries; anything else resolves to a single best match.
func (r *ResolverService) Resolve(
	ctx context.Context,
	query, requester string,
) (*Resolution, error) {
	identifier := strings.TrimSpace(query)
	if identifier == "" {
		return nil, &ResolutionError{Query: query, Cause: errors.New("empty query")}
	}

	if !isURL(identifier) {
		identifier = r.searchIdentifier(ctx, identifier)
	}

	result, err := r.loadWithRetries(ctx, identifier)
	if err != nil {
		return nil, &ResolutionError{Query: query, Cause: err}
	}

	switch result.Type {
	case ports.LoadTypeTrack:
		return &Resolution{Tracks: r.toTracks(result.Tracks[:1], requester)}, nil

	case ports.LoadTypeSearch:
		if len(result.Tracks) == 0 {
			return nil, &ResolutionError{Query: query, Cause: errors.New("no matches found")}
		}
		// Best match only; the rest of the search page is discarded.
		return &Resolution{Tracks: r.toTracks(result.Tracks[:1], requester)}, nil

	case ports.LoadTypePlaylist:
		if len(result.Tracks) == 0 {
			return nil, &ResolutionError{Query: query, Cause: errors.New("playlist is empty")}
		}
		return &Resolution{
			Tracks:       r.toTracks(result.Tracks, requester),
			PlaylistName: result.PlaylistName,
		}, nil

	case ports.LoadTypeEmpty:
		return nil, &ResolutionError{Query: query, Cause: errors.New("no matches found")}

	default:
		return nil, &ResolutionError{
			Query: query,
			Cause: fmt.Errorf("track load failed: %s", result.ErrorMessage),
		}
	}
}

// ResolveTrack re-resolves a single raw URI into a playable track. Used by
// the drain step for playlist entries saved without a stream handle.
func (r *ResolverService) ResolveTrack(
	ctx context.Context,
	uri, requester string,
) (*domain.Track, error) {
	resolution, err := r.Resolve(ctx, uri, requester)
	if err != nil {
		return nil, err
	}
	return resolution.Tracks[0], nil
}

// searchIdentifier maps free text to a loadable identifier. The keyed search
// API returns a direct media URL; on miss or error the provider-native
// search prefix is used so resolution still has a chance to succeed.
func (r *ResolverService) searchIdentifier(ctx context.Context, query string) string {
	if r.search != nil {
		url, err := r.search.Search(ctx, query)
		if err != nil {
			slog.Warn("search API failed, falling back to provider search",
				"query", query,
				"error", err,
			)
		} else if url != "" {
			return url
		}
	}
	return r.options.FallbackSource() + ":" + query
}

func (r *ResolverService) loadWithRetries(
	ctx context.Context,
	identifier string,
) (*ports.LoadResult, error) {
	attempts := r.options.Retries() + 1

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := r.loader.LoadTracks(ctx, identifier)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		slog.Debug("track load attempt failed",
			"identifier", identifier,
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, lastErr
}

func (r *ResolverService) toTracks(infos []*ports.TrackInfo, requester string) []*domain.Track {
	tracks := make([]*domain.Track, 0, len(infos))
	for _, info := range infos {
		tracks = append(tracks, domain.NewTrack(
			info.Identifier,
			info.Encoded,
			info.Title,
			info.Duration,
			info.URI,
			info.ArtworkURL,
			requester,
		))
	}
	return tracks
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
