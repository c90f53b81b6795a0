package usecases

import (
	"fmt"
	"sort"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// PlaylistService saves and restores named queue snapshots.
type PlaylistService struct {
	repo  domain.SessionRepository
	store ports.PlaylistStore
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(
	repo domain.SessionRepository,
	store ports.PlaylistStore,
) *PlaylistService {
	return &PlaylistService{
		repo:  repo,
		store: store,
	}
}

// Save snapshots the current track plus the pending queue under the given
// name, replacing any playlist previously saved under it. Returns the number
// of songs saved.
func (p *PlaylistService) Save(guildID snowflake.ID, name, createdBy string) (int, error) {
	session := p.repo.Get(guildID)
	if session == nil {
		return 0, ErrQueueEmpty
	}

	var snapshots []domain.TrackSnapshot
	if current := session.Current(); current != nil {
		snapshots = append(snapshots, current.Snapshot())
	}
	for _, track := range session.QueueTracks() {
		snapshots = append(snapshots, track.Snapshot())
	}
	if len(snapshots) == 0 {
		return 0, ErrQueueEmpty
	}

	playlist := domain.Playlist{
		Songs:     snapshots,
		CreatedBy: createdBy,
	}
	if err := p.store.Put(name, playlist); err != nil {
		return 0, fmt.Errorf("failed to persist playlist %q: %w", name, err)
	}
	return len(snapshots), nil
}

// Load returns the saved playlist's entries as unresolved tracks, ready to
// be enqueued. Each track is re-resolved from its URI when it reaches the
// head of the queue.
func (p *PlaylistService) Load(name, requester string) ([]*domain.Track, error) {
	playlist, ok := p.store.Get(name)
	if !ok {
		return nil, ErrPlaylistNotFound
	}

	tracks := playlist.Tracks()
	for _, track := range tracks {
		track.Requester = requester
	}
	return tracks, nil
}

// PlaylistSummary describes one saved playlist for listing.
type PlaylistSummary struct {
	Name      string
	Songs     int
	CreatedBy string
}

// List returns all saved playlists sorted by name.
func (p *PlaylistService) List() ([]PlaylistSummary, error) {
	all := p.store.All()
	if len(all) == 0 {
		return nil, ErrNoPlaylists
	}

	summaries := make([]PlaylistSummary, 0, len(all))
	for name, playlist := range all {
		summaries = append(summaries, PlaylistSummary{
			Name:      name,
			Songs:     len(playlist.Songs),
			CreatedBy: playlist.CreatedBy,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}
