package usecases

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// DefaultPageSize is the number of queue entries shown per page.
const DefaultPageSize = 10

// QueueAddInput contains the input for the Add use case.
type QueueAddInput struct {
	GuildID               snowflake.ID
	Tracks                []*domain.Track
	NotificationChannelID snowflake.ID
}

// QueueAddOutput contains the result of the Add use case.
type QueueAddOutput struct {
	Position int  // 1-based queue position of the first added track
	WasIdle  bool // true if nothing was playing at enqueue time
}

// QueueListInput contains the input for the List use case.
type QueueListInput struct {
	GuildID  snowflake.ID
	Page     int // 1-indexed
	PageSize int // defaults to DefaultPageSize
}

// QueueListOutput contains the result of the List use case.
type QueueListOutput struct {
	Current     *domain.Track // nil when idle
	Tracks      []*domain.Track
	TotalTracks int
	CurrentPage int
	TotalPages  int
	PageStart   int // 0-based offset of Tracks[0] in the full queue
}

// QueueService handles queue mutations that do not touch the transport.
type QueueService struct {
	repo      domain.SessionRepository
	publisher ports.EventPublisher
}

// NewQueueService creates a new QueueService.
func NewQueueService(
	repo domain.SessionRepository,
	publisher ports.EventPublisher,
) *QueueService {
	return &QueueService{
		repo:      repo,
		publisher: publisher,
	}
}

// Add appends tracks to the queue. If the session was idle, the published
// event triggers the first drain step.
func (q *QueueService) Add(input QueueAddInput) (*QueueAddOutput, error) {
	if len(input.Tracks) == 0 {
		return nil, ErrQueueEmpty
	}

	session := q.repo.GetOrCreate(input.GuildID)
	session.SetNotificationChannelID(input.NotificationChannelID)

	wasIdle, position := session.Enqueue(input.Tracks...)

	q.publisher.PublishTrackEnqueued(domain.TrackEnqueuedEvent{
		GuildID: input.GuildID,
		Track:   input.Tracks[0],
		WasIdle: wasIdle,
	})
	q.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: input.GuildID})

	return &QueueAddOutput{
		Position: position,
		WasIdle:  wasIdle,
	}, nil
}

// List returns one page of the pending queue plus the current track.
func (q *QueueService) List(input QueueListInput) (*QueueListOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrQueueEmpty
	}

	current := session.Current()
	tracks := session.QueueTracks()
	if current == nil && len(tracks) == 0 {
		return nil, ErrQueueEmpty
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalTracks := len(tracks)
	totalPages := (totalTracks + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	page := min(max(input.Page, 1), totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, totalTracks)

	var pageTracks []*domain.Track
	if start < totalTracks {
		pageTracks = tracks[start:end]
	}

	return &QueueListOutput{
		Current:     current,
		Tracks:      pageTracks,
		TotalTracks: totalTracks,
		CurrentPage: page,
		TotalPages:  totalPages,
		PageStart:   start,
	}, nil
}

// Remove deletes the pending track at the 1-based position. The current
// track is not addressable; out-of-range positions fail without changing
// the queue.
func (q *QueueService) Remove(guildID snowflake.ID, position int) (*domain.Track, error) {
	session := q.repo.Get(guildID)
	if session == nil || session.QueueLen() == 0 {
		return nil, ErrQueueEmpty
	}

	track := session.RemoveAt(position)
	if track == nil {
		return nil, ErrInvalidPosition
	}

	q.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	return track, nil
}

// Clear truncates the pending queue and returns how many tracks were
// dropped. The current track keeps playing.
func (q *QueueService) Clear(guildID snowflake.ID) (int, error) {
	session := q.repo.Get(guildID)
	if session == nil || session.QueueLen() == 0 {
		return 0, ErrQueueEmpty
	}

	count := session.ClearQueue()
	q.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	return count, nil
}

// Shuffle permutes the pending queue. Fails on an empty queue.
func (q *QueueService) Shuffle(guildID snowflake.ID) error {
	session := q.repo.Get(guildID)
	if session == nil || !session.Shuffle() {
		return ErrQueueEmpty
	}

	q.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	return nil
}
