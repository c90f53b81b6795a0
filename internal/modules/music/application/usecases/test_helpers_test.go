package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

var errTransient = errors.New("transient load failure")

// stubRepo is an in-memory SessionRepository for tests.
type stubRepo struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.PlayerSession
}

func newStubRepo() *stubRepo {
	return &stubRepo{sessions: make(map[snowflake.ID]*domain.PlayerSession)}
}

func (r *stubRepo) GetOrCreate(guildID snowflake.ID) *domain.PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[guildID]; ok {
		return s
	}
	s := domain.NewPlayerSession(guildID)
	r.sessions[guildID] = s
	return s
}

func (r *stubRepo) Get(guildID snowflake.ID) *domain.PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[guildID]
}

// mockTransport records transport calls and simulates a connection.
type mockTransport struct {
	mu        sync.Mutex
	connected map[snowflake.ID]snowflake.ID

	playCalls   []playCall
	stopCalls   int
	pauseCalls  int
	resumeCalls int
	volumeCalls []float64

	playErr error
	stopErr error
}

type playCall struct {
	guildID snowflake.ID
	track   *domain.Track
	volume  float64
}

func newMockTransport() *mockTransport {
	return &mockTransport{connected: make(map[snowflake.ID]snowflake.ID)}
}

func (m *mockTransport) Connect(_ context.Context, guildID, channelID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected[guildID] = channelID
	return nil
}

func (m *mockTransport) Disconnect(_ context.Context, guildID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connected, guildID)
	return nil
}

func (m *mockTransport) IsConnected(guildID snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected[guildID] != 0
}

func (m *mockTransport) ConnectedChannel(guildID snowflake.ID) snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected[guildID]
}

func (m *mockTransport) Play(
	_ context.Context,
	guildID snowflake.ID,
	track *domain.Track,
	volume float64,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.playCalls = append(m.playCalls, playCall{guildID, track, volume})
	return nil
}

func (m *mockTransport) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopErr != nil {
		return m.stopErr
	}
	m.stopCalls++
	return nil
}

func (m *mockTransport) Pause(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	return nil
}

func (m *mockTransport) Resume(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeCalls++
	return nil
}

func (m *mockTransport) SetVolume(_ context.Context, _ snowflake.ID, volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumeCalls = append(m.volumeCalls, volume)
	return nil
}

func (m *mockTransport) playCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.playCalls)
}

// mockPublisher records published events.
type mockPublisher struct {
	mu       sync.Mutex
	enqueued []domain.TrackEnqueuedEvent
	ended    []domain.TrackEndedEvent
	refresh  []domain.PanelRefreshEvent
}

func (m *mockPublisher) PublishTrackEnqueued(event domain.TrackEnqueuedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, event)
}

func (m *mockPublisher) PublishTrackEnded(event domain.TrackEndedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended = append(m.ended, event)
}

func (m *mockPublisher) PublishPanelRefresh(event domain.PanelRefreshEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh = append(m.refresh, event)
}

// mockNotifier records status messages.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockNotifier) SendStatus(_ snowflake.ID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, text)
}

// mockTrackResolver re-resolves raw tracks for the drain loop.
type mockTrackResolver struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (m *mockTrackResolver) ResolveTrack(
	_ context.Context,
	uri, requester string,
) (*domain.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, uri)
	if m.err != nil {
		return nil, m.err
	}
	return domain.NewTrack("id", "encoded:"+uri, "resolved "+uri, time.Minute, uri, "", requester), nil
}

// mockLoader implements ports.TrackLoader with scripted results.
type mockLoader struct {
	mu      sync.Mutex
	results map[string]*ports.LoadResult
	errs    map[string]error
	// failures counts down errors before succeeding, for retry tests.
	failures int
	calls    []string
}

func (m *mockLoader) LoadTracks(_ context.Context, identifier string) (*ports.LoadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, identifier)

	if m.failures > 0 {
		m.failures--
		return nil, errTransient
	}
	if err, ok := m.errs[identifier]; ok {
		return nil, err
	}
	if result, ok := m.results[identifier]; ok {
		return result, nil
	}
	return &ports.LoadResult{Type: ports.LoadTypeEmpty}, nil
}

// mockSearch implements ports.SearchClient.
type mockSearch struct {
	url   string
	err   error
	calls int
}

func (m *mockSearch) Search(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.url, m.err
}

// mockStore is an in-memory PlaylistStore.
type mockStore struct {
	mu        sync.Mutex
	playlists map[string]domain.Playlist
	putErr    error
}

func newMockStore() *mockStore {
	return &mockStore{playlists: make(map[string]domain.Playlist)}
}

func (m *mockStore) Get(name string) (domain.Playlist, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.playlists[name]
	return p, ok
}

func (m *mockStore) Put(name string, playlist domain.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.playlists[name] = playlist
	return nil
}

func (m *mockStore) All() map[string]domain.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Playlist, len(m.playlists))
	for k, v := range m.playlists {
		out[k] = v
	}
	return out
}

// testTrack builds a resolved track with the given title.
func testTrack(title string) *domain.Track {
	return domain.NewTrack(
		"id-"+title,
		"encoded-"+title,
		title,
		3*time.Minute,
		"https://example.com/"+title,
		"",
		"tester",
	)
}
